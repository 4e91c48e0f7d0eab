package handlers

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"communishare-be/internal/models"
	"communishare-be/internal/services"
	"communishare-be/internal/store"

	"github.com/gin-gonic/gin"
)

// AdminHandler backs the super admin panel.
type AdminHandler struct {
	store      store.Store
	reconciler *services.Reconciler
}

func NewAdminHandler(st store.Store, reconciler *services.Reconciler) *AdminHandler {
	return &AdminHandler{store: st, reconciler: reconciler}
}

func (h *AdminHandler) GetUsers(c *gin.Context) {
	docs, err := h.store.GetCollection(c.Request.Context(), store.CollectionUsers)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	users, err := store.DecodeAll[models.User](docs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })

	responses := make([]models.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, users[i].Response())
	}

	c.JSON(http.StatusOK, gin.H{"users": responses})
}

type roleUpdateRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	var req roleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.Role {
	case models.RoleSuperAdmin, models.RoleGroupAdmin, models.RoleUser:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	err := h.store.UpdateDocument(c.Request.Context(), store.CollectionUsers, c.Param("id"), store.Document{
		"role":      req.Role,
		"updatedAt": time.Now().UTC().Format(time.RFC3339Nano),
	})
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role updated"})
}

// ReconcileMemberCounts runs a member count reconciliation pass on demand.
func (h *AdminHandler) ReconcileMemberCounts(c *gin.Context) {
	corrected, err := h.reconciler.ReconcileOnce(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reconciliation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Reconciliation complete",
		"corrected": corrected,
	})
}
