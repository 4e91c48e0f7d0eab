package handlers

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"communishare-be/internal/models"
	"communishare-be/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CategoryHandler struct {
	store store.Store
}

func NewCategoryHandler(st store.Store) *CategoryHandler {
	return &CategoryHandler{store: st}
}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
	docs, err := h.store.GetCollection(c.Request.Context(), store.CollectionCategories)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load categories"})
		return
	}

	categories, err := store.DecodeAll[models.Category](docs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load categories"})
		return
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	user, ok := currentUser(c, h.store)
	if !ok {
		return
	}

	var req models.CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := models.Category{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Icon:      req.Icon,
		CreatedBy: user.ID.String(),
		CreatedAt: time.Now().UTC(),
	}

	doc, err := store.Encode(category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}
	if err := h.store.SetDocument(c.Request.Context(), store.CollectionCategories, category.ID, doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	categoryID := c.Param("id")

	// Groups keep their categoryId; a deleted category leaves them uncategorized.
	err := h.store.DeleteDocument(c.Request.Context(), store.CollectionCategories, categoryID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
