package handlers

import (
	"context"
	"net/http"
	"time"

	"communishare-be/internal/models"
	"communishare-be/internal/service"
	"communishare-be/internal/services"
	"communishare-be/internal/store"
	"communishare-be/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	store  store.Store
	roles  *services.RolePolicy
	emails service.EmailProvider
}

func NewAuthHandler(st store.Store, roles *services.RolePolicy, emails service.EmailProvider) *AuthHandler {
	return &AuthHandler{store: st, roles: roles, emails: emails}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Check if user already exists
	existing, err := h.store.Query(c.Request.Context(), store.CollectionUsers, "email", req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing users"})
		return
	}
	if len(existing) > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
		return
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           uuid.New(),
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		Role:         h.roles.RoleForSignup(req.Email),
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	doc, err := store.Encode(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}
	if err := h.store.SetDocument(c.Request.Context(), store.CollectionUsers, user.ID.String(), doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	// Generate JWT token
	token, err := utils.GenerateJWT(user.ID, user.Email, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	if h.emails != nil {
		go func(email, name string) {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			_ = h.emails.SendWelcomeEmail(ctx, email, name)
		}(user.Email, user.DisplayName)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    user.Response(),
		"token":   token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	docs, err := h.store.Query(c.Request.Context(), store.CollectionUsers, "email", req.Email)
	if err != nil || len(docs) == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	var user models.User
	if err := store.Decode(docs[0], &user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	// Check password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    user.Response(),
		"token":   token,
	})
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, ok := currentUser(c, h.store)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.Response()})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user, ok := currentUser(c, h.store)
	if !ok {
		return
	}

	var req models.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.store.UpdateDocument(c.Request.Context(), store.CollectionUsers, user.ID.String(), store.Document{
		"displayName": req.DisplayName,
		"updatedAt":   time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	user.DisplayName = req.DisplayName
	c.JSON(http.StatusOK, gin.H{"user": user.Response()})
}
