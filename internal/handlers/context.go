package handlers

import (
	"net/http"

	"communishare-be/internal/models"
	"communishare-be/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// currentUser loads the authenticated user record. It writes the error
// response itself, so callers only need the ok flag.
func currentUser(c *gin.Context, st store.Store) (*models.User, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}

	id, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}

	doc, err := st.GetDocument(c.Request.Context(), store.CollectionUsers, id.String())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return nil, false
	}

	var user models.User
	if err := store.Decode(doc, &user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return nil, false
	}
	return &user, true
}
