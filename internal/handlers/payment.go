package handlers

import (
	"net/http"
	"sort"
	"time"

	"communishare-be/internal/models"
	"communishare-be/internal/services"
	"communishare-be/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler exposes the simulated payment log. Every premium join and
// renewal appends one completed record; nothing is ever charged.
type PaymentHandler struct {
	store   store.Store
	members *services.MembershipService
}

func NewPaymentHandler(st store.Store, members *services.MembershipService) *PaymentHandler {
	return &PaymentHandler{store: st, members: members}
}

// recordPayment appends a completed mock payment for a membership window.
// Failures are swallowed; the membership change already happened and the log
// is informational.
func recordPayment(c *gin.Context, st store.Store, user *models.User, group *models.Group, member *models.GroupMember, paymentType string) {
	payment := models.PaymentLog{
		ID:                    uuid.New().String(),
		UserID:                user.ID.String(),
		UserEmail:             user.Email,
		UserName:              user.DisplayName,
		GroupID:               group.ID,
		GroupName:             group.Name,
		Amount:                group.Price,
		PaymentType:           paymentType,
		PaymentStatus:         models.PaymentStatusCompleted,
		PaymentMethod:         models.PaymentMethodMock,
		SubscriptionStartDate: member.SubscriptionStartDate,
		SubscriptionEndDate:   member.SubscriptionEndDate,
		CreatedAt:             time.Now().UTC(),
	}

	doc, err := store.Encode(payment)
	if err != nil {
		return
	}
	_ = st.SetDocument(c.Request.Context(), store.CollectionPayments, payment.ID, doc)
}

// CreatePayment records a mock payment on request. The mobile client calls
// this for its payment confirmation screen.
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	user, ok := currentUser(c, h.store)
	if !ok {
		return
	}

	var req models.PaymentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.PaymentType != models.PaymentTypeSubscription && req.PaymentType != models.PaymentTypeRenewal {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment_type must be subscription or renewal"})
		return
	}

	group, err := h.members.Group(c.Request.Context(), req.GroupID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	member, err := h.members.Membership(c.Request.Context(), req.GroupID, user.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load membership"})
		return
	}
	if member == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not a member of this group"})
		return
	}

	recordPayment(c, h.store, user, group, member, req.PaymentType)
	c.JSON(http.StatusCreated, gin.H{"message": "Payment recorded"})
}

// GetMyPayments lists the caller's payment history, newest first.
func (h *PaymentHandler) GetMyPayments(c *gin.Context) {
	user, ok := currentUser(c, h.store)
	if !ok {
		return
	}

	docs, err := h.store.Query(c.Request.Context(), store.CollectionPayments, "userId", user.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	payments, err := store.DecodeAll[models.PaymentLog](docs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].CreatedAt.After(payments[j].CreatedAt) })

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// GetAllPayments lists every payment record. Super admin only, enforced by
// the route middleware.
func (h *PaymentHandler) GetAllPayments(c *gin.Context) {
	docs, err := h.store.GetCollection(c.Request.Context(), store.CollectionPayments)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	payments, err := store.DecodeAll[models.PaymentLog](docs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].CreatedAt.After(payments[j].CreatedAt) })

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// GetGroupPayments lists a group's payment history. Restricted to the group
// admin and super admins.
func (h *PaymentHandler) GetGroupPayments(c *gin.Context) {
	user, ok := currentUser(c, h.store)
	if !ok {
		return
	}

	group, err := h.members.Group(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}
	if !services.CanAdminister(group, user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the group admin can view payments"})
		return
	}

	docs, err := h.store.Query(c.Request.Context(), store.CollectionPayments, "groupId", group.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	payments, err := store.DecodeAll[models.PaymentLog](docs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].CreatedAt.After(payments[j].CreatedAt) })

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}
