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
	"github.com/google/uuid"
)

type GroupHandler struct {
	store   store.Store
	members *services.MembershipService
}

func NewGroupHandler(st store.Store, members *services.MembershipService) *GroupHandler {
	return &GroupHandler{store: st, members: members}
}

// GetGroups lists all groups, optionally filtered by ?category_id=.
func (h *GroupHandler) GetGroups(c *gin.Context) {
	var docs []store.Document
	var err error

	if categoryID := c.Query("category_id"); categoryID != "" {
		docs, err = h.store.Query(c.Request.Context(), store.CollectionGroups, "categoryId", categoryID)
	} else {
		docs, err = h.store.GetCollection(c.Request.Context(), store.CollectionGroups)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load groups"})
		return
	}

	groups, err := store.DecodeAll[models.Group](docs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load groups"})
		return
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].CreatedAt.After(groups[j].CreatedAt) })

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// GetMyGroups lists the caller's memberships across all groups with their
// evaluated subscription statuses, backing the client's joined-groups screen.
func (h *GroupHandler) GetMyGroups(c *gin.Context) {
	user, ok := currentUser(c, h.store)
	if !ok {
		return
	}

	memberships, err := h.members.UserMemberships(c.Request.Context(), user.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load memberships"})
		return
	}

	now := time.Now()
	type membershipWithGroup struct {
		models.GroupMember
		Status models.SubscriptionStatus `json:"status"`
		Group  *models.Group             `json:"group,omitempty"`
	}
	out := make([]membershipWithGroup, 0, len(memberships))
	for i := range memberships {
		entry := membershipWithGroup{
			GroupMember: memberships[i],
			Status:      services.EvaluateSubscription(&memberships[i], now),
		}
		// A vanished group leaves the membership listed without details.
		if group, err := h.members.Group(c.Request.Context(), memberships[i].GroupID); err == nil {
			entry.Group = group
		}
		out = append(out, entry)
	}

	c.JSON(http.StatusOK, gin.H{"memberships": out})
}

func (h *GroupHandler) GetGroup(c *gin.Context) {
	group, ok := h.loadGroup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": group})
}

func (h *GroupHandler) CreateGroup(c *gin.Context) {
	user, ok := currentUser(c, h.store)
	if !ok {
		return
	}

	var req models.GroupCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	categoryName := ""
	if doc, err := h.store.GetDocument(c.Request.Context(), store.CollectionCategories, req.CategoryID); err == nil {
		var category models.Category
		if err := store.Decode(doc, &category); err == nil {
			categoryName = category.Name
		}
	}

	now := time.Now().UTC()
	group := models.Group{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Description:  req.Description,
		CategoryID:   req.CategoryID,
		CategoryName: categoryName,
		IsPremium:    req.IsPremium,
		Price:        req.Price,
		MemberCount:  0,
		AdminID:      user.ID.String(),
		AdminName:    user.DisplayName,
		CreatedBy:    user.ID.String(),
		ImageURL:     req.ImageURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	doc, err := store.Encode(group)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group"})
		return
	}
	if err := h.store.SetDocument(c.Request.Context(), store.CollectionGroups, group.ID, doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group"})
		return
	}

	// First group creation promotes a plain user to group_admin. Super admins
	// keep their role.
	if user.Role == models.RoleUser {
		err := h.store.UpdateDocument(c.Request.Context(), store.CollectionUsers, user.ID.String(), store.Document{
			"role":      models.RoleGroupAdmin,
			"updatedAt": now.Format(time.RFC3339Nano),
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user role"})
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{"group": group})
}

func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	user, ok := currentUser(c, h.store)
	if !ok {
		return
	}
	group, ok := h.loadGroup(c)
	if !ok {
		return
	}

	if !services.CanAdminister(group, user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the group admin can update this group"})
		return
	}

	var req models.GroupUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := store.Document{"updatedAt": time.Now().UTC().Format(time.RFC3339Nano)}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.IsPremium != nil {
		fields["isPremium"] = *req.IsPremium
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.ImageURL != nil {
		fields["imageUrl"] = *req.ImageURL
	}

	if err := h.store.UpdateDocument(c.Request.Context(), store.CollectionGroups, group.ID, fields); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update group"})
		return
	}

	updated, ok := h.loadGroup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": updated})
}

// JoinGroup creates a membership with a fresh 30-day subscription. Joining a
// group the user already belongs to returns the existing membership unchanged.
func (h *GroupHandler) JoinGroup(c *gin.Context) {
	user, ok := currentUser(c, h.store)
	if !ok {
		return
	}

	member, err := h.members.Join(c.Request.Context(), c.Param("id"), user)
	if errors.Is(err, services.ErrGroupNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}
	if errors.Is(err, services.ErrDuplicateMembership) {
		status := services.EvaluateSubscription(member, time.Now())
		c.JSON(http.StatusOK, gin.H{
			"message": "Already a member",
			"member":  member,
			"status":  status,
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join group"})
		return
	}

	group, err := h.members.Group(c.Request.Context(), member.GroupID)
	if err == nil && group.IsPremium {
		recordPayment(c, h.store, user, group, member, models.PaymentTypeSubscription)
	}

	status := services.EvaluateSubscription(member, time.Now())
	c.JSON(http.StatusCreated, gin.H{
		"message": "Joined group",
		"member":  member,
		"status":  status,
	})
}

// RenewGroup starts a fresh 30-day window from now. Remaining time on the old
// window is not added on top.
func (h *GroupHandler) RenewGroup(c *gin.Context) {
	user, ok := currentUser(c, h.store)
	if !ok {
		return
	}

	member, err := h.members.Renew(c.Request.Context(), c.Param("id"), user.ID.String())
	if errors.Is(err, services.ErrMembershipNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not a member of this group"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to renew subscription"})
		return
	}

	group, err := h.members.Group(c.Request.Context(), member.GroupID)
	if err == nil && group.IsPremium {
		recordPayment(c, h.store, user, group, member, models.PaymentTypeRenewal)
	}

	status := services.EvaluateSubscription(member, time.Now())
	c.JSON(http.StatusOK, gin.H{
		"message": "Subscription renewed",
		"member":  member,
		"status":  status,
	})
}

func (h *GroupHandler) LeaveGroup(c *gin.Context) {
	user, ok := currentUser(c, h.store)
	if !ok {
		return
	}

	err := h.members.Remove(c.Request.Context(), c.Param("id"), user.ID.String())
	if errors.Is(err, services.ErrMembershipNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not a member of this group"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave group"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left group"})
}

// GetMembers lists memberships with their evaluated subscription status.
// Restricted to the group admin and super admins.
func (h *GroupHandler) GetMembers(c *gin.Context) {
	user, ok := currentUser(c, h.store)
	if !ok {
		return
	}
	group, ok := h.loadGroup(c)
	if !ok {
		return
	}

	if !services.CanAdminister(group, user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the group admin can list members"})
		return
	}

	members, err := h.members.GroupMembers(c.Request.Context(), group.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load members"})
		return
	}

	now := time.Now()
	type memberWithStatus struct {
		models.GroupMember
		Status models.SubscriptionStatus `json:"status"`
	}
	out := make([]memberWithStatus, 0, len(members))
	for i := range members {
		out = append(out, memberWithStatus{
			GroupMember: members[i],
			Status:      services.EvaluateSubscription(&members[i], now),
		})
	}

	c.JSON(http.StatusOK, gin.H{"members": out})
}

// GetMembershipStatus reports the caller's subscription status for a group,
// including whether the content gate lets them in.
func (h *GroupHandler) GetMembershipStatus(c *gin.Context) {
	user, ok := currentUser(c, h.store)
	if !ok {
		return
	}
	group, ok := h.loadGroup(c)
	if !ok {
		return
	}

	member, err := h.members.Membership(c.Request.Context(), group.ID, user.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load membership"})
		return
	}

	status := services.EvaluateSubscription(member, time.Now())
	c.JSON(http.StatusOK, gin.H{
		"is_member":  member != nil,
		"status":     status,
		"can_access": services.CanAccess(group, status),
	})
}

// RemoveMember lets the group admin remove another member.
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	user, ok := currentUser(c, h.store)
	if !ok {
		return
	}
	group, ok := h.loadGroup(c)
	if !ok {
		return
	}

	if !services.CanAdminister(group, user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the group admin can remove members"})
		return
	}

	err := h.members.Remove(c.Request.Context(), group.ID, c.Param("userId"))
	if errors.Is(err, services.ErrMembershipNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Membership not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

func (h *GroupHandler) loadGroup(c *gin.Context) (*models.Group, bool) {
	group, err := h.members.Group(c.Request.Context(), c.Param("id"))
	if errors.Is(err, services.ErrGroupNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load group"})
		return nil, false
	}
	return group, true
}
