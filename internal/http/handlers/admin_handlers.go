package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/SyedMHaroon/NamazBot/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandlers exposes operator endpoints for subscribers, profiles and
// scheduler jobs
type AdminHandlers struct {
	subscriptions domain.SubscriptionRepository
	profiles      domain.ProfileStore
	jobs          domain.SchedulerService
	logger        *zap.Logger
}

// NewAdminHandlers creates new admin handlers
func NewAdminHandlers(
	subscriptions domain.SubscriptionRepository,
	profiles domain.ProfileStore,
	jobs domain.SchedulerService,
	logger *zap.Logger,
) *AdminHandlers {
	return &AdminHandlers{
		subscriptions: subscriptions,
		profiles:      profiles,
		jobs:          jobs,
		logger:        logger.Named("admin"),
	}
}

// ProfileResponse is the admin view of a profile
type ProfileResponse struct {
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	City       string `json:"city"`
	Country    string `json:"country"`
	Timezone   string `json:"tz"`
	Language   string `json:"lang"`
	Stage      string `json:"stage"`
	Complete   bool   `json:"complete"`
	Subscribed bool   `json:"subscribed"`
}

// ListSubscribers returns every digest subscriber
func (h *AdminHandlers) ListSubscribers(c *gin.Context) {
	ids, err := h.subscriptions.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list subscribers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list subscribers"})
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"subscribers": ids,
			"count":       len(ids),
		},
	})
}

// AddSubscriber subscribes a user to the daily digest
func (h *AdminHandlers) AddSubscriber(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User id required"})
		return
	}
	if err := h.subscriptions.Subscribe(c.Request.Context(), id); err != nil {
		h.logger.Error("failed to subscribe", zap.String("user_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe"})
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveSubscriber unsubscribes a user from the daily digest
func (h *AdminHandlers) RemoveSubscriber(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User id required"})
		return
	}
	if err := h.subscriptions.Unsubscribe(c.Request.Context(), id); err != nil {
		h.logger.Error("failed to unsubscribe", zap.String("user_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unsubscribe"})
		return
	}
	c.Status(http.StatusNoContent)
}

// GetProfile returns the merged durable and session view of a user
func (h *AdminHandlers) GetProfile(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	p, err := h.profiles.Get(ctx, id)
	if errors.Is(err, domain.ErrProfileNotFound) || (err == nil && isBlank(p)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to load profile", zap.String("user_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}

	subscribed, err := h.subscriptions.IsSubscribed(ctx, id)
	if err != nil {
		h.logger.Warn("failed to check subscription", zap.String("user_id", id), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"data": ProfileResponse{
		UserID:     id,
		Name:       p.Name,
		Email:      p.Email,
		City:       p.City,
		Country:    p.Country,
		Timezone:   p.Timezone,
		Language:   string(p.Language),
		Stage:      string(p.Session.Stage),
		Complete:   p.IsComplete(),
		Subscribed: subscribed,
	}})
}

// RunTick runs one scheduler job immediately
func (h *AdminHandlers) RunTick(c *gin.Context) {
	jobs := map[string]func(context.Context) error{
		"reminders": h.jobs.RunReminderTick,
		"digest":    h.jobs.RunDigestTick,
		"prayer":    h.jobs.RunPrayerReminderTick,
	}

	name := c.Param("name")
	run, ok := jobs[name]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown job"})
		return
	}
	if err := run(c.Request.Context()); err != nil {
		h.logger.Error("manual tick failed", zap.String("job", name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Job failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"job": name, "status": "ok"}})
}

// The store hands back an empty profile for users it has never seen
func isBlank(p *domain.Profile) bool {
	return p == nil || (p.Name == "" && p.City == "" && p.Session.Stage == domain.StageNone)
}
