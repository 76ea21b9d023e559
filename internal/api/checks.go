package api

import (
	"context"
	"errors"
	"net/http"

	"kitchenops/internal/cache"
	"kitchenops/internal/notify"
	"kitchenops/internal/shortage"

	"github.com/gin-gonic/gin"
)

// CheckService is the engine surface the API depends on.
type CheckService interface {
	RunCheck(ctx context.Context, scheduleID, userID string) (*shortage.CheckResult, error)
	LatestCheck(ctx context.Context, scheduleID string) (*shortage.CheckResult, error)
}

// ChecksAPI exposes the shortage checker over HTTP.
type ChecksAPI struct {
	Router  *gin.Engine
	service CheckService
	cache   *cache.CheckCache
	hub     *notify.Hub
}

// NewChecksAPI creates the API and wires its routes. cache and hub may be
// nil when those features are disabled.
func NewChecksAPI(service CheckService, checkCache *cache.CheckCache, hub *notify.Hub) *ChecksAPI {
	api := &ChecksAPI{
		Router:  gin.Default(),
		service: service,
		cache:   checkCache,
		hub:     hub,
	}
	api.setupRoutes()
	return api
}

// setupRoutes configures all API endpoints
func (a *ChecksAPI) setupRoutes() {
	a.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if a.hub != nil {
		a.Router.GET("/ws/checks", a.hub.ServeWS)
	}

	v1 := a.Router.Group("/api/v1")
	{
		v1.POST("/schedules/:id/inventory-checks", a.RunCheck)
		v1.GET("/schedules/:id/inventory-checks/latest", a.LatestCheck)
	}
}

type runCheckRequest struct {
	UserID string `json:"user_id"`
}

// RunCheck triggers a manual shortage check for a schedule.
func (a *ChecksAPI) RunCheck(c *gin.Context) {
	scheduleID := c.Param("id")

	var req runCheckRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	result, err := a.service.RunCheck(c.Request.Context(), scheduleID, req.UserID)
	if err != nil {
		if errors.Is(err, shortage.ErrScheduleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "check could not be run, please retry"})
		return
	}

	a.cache.Set(c.Request.Context(), result)
	c.JSON(http.StatusCreated, result)
}

// LatestCheck returns the most recently created check for a schedule.
func (a *ChecksAPI) LatestCheck(c *gin.Context) {
	scheduleID := c.Param("id")

	if result, ok := a.cache.Get(c.Request.Context(), scheduleID); ok {
		c.JSON(http.StatusOK, result)
		return
	}

	result, err := a.service.LatestCheck(c.Request.Context(), scheduleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No check found for schedule"})
		return
	}

	a.cache.Set(c.Request.Context(), result)
	c.JSON(http.StatusOK, result)
}
