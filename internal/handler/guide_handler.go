package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/samecityapp/yeriniayirV1-sub002/internal/model"
)

type GuideStore interface {
	GetFeed(limit, offset int) ([]model.GuideArticle, error)
	GetFeedTotal() (int, error)
	GetBySlug(slug string) (*model.GuideArticle, error)
}

type RegenerateQueue interface {
	Enqueue(job model.RegenerateJob) error
}

type GuideHandler struct {
	repository GuideStore
	queue      RegenerateQueue
}

func NewGuideHandler(repository GuideStore, queue RegenerateQueue) *GuideHandler {
	return &GuideHandler{repository: repository, queue: queue}
}

func (h *GuideHandler) GetFeed(c *gin.Context) {
	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	guides, err := h.repository.GetFeed(limit, offset)
	if err != nil {
		slog.Error("error fetching guide feed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total, err := h.repository.GetFeedTotal()
	if err != nil {
		slog.Error("error fetching guide feed total", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var guideRes []GuideSummaryResponse
	for _, g := range guides {
		guideRes = append(guideRes, GuideSummaryResponse{
			ID:              g.ID,
			Slug:            g.Slug,
			Title:           g.Title,
			MetaDescription: g.MetaDescription,
			CoverImageURL:   g.CoverImageURL,
			PublishedAt:     g.PublishedAt.Format(time.RFC3339),
			UpdatedAt:       g.UpdatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, GuideFeedResponse{
		Guides: guideRes,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

func (h *GuideHandler) GetGuide(c *gin.Context) {
	slug := c.Param("slug")

	guide, err := h.repository.GetBySlug(slug)
	if err != nil {
		slog.Error("error fetching guide", "error", err, "slug", slug)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if guide == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Guide not found"})
		return
	}

	c.JSON(http.StatusOK, GuideResponse{
		ID:              guide.ID,
		Slug:            guide.Slug,
		Title:           guide.Title,
		MetaDescription: guide.MetaDescription,
		Content:         guide.Content,
		CoverImageURL:   guide.CoverImageURL,
		ModelUsed:       guide.ModelUsed,
		PublishedAt:     guide.PublishedAt.Format(time.RFC3339),
		UpdatedAt:       guide.UpdatedAt.Format(time.RFC3339),
	})
}

// Regenerate queues a forced rebuild of one guide. The worker picks
// the job up and republishes over the existing row.
func (h *GuideHandler) Regenerate(c *gin.Context) {
	slug := c.Param("slug")

	var req RegenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body must include a topic"})
		return
	}

	guide, err := h.repository.GetBySlug(slug)
	if err != nil {
		slog.Error("error fetching guide", "error", err, "slug", slug)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if guide == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Guide not found"})
		return
	}

	job := model.RegenerateJob{Slug: slug, Topic: req.Topic}
	if err := h.queue.Enqueue(job); err != nil {
		slog.Error("error queueing regeneration", "error", err, "slug", slug)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Queue error"})
		return
	}

	slog.Info("regeneration queued", "slug", slug)
	c.JSON(http.StatusAccepted, gin.H{"status": "queued", "slug": slug})
}

func (h *GuideHandler) GetHealth(c *gin.Context) {
	_, err := h.repository.GetFeedTotal()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	paramLimit := c.Query(name)

	if paramLimit == "" {
		return defaultValue
	}

	parsedValue, err := strconv.Atoi(paramLimit)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", paramLimit, "error", err)
		return defaultValue
	}

	return parsedValue
}

func getQueryLimit(c *gin.Context) int {
	const (
		defaultLimit = 10
		maxLimit     = 100
	)

	limit := getQueryInt("limit", defaultLimit, c)
	if limit < 1 {
		slog.Warn("invalid query parameter, using default", "param", "limit", "value", limit, "default", defaultLimit)
		return defaultLimit
	}

	if limit > maxLimit {
		slog.Warn("query parameter exceeds max, clamping", "param", "limit", "value", limit, "max", maxLimit)
		return maxLimit
	}

	return limit
}

func getQueryOffset(c *gin.Context) int {
	offset := getQueryInt("offset", 0, c)
	if offset < 0 {
		slog.Warn("invalid query parameter, using default", "param", "offset", "value", offset, "default", 0)
		return 0
	}
	return offset
}
