package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"modelreviews/internal/gallery"
	"modelreviews/internal/middleware"
	"modelreviews/internal/models"
	"modelreviews/internal/moderation"
	"modelreviews/internal/service"
)

const (
	defaultPageSize  = 20
	maxPageSize      = 100
	tallyConcurrency = 4
)

type imageResponse struct {
	ID       int64  `json:"id"`
	URL      string `json:"url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Position int    `json:"position"`
}

type capabilitiesResponse struct {
	CanDelete bool     `json:"canDelete"`
	CanReport bool     `json:"canReport"`
	Reasons   []string `json:"reasons,omitempty"`
}

type reviewResponse struct {
	ID             int64                `json:"id"`
	ModelID        int64                `json:"modelId"`
	ModelVersionID int64                `json:"modelVersionId"`
	UserID         string               `json:"userId"`
	Rating         float64              `json:"rating"`
	Text           *string              `json:"text,omitempty"`
	NSFW           bool                 `json:"nsfw"`
	CreatedAt      time.Time            `json:"createdAt"`
	Images         []imageResponse      `json:"images"`
	ImageRegion    gallery.ImageRegion  `json:"imageRegion"`
	Capabilities   capabilitiesResponse `json:"capabilities"`
}

func viewerSession(c *gin.Context) *moderation.Session {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil
	}
	return &moderation.Session{ActorID: user.ID}
}

func toReviewResponse(session *moderation.Session, review models.Review) reviewResponse {
	card := gallery.BuildCard(session, review)
	resp := reviewResponse{
		ID:             review.ID,
		ModelID:        review.ModelID,
		ModelVersionID: review.ModelVersionID,
		UserID:         review.UserID,
		Rating:         review.Rating,
		Text:           review.Text,
		NSFW:           review.NSFW,
		CreatedAt:      review.CreatedAt,
		Images:         make([]imageResponse, 0, len(review.Images)),
		ImageRegion:    card.Images,
		Capabilities: capabilitiesResponse{
			CanDelete: card.Capabilities.CanDelete,
			CanReport: card.Capabilities.CanReport,
		},
	}
	for _, img := range review.Images {
		resp.Images = append(resp.Images, imageResponse{
			ID:       img.ID,
			URL:      img.URL,
			Width:    img.Width,
			Height:   img.Height,
			Position: img.Position,
		})
	}
	for _, item := range card.Menu {
		if item.Action == moderation.ActionReport {
			resp.Capabilities.Reasons = append(resp.Capabilities.Reasons, string(item.Reason))
		}
	}
	return resp
}

func pageParams(c *gin.Context) (limit, offset int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func (h HandlerSet) ListReviews(c *gin.Context) {
	modelID, ok := idParam(c, "modelId")
	if !ok {
		return
	}
	limit, offset := pageParams(c)

	reviews, err := h.reviews.List(c.Request.Context(), modelID, limit, offset)
	if err != nil {
		h.log.Error().Err(err).Int64("model_id", modelID).Msg("list reviews failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	session := viewerSession(c)
	items := make([]reviewResponse, 0, len(reviews))
	for _, review := range reviews {
		items = append(items, toReviewResponse(session, review))
	}

	c.JSON(http.StatusOK, gin.H{
		"items":  items,
		"limit":  limit,
		"offset": offset,
	})
}

func (h HandlerSet) GetReview(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	review, err := h.reviews.Get(c.Request.Context(), id)
	if err != nil {
		h.writeReviewError(c, err, id)
		return
	}

	c.JSON(http.StatusOK, toReviewResponse(viewerSession(c), review))
}

func (h HandlerSet) DeleteReview(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.reviews.Delete(c.Request.Context(), user, id); err != nil {
		h.writeReviewError(c, err, id)
		return
	}

	c.Status(http.StatusNoContent)
}

type reportRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h HandlerSet) ReportReview(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reason, err := models.ParseReportReason(req.Reason)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.reviews.Report(c.Request.Context(), user, id, reason); err != nil {
		h.writeReviewError(c, err, id)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h HandlerSet) writeReviewError(c *gin.Context, err error, id int64) {
	switch {
	case service.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
	case errors.Is(err, service.ErrInvalidReason):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to delete this review"})
	case errors.Is(err, service.ErrOwnReview):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Int64("review_id", id).Msg("review request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}

type tallyResponse struct {
	ReviewID int64          `json:"reviewId"`
	ModelID  int64          `json:"modelId"`
	Total    int            `json:"total"`
	ByReason map[string]int `json:"byReason"`
}

// OpenReports lists reviews awaiting moderation, oldest report first.
func (h HandlerSet) OpenReports(c *gin.Context) {
	limit, _ := pageParams(c)
	ctx := c.Request.Context()

	ids, err := h.reports.ReviewsWithOpenReports(ctx, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("list open reports failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	items := make([]tallyResponse, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(tallyConcurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			tally, err := h.reports.Tally(gctx, id)
			if err != nil {
				return fmt.Errorf("tally review %d: %w", id, err)
			}
			byReason := make(map[string]int, len(tally.ByReason))
			for reason, n := range tally.ByReason {
				byReason[string(reason)] = n
			}
			items[i] = tallyResponse{
				ReviewID: tally.ReviewID,
				ModelID:  tally.ModelID,
				Total:    tally.Total,
				ByReason: byReason,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		h.log.Error().Err(err).Msg("tally reports failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}
