// Package gallery derives the per-review card model rendered by the review
// gallery: rating, text, image region and the actor's action menu.
package gallery

import (
	"time"

	"modelreviews/internal/models"
	"modelreviews/internal/moderation"
)

// ImageRegion describes how a review's attachments are presented. Reviews
// without images have no region; a single image has no carousel controls.
type ImageRegion struct {
	Visible    bool     `json:"visible"`
	Navigation bool     `json:"navigation"`
	CountBadge int      `json:"countBadge,omitempty"`
	URLs       []string `json:"urls,omitempty"`
}

func ImageRegionFor(images []models.ReviewImage) ImageRegion {
	if len(images) == 0 {
		return ImageRegion{}
	}
	region := ImageRegion{Visible: true, URLs: make([]string, 0, len(images))}
	for _, img := range images {
		region.URLs = append(region.URLs, img.URL)
	}
	if len(images) > 1 {
		region.Navigation = true
		region.CountBadge = len(images)
	}
	return region
}

type Card struct {
	ReviewID     int64                   `json:"reviewId"`
	ModelID      int64                   `json:"modelId"`
	AuthorID     string                  `json:"authorId"`
	Rating       float64                 `json:"rating"`
	Text         string                  `json:"text,omitempty"`
	NSFW         bool                    `json:"nsfw"`
	CreatedAt    time.Time               `json:"createdAt"`
	Images       ImageRegion             `json:"images"`
	Capabilities moderation.Capabilities `json:"-"`
	Menu         []moderation.MenuItem   `json:"-"`
}

func BuildCard(session *moderation.Session, review models.Review) Card {
	card := Card{
		ReviewID:     review.ID,
		ModelID:      review.ModelID,
		AuthorID:     review.UserID,
		Rating:       review.Rating,
		NSFW:         review.NSFW,
		CreatedAt:    review.CreatedAt,
		Images:       ImageRegionFor(review.Images),
		Capabilities: moderation.CapabilitiesFor(session, review),
		Menu:         moderation.Menu(session, review),
	}
	if review.Text != nil {
		card.Text = *review.Text
	}
	return card
}

func BuildCards(session *moderation.Session, reviews []models.Review) []Card {
	cards := make([]Card, 0, len(reviews))
	for _, review := range reviews {
		cards = append(cards, BuildCard(session, review))
	}
	return cards
}
