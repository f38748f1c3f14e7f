package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelreviews/internal/models"
	"modelreviews/internal/moderation"
)

func images(n int) []models.ReviewImage {
	out := make([]models.ReviewImage, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.ReviewImage{ID: int64(i + 1), Position: i, URL: "https://cdn.example.com/" + string(rune('a'+i))})
	}
	return out
}

func TestImageRegionFor(t *testing.T) {
	none := ImageRegionFor(nil)
	assert.False(t, none.Visible)
	assert.False(t, none.Navigation)
	assert.Zero(t, none.CountBadge)

	one := ImageRegionFor(images(1))
	assert.True(t, one.Visible)
	assert.False(t, one.Navigation)
	assert.Zero(t, one.CountBadge)
	assert.Len(t, one.URLs, 1)

	three := ImageRegionFor(images(3))
	assert.True(t, three.Visible)
	assert.True(t, three.Navigation)
	assert.Equal(t, 3, three.CountBadge)
	assert.Equal(t, []string{"https://cdn.example.com/a", "https://cdn.example.com/b", "https://cdn.example.com/c"}, three.URLs)
}

func TestBuildCards(t *testing.T) {
	text := "Great"
	reviews := []models.Review{
		{ID: 7, ModelID: 42, UserID: "u1", Rating: 4.5, Text: &text},
		{ID: 8, ModelID: 42, UserID: "u2", Rating: 3, Images: images(2), NSFW: true},
	}

	cards := BuildCards(&moderation.Session{ActorID: "u2"}, reviews)
	require.Len(t, cards, 2)

	assert.Equal(t, "Great", cards[0].Text)
	assert.Equal(t, 4.5, cards[0].Rating)
	assert.Equal(t, moderation.Capabilities{CanReport: true}, cards[0].Capabilities)
	assert.Len(t, cards[0].Menu, 2)
	assert.False(t, cards[0].Images.Visible)

	assert.Empty(t, cards[1].Text)
	assert.True(t, cards[1].NSFW)
	assert.Equal(t, moderation.Capabilities{CanDelete: true}, cards[1].Capabilities)
	assert.Equal(t, "Delete review", cards[1].Menu[0].Label)
	assert.Equal(t, 2, cards[1].Images.CountBadge)
}
