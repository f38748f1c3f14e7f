package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"modelreviews/internal/config"
)

func TestPublicURL(t *testing.T) {
	cfg := config.StorageConfig{Endpoint: "minio.internal:9000"}
	assert.Equal(t, "https://minio.internal:9000/review-images/2024/01/a.png", PublicURL(cfg, "review-images", "2024/01/a.png"))

	cfg.PublicURL = "http://cdn.example.com/"
	assert.Equal(t, "http://cdn.example.com/review-images/a.png", PublicURL(cfg, "review-images", "a.png"))
}

func TestObjectRef(t *testing.T) {
	assert.Equal(t, "review-images/2024/01/a.png", ObjectRef("review-images", "2024/01/a.png"))
}
