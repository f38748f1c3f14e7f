package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidRating(t *testing.T) {
	for _, r := range []float64{0, 0.5, 1, 3.5, 4.5, 5} {
		assert.True(t, ValidRating(r), "rating %v", r)
	}
	for _, r := range []float64{-0.5, 5.5, 4.25, 0.1, math.NaN()} {
		assert.False(t, ValidRating(r), "rating %v", r)
	}
}

func TestParseReportReason(t *testing.T) {
	reason, err := ParseReportReason("nsfw")
	require.NoError(t, err)
	assert.Equal(t, ReportReasonNSFW, reason)

	reason, err = ParseReportReason(" TOSViolation ")
	require.NoError(t, err)
	assert.Equal(t, ReportReasonTOSViolation, reason)

	reason, err = ParseReportReason("tos")
	require.NoError(t, err)
	assert.Equal(t, ReportReasonTOSViolation, reason)

	_, err = ParseReportReason("spam")
	assert.Error(t, err)
}

func TestReviewOwnedBy(t *testing.T) {
	r := Review{ID: 7, UserID: "u1"}
	assert.True(t, r.OwnedBy("u1"))
	assert.False(t, r.OwnedBy("u2"))
	assert.False(t, r.OwnedBy(""))
}

func TestUserRoleCanModerate(t *testing.T) {
	assert.False(t, UserRoleUser.CanModerate())
	assert.True(t, UserRoleModerator.CanModerate())
	assert.True(t, UserRoleAdmin.CanModerate())
}

func TestReportReasonValid(t *testing.T) {
	for _, r := range ReportReasons {
		assert.True(t, r.Valid())
	}
	assert.False(t, ReportReason("Spam").Valid())
	assert.False(t, ReportReason("").Valid())
}
