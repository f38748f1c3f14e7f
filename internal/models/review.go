package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	MinRating  = 0.0
	MaxRating  = 5.0
	RatingStep = 0.5
)

type ReviewStatus string

const (
	ReviewStatusVisible ReviewStatus = "visible"
	ReviewStatusHidden  ReviewStatus = "hidden"
)

type Review struct {
	ID             int64
	ModelID        int64
	ModelVersionID int64
	UserID         string
	Rating         float64
	Text           *string
	NSFW           bool
	Status         ReviewStatus
	Images         []ReviewImage
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OwnedBy reports whether userID authored the review.
func (r Review) OwnedBy(userID string) bool {
	return userID != "" && r.UserID == userID
}

type ReviewImage struct {
	ID        int64
	ReviewID  int64
	Bucket    string
	ObjectKey string
	Width     int
	Height    int
	Position  int
	URL       string
	CreatedAt time.Time
}

// ValidRating reports whether rating lies in [MinRating, MaxRating] on a RatingStep boundary.
func ValidRating(rating float64) bool {
	if math.IsNaN(rating) || rating < MinRating || rating > MaxRating {
		return false
	}
	steps := rating / RatingStep
	return steps == math.Trunc(steps)
}

type ReportReason string

const (
	ReportReasonNSFW         ReportReason = "NSFW"
	ReportReasonTOSViolation ReportReason = "TOSViolation"
)

// ReportReasons lists the closed set of reasons in menu order.
var ReportReasons = []ReportReason{ReportReasonNSFW, ReportReasonTOSViolation}

func (r ReportReason) Valid() bool {
	for _, known := range ReportReasons {
		if r == known {
			return true
		}
	}
	return false
}

// ParseReportReason accepts the canonical names and the short CLI aliases.
func ParseReportReason(s string) (ReportReason, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nsfw":
		return ReportReasonNSFW, nil
	case "tosviolation", "tos", "tos_violation", "terms":
		return ReportReasonTOSViolation, nil
	}
	return "", fmt.Errorf("unknown report reason %q", s)
}

type ReportStatus string

const (
	ReportStatusOpen      ReportStatus = "open"
	ReportStatusActioned  ReportStatus = "actioned"
	ReportStatusDismissed ReportStatus = "dismissed"
)

type Report struct {
	ID         int64
	ReviewID   int64
	ReporterID string
	Reason     ReportReason
	Status     ReportStatus
	CreatedAt  time.Time
}

// ReportTally summarises the open reports held against one review.
type ReportTally struct {
	ReviewID int64
	ModelID  int64
	Total    int
	ByReason map[ReportReason]int
}
