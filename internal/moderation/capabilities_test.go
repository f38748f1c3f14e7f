package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"modelreviews/internal/models"
)

func TestCapabilitiesFor(t *testing.T) {
	review := sampleReview()

	tests := []struct {
		name    string
		session *Session
		want    Capabilities
	}{
		{"owner", &Session{ActorID: "u1"}, Capabilities{CanDelete: true, CanReport: false}},
		{"other actor", &Session{ActorID: "u2"}, Capabilities{CanDelete: false, CanReport: true}},
		{"anonymous", nil, Capabilities{CanDelete: false, CanReport: true}},
		{"empty actor id", &Session{}, Capabilities{CanDelete: false, CanReport: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CapabilitiesFor(tt.session, review))
		})
	}
}

func TestMenu_NonOwner(t *testing.T) {
	items := Menu(&Session{ActorID: "u2"}, sampleReview())

	labels := make([]string, 0, len(items))
	for _, item := range items {
		labels = append(labels, item.Label)
		assert.Equal(t, ActionReport, item.Action)
	}
	assert.Equal(t, []string{"Report as NSFW", "Report as Terms Violation"}, labels)
	assert.Equal(t, models.ReportReasonNSFW, items[0].Reason)
	assert.Equal(t, models.ReportReasonTOSViolation, items[1].Reason)
}

func TestMenu_Owner(t *testing.T) {
	items := Menu(&Session{ActorID: "u1"}, sampleReview())

	assert.Equal(t, []MenuItem{{Action: ActionDelete, Label: "Delete review"}}, items)
}

func TestMenu_Anonymous(t *testing.T) {
	items := Menu(nil, sampleReview())

	assert.Len(t, items, len(models.ReportReasons))
	for _, item := range items {
		assert.NotEqual(t, ActionDelete, item.Action)
	}
}

func TestReasonLabel_Unknown(t *testing.T) {
	assert.Equal(t, "Report as Spam", ReasonLabel(models.ReportReason("Spam")))
}
