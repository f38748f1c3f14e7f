package moderation

import "modelreviews/internal/models"

// Capabilities is the action set offered to one actor on one review.
type Capabilities struct {
	CanDelete bool
	CanReport bool
}

// CapabilitiesFor derives the action set once per render. Owners may delete
// and never report; everyone else, anonymous visitors included, may report.
func CapabilitiesFor(session *Session, review models.Review) Capabilities {
	owner := session != nil && review.OwnedBy(session.ActorID)
	return Capabilities{
		CanDelete: owner,
		CanReport: !owner,
	}
}

type Action string

const (
	ActionDelete Action = "delete"
	ActionReport Action = "report"
)

type MenuItem struct {
	Action Action
	Reason models.ReportReason
	Label  string
}

var reasonLabels = map[models.ReportReason]string{
	models.ReportReasonNSFW:         "Report as NSFW",
	models.ReportReasonTOSViolation: "Report as Terms Violation",
}

// ReasonLabel returns the menu label for a report reason.
func ReasonLabel(reason models.ReportReason) string {
	if label, ok := reasonLabels[reason]; ok {
		return label
	}
	return "Report as " + string(reason)
}

// Menu lists the review's action menu entries for the actor.
func Menu(session *Session, review models.Review) []MenuItem {
	caps := CapabilitiesFor(session, review)

	var items []MenuItem
	if caps.CanDelete {
		items = append(items, MenuItem{Action: ActionDelete, Label: "Delete review"})
	}
	if caps.CanReport {
		for _, reason := range models.ReportReasons {
			items = append(items, MenuItem{Action: ActionReport, Reason: reason, Label: ReasonLabel(reason)})
		}
	}
	return items
}
