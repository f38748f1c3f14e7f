// Package moderation implements the review moderation workflow of the review
// gallery: which actions an actor is offered on a review, the confirmation
// gate in front of deletion, and the delete/report dispatches with their
// notification lifecycle and cache invalidation.
//
// Capability gating here only decides what is offered to the actor. The
// reviews service re-validates identity and ownership on every mutation and
// remains the authorization boundary.
package moderation

import (
	"context"

	"modelreviews/internal/models"
)

// Session is the current actor. A nil *Session is an anonymous visitor.
type Session struct {
	ActorID string
}

// SessionProvider reads the ambient authentication state.
type SessionProvider interface {
	Session() *Session
}

// MutationClient executes mutations against the reviews service.
type MutationClient interface {
	DeleteReview(ctx context.Context, reviewID int64) error
	ReportReview(ctx context.Context, reviewID int64, reason models.ReportReason) error
}

// CacheInvalidator marks the cached review collection of a model stale.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, modelID int64) error
}

type NotificationKind string

const (
	NotificationLoading NotificationKind = "loading"
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

type Notification struct {
	Key     string
	Kind    NotificationKind
	Title   string
	Message string
	// Detail carries the raw error text of a failed mutation.
	Detail string
}

// Notifier is a keyed message surface holding at most one notification per key.
type Notifier interface {
	Show(n Notification) string
	Hide(key string)
}

// Navigator sends an anonymous actor to the login flow.
type Navigator interface {
	RedirectToLogin(returnPath string)
}

type SessionFunc func() *Session

func (f SessionFunc) Session() *Session { return f() }

type nopInvalidator struct{}

func (nopInvalidator) Invalidate(context.Context, int64) error { return nil }

// NopInvalidator is used when the caller keeps no review cache.
var NopInvalidator CacheInvalidator = nopInvalidator{}
