package moderation

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"modelreviews/internal/models"
)

// ReportNotificationKey keys the in-flight report notification.
const ReportNotificationKey = "sending-review-report"

const (
	DeleteWarning      = "Are you sure you want to delete this review? This action is destructive and cannot be reverted."
	DeleteErrorTitle   = "Could not delete review"
	ReportLoadingText  = "Sending report..."
	ReportSuccessTitle = "Review reported"
	ReportSuccessText  = "Your report has been received. Thank you for helping keep the gallery clean."
	ReportErrorTitle   = "Unable to send report"
	ReportErrorHint    = "An error occurred while sending your report. Please try again later."
)

var (
	ErrNotPermitted  = errors.New("action not offered to this actor")
	ErrUnknownReason = errors.New("unknown report reason")
)

type ReportResult string

const (
	ReportRedirected ReportResult = "redirected"
	ReportSent       ReportResult = "sent"
	ReportFailed     ReportResult = "failed"
)

type Option func(*Workflow)

// WithScopedReportKey keys the in-flight report notification per review so
// concurrent reports on different reviews do not replace each other.
func WithScopedReportKey() Option {
	return func(w *Workflow) { w.scopedKey = true }
}

func WithLogger(log zerolog.Logger) Option {
	return func(w *Workflow) { w.log = log }
}

// Workflow dispatches delete and report mutations for the review gallery.
type Workflow struct {
	sessions  SessionProvider
	client    MutationClient
	cache     CacheInvalidator
	notifier  Notifier
	navigator Navigator
	gate      *Gate
	scopedKey bool
	log       zerolog.Logger
}

func NewWorkflow(sessions SessionProvider, client MutationClient, cache CacheInvalidator, notifier Notifier, navigator Navigator, opts ...Option) *Workflow {
	if cache == nil {
		cache = NopInvalidator
	}
	w := &Workflow{
		sessions:  sessions,
		client:    client,
		cache:     cache,
		notifier:  notifier,
		navigator: navigator,
		gate:      NewGate(),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Gate is the confirmation gate shared by destructive actions.
func (w *Workflow) Gate() *Gate {
	return w.gate
}

func (w *Workflow) Capabilities(review models.Review) Capabilities {
	return CapabilitiesFor(w.sessions.Session(), review)
}

func (w *Workflow) Menu(review models.Review) []MenuItem {
	return Menu(w.sessions.Session(), review)
}

// RequestDelete opens the confirmation gate for deleting review. Only the
// review's owner is offered deletion.
func (w *Workflow) RequestDelete(review models.Review) error {
	if !w.Capabilities(review).CanDelete {
		return ErrNotPermitted
	}
	return w.gate.Request(DeleteWarning, w.deleteAction(review))
}

func (w *Workflow) deleteAction(review models.Review) GateAction {
	return func(ctx context.Context) error {
		if err := w.client.DeleteReview(ctx, review.ID); err != nil {
			w.log.Warn().Err(err).Int64("review_id", review.ID).Msg("delete review failed")
			w.notifier.Show(Notification{
				Kind:    NotificationError,
				Title:   DeleteErrorTitle,
				Message: err.Error(),
				Detail:  err.Error(),
			})
			return fmt.Errorf("delete review %d: %w", review.ID, err)
		}

		w.invalidate(ctx, review.ModelID)
		w.log.Info().Int64("review_id", review.ID).Int64("model_id", review.ModelID).Msg("review deleted")
		return nil
	}
}

// Report flags review with reason. Anonymous actors are redirected to the
// login flow with returnPath and nothing is sent. A failed mutation is
// surfaced through the notifier and reported as ReportFailed, not as an
// error; errors are reserved for actions that were never offered.
func (w *Workflow) Report(ctx context.Context, review models.Review, reason models.ReportReason, returnPath string) (ReportResult, error) {
	session := w.sessions.Session()
	if session == nil {
		w.navigator.RedirectToLogin(returnPath)
		return ReportRedirected, nil
	}
	if !CapabilitiesFor(session, review).CanReport {
		return "", ErrNotPermitted
	}
	if !reason.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownReason, reason)
	}

	key := w.reportKey(review)
	w.notifier.Show(Notification{Key: key, Kind: NotificationLoading, Message: ReportLoadingText})
	defer w.notifier.Hide(key)

	if err := w.client.ReportReview(ctx, review.ID, reason); err != nil {
		w.log.Warn().Err(err).Int64("review_id", review.ID).Str("reason", string(reason)).Msg("report review failed")
		w.notifier.Show(Notification{
			Kind:    NotificationError,
			Title:   ReportErrorTitle,
			Message: ReportErrorHint,
			Detail:  err.Error(),
		})
		return ReportFailed, nil
	}

	w.invalidate(ctx, review.ModelID)
	w.notifier.Show(Notification{
		Kind:    NotificationSuccess,
		Title:   ReportSuccessTitle,
		Message: ReportSuccessText,
	})
	return ReportSent, nil
}

func (w *Workflow) reportKey(review models.Review) string {
	if w.scopedKey {
		return fmt.Sprintf("%s:%d", ReportNotificationKey, review.ID)
	}
	return ReportNotificationKey
}

// invalidate marks the model's review collection stale. Failures are logged only.
func (w *Workflow) invalidate(ctx context.Context, modelID int64) {
	if err := w.cache.Invalidate(ctx, modelID); err != nil {
		w.log.Warn().Err(err).Int64("model_id", modelID).Msg("invalidate review cache failed")
	}
}
