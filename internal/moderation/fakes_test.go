package moderation

import (
	"context"
	"fmt"
	"sync"

	"modelreviews/internal/models"
)

// recorder captures every collaborator call in order.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type fakeClient struct {
	rec       *recorder
	deleteErr error
	reportErr error
	block     chan struct{}
}

func (c *fakeClient) DeleteReview(_ context.Context, id int64) error {
	c.rec.add("delete:%d", id)
	if c.block != nil {
		<-c.block
	}
	return c.deleteErr
}

func (c *fakeClient) ReportReview(_ context.Context, id int64, reason models.ReportReason) error {
	c.rec.add("report:%d:%s", id, reason)
	return c.reportErr
}

type fakeCache struct {
	rec *recorder
	err error
}

func (c *fakeCache) Invalidate(_ context.Context, modelID int64) error {
	c.rec.add("invalidate:%d", modelID)
	return c.err
}

type fakeNotifier struct {
	rec   *recorder
	shown []Notification
}

func (n *fakeNotifier) Show(note Notification) string {
	n.rec.add("show:%s:%s", note.Kind, note.Key)
	n.shown = append(n.shown, note)
	return note.Key
}

func (n *fakeNotifier) Hide(key string) {
	n.rec.add("hide:%s", key)
}

func (n *fakeNotifier) last() Notification {
	return n.shown[len(n.shown)-1]
}

type fakeNavigator struct {
	rec *recorder
}

func (n *fakeNavigator) RedirectToLogin(returnPath string) {
	n.rec.add("login:%s", returnPath)
}

type harness struct {
	rec      *recorder
	client   *fakeClient
	cache    *fakeCache
	notifier *fakeNotifier
	workflow *Workflow
}

func newHarness(session *Session, opts ...Option) *harness {
	rec := &recorder{}
	h := &harness{
		rec:      rec,
		client:   &fakeClient{rec: rec},
		cache:    &fakeCache{rec: rec},
		notifier: &fakeNotifier{rec: rec},
	}
	h.workflow = NewWorkflow(
		SessionFunc(func() *Session { return session }),
		h.client,
		h.cache,
		h.notifier,
		&fakeNavigator{rec: rec},
		opts...,
	)
	return h
}

func sampleReview() models.Review {
	text := "Great"
	return models.Review{ID: 7, ModelID: 42, UserID: "u1", Rating: 4.5, Text: &text}
}
