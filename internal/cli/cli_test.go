package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelreviews/internal/config"
	"modelreviews/internal/security"
)

type fakeAPI struct {
	mu           sync.Mutex
	calls        []string
	deleteStatus []int
	reportStatus int
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/v1/models/42/reviews":
		_, _ = io.WriteString(w, `{"items":[
			{"id":7,"modelId":42,"userId":"u1","rating":4.5,"text":"Great","images":[{"id":1,"url":"a"},{"id":2,"url":"b"}]},
			{"id":8,"modelId":42,"userId":"u2","rating":2,"nsfw":true,"images":[]}]}`)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v1/reviews/"):
		id := strings.TrimPrefix(r.URL.Path, "/v1/reviews/")
		owner := map[string]string{"7": "u1", "8": "u2"}[id]
		if owner == "" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":"review not found"}`)
			return
		}
		fmt.Fprintf(w, `{"id":%s,"modelId":42,"userId":%q,"rating":3}`, id, owner)
	case r.Method == http.MethodDelete:
		status := http.StatusNoContent
		f.mu.Lock()
		if len(f.deleteStatus) > 0 {
			status, f.deleteStatus = f.deleteStatus[0], f.deleteStatus[1:]
		}
		f.mu.Unlock()
		w.WriteHeader(status)
		if status >= 400 {
			_, _ = io.WriteString(w, `{"error":"database unavailable"}`)
		}
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/report"):
		status := f.reportStatus
		if status == 0 {
			status = http.StatusNoContent
		}
		w.WriteHeader(status)
		if status >= 400 {
			_, _ = io.WriteString(w, `{"error":"queue down"}`)
		}
	case r.Method == http.MethodPost && r.URL.Path == "/v1/auth/login":
		_, _ = io.WriteString(w, `{"accessToken":"new-token","user":{"id":"u1","email":"ada@example.com"}}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeAPI) count(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// testEnv points the cli at a fake api and captures its output.
func testEnv(t *testing.T, actor string, input string) (*fakeAPI, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true

	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	token := ""
	if actor != "" {
		var err error
		token, err = security.GenerateAccessToken("server-secret", actor, "s1", "d1", "user", time.Hour)
		require.NoError(t, err)
	}

	cfg = &config.CLIConfig{APIURL: srv.URL, WebURL: "https://gallery.test/", Token: token, Timeout: 5 * time.Second}
	cfgStore = viper.New()

	out := &bytes.Buffer{}
	ui = &UI{Out: out, ErrOut: out, In: bufio.NewReader(strings.NewReader(input))}

	deleteYes, reportReason, reportReturnPath, listLimit = false, "", "", 20
	return api, out
}

func TestList_ShowsActionsPerViewer(t *testing.T) {
	_, out := testEnv(t, "u1", "")

	require.NoError(t, listRun(context.Background(), 42))
	text := out.String()
	assert.Contains(t, text, "Delete review")
	assert.Contains(t, text, "Report as Terms Violation")
	assert.Contains(t, text, "2 ‹›")
	assert.Contains(t, text, "[NSFW]")
}

func TestDelete_ConfirmedDispatchesOnce(t *testing.T) {
	api, out := testEnv(t, "u1", "y\n")

	require.NoError(t, deleteRun(context.Background(), 7))
	assert.Equal(t, 1, api.count("DELETE /v1/reviews/7"))
	assert.Contains(t, out.String(), "cannot be reverted")
	assert.Contains(t, out.String(), "Review 7 deleted")
}

func TestDelete_DeclinedDispatchesNothing(t *testing.T) {
	api, out := testEnv(t, "u1", "n\n")

	require.NoError(t, deleteRun(context.Background(), 7))
	assert.Zero(t, api.count("DELETE"))
	assert.Contains(t, out.String(), "Cancelled.")
}

func TestDelete_FailureKeepsPromptOpenForRetry(t *testing.T) {
	api, out := testEnv(t, "u1", "y\ny\n")
	api.deleteStatus = []int{http.StatusInternalServerError}

	require.NoError(t, deleteRun(context.Background(), 7))
	assert.Equal(t, 2, api.count("DELETE /v1/reviews/7"))
	assert.Contains(t, out.String(), "Could not delete review: database unavailable")
	assert.Contains(t, out.String(), "Try again?")
}

func TestDelete_NotOwner(t *testing.T) {
	api, _ := testEnv(t, "u2", "")
	deleteYes = true

	err := deleteRun(context.Background(), 7)
	assert.EqualError(t, err, "review 7 is not yours to delete")
	assert.Zero(t, api.count("DELETE"))
}

func TestReport_Success(t *testing.T) {
	api, out := testEnv(t, "u2", "")
	reportReason = "nsfw"

	require.NoError(t, reportRun(context.Background(), 7))
	assert.Equal(t, 1, api.count("POST /v1/reviews/7/report"))
	assert.Contains(t, out.String(), "Sending report...")
	assert.Contains(t, out.String(), "Review reported")
}

func TestReport_FailureShowsHint(t *testing.T) {
	api, out := testEnv(t, "u2", "")
	api.reportStatus = http.StatusInternalServerError
	reportReason = "tos"

	err := reportRun(context.Background(), 7)
	assert.ErrorIs(t, err, errReportNotSent)
	assert.Contains(t, out.String(), "Unable to send report")
	assert.Contains(t, out.String(), "Please try again later.")
}

func TestReport_MenuChoice(t *testing.T) {
	api, out := testEnv(t, "u2", "2\n")

	require.NoError(t, reportRun(context.Background(), 7))
	assert.Contains(t, out.String(), "2) Report as Terms Violation")
	assert.Equal(t, 1, api.count("POST /v1/reviews/7/report"))
}

func TestReport_AnonymousGetsLoginLink(t *testing.T) {
	api, out := testEnv(t, "", "")
	reportReason = "nsfw"

	require.NoError(t, reportRun(context.Background(), 7))
	assert.Zero(t, api.count("POST"))
	assert.Contains(t, out.String(), "https://gallery.test/login?returnUrl=%2Fmodels%2F42%3FreviewId%3D7")
}

func TestReport_OwnReview(t *testing.T) {
	_, _ = testEnv(t, "u1", "")
	reportReason = "nsfw"

	err := reportRun(context.Background(), 7)
	assert.EqualError(t, err, "review 7 is yours; you cannot report it")
}

func TestLogin_SavesToken(t *testing.T) {
	_, out := testEnv(t, "", "")
	path := filepath.Join(t.TempDir(), "reviewctl", "config.yaml")
	orig := configPathFunc
	configPathFunc = func() (string, error) { return path, nil }
	t.Cleanup(func() { configPathFunc = orig })
	loginEmail, loginPassword = "ada@example.com", "pw"
	t.Cleanup(func() { loginEmail, loginPassword = "", "" })

	require.NoError(t, loginRun(context.Background()))
	assert.Equal(t, "new-token", cfg.Token)
	assert.Contains(t, out.String(), "Signed in as ada@example.com")

	saved := viper.New()
	saved.SetConfigFile(path)
	require.NoError(t, saved.ReadInConfig())
	assert.Equal(t, "new-token", saved.GetString("token"))
}

func TestLoginURL(t *testing.T) {
	assert.Equal(t, "https://x.test/login", LoginURL("https://x.test/", ""))
	assert.Equal(t, "https://x.test/login?returnUrl=%2Fm%2F1", LoginURL("https://x.test", "/m/1"))
}
