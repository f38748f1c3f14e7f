package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelreviews/internal/models"
	"modelreviews/internal/security"
)

func TestListReviews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/models/42/reviews", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"items":[{"id":7,"modelId":42,"userId":"u1","rating":4.5,"text":"Great",
			"images":[{"id":1,"url":"https://cdn.test/a.png"},{"id":2,"url":"https://cdn.test/b.png","position":1}]}]}`)
	}))
	defer srv.Close()

	reviews, err := New(srv.URL+"/api").ListReviews(context.Background(), 42, 10, 0)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "u1", reviews[0].UserID)
	require.NotNil(t, reviews[0].Text)
	assert.Equal(t, "Great", *reviews[0].Text)
	assert.Len(t, reviews[0].Images, 2)
	assert.Equal(t, int64(7), reviews[0].Images[1].ReviewID)
}

func TestReportReview_SendsReasonAndToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/reviews/7/report", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "NSFW", body["reason"])
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := New(srv.URL, WithToken("tok")).ReportReview(context.Background(), 7, models.ReportReasonNSFW)
	assert.NoError(t, err)
}

func TestDeleteReview_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":"not allowed to delete this review"}`)
	}))
	defer srv.Close()

	err := New(srv.URL).DeleteReview(context.Background(), 7)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "not allowed to delete this review", err.Error())
}

func TestAPIError_WithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := New(srv.URL).DeleteReview(context.Background(), 7)
	assert.EqualError(t, err, "request failed: 502 Bad Gateway")
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/auth/login", r.URL.Path)
		_, _ = io.WriteString(w, `{"accessToken":"tok","deviceId":"d1","user":{"id":"u1","email":"ada@example.com"}}`)
	}))
	defer srv.Close()

	result, err := New(srv.URL).Login(context.Background(), "ada@example.com", "pw", "reviewctl")
	require.NoError(t, err)
	assert.Equal(t, "tok", result.AccessToken)
	assert.Equal(t, "u1", result.User.ID)
}

func TestTokenSession(t *testing.T) {
	assert.Nil(t, TokenSession{}.Session())
	assert.Nil(t, TokenSession{Token: "not-a-jwt"}.Session())

	tok, err := security.GenerateAccessToken("server-only", "u1", "s1", "d1", "user", time.Hour)
	require.NoError(t, err)
	session := TokenSession{Token: tok}.Session()
	require.NotNil(t, session)
	assert.Equal(t, "u1", session.ActorID)

	expired, err := security.GenerateAccessToken("server-only", "u1", "s1", "d1", "user", -time.Minute)
	require.NoError(t, err)
	assert.Nil(t, TokenSession{Token: expired}.Session())
}
