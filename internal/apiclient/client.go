// Package apiclient talks to the reviews api. It implements the moderation
// workflow's mutation client and the session provider for callers that hold
// an access token.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"modelreviews/internal/models"
)

// APIError is a non-2xx response. Message carries the server's error text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed: %d %s", e.Status, http.StatusText(e.Status))
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type imageBody struct {
	ID       int64  `json:"id"`
	URL      string `json:"url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Position int    `json:"position"`
}

type reviewBody struct {
	ID             int64       `json:"id"`
	ModelID        int64       `json:"modelId"`
	ModelVersionID int64       `json:"modelVersionId"`
	UserID         string      `json:"userId"`
	Rating         float64     `json:"rating"`
	Text           *string     `json:"text"`
	NSFW           bool        `json:"nsfw"`
	CreatedAt      time.Time   `json:"createdAt"`
	Images         []imageBody `json:"images"`
}

func (b reviewBody) toModel() models.Review {
	review := models.Review{
		ID:             b.ID,
		ModelID:        b.ModelID,
		ModelVersionID: b.ModelVersionID,
		UserID:         b.UserID,
		Rating:         b.Rating,
		Text:           b.Text,
		NSFW:           b.NSFW,
		Status:         models.ReviewStatusVisible,
		CreatedAt:      b.CreatedAt,
	}
	for _, img := range b.Images {
		review.Images = append(review.Images, models.ReviewImage{
			ID:       img.ID,
			ReviewID: b.ID,
			URL:      img.URL,
			Width:    img.Width,
			Height:   img.Height,
			Position: img.Position,
		})
	}
	return review
}

func (c *Client) ListReviews(ctx context.Context, modelID int64, limit, offset int) ([]models.Review, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	path := fmt.Sprintf("/v1/models/%d/reviews", modelID)
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var body struct {
		Items []reviewBody `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &body); err != nil {
		return nil, err
	}

	reviews := make([]models.Review, 0, len(body.Items))
	for _, item := range body.Items {
		reviews = append(reviews, item.toModel())
	}
	return reviews, nil
}

func (c *Client) GetReview(ctx context.Context, id int64) (models.Review, error) {
	var body reviewBody
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/reviews/%d", id), nil, &body); err != nil {
		return models.Review{}, err
	}
	return body.toModel(), nil
}

func (c *Client) DeleteReview(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/v1/reviews/%d", id), nil, nil)
}

func (c *Client) ReportReview(ctx context.Context, id int64, reason models.ReportReason) error {
	payload := map[string]string{"reason": string(reason)}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/v1/reviews/%d/report", id), payload, nil)
}

type LoginResult struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	DeviceID    string    `json:"deviceId"`
	User        struct {
		ID          string `json:"id"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
	} `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password, deviceName string) (LoginResult, error) {
	payload := map[string]string{
		"email":      email,
		"password":   password,
		"deviceName": deviceName,
	}
	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/v1/auth/login", payload, &result); err != nil {
		return LoginResult{}, err
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(raw, &payload) == nil {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
