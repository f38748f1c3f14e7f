package apiclient

import (
	"modelreviews/internal/moderation"
	"modelreviews/internal/security"
)

// TokenSession derives the acting user from a stored access token. The token
// is not verified here; the api does that on every request.
type TokenSession struct {
	Token string
}

func (s TokenSession) Session() *moderation.Session {
	if s.Token == "" {
		return nil
	}
	claims, err := security.PeekAccessToken(s.Token)
	if err != nil || claims.UserID == "" {
		return nil
	}
	return &moderation.Session{ActorID: claims.UserID}
}
