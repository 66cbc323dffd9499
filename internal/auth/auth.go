package auth

import (
	"encoding/base64"
	"fmt"
	"log/slog"
)

// Credential is the opaque bearer token issued by the scrap API.
// The client never parses structure out of Value.
type Credential struct {
	Value string `json:"value"`
}

// String returns the raw token value.
func (c Credential) String() string {
	return c.Value
}

// LogValue keeps the token out of structured logs.
func (c Credential) LogValue() slog.Value {
	return slog.StringValue(Mask(c.Value))
}

// BearerAuthorization returns the Authorization header value for c.
func (c Credential) BearerAuthorization() string {
	return "Bearer " + c.Value
}

// LoginCandidate holds the email and password used for a single login.
// It is never persisted.
type LoginCandidate struct {
	Email    string
	Password string
}

// BasicAuthorization returns the Authorization header value for the candidate
func (l LoginCandidate) BasicAuthorization() string {
	raw := fmt.Sprintf("%s:%s", l.Email, l.Password)
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(raw))
}

// String redacts the candidate so it cannot leak through fmt verbs.
func (l LoginCandidate) String() string {
	return "LoginCandidate{redacted}"
}

// LogValue redacts the candidate in structured logs.
func (l LoginCandidate) LogValue() slog.Value {
	return slog.StringValue("[redacted]")
}

// Mask shortens a secret for display, keeping the first and last four characters.
func Mask(secret string) string {
	if len(secret) > 8 {
		return secret[:4] + "..." + secret[len(secret)-4:]
	}
	return "****"
}
