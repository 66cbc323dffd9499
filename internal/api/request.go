package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/scrap-app/cli/internal/apierr"
	"github.com/scrap-app/cli/internal/auth"
)

const (
	pathLogin    = "/login"
	pathRegister = "/register"
	pathMe       = "/me"

	headerRequestID = "X-Request-ID"
)

var (
	errMissingValue = errors.New("response has no credential value")
	errNotUTF8      = errors.New("response body is not UTF-8")
)

// newRequest builds a request against the configured base URL with the
// default headers. Non-GET requests always declare a JSON body.
func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), bodyReader)
	if err != nil {
		return nil, apierr.Silent(err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(headerRequestID, uuid.NewString())
	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// credentialBody is the success body of login and register.
type credentialBody struct {
	Value *string `json:"value"`
}

// serverError is the structured error body some endpoints return.
type serverError struct {
	Reason *string `json:"reason"`
}

// genericServerError treats every non-2xx response as a generic server error.
func genericServerError(_ []byte, _ int) *apierr.Error {
	return apierr.GenericServer()
}

// registerServerError recognises {"reason": "..."} bodies on 400 and 409.
func registerServerError(body []byte, status int) *apierr.Error {
	if status != http.StatusBadRequest && status != http.StatusConflict {
		return apierr.GenericServer()
	}

	var se serverError
	if err := json.Unmarshal(body, &se); err != nil || se.Reason == nil {
		return apierr.GenericServer()
	}
	return apierr.Server(*se.Reason)
}

// decodeCredential reads {"value": "..."} from a login or register response.
// The value is opaque; an empty string is still a credential.
func decodeCredential(body []byte) (auth.Credential, error) {
	var cb credentialBody
	if err := json.Unmarshal(body, &cb); err != nil {
		return auth.Credential{}, err
	}
	if cb.Value == nil {
		return auth.Credential{}, errMissingValue
	}
	return auth.Credential{Value: *cb.Value}, nil
}

// decodeText returns the body as a string when it is valid UTF-8.
func decodeText(body []byte) (string, error) {
	if !utf8.Valid(body) {
		return "", errNotUTF8
	}
	return string(body), nil
}
