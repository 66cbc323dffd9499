package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/scrap-app/cli/internal/apierr"
)

// maxResponseBytes caps how much of a response body is read. Larger bodies
// fail instead of being truncated.
const maxResponseBytes = 1 << 20

// Error texts net/http produces when the peer does not speak HTTP/1.x:
// "malformed HTTP response", "malformed HTTP status code",
// "malformed HTTP version" and "malformed MIME header line".
var malformedResponseMarkers = []string{"malformed HTTP ", "malformed MIME header"}

// Doer executes HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ErrorClassifier turns a non-2xx response into a domain error. Each call
// site supplies its own rules; returning nil means "not recognised".
type ErrorClassifier func(body []byte, status int) *apierr.Error

// Decoder turns a 2xx response body into a value.
type Decoder[T any] func(body []byte) (T, error)

// Transport executes single requests and converts every outcome into either
// a decoded value or a domain error.
type Transport struct {
	client Doer
	logger *slog.Logger
}

// NewTransport returns a Transport over client.
func NewTransport(client Doer, logger *slog.Logger) *Transport {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{client: client, logger: logger.With("component", "transport")}
}

// Run executes req and returns the decoded 2xx body or a domain error. req is
// not modified; its context governs cancellation. The result is always
// returned on the calling goroutine.
func Run[T any](t *Transport, req *http.Request, classify ErrorClassifier, decode Decoder[T]) (T, error) {
	var zero T
	start := time.Now()
	log := t.logger.With(
		"method", req.Method,
		"path", req.URL.Path,
		"request_id", req.Header.Get(headerRequestID),
	)

	resp, err := t.client.Do(req)
	if err != nil {
		derr := classifyTransportError(err)
		log.Debug("request failed", "kind", derr.Kind, "error", err, "duration", time.Since(start))
		return zero, derr
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		derr := classifyTransportError(err)
		log.Debug("failed to read response", "kind", derr.Kind, "error", err)
		return zero, derr
	}
	if len(body) > maxResponseBytes {
		log.Debug("response body too large", "status", resp.StatusCode, "limit", maxResponseBytes)
		return zero, apierr.Silent(fmt.Errorf("response body exceeds %d bytes", maxResponseBytes))
	}

	log.Debug("response received", "status", resp.StatusCode, "bytes", len(body), "duration", time.Since(start))

	if resp.StatusCode < 100 || resp.StatusCode > 599 {
		return zero, apierr.Silent(fmt.Errorf("invalid status code %d", resp.StatusCode))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if classify == nil {
			return zero, apierr.Silent(fmt.Errorf("unhandled HTTP %d", resp.StatusCode))
		}
		if derr := classify(body, resp.StatusCode); derr != nil {
			return zero, derr
		}
		return zero, apierr.Silent(fmt.Errorf("unrecognised HTTP %d", resp.StatusCode))
	}

	value, err := decode(body)
	if err != nil {
		log.Debug("failed to decode response", "error", err)
		return zero, apierr.From(err)
	}
	return value, nil
}

// classifyTransportError maps a failure from Do (or from reading the body)
// onto the transport kinds. The mapping only depends on the error chain.
func classifyTransportError(err error) *apierr.Error {
	switch {
	case errors.Is(err, syscall.ENETUNREACH), errors.Is(err, syscall.ENETDOWN):
		return apierr.New(apierr.KindNoNetwork, err)
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.EHOSTUNREACH), errors.Is(err, syscall.EHOSTDOWN):
		return apierr.New(apierr.KindServerUnreachable, err)
	case isMalformedResponse(err):
		return apierr.Silent(err)
	default:
		return apierr.New(apierr.KindUnspecifiedTransport, err)
	}
}

// isMalformedResponse reports whether the server answered with something
// that has no usable HTTP status line. net/http exposes no typed error for
// this, so the check matches malformedResponseMarkers.
func isMalformedResponse(err error) bool {
	msg := err.Error()
	for _, marker := range malformedResponseMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
