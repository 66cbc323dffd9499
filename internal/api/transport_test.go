package api

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrap-app/cli/internal/apierr"
	"github.com/scrap-app/cli/internal/logging"
)

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func dialError(errno syscall.Errno) error {
	return &url.Error{
		Op:  "Post",
		URL: "http://localhost:8080/login",
		Err: &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", errno)},
	}
}

func newTestTransport(client Doer) *Transport {
	return NewTransport(client, logging.Discard())
}

func mustRequest(t *testing.T, ctx context.Context, rawURL string) *http.Request {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	require.NoError(t, err)
	return req
}

func TestClassifyTransportError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apierr.Kind
	}{
		{name: "network unreachable", err: dialError(syscall.ENETUNREACH), want: apierr.KindNoNetwork},
		{name: "network down", err: dialError(syscall.ENETDOWN), want: apierr.KindNoNetwork},
		{name: "connection refused", err: dialError(syscall.ECONNREFUSED), want: apierr.KindServerUnreachable},
		{name: "host unreachable", err: dialError(syscall.EHOSTUNREACH), want: apierr.KindServerUnreachable},
		{name: "dns failure", err: &url.Error{Op: "Get", URL: "http://nope", Err: &net.DNSError{Err: "no such host", Name: "nope"}}, want: apierr.KindUnspecifiedTransport},
		{name: "deadline", err: &url.Error{Op: "Get", URL: "http://x", Err: context.DeadlineExceeded}, want: apierr.KindUnspecifiedTransport},
		{name: "malformed response", err: &url.Error{Op: "Get", URL: "http://x", Err: errors.New(`malformed HTTP response "NOT-HTTP"`)}, want: apierr.KindSilent},
		{name: "anything else", err: errors.New("tls: handshake failure"), want: apierr.KindUnspecifiedTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyTransportError(tt.err)
			assert.Equal(t, tt.want, got.Kind)
			assert.ErrorIs(t, got, tt.err, "cause is kept")
		})
	}
}

func TestRunMapsDoFailures(t *testing.T) {
	transport := newTestTransport(doerFunc(func(*http.Request) (*http.Response, error) {
		return nil, dialError(syscall.ENETUNREACH)
	}))

	_, err := Run(transport, mustRequest(t, context.Background(), "http://localhost:8080/me"), nil, decodeText)
	assert.ErrorIs(t, err, apierr.ErrNoNetwork)
}

func TestRunServerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	rawURL := server.URL
	server.Close()

	transport := newTestTransport(&http.Client{})
	_, err := Run(transport, mustRequest(t, context.Background(), rawURL+"/me"), nil, decodeText)
	assert.ErrorIs(t, err, apierr.ErrServerUnreachable)
}

func TestRunMalformedResponseIsSilent(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_, _ = http.ReadRequest(bufio.NewReader(conn))
		_, _ = conn.Write([]byte("NOT-HTTP\r\n\r\n"))
	}()

	transport := newTestTransport(&http.Client{})
	_, err = Run(transport, mustRequest(t, context.Background(), "http://"+ln.Addr().String()+"/me"), nil, decodeText)
	assert.ErrorIs(t, err, apierr.ErrSilent)
}

func TestIsMalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "bad status line", err: errors.New(`malformed HTTP response "NOT-HTTP"`), want: true},
		{name: "bad status code", err: errors.New(`malformed HTTP status code "abc"`), want: true},
		{name: "bad version", err: errors.New(`malformed HTTP version "HTTP/x"`), want: true},
		{name: "bad header", err: errors.New(`net/http: malformed MIME header line: nope`), want: true},
		{name: "timeout", err: errors.New("context deadline exceeded"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isMalformedResponse(tt.err))
		})
	}
}

func TestRunCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	transport := newTestTransport(server.Client())
	_, err := Run(transport, mustRequest(t, ctx, server.URL+"/me"), nil, decodeText)
	assert.ErrorIs(t, err, apierr.ErrUnspecifiedTransport)
}

func TestRunStatusHandling(t *testing.T) {
	teapot := func(body []byte, status int) *apierr.Error {
		if status == http.StatusTeapot {
			return apierr.Server("short and stout")
		}
		return nil
	}

	tests := []struct {
		name     string
		status   int
		body     string
		classify ErrorClassifier
		decode   Decoder[string]
		want     string
		wantErr  error
		message  string
	}{
		{name: "2xx decoded", status: http.StatusOK, body: "hello", decode: decodeText, want: "hello"},
		{name: "204 decoded", status: http.StatusNoContent, decode: decodeText, want: ""},
		{name: "no classifier is silent", status: http.StatusUnauthorized, decode: decodeText, wantErr: apierr.ErrSilent},
		{name: "classifier recognises", status: http.StatusTeapot, classify: teapot, decode: decodeText, wantErr: apierr.ErrServer, message: "short and stout"},
		{name: "classifier declines", status: http.StatusInternalServerError, classify: teapot, decode: decodeText, wantErr: apierr.ErrSilent},
		{name: "oversized body is silent", status: http.StatusOK, body: strings.Repeat("x", maxResponseBytes+1), decode: decodeText, wantErr: apierr.ErrSilent},
		{
			name:    "decoder failure is silent",
			status:  http.StatusOK,
			body:    "x",
			decode:  func([]byte) (string, error) { return "", errors.New("bad json") },
			wantErr: apierr.ErrSilent,
		},
		{
			name:    "decoder domain error passes through",
			status:  http.StatusOK,
			body:    "x",
			decode:  func([]byte) (string, error) { return "", apierr.New(apierr.KindParse, nil) },
			wantErr: apierr.ErrParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			req := mustRequest(t, context.Background(), server.URL+"/me")
			got, err := Run(newTestTransport(server.Client()), req, tt.classify, tt.decode)

			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.message != "" {
				var e *apierr.Error
				require.ErrorAs(t, err, &e)
				assert.Equal(t, tt.message, e.Message)
			}
		})
	}
}

func TestRunInvalidStatusCodeIsSilent(t *testing.T) {
	transport := newTestTransport(doerFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: 42, Body: http.NoBody, Request: req}, nil
	}))

	_, err := Run(transport, mustRequest(t, context.Background(), "http://localhost:8080/me"), genericServerError, decodeText)
	assert.ErrorIs(t, err, apierr.ErrSilent)
}

func TestRunDoesNotModifyRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	req := mustRequest(t, context.Background(), server.URL+"/me")
	req.Header.Set("Authorization", "Bearer x")
	before := req.Header.Clone()

	_, err := Run(newTestTransport(server.Client()), req, nil, decodeText)
	require.NoError(t, err)
	assert.Equal(t, before, req.Header)
}
