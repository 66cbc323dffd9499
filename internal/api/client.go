// Package api talks to the scrap HTTP service. It sequences register, login
// and verify on top of Transport and auth.Tokens, and owns the signal that
// tells the rest of the program whether a credential is persisted.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/scrap-app/cli/internal/apierr"
	"github.com/scrap-app/cli/internal/auth"
	"github.com/scrap-app/cli/internal/signal"
)

const (
	DefaultBaseURL   = "http://localhost:8080"
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "scrap-cli/dev"
)

// Options configures a Client. Zero fields fall back to defaults.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	UserAgent  string
	HTTPClient Doer
	Logger     *slog.Logger
}

// Client is the authentication orchestrator. It is safe for concurrent use;
// concurrent logins are not serialised and the last completed store write
// decides the final credential.
type Client struct {
	baseURL   *url.URL
	userAgent string
	transport *Transport
	tokens    *auth.Tokens
	authed    *signal.Bool
	logger    *slog.Logger

	// refreshMu pairs each store read with its signal update so a stale
	// read can never overwrite a newer one.
	refreshMu sync.Mutex
}

// NewClient builds a Client and seeds its auth signal from the store.
func NewClient(opts Options, tokens *auth.Tokens) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	baseURL, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", opts.BaseURL, err)
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.HTTPClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		opts.HTTPClient = &http.Client{Timeout: timeout}
	}

	_, present := tokens.Current()

	return &Client{
		baseURL:   baseURL,
		userAgent: opts.UserAgent,
		transport: NewTransport(opts.HTTPClient, opts.Logger),
		tokens:    tokens,
		authed:    signal.New(present),
		logger:    opts.Logger.With("component", "api"),
	}, nil
}

// AuthSignal returns the observable "a credential is persisted" flag.
func (c *Client) AuthSignal() *signal.Bool {
	return c.authed
}

// Authenticated returns the latest value of the auth signal.
func (c *Client) Authenticated() bool {
	return c.authed.Value()
}

// Login exchanges the candidate's email and password for a credential and
// persists it. A successful response that cannot be stored fails with
// KindCouldNotStoreToken.
func (c *Client) Login(ctx context.Context, candidate auth.LoginCandidate) (auth.Credential, error) {
	req, err := c.newRequest(ctx, http.MethodPost, pathLogin, nil)
	if err != nil {
		return auth.Credential{}, err
	}
	req.Header.Set("Authorization", candidate.BasicAuthorization())

	cred, err := Run(c.transport, req, genericServerError, decodeCredential)
	if err != nil {
		c.logger.Info("login failed", "kind", apierr.KindOf(err))
		return auth.Credential{}, err
	}

	if err := c.persist(cred); err != nil {
		return auth.Credential{}, err
	}
	c.logger.Info("login succeeded")
	return cred, nil
}

// Register sends candidate as JSON, persists the returned credential and then
// verifies it, returning the verify body.
func (c *Client) Register(ctx context.Context, candidate any) (string, error) {
	body, err := json.Marshal(candidate)
	if err != nil {
		return "", apierr.New(apierr.KindParse, err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, pathRegister, body)
	if err != nil {
		return "", err
	}

	cred, err := Run(c.transport, req, registerServerError, decodeCredential)
	if err != nil {
		c.logger.Info("registration failed", "kind", apierr.KindOf(err))
		return "", err
	}

	if err := c.persist(cred); err != nil {
		return "", err
	}
	c.logger.Info("registration succeeded")

	return c.Verify(ctx)
}

// Verify calls the authenticated /me endpoint with the stored credential and
// returns the raw body. Without a stored credential it fails with
// KindMissingToken and sends nothing.
func (c *Client) Verify(ctx context.Context) (string, error) {
	cred, ok := c.tokens.Current()
	if !ok {
		return "", apierr.New(apierr.KindMissingToken, nil)
	}

	req, err := c.newRequest(ctx, http.MethodGet, pathMe, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", cred.BearerAuthorization())

	return Run(c.transport, req, nil, decodeText)
}

// ClearCredential removes the stored credential and refreshes the signal.
// Store failures are logged by Tokens and not reported.
func (c *Client) ClearCredential() {
	c.tokens.Clear()
	c.refreshSignal()
	c.logger.Info("credential cleared")
}

// persist saves cred and refreshes the signal from the store, whether or not
// the save succeeded.
func (c *Client) persist(cred auth.Credential) error {
	_, err := c.tokens.Save(cred)
	c.refreshSignal()
	if err != nil {
		return apierr.New(apierr.KindCouldNotStoreToken, err)
	}
	return nil
}

func (c *Client) refreshSignal() {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	_, present := c.tokens.Current()
	c.authed.Set(present)
}
