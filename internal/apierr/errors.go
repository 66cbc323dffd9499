// Package apierr defines the closed set of user-safe errors returned by the
// scrap client. Transport and storage failures are converted into one of
// these kinds at their boundary; nothing else crosses into the callers.
package apierr

import (
	"errors"
	"fmt"
)

// Kind identifies one member of the error taxonomy.
type Kind int

const (
	// KindSilent carries no actionable detail and must not be shown verbatim.
	KindSilent Kind = iota
	KindCouldNotStoreToken
	KindMissingToken
	KindNoNetwork
	KindParse
	KindServer
	KindServerUnreachable
	KindUnspecifiedTransport
)

// GenericServerMessage is used when the server answered with an error body
// that the call site does not recognise.
const GenericServerMessage = "The server could not complete the request"

var kindNames = map[Kind]string{
	KindSilent:               "silent",
	KindCouldNotStoreToken:   "could_not_store_token",
	KindMissingToken:         "missing_token",
	KindNoNetwork:            "no_network",
	KindParse:                "parse",
	KindServer:               "server",
	KindServerUnreachable:    "server_unreachable",
	KindUnspecifiedTransport: "unspecified_transport_error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a domain error. Message is only populated for KindServer and is
// server-authored text. Err keeps the low-level cause for debug logging.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return e.Kind.String()
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports kind equality so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrSilent               = &Error{Kind: KindSilent}
	ErrCouldNotStoreToken   = &Error{Kind: KindCouldNotStoreToken}
	ErrMissingToken         = &Error{Kind: KindMissingToken}
	ErrNoNetwork            = &Error{Kind: KindNoNetwork}
	ErrParse                = &Error{Kind: KindParse}
	ErrServer               = &Error{Kind: KindServer}
	ErrServerUnreachable    = &Error{Kind: KindServerUnreachable}
	ErrUnspecifiedTransport = &Error{Kind: KindUnspecifiedTransport}
)

// New returns a fresh error of the given kind wrapping cause.
func New(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Err: cause}
}

// Server returns a KindServer error carrying a server-authored message.
func Server(message string) *Error {
	return &Error{Kind: KindServer, Message: message}
}

// GenericServer returns the server error used for unrecognised error bodies.
func GenericServer() *Error {
	return Server(GenericServerMessage)
}

// Silent wraps cause as a KindSilent error.
func Silent(cause error) *Error {
	return New(KindSilent, cause)
}

// From converts any error into a domain error. Domain errors pass through
// unchanged; anything else becomes KindSilent.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Silent(err)
}

// KindOf returns the kind of err, treating foreign errors as KindSilent.
func KindOf(err error) Kind {
	return From(err).Kind
}
