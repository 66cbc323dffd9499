// Package payload builds and validates the JSON documents sent to the
// register endpoint. The server owns the registration shape; the embedded
// schema only catches obviously broken input before it goes on the wire.
package payload

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "registration.schema.json"

//go:embed registration.schema.json
var registrationSchema []byte

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// Registration is the default registration document built from CLI flags.
type Registration struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LogValue keeps the password out of structured logs.
func (r Registration) LogValue() slog.Value {
	return slog.GroupValue(slog.Bool("has_name", r.Name != ""))
}

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(registrationSchema))
		if err != nil {
			compileErr = fmt.Errorf("failed to parse registration schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		c.AssertFormat()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("failed to add registration schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Validate checks a raw JSON document against the registration schema.
func Validate(raw []byte) error {
	sch, err := schema()
	if err != nil {
		return err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("registration payload is not valid JSON: %w", err)
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("invalid registration payload: %w", err)
	}
	return nil
}

// FromRegistration encodes r and validates the result.
func FromRegistration(r Registration) (json.RawMessage, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal registration: %w", err)
	}
	if err := Validate(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// FromFile reads a registration document from path and validates it.
func FromFile(path string) (json.RawMessage, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload %s: %w", path, err)
	}
	if err := Validate(raw); err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}
