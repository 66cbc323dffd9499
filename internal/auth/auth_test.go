package auth

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBasicAuthorization(t *testing.T) {
	c := LoginCandidate{Email: "ada@example.com", Password: "s3cret"}

	// base64("ada@example.com:s3cret")
	assert.Equal(t, "Basic YWRhQGV4YW1wbGUuY29tOnMzY3JldA==", c.BasicAuthorization())
}

func TestBearerAuthorization(t *testing.T) {
	c := Credential{Value: "bhAIuuJDLOeiNuAHHhwHHA=="}

	assert.Equal(t, "Bearer bhAIuuJDLOeiNuAHHhwHHA==", c.BearerAuthorization())
	assert.Equal(t, "bhAIuuJDLOeiNuAHHhwHHA==", c.String())
}

func TestCredentialEquality(t *testing.T) {
	assert.Equal(t, Credential{Value: "a"}, Credential{Value: "a"})
	assert.NotEqual(t, Credential{Value: "a"}, Credential{Value: "b"})
}

func TestSecretsStayOutOfLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("login",
		"candidate", LoginCandidate{Email: "ada@example.com", Password: "s3cret"},
		"credential", Credential{Value: "bhAIuuJDLOeiNuAHHhwHHA=="},
	)

	out := buf.String()
	assert.NotContains(t, out, "s3cret")
	assert.NotContains(t, out, "ada@example.com")
	assert.NotContains(t, out, "bhAIuuJDLOeiNuAHHhwHHA==")
	assert.Contains(t, out, "bhAI...HA==")
	assert.NotContains(t, fmt.Sprintf("%v", LoginCandidate{Password: "s3cret"}), "s3cret")
}

func TestMask(t *testing.T) {
	assert.Equal(t, "abcd...mnop", Mask("abcdefghijklmnop"))
	assert.Equal(t, "****", Mask("short"))
}
