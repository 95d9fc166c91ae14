package drive

import (
	"context"
	"testing"
)

func clearAuthEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GOOGLE_SERVICE_ACCOUNT_JSON",
		"GOOGLE_SERVICE_ACCOUNT_FILE",
		"GOOGLE_APPLICATION_CREDENTIALS",
		"GOOGLE_OAUTH_TOKEN_FILE",
		"GOOGLE_OAUTH_CLIENT_JSON",
		"GOOGLE_OAUTH_CLIENT_FILE",
	} {
		t.Setenv(k, "")
	}
}

func TestNewFromEnvRequiresCredentials(t *testing.T) {
	clearAuthEnv(t)
	if _, err := NewFromEnv(context.Background()); err == nil {
		t.Fatalf("expected error without credentials")
	}
}

func TestNewFromEnvTokenPathRequiresClientConfig(t *testing.T) {
	clearAuthEnv(t)
	t.Setenv("GOOGLE_OAUTH_TOKEN_FILE", "/nonexistent/token.json")
	if _, err := NewFromEnv(context.Background()); err == nil {
		t.Fatalf("expected error without oauth client config")
	}
}

func TestUninitializedClientRefusesIO(t *testing.T) {
	var c Client
	if _, err := c.LoadAll(context.Background()); err == nil {
		t.Fatalf("expected error from zero client")
	}
	if err := c.SaveAll(context.Background(), nil); err == nil {
		t.Fatalf("expected error from zero client")
	}
}
