package internal

import (
	"strings"
	"testing"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", DevUserID: 1}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", DevUserID: 1}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_DisabledModeMissingDevUser(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("disabled mode without dev user id should fail")
	}
	if !strings.Contains(err.Error(), "dev_user_id") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_JWTModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "jwt", Secret: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("jwt mode with secret should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("jwt mode should be enabled")
	}
}

func TestAuthConfig_JWTModeEmptySecret(t *testing.T) {
	cfg := AuthConfig{Mode: "jwt", Secret: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("jwt mode with empty secret should fail")
	}
	if !strings.Contains(err.Error(), "secret is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Secret: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestApplicationConfig_LogFormat(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.App.LogFormat = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid log format should fail validation")
	}

	cfg.App.LogFormat = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty log format should default: %v", err)
	}
	if cfg.App.LogFormat != LogFormatJSON {
		t.Errorf("log format = %q, want %q", cfg.App.LogFormat, LogFormatJSON)
	}
}

func TestMCPConfig_RequiresUser(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.MCP.UserID = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("mcp config without user id should fail")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "jwt"
	cfg.Auth.Secret = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}
