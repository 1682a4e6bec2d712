package config

import (
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("COMPOSIO_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("LLM_API_KEY", "")

	cfg, err := Parse([]byte("server:\n  port: 9000\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Composio.SnippetLimit != 400 {
		t.Errorf("Composio.SnippetLimit = %d, want 400", cfg.Composio.SnippetLimit)
	}
	if cfg.Agent.MaxTools != 10 {
		t.Errorf("Agent.MaxTools = %d, want 10", cfg.Agent.MaxTools)
	}
	if len(cfg.Agent.Families) != 3 {
		t.Errorf("Agent.Families = %v, want 3 families", cfg.Agent.Families)
	}
	if cfg.Composio.APIKey != "" || cfg.LLM.APIKey != "" {
		t.Errorf("secrets must not be defaulted, got composio=%q llm=%q", cfg.Composio.APIKey, cfg.LLM.APIKey)
	}
}

func TestParseDurationsAndEnvOverride(t *testing.T) {
	t.Setenv("COMPOSIO_API_KEY", "ck_env")
	t.Setenv("LLM_API_KEY", "llm_env")
	t.Setenv("OPENAI_API_KEY", "")

	data := []byte(`
composio:
  api_key: from_file
  timeout: 5s
llm:
  timeout: 1m
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Composio.APIKey != "ck_env" {
		t.Errorf("Composio.APIKey = %q, want ck_env", cfg.Composio.APIKey)
	}
	if cfg.LLM.APIKey != "llm_env" {
		t.Errorf("LLM.APIKey = %q, want llm_env", cfg.LLM.APIKey)
	}
	if cfg.Composio.Timeout != 5*time.Second {
		t.Errorf("Composio.Timeout = %v, want 5s", cfg.Composio.Timeout)
	}
	if cfg.LLM.Timeout != time.Minute {
		t.Errorf("LLM.Timeout = %v, want 1m", cfg.LLM.Timeout)
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("server: [")); err == nil {
		t.Fatal("Parse() expected error for malformed yaml")
	}
}
