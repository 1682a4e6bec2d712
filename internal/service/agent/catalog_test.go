package agent

import (
	"reflect"
	"testing"
)

func names(specs []ToolSpec) []string {
	var out []string
	for _, s := range specs {
		out = append(out, s.Name)
	}
	return out
}

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	want := []string{"GMAIL_SEND_EMAIL", "SLACK_SEND_MESSAGE", "QUICKBOOKS_CREATE_ITEM"}
	if got := names(c.Tools); !reflect.DeepEqual(got, want) {
		t.Errorf("tools = %v, want %v", got, want)
	}
	props, ok := c.Tools[0].Parameters["properties"].(map[string]any)
	if !ok || props["to_email"] == nil {
		t.Errorf("gmail parameters = %#v", c.Tools[0].Parameters)
	}
}

func TestParseCatalogRejectsUnnamed(t *testing.T) {
	if _, err := ParseCatalog([]byte("tools:\n  - description: x\n")); err == nil {
		t.Fatal("ParseCatalog() error = nil, want error")
	}
}

func TestToolkits(t *testing.T) {
	families := []string{"GMAIL", "SLACK", "QUICKBOOKS"}
	tests := []struct {
		name      string
		connected []string
		want      []string
	}{
		{"case insensitive", []string{"gmail", "Slack"}, []string{"GMAIL", "SLACK"}},
		{"unknown dropped", []string{"github", "gmail"}, []string{"GMAIL"}},
		{"dedup", []string{"gmail", "GMAIL"}, []string{"GMAIL"}},
		{"none", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Toolkits(tt.connected, families); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Toolkits() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelect(t *testing.T) {
	c, err := LoadCatalog()
	if err != nil {
		t.Fatal(err)
	}
	if got := names(c.Select([]string{"GMAIL"}, nil, 10)); !reflect.DeepEqual(got, []string{"GMAIL_SEND_EMAIL"}) {
		t.Errorf("gmail only = %v", got)
	}
	if got := c.Select(nil, nil, 10); len(got) != 0 {
		t.Errorf("no toolkits = %v", names(got))
	}

	var discovered []ToolSpec
	for i := 0; i < 15; i++ {
		discovered = append(discovered, ToolSpec{Name: "slack_action_" + string(rune('a'+i))})
	}
	discovered = append(discovered, ToolSpec{Name: "GITHUB_STAR_REPO"})
	got := c.Select([]string{"SLACK", "GMAIL"}, discovered, 10)
	if len(got) != 10 {
		t.Fatalf("len = %d, want 10", len(got))
	}
	for _, s := range got {
		if s.Name == "GITHUB_STAR_REPO" || s.Name == "GMAIL_SEND_EMAIL" {
			t.Errorf("unexpected tool %s", s.Name)
		}
	}
}

func TestParseDiscovered(t *testing.T) {
	payload := map[string]any{
		"items": []any{
			map[string]any{
				"name":        "GMAIL_SEND_EMAIL",
				"description": "send",
				"parameters": map[string]any{
					"properties": map[string]any{"to_email": map[string]any{"type": "string"}},
					"required":   []any{"to_email"},
				},
			},
			map[string]any{"slug": "SLACK_SEND_MESSAGE"},
			map[string]any{"description": "nameless"},
			"garbage",
		},
	}
	got := ParseDiscovered(payload)
	if want := []string{"GMAIL_SEND_EMAIL", "SLACK_SEND_MESSAGE"}; !reflect.DeepEqual(names(got), want) {
		t.Fatalf("names = %v, want %v", names(got), want)
	}
	if got[1].Description != "Execute SLACK_SEND_MESSAGE" {
		t.Errorf("default description = %q", got[1].Description)
	}
	if req := got[0].Parameters["required"]; !reflect.DeepEqual(req, []any{"to_email"}) {
		t.Errorf("required = %v", req)
	}
	if got := ParseDiscovered([]any{map[string]any{"name": "X"}}); len(got) != 1 {
		t.Errorf("bare array = %v", got)
	}
	if got := ParseDiscovered(nil); got != nil {
		t.Errorf("nil payload = %v", got)
	}
}
