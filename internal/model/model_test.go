package model

import (
	"errors"
	"reflect"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{name: "short", in: "abc", limit: 5, want: "abc"},
		{name: "exact", in: "abcde", limit: 5, want: "abcde"},
		{name: "cut", in: "abcdef", limit: 4, want: "abcd"},
		{name: "no limit", in: "abcdef", limit: 0, want: "abcdef"},
		{name: "multibyte boundary", in: "价格上涨", limit: 4, want: "价"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.limit); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
			}
		})
	}
}

func TestDispatchResultPayload(t *testing.T) {
	tests := []struct {
		name string
		res  DispatchResult
		want any
	}{
		{
			name: "parsed data",
			res:  DispatchResult{Success: true, Data: map[string]any{"id": "x"}},
			want: map[string]any{"id": "x"},
		},
		{
			name: "raw snippet only",
			res:  DispatchResult{Success: true, Snippet: "OK"},
			want: map[string]any{"ok": true, "raw": "OK"},
		},
		{
			name: "empty",
			res:  DispatchResult{Success: true},
			want: map[string]any{"ok": true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.res.Payload(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Payload() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDispatchErrorUnwrap(t *testing.T) {
	err := error(&DispatchError{Operation: "execute", Attempts: make([]ActionAttempt, 2)})
	if !errors.Is(err, ErrAllVariantsFailed) {
		t.Fatalf("errors.Is(%v, ErrAllVariantsFailed) = false", err)
	}
	var de *DispatchError
	if !errors.As(err, &de) || len(de.Attempts) != 2 {
		t.Fatalf("errors.As did not recover attempts: %+v", de)
	}
}

func TestIntentKinds(t *testing.T) {
	tests := []struct {
		intent Intent
		kind   IntentKind
		label  string
	}{
		{EmailIntent{}, KindGmail, "Gmail"},
		{ChatPostIntent{}, KindSlack, "Slack"},
		{LedgerEntryIntent{}, KindQuickBooks, "QuickBooks"},
		{Unrecognized{}, KindUnrecognized, ""},
	}
	for _, tt := range tests {
		if got := tt.intent.Kind(); got != tt.kind {
			t.Errorf("Kind() = %s, want %s", got, tt.kind)
		}
		if got := tt.kind.Label(); got != tt.label {
			t.Errorf("%s.Label() = %q, want %q", tt.kind, got, tt.label)
		}
	}
}
