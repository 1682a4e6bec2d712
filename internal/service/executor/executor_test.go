package executor

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"lyticalpilot/internal/model"
)

type fakeBroker struct {
	calls []model.ActionData
	user  string
	res   *model.DispatchResult
	err   error
}

func (f *fakeBroker) Execute(_ context.Context, userID string, data model.ActionData) (*model.DispatchResult, error) {
	f.calls = append(f.calls, data)
	f.user = userID
	return f.res, f.err
}

func TestActionFor(t *testing.T) {
	tests := []struct {
		name    string
		intent  model.Intent
		want    model.ActionData
		wantErr error
	}{
		{
			name:   "email",
			intent: model.EmailIntent{To: "a@b.co", Subject: "S", Body: "B"},
			want: model.ActionData{Action: ActionSendEmail, Parameters: map[string]any{
				"to_email": "a@b.co", "subject": "S", "body": "B",
			}},
		},
		{
			name:   "slack",
			intent: model.ChatPostIntent{Channel: "#ops", Text: "hi"},
			want: model.ActionData{Action: ActionSendMessage, Parameters: map[string]any{
				"channel": "#ops", "text": "hi",
			}},
		},
		{
			name:   "quickbooks",
			intent: model.LedgerEntryIntent{Amount: decimal.RequireFromString("12.50"), Memo: "lunch"},
			want: model.ActionData{Action: ActionCreateItem, Parameters: map[string]any{
				"name": "Investment", "description": "lunch", "unit_price": json.Number("12.5"),
			}},
		},
		{name: "email missing recipient", intent: model.EmailIntent{Subject: "S"}, wantErr: model.ErrMissingField},
		{name: "slack missing channel", intent: model.ChatPostIntent{Text: "x"}, wantErr: model.ErrMissingField},
		{
			name:   "zero amount",
			intent: model.LedgerEntryIntent{Memo: "m"},
			want: model.ActionData{Action: ActionCreateItem, Parameters: map[string]any{
				"name": "Investment", "description": "m", "unit_price": json.Number("0"),
			}},
		},
		{
			name:   "negative amount",
			intent: model.LedgerEntryIntent{Amount: decimal.RequireFromString("-25"), Memo: "refund"},
			want: model.ActionData{Action: ActionCreateItem, Parameters: map[string]any{
				"name": "Investment", "description": "refund", "unit_price": json.Number("-25"),
			}},
		},
		{name: "unrecognized", intent: model.Unrecognized{}, wantErr: model.ErrUnrecognizedCommand},
		{name: "nil", intent: nil, wantErr: model.ErrUnrecognizedCommand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ActionFor(tt.intent)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ActionFor() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ActionFor() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ActionFor() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestUnitPriceEncodesAsNumber(t *testing.T) {
	data, err := ActionFor(model.LedgerEntryIntent{Amount: decimal.RequireFromString("250"), Memo: "m"})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := json.Marshal(data.Parameters)
	if want := `{"description":"m","name":"Investment","unit_price":250}`; string(b) != want {
		t.Errorf("json = %s, want %s", b, want)
	}
}

func TestExecute(t *testing.T) {
	broker := &fakeBroker{res: &model.DispatchResult{Success: true, Data: map[string]any{"id": "1"}}}
	e := NewExecutor(broker)

	data, res, err := e.Execute(context.Background(), "me@x.io", model.ChatPostIntent{Channel: "#ops", Text: "hi"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if data.Action != ActionSendMessage || !res.Success {
		t.Errorf("data = %+v res = %+v", data, res)
	}
	if broker.user != "me@x.io" || len(broker.calls) != 1 {
		t.Errorf("broker user = %q calls = %d", broker.user, len(broker.calls))
	}
}

func TestExecuteRejectsBeforeDispatch(t *testing.T) {
	broker := &fakeBroker{}
	e := NewExecutor(broker)

	if _, _, err := e.Execute(context.Background(), "", model.EmailIntent{To: "a@b.co"}); !errors.Is(err, model.ErrMissingField) {
		t.Errorf("missing user error = %v", err)
	}
	if _, _, err := e.Execute(context.Background(), "me@x.io", model.Unrecognized{}); !errors.Is(err, model.ErrUnrecognizedCommand) {
		t.Errorf("unrecognized error = %v", err)
	}
	if _, err := e.ExecuteAction(context.Background(), "me@x.io", model.ActionData{}); !errors.Is(err, model.ErrInvalidAction) {
		t.Errorf("empty action error = %v", err)
	}
	if len(broker.calls) != 0 {
		t.Errorf("broker called %d times, want 0", len(broker.calls))
	}
}

func TestExecuteDispatchFailure(t *testing.T) {
	attempts := []model.ActionAttempt{{Variant: "rest_v2", Status: 500}, {Variant: "rest_v1", Status: 404}}
	broker := &fakeBroker{
		res: &model.DispatchResult{Attempts: attempts},
		err: &model.DispatchError{Operation: "execute_action", Attempts: attempts},
	}
	_, res, err := NewExecutor(broker).Execute(context.Background(), "me@x.io", model.EmailIntent{To: "a@b.co"})
	if !errors.Is(err, model.ErrAllVariantsFailed) {
		t.Fatalf("error = %v, want ErrAllVariantsFailed", err)
	}
	if res == nil || len(res.Attempts) != 2 {
		t.Errorf("res = %+v", res)
	}
}
