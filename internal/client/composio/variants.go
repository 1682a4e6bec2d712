package composio

import (
	"context"
	"net/http"
	"net/url"

	"lyticalpilot/internal/model"
)

// Operation 代理操作
type Operation string

const (
	OpInitiate        Operation = "initiate"
	OpCheckConnection Operation = "check_connection"
	OpListActions     Operation = "list_actions"
	OpExecute         Operation = "execute_action"
)

// VariantKind 变体类型：SDK 调用或某一版本的 REST 调用
type VariantKind string

const (
	KindSDK    VariantKind = "sdk"
	KindRESTV2 VariantKind = "rest_v2"
	KindRESTV1 VariantKind = "rest_v1"
)

// BodyShape 请求体字段命名风格
type BodyShape string

const (
	ShapeNone     BodyShape = ""
	ShapeCamel    BodyShape = "camel"     // {userId, authConfigId}
	ShapeSnake    BodyShape = "snake"     // {user_id, auth_config_id}
	ShapeToolArgs BodyShape = "tool_args" // {user_id, tool, arguments}
)

const apiKeyHeader = "X-API-Key"

// Variant 一个候选调用。Kind 为 KindSDK 时只使用 Name 与 SDKCall，其余字段描述 REST 请求。
type Variant struct {
	Name      string
	Kind      VariantKind
	Method    string
	Path      string // 相对 BaseURL，如 /v2/actions/execute
	KeyHeader string
	Shape     BodyShape
	Body      any
	SDKCall   func(ctx context.Context, sdk SDK) (any, error)
}

func rest(name string, kind VariantKind, method, path string, shape BodyShape, body any) Variant {
	return Variant{
		Name:      name,
		Kind:      kind,
		Method:    method,
		Path:      path,
		KeyHeader: apiKeyHeader,
		Shape:     shape,
		Body:      body,
	}
}

func initiateVariants(userID, authConfigID string) []Variant {
	return []Variant{
		{
			Name: "connectedAccounts.initiate",
			Kind: KindSDK,
			SDKCall: func(ctx context.Context, sdk SDK) (any, error) {
				return sdk.InitiateConnection(ctx, userID, authConfigID)
			},
		},
		rest("rest_v2", KindRESTV2, http.MethodPost, "/v2/connectedAccounts/initiate", ShapeCamel,
			map[string]any{"userId": userID, "authConfigId": authConfigID}),
		rest("rest_v2_snake", KindRESTV2, http.MethodPost, "/v2/connected_accounts/initiate", ShapeSnake,
			map[string]any{"user_id": userID, "auth_config_id": authConfigID}),
		rest("rest_v1", KindRESTV1, http.MethodPost, "/v1/connected_accounts/initiate", ShapeSnake,
			map[string]any{"user_id": userID, "auth_config_id": authConfigID}),
	}
}

func checkConnectionVariants(connectionRequestID string) []Variant {
	id := url.PathEscape(connectionRequestID)
	return []Variant{
		{
			Name: "connectedAccounts.waitForConnection",
			Kind: KindSDK,
			SDKCall: func(ctx context.Context, sdk SDK) (any, error) {
				return sdk.WaitForConnection(ctx, connectionRequestID)
			},
		},
		rest("rest_v2", KindRESTV2, http.MethodGet, "/v2/connectedAccounts/"+id+"/status", ShapeNone, nil),
		rest("rest_v2_snake", KindRESTV2, http.MethodGet, "/v2/connected_accounts/"+id+"/status", ShapeNone, nil),
		rest("rest_v1", KindRESTV1, http.MethodGet, "/v1/connected_accounts/wait_for_connection/"+id, ShapeNone, nil),
	}
}

func listActionsVariants(userID string, tools []string) []Variant {
	return []Variant{
		{
			Name: "actions.list",
			Kind: KindSDK,
			SDKCall: func(ctx context.Context, sdk SDK) (any, error) {
				return sdk.ListActions(ctx, userID, tools)
			},
		},
		rest("rest_v2", KindRESTV2, http.MethodGet, "/v2/actions", ShapeNone, nil),
		rest("rest_v1", KindRESTV1, http.MethodPost, "/v1/tools", ShapeSnake,
			map[string]any{"user_id": userID, "tools": tools}),
	}
}

func executeVariants(userID string, data model.ActionData) []Variant {
	params := data.Parameters
	if params == nil {
		params = map[string]any{}
	}
	return []Variant{
		{
			Name: "actions.execute",
			Kind: KindSDK,
			SDKCall: func(ctx context.Context, sdk SDK) (any, error) {
				return sdk.ExecuteAction(ctx, userID, data)
			},
		},
		rest("rest_v2", KindRESTV2, http.MethodPost, "/v2/actions/execute", ShapeCamel,
			map[string]any{"userId": userID, "action": data.Action, "parameters": params}),
		rest("rest_v1", KindRESTV1, http.MethodPost, "/v1/tools/execute", ShapeToolArgs,
			map[string]any{"user_id": userID, "tool": data.Action, "arguments": params}),
	}
}
