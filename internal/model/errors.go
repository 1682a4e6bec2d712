package model

import "errors"

var (
	ErrMissingCredential   = errors.New("credential not configured")
	ErrMissingField        = errors.New("required field missing")
	ErrAllVariantsFailed   = errors.New("all broker endpoint variants failed")
	ErrUnrecognizedCommand = errors.New("command not recognized")
	ErrInvalidAction       = errors.New("invalid action")
	ErrLLMUnavailable      = errors.New("llm service unavailable")
	ErrUpstream            = errors.New("upstream request failed")
)
