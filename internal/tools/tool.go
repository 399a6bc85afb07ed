package tools

import (
	"context"
	"fmt"
	"strconv"
)

// ParamKind is the JSON type of a tool argument.
type ParamKind string

const (
	KindString  ParamKind = "string"
	KindBoolean ParamKind = "boolean"
)

// Param describes one tool argument.
type Param struct {
	Name        string    `json:"name"`
	Kind        ParamKind `json:"type"`
	Description string    `json:"description,omitempty"`
	Required    bool      `json:"required"`
}

// Handler runs a tool. The returned value is JSON-encoded into the result.
type Handler func(ctx context.Context, args Args) (any, error)

// Tool is a named operation exposed to the agent host.
type Tool struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Params      []Param `json:"params"`
	Handler     Handler `json:"-"`
}

// UnknownToolError is returned for calls to a tool that is not registered.
type UnknownToolError struct {
	Name string
}

func (e UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

// InvalidArgumentError reports a missing or ill-typed argument.
type InvalidArgumentError struct {
	Name   string
	Reason string
}

func (e InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Name, e.Reason)
}

// Args are the decoded JSON arguments of a call.
type Args map[string]any

// String returns a required string argument. Whole JSON numbers are accepted
// and rendered without a fraction.
func (a Args) String(name string) (string, error) {
	value, ok := a[name]
	if !ok || value == nil {
		return "", InvalidArgumentError{Name: name, Reason: "required"}
	}
	switch v := value.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	default:
		return "", InvalidArgumentError{Name: name, Reason: fmt.Sprintf("expected string, got %T", value)}
	}
}

// OptionalString returns a string argument or "" when it is absent.
func (a Args) OptionalString(name string) (string, error) {
	if value, ok := a[name]; !ok || value == nil {
		return "", nil
	}
	return a.String(name)
}

// Bool returns a required boolean argument. "true"/"false" strings are
// accepted as well.
func (a Args) Bool(name string) (bool, error) {
	value, ok := a[name]
	if !ok || value == nil {
		return false, InvalidArgumentError{Name: name, Reason: "required"}
	}
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return false, InvalidArgumentError{Name: name, Reason: fmt.Sprintf("expected boolean, got %q", v)}
		}
		return parsed, nil
	default:
		return false, InvalidArgumentError{Name: name, Reason: fmt.Sprintf("expected boolean, got %T", value)}
	}
}
