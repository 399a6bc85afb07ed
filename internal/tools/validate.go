package tools

import (
	"fmt"
	"regexp"
)

var toolNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]+$`)

// ValidateTools enforces basic tool contract invariants at startup.
func ValidateTools(tools []Tool) error {
	seen := make(map[string]bool)
	for _, tool := range tools {
		if tool.Name == "" {
			return fmt.Errorf("tool name is empty")
		}
		if !toolNamePattern.MatchString(tool.Name) {
			return fmt.Errorf("tool name %q does not match %s", tool.Name, toolNamePattern.String())
		}
		if seen[tool.Name] {
			return fmt.Errorf("duplicate tool name: %s", tool.Name)
		}
		seen[tool.Name] = true

		if tool.Handler == nil {
			return fmt.Errorf("tool %s has no handler", tool.Name)
		}
		params := make(map[string]bool)
		for _, param := range tool.Params {
			if param.Name == "" {
				return fmt.Errorf("tool %s has a parameter without a name", tool.Name)
			}
			if params[param.Name] {
				return fmt.Errorf("tool %s declares parameter %s twice", tool.Name, param.Name)
			}
			params[param.Name] = true
			switch param.Kind {
			case KindString, KindBoolean:
			default:
				return fmt.Errorf("tool %s parameter %s has unsupported kind %q", tool.Name, param.Name, param.Kind)
			}
		}
	}
	return nil
}
