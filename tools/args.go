package tools

import "fmt"

// Argument coercion helpers. Model-produced inputs arrive as generic JSON,
// so numbers are float64 and anything may be missing or the wrong type.

func stringArg(input map[string]any, key string) (string, bool) {
	v, ok := input[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func intArg(input map[string]any, key string) (int, bool) {
	switch v := input[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func floatArg(input map[string]any, key string) (float64, bool) {
	switch v := input[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func stringsArg(input map[string]any, key string) ([]string, bool) {
	raw, ok := input[key].([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func errMissing(key string) string {
	return fmt.Sprintf("Error: Missing or invalid required field '%s'.", key)
}

func errUserNotFound(userID string) string {
	return fmt.Sprintf("Error: User with ID '%s' not found.", userID)
}
