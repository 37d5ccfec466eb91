package ai

import "strings"

// ExtractJSONArray pulls the first balanced top-level [...] substring out of
// model output. Generation collaborators routinely wrap the requested JSON
// array in prose; callers parse the extracted slice and treat failure as an
// empty result. Returns "" when no balanced array exists.
func ExtractJSONArray(raw string) string {
	start := strings.IndexByte(raw, '[')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		ch := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return raw[start : i+1]
			}
		}
	}
	return ""
}
