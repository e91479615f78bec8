package llm

import "strings"

// CleanJSONBlock extracts the JSON document from a model response.
// LLMs often wrap JSON in ```json ... ``` blocks or surround it with prose even when
// instructed not to.
func CleanJSONBlock(text string) string {
	text = StripCodeFence(text)

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return text
	}
	var doc string
	if text[start] == '{' {
		doc = extractJSONObject(text[start:])
	} else {
		doc = extractJSONArray(text[start:])
	}
	if doc == "" {
		return strings.TrimSpace(text[start:])
	}
	return doc
}

// StripCodeFence removes a surrounding ``` fence (with optional language tag) from text.
// Text without a leading fence is returned trimmed.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	// Skip potential language identifier on first line
	if idx := strings.Index(text, "\n"); idx >= 0 {
		firstLine := text[:idx]
		if len(firstLine) < 20 && !strings.ContainsAny(firstLine, " {[") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// extractJSONObject returns the balanced {...} prefix of s, or "" if s does not start
// with one.
func extractJSONObject(s string) string {
	return extractBalanced(s, '{', '}')
}

// extractJSONArray returns the balanced [...] prefix of s, or "" if s does not start
// with one.
func extractJSONArray(s string) string {
	return extractBalanced(s, '[', ']')
}

func extractBalanced(s string, open, close byte) string {
	if s == "" || s[0] != open {
		return ""
	}

	depth := 0
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
