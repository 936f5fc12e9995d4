package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when content cannot be parsed as JSON,
// either directly, from a markdown code fence, or from its outermost braces.
var ErrParseFailed = errors.New("failed to parse response")

var jsonBlockRegex = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")

// Parse attempts to unmarshal content as JSON into T.
// Candidates are tried in order: the trimmed content, the body of the first
// markdown code fence, and the span from the first '{' to the last '}'.
// Returns ErrParseFailed if every candidate fails.
func Parse[T any](content string) (T, error) {
	var result T

	for _, candidate := range candidates(content) {
		var v T
		if err := json.Unmarshal([]byte(candidate), &v); err == nil {
			return v, nil
		}
	}

	return result, fmt.Errorf("%w: %s", ErrParseFailed, truncate(content, 200))
}

// ParseObject parses content as a JSON object. A successful parse of any
// other JSON value (array, string, null) is reported as ErrParseFailed.
func ParseObject(content string) (Object, error) {
	obj, err := Parse[map[string]any](content)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: not an object", ErrParseFailed)
	}
	return Object(obj), nil
}

func candidates(content string) []string {
	content = strings.TrimSpace(content)
	out := []string{content}

	if matches := jsonBlockRegex.FindStringSubmatch(content); len(matches) >= 2 {
		out = append(out, strings.TrimSpace(matches[1]))
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		out = append(out, content[start:end+1])
	}

	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
