package llm

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/KigoJomo/privacy-peek/internal/model"
)

// DecodeClauses decodes model output into clause records using a
// best-effort strategy: strict decode first, then one bounded repair
// pass, then the documented empty fallback. It never returns an error;
// a malformed payload yields an empty slice so a single bad
// (document, category) pair cannot abort the rest of an extraction.
func DecodeClauses(content string) []model.Clause {
	content = cleanMarkdownWrapper(content)

	payload := extractJSONArray(content)
	if payload == "" {
		slog.Warn("no JSON array found in extraction response")
		return nil
	}

	if clauses, ok := decodeClauseArray(payload); ok {
		return clauses
	}

	// One bounded repair pass for near-valid output.
	repaired := repairJSONText(payload)
	if clauses, ok := decodeClauseArray(repaired); ok {
		slog.Debug("extraction response decoded after repair pass")
		return clauses
	}

	slog.Warn("extraction response unparseable after repair, degrading to empty")
	return nil
}

// decodeClauseArray attempts a strict decode of a clause array,
// dropping entries that do not fit the clause shape.
func decodeClauseArray(payload string) ([]model.Clause, bool) {
	var raw []struct {
		Text      string  `json:"clause"`
		Relevance float64 `json:"relevance"`
	}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, false
	}

	clauses := make([]model.Clause, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		if r.Relevance < 0 || r.Relevance > 1 {
			continue
		}
		clauses = append(clauses, model.Clause{Text: r.Text, Relevance: r.Relevance})
	}
	return clauses, true
}

// repairJSONText escapes raw control characters that models commonly
// leave inside string literals (newlines in quoted clause text being
// the usual offender).
func repairJSONText(payload string) string {
	var b strings.Builder
	b.Grow(len(payload))

	inString := false
	escaped := false
	for _, r := range payload {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}

		switch r {
		case '\\':
			b.WriteRune(r)
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
			b.WriteRune(r)
		case '\n':
			if inString {
				b.WriteString(`\n`)
			} else {
				b.WriteRune(r)
			}
		case '\r':
			if inString {
				b.WriteString(`\r`)
			} else {
				b.WriteRune(r)
			}
		case '\t':
			if inString {
				b.WriteString(`\t`)
			} else {
				b.WriteRune(r)
			}
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}
