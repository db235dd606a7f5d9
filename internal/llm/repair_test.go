package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KigoJomo/privacy-peek/internal/model"
)

func TestDecodeClausesStrict(t *testing.T) {
	content := `[
		{"clause": "We collect your email address.", "relevance": 0.9},
		{"clause": "We may share data with partners.", "relevance": 0.7}
	]`

	clauses := DecodeClauses(content)

	assert.Equal(t, []model.Clause{
		{Text: "We collect your email address.", Relevance: 0.9},
		{Text: "We may share data with partners.", Relevance: 0.7},
	}, clauses)
}

func TestDecodeClausesFenced(t *testing.T) {
	content := "```json\n[{\"clause\": \"No ads.\", \"relevance\": 0.5}]\n```"
	clauses := DecodeClauses(content)
	assert.Equal(t, []model.Clause{{Text: "No ads.", Relevance: 0.5}}, clauses)
}

func TestDecodeClausesRepairsRawNewlines(t *testing.T) {
	// A raw newline inside a string literal is invalid JSON; the repair
	// pass escapes it instead of discarding the payload.
	content := "[{\"clause\": \"line one\nline two\", \"relevance\": 0.6}]"

	clauses := DecodeClauses(content)

	assert.Len(t, clauses, 1)
	assert.Equal(t, "line one\nline two", clauses[0].Text)
	assert.Equal(t, 0.6, clauses[0].Relevance)
}

func TestDecodeClausesDropsMalformedEntries(t *testing.T) {
	content := `[
		{"clause": "", "relevance": 0.9},
		{"clause": "valid", "relevance": 0.4},
		{"clause": "out of range", "relevance": 1.5}
	]`

	clauses := DecodeClauses(content)

	assert.Equal(t, []model.Clause{{Text: "valid", Relevance: 0.4}}, clauses)
}

func TestDecodeClausesGarbageDegradesToEmpty(t *testing.T) {
	assert.Empty(t, DecodeClauses("I could not find any clauses, sorry."))
	assert.Empty(t, DecodeClauses("[{broken"))
	assert.Empty(t, DecodeClauses(""))
}

func TestRepairJSONTextLeavesValidPayloadsAlone(t *testing.T) {
	payload := `[{"clause": "already\nescaped", "relevance": 0.5}]`
	assert.Equal(t, payload, repairJSONText(payload))
}
