package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterRelevant(t *testing.T) {
	clauses := []Clause{
		{Text: "a", Relevance: 0.9},
		{Text: "b", Relevance: 0.29},
		{Text: "c", Relevance: 0.3},
		{Text: "d", Relevance: 0.0},
	}

	filtered := FilterRelevant(clauses)

	// Threshold is inclusive; order is preserved.
	assert.Equal(t, []Clause{
		{Text: "a", Relevance: 0.9},
		{Text: "c", Relevance: 0.3},
	}, filtered)
}

func TestFilterRelevantEmpty(t *testing.T) {
	assert.Empty(t, FilterRelevant(nil))
	assert.Empty(t, FilterRelevant([]Clause{{Text: "a", Relevance: 0.1}}))
}

func TestClauseTexts(t *testing.T) {
	clauses := []Clause{
		{Text: "first", Relevance: 0.2},
		{Text: "second", Relevance: 0.8},
	}
	assert.Equal(t, []string{"first", "second"}, ClauseTexts(clauses))
}

func TestCategoryScoreValidate(t *testing.T) {
	valid := CategoryScore{CategoryName: "Data Sharing", Score: 7, Reasoning: "ok"}
	assert.NoError(t, valid.Validate())

	// Zero with empty reasoning is the insufficient-evidence shape.
	zero := CategoryScore{CategoryName: "Data Sharing", Score: 0}
	assert.NoError(t, zero.Validate())

	tooHigh := CategoryScore{CategoryName: "Data Sharing", Score: 10.5}
	assert.Error(t, tooHigh.Validate())

	negative := CategoryScore{CategoryName: "Data Sharing", Score: -1}
	assert.Error(t, negative.Validate())

	unnamed := CategoryScore{Score: 5}
	assert.Error(t, unnamed.Validate())
}
