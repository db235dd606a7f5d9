package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanMarkdownWrapper(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare json", `{"score": 7}`, `{"score": 7}`},
		{"fenced json", "```json\n{\"score\": 7}\n```", `{"score": 7}`},
		{"fenced no language", "```\n{\"score\": 7}\n```", `{"score": 7}`},
		{"surrounding whitespace", "  \n{\"score\": 7}\n  ", `{"score": 7}`},
		{"fenced array", "```json\n[1, 2]\n```", `[1, 2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanMarkdownWrapper(tt.input))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	assert.Equal(t, `{"a": 1}`, extractJSONObject(`Here you go: {"a": 1} hope that helps!`))
	assert.Equal(t, "", extractJSONObject("no json here"))
	assert.Equal(t, "", extractJSONObject("} backwards {"))
}

func TestExtractJSONArray(t *testing.T) {
	assert.Equal(t, `[{"a": 1}]`, extractJSONArray(`result: [{"a": 1}] done`))
	assert.Equal(t, "", extractJSONArray("no array"))
	assert.Equal(t, "", extractJSONArray("] backwards ["))
}
