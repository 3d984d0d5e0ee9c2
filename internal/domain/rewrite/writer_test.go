package rewrite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExecutive(t *testing.T) {
	raw := `{"executive_summary": "ملخص تنفيذي", "executive_recommendations": ["توصية أولى", "توصية ثانية"]}`

	exec, err := parseExecutive(raw)
	require.NoError(t, err)
	assert.Equal(t, "ملخص تنفيذي", exec.Summary)
	assert.Equal(t, []string{"توصية أولى", "توصية ثانية"}, exec.Recommendations)
}

func TestParseExecutiveStripsFences(t *testing.T) {
	raw := "```json\n{\"executive_summary\": \"ملخص\", \"executive_recommendations\": [\"توصية\"]}\n```"

	exec, err := parseExecutive(raw)
	require.NoError(t, err)
	assert.Equal(t, "ملخص", exec.Summary)
}

func TestParseExecutiveRejectsBadResponses(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "عذراً، لا أستطيع"},
		{name: "missing summary key", raw: `{"executive_recommendations": ["x"]}`},
		{name: "missing recommendations key", raw: `{"executive_summary": "x"}`},
		{name: "empty summary", raw: `{"executive_summary": "  ", "executive_recommendations": ["x"]}`},
		{name: "empty recommendations", raw: `{"executive_summary": "x", "executive_recommendations": []}`},
		{name: "wrong types", raw: `{"executive_summary": 5, "executive_recommendations": "x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseExecutive(tt.raw)
			assert.Error(t, err)
		})
	}
}

func TestDisabledWriterReturnsNil(t *testing.T) {
	var w Writer = Disabled{}
	assert.Nil(t, w.Rewrite(context.Background(), Payload{Summary: "x"}))
}
