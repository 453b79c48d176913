package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already normalized", "hello-world", "hello-world"},
		{"punctuation collapsed", "Hello, World!!", "hello-world"},
		{"multi space and edge hyphens", "  --Multi   Space--  ", "multi-space"},
		{"uppercase", "MyPost", "mypost"},
		{"digits kept", "top 10 tools", "top-10-tools"},
		{"unicode stripped", "café culture", "caf-culture"},
		{"empty", "", ""},
		{"only punctuation", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.input)
			assert.Equal(t, tt.want, got)
			// Normalization must be idempotent
			assert.Equal(t, got, Slugify(got))
		})
	}
}

func TestPostPatch_AbsentFieldsStayNil(t *testing.T) {
	var patch PostPatch
	require.NoError(t, json.Unmarshal([]byte(`{"title":"New Title","published":false}`), &patch))

	require.NotNil(t, patch.Title)
	assert.Equal(t, "New Title", *patch.Title)
	require.NotNil(t, patch.Published)
	assert.False(t, *patch.Published)

	// Fields absent from the payload must not be confused with zero values
	assert.Nil(t, patch.Slug)
	assert.Nil(t, patch.Excerpt)
	assert.Nil(t, patch.Content)
	assert.Nil(t, patch.CoverImage)
	assert.Nil(t, patch.Author)
	assert.Nil(t, patch.Tags)
}

func TestPostPatch_TagsKeepOrderAndDuplicates(t *testing.T) {
	var patch PostPatch
	require.NoError(t, json.Unmarshal([]byte(`{"tags":["b","a","b"]}`), &patch))
	require.NotNil(t, patch.Tags)
	assert.Equal(t, []string{"b", "a", "b"}, *patch.Tags)
}
