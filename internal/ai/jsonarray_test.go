package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSONArray_PlainArray(t *testing.T) {
	raw := `[{"icon":"🌿","title":"Take a walk"}]`
	assert.Equal(t, raw, ExtractJSONArray(raw))
}

func TestExtractJSONArray_WrappedInProse(t *testing.T) {
	raw := "Sure! Here are your suggestions:\n[{\"title\":\"Breathe\"}]\nHope that helps."
	assert.Equal(t, `[{"title":"Breathe"}]`, ExtractJSONArray(raw))
}

func TestExtractJSONArray_NestedArrays(t *testing.T) {
	raw := `text [1, [2, 3], 4] trailing ]`
	assert.Equal(t, `[1, [2, 3], 4]`, ExtractJSONArray(raw))
}

func TestExtractJSONArray_BracketsInsideStrings(t *testing.T) {
	raw := `[{"title":"use [brackets] wisely"}]`
	assert.Equal(t, raw, ExtractJSONArray(raw))

	raw = `[{"title":"escaped \" and ] bracket"}]`
	assert.Equal(t, raw, ExtractJSONArray(raw))
}

func TestExtractJSONArray_NoArray(t *testing.T) {
	assert.Empty(t, ExtractJSONArray("no array here"))
	assert.Empty(t, ExtractJSONArray(""))
}

func TestExtractJSONArray_Unbalanced(t *testing.T) {
	assert.Empty(t, ExtractJSONArray(`[{"title":"never closed"`))
}
