package xparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultParseOptions(t *testing.T) {
	opts := DefaultParseOptions()

	assert.Equal(t, "layout_json", opts["response_format"])
	assert.Equal(t, true, opts["include_bbox"])
	assert.Equal(t, true, opts["id_marker"])
	assert.Equal(t, true, opts["group_markers"])
	assert.Equal(t, true, opts["use_xparser_description"])
}

func TestDefaultChunkOptions(t *testing.T) {
	opts := DefaultChunkOptions()

	assert.Equal(t, true, opts["use_ai_description"])
	assert.Equal(t, "markdown", opts["table_format"])
}

func TestDefaultOptionsReturnFreshMaps(t *testing.T) {
	first := DefaultParseOptions()
	first["include_bbox"] = false
	first["injected"] = 1

	second := DefaultParseOptions()
	assert.Equal(t, true, second["include_bbox"])
	assert.NotContains(t, second, "injected")
}

func TestMergeOptions(t *testing.T) {
	t.Run("nil overrides keep defaults", func(t *testing.T) {
		merged := mergeOptions(DefaultParseOptions(), nil)

		assert.Equal(t, DefaultParseOptions(), merged)
	})

	t.Run("overlapping keys are overridden", func(t *testing.T) {
		merged := mergeOptions(DefaultParseOptions(), map[string]any{
			"include_bbox":            false,
			"use_xparser_description": false,
		})

		assert.Equal(t, false, merged["include_bbox"])
		assert.Equal(t, false, merged["use_xparser_description"])
		// Untouched defaults survive
		assert.Equal(t, "layout_json", merged["response_format"])
		assert.Equal(t, true, merged["id_marker"])
		assert.Equal(t, true, merged["group_markers"])
	})

	t.Run("unrecognized keys pass through", func(t *testing.T) {
		merged := mergeOptions(DefaultChunkOptions(), map[string]any{
			"ocr_language": "ko",
		})

		assert.Equal(t, "ko", merged["ocr_language"])
		assert.Equal(t, true, merged["use_ai_description"])
		assert.Equal(t, "markdown", merged["table_format"])
	})

	t.Run("merge is shallow", func(t *testing.T) {
		defaults := map[string]any{
			"nested": map[string]any{"a": 1, "b": 2},
		}
		merged := mergeOptions(defaults, map[string]any{
			"nested": map[string]any{"a": 3},
		})

		// The whole nested value is replaced, not deep-merged.
		assert.Equal(t, map[string]any{"a": 3}, merged["nested"])
	})
}

func TestMinimalAndFullOptions(t *testing.T) {
	minimal := MinimalOptions()
	assert.Equal(t, false, minimal["use_xparser_description"])
	assert.Equal(t, false, minimal["include_bbox"])
	assert.Equal(t, false, minimal["group_markers"])

	full := FullOptions()
	assert.Equal(t, true, full["use_xparser_description"])
	assert.Equal(t, true, full["include_bbox"])
	assert.Equal(t, true, full["id_marker"])
	assert.Equal(t, true, full["group_markers"])
}
