package document_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailbuilder/pkg/document"
)

func TestStyles_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("preserves key order", func(t *testing.T) {
		t.Parallel()
		var s document.Styles
		require.NoError(t, json.Unmarshal([]byte(`{"color":"red","font-size":"12px","margin":"0"}`), &s))
		assert.Equal(t, []string{"color", "font-size", "margin"}, s.Keys())
	})

	t.Run("numbers kept as literal text", func(t *testing.T) {
		t.Parallel()
		var s document.Styles
		require.NoError(t, json.Unmarshal([]byte(`{"line-height":1.5,"z-index":10}`), &s))
		v, ok := s.Get("line-height")
		assert.True(t, ok)
		assert.Equal(t, "1.5", v)
		v, _ = s.Get("z-index")
		assert.Equal(t, "10", v)
	})

	t.Run("null values skipped", func(t *testing.T) {
		t.Parallel()
		var s document.Styles
		require.NoError(t, json.Unmarshal([]byte(`{"color":null,"width":"100%"}`), &s))
		assert.Equal(t, []string{"width"}, s.Keys())
	})

	t.Run("null document is empty", func(t *testing.T) {
		t.Parallel()
		var s document.Styles
		require.NoError(t, json.Unmarshal([]byte(`null`), &s))
		assert.NotNil(t, s)
		assert.Equal(t, 0, s.Len())
	})

	t.Run("rejects non-object", func(t *testing.T) {
		t.Parallel()
		var s document.Styles
		err := json.Unmarshal([]byte(`["color"]`), &s)
		assert.ErrorIs(t, err, document.ErrInvalidStyles)
	})

	t.Run("rejects nested values", func(t *testing.T) {
		t.Parallel()
		var s document.Styles
		err := json.Unmarshal([]byte(`{"color":{"r":1}}`), &s)
		assert.ErrorIs(t, err, document.ErrInvalidStyles)
	})
}

func TestStyles_MarshalJSON(t *testing.T) {
	t.Parallel()

	s := document.StylesOf("width", "100%", "color", "#fff", "display", "flex")
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"width":"100%","color":"#fff","display":"flex"}`, string(data))

	data, err = json.Marshal(document.Styles(nil))
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestStyles_SetMergeDelete(t *testing.T) {
	t.Parallel()

	s := document.StylesOf("color", "red", "width", "10px")
	s.Set("color", "blue")
	s.Set("height", "5px")
	assert.Equal(t, []string{"color", "width", "height"}, s.Keys())
	v, _ := s.Get("color")
	assert.Equal(t, "blue", v)

	merged := s.Merge(document.StylesOf("width", "20px", "padding", "1px"))
	assert.Equal(t, []string{"color", "width", "height", "padding"}, merged.Keys())
	v, _ = merged.Get("width")
	assert.Equal(t, "20px", v)
	v, _ = s.Get("width")
	assert.Equal(t, "10px", v, "merge must not modify the receiver")

	s.Delete("width")
	s.Delete("missing")
	assert.Equal(t, []string{"color", "height"}, s.Keys())
	_, ok := s.Get("width")
	assert.False(t, ok)
}

func TestStyles_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", document.Styles{}.String())
	assert.Equal(t, "color: red; font-size: 12px;", document.StylesOf("color", "red", "font-size", "12px").String())
}

func TestStyles_Clone(t *testing.T) {
	t.Parallel()

	s := document.StylesOf("color", "red")
	c := s.Clone()
	c.Set("color", "blue")
	v, _ := s.Get("color")
	assert.Equal(t, "red", v)
	assert.NotNil(t, document.Styles(nil).Clone())
}
