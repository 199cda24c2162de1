package vordr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rangeList(n int) []interface{} {
	out := make([]interface{}, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestSanitizeKeepsSmallList(t *testing.T) {
	small := rangeList(15)
	in := map[string]interface{}{"key1": "value1", "small_list": small}

	got, ok := Sanitize(in)
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"key1": "value1", "small_list": small}, got)
}

func TestSanitizeDropsOversizedList(t *testing.T) {
	in := map[string]interface{}{"key1": "value1", "oversized_list": rangeList(150)}

	got, ok := Sanitize(in)
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"key1": "value1"}, got)
}

func TestSanitizeNestedOversizedList(t *testing.T) {
	in := map[string]interface{}{
		"key1":           "value1",
		"oversized_list": map[string]interface{}{"key": rangeList(150)},
	}

	got, ok := Sanitize(in)
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{
		"key1":           "value1",
		"oversized_list": map[string]interface{}{},
	}, got)
}

func TestSanitizeDictInList(t *testing.T) {
	in := map[string]interface{}{
		"key1":           "value1",
		"oversized_list": []interface{}{1, 2, map[string]interface{}{"key": rangeList(150)}},
	}

	got, ok := Sanitize(in)
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{
		"key1":           "value1",
		"oversized_list": []interface{}{1, 2, map[string]interface{}{}},
	}, got)
}

func TestSanitizeDeeplyNestedLists(t *testing.T) {
	in := map[string]interface{}{
		"key1": "value1",
		"deeply_nested_lists": []interface{}{
			[]interface{}{
				[]interface{}{
					[]interface{}{
						map[string]interface{}{"final_nested_key": rangeList(200)},
					},
				},
			},
		},
	}

	got, ok := Sanitize(in)
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{
		"key1": "value1",
		"deeply_nested_lists": []interface{}{
			[]interface{}{
				[]interface{}{
					[]interface{}{
						map[string]interface{}{},
					},
				},
			},
		},
	}, got)
}

func TestSanitizeBoundary(t *testing.T) {
	kept, ok := Sanitize(rangeList(ListLimit - 1))
	require.True(t, ok)
	assert.Len(t, kept, ListLimit-1)

	_, ok = Sanitize(rangeList(ListLimit))
	assert.False(t, ok)
}

func TestSanitizeScalarsPassThrough(t *testing.T) {
	for _, v := range []interface{}{"text", 42, 3.14, true, nil} {
		got, ok := Sanitize(v)
		require.True(t, ok)
		assert.Equal(t, v, got)
	}
}

func TestSanitizeRows(t *testing.T) {
	rows := []map[string]interface{}{
		{"name": "Alice", "embedding": rangeList(256)},
		{"name": "Bob"},
	}

	got := SanitizeRows(rows)
	require.Len(t, got, 2)
	assert.Equal(t, map[string]interface{}{"name": "Alice"}, got[0])
	assert.Equal(t, map[string]interface{}{"name": "Bob"}, got[1])

	// Input rows are never mutated.
	assert.Contains(t, rows[0], "embedding")
}

func TestSanitizeRowsNil(t *testing.T) {
	assert.Nil(t, SanitizeRows(nil))
}
