package vectordb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecords_EncodeDecode(t *testing.T) {
	ts := time.Now()
	original := []*Record{
		{
			ID:        "r1",
			Content:   "Test content",
			Model:     "all-minilm",
			CreatedAt: ts,
			Embedding: []float32{0.1, -0.2, 0.3},
			Meta: map[string]interface{}{
				"intKey":    42,
				"floatKey":  3.14,
				"stringKey": "value",
				"timeKey":   ts,
			},
		},
		{ID: "r2", Content: "", Meta: map[string]interface{}{}},
	}

	data, err := EncodeRecords(original)
	require.NoError(t, err)
	decoded, err := DecodeRecords(data)
	require.NoError(t, err)
	require.Len(t, decoded, 2)

	first := decoded[0]
	assert.Equal(t, "r1", first.ID)
	assert.Equal(t, "Test content", first.Content)
	assert.Equal(t, "all-minilm", first.Model)
	assert.True(t, ts.Equal(first.CreatedAt))
	assert.Equal(t, []float32{0.1, -0.2, 0.3}, first.Embedding)
	for key, value := range original[0].Meta {
		if key == "timeKey" {
			assert.True(t, value.(time.Time).Equal(first.Meta[key].(time.Time)))
			continue
		}
		assert.Equal(t, value, first.Meta[key], key)
	}
	assert.Equal(t, "r2", decoded[1].ID)
	assert.Empty(t, decoded[1].Embedding)
}

func TestRecord_UnsupportedMeta(t *testing.T) {
	_, err := EncodeRecords([]*Record{{ID: "x", Meta: map[string]interface{}{"bad": []int{1}}}})
	assert.Error(t, err)
}

func TestDecodeRecords_Empty(t *testing.T) {
	records, err := DecodeRecords(nil)
	require.NoError(t, err)
	assert.Nil(t, records)
}
