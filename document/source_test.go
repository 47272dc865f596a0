package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSource_PageAt(t *testing.T) {
	source := &Source{Text: "aaaabbbbcc", Pages: []Page{{Number: 1, Start: 0, End: 4}, {Number: 2, Start: 4, End: 8}, {Number: 3, Start: 8, End: 10}}}
	var testCases = []struct {
		description string
		offset      int
		expect      int
	}{
		{description: "first page", offset: 0, expect: 1},
		{description: "page boundary", offset: 4, expect: 2},
		{description: "last rune", offset: 9, expect: 3},
		{description: "past the end", offset: 42, expect: 3},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			assert.Equal(t, testCase.expect, source.PageAt(testCase.offset))
		})
	}
	assert.Equal(t, 0, (&Source{Text: "x"}).PageAt(0))
}

func TestChecksum(t *testing.T) {
	assert.Equal(t, Checksum("policy"), Checksum("policy"))
	assert.NotEqual(t, Checksum("policy"), Checksum("policy."))
}

func TestChunk_Metadata(t *testing.T) {
	chunk := &Chunk{Text: "abc", Source: "/data/a.pdf", Seq: 2, Start: 10, End: 13, Page: 3, Checksum: 255}
	metadata := chunk.Metadata()
	assert.Equal(t, "/data/a.pdf", metadata["source"])
	assert.Equal(t, 3, metadata["page"])
	assert.Equal(t, "00000000000000ff", metadata["checksum"])
	assert.Equal(t, "/data/a.pdf:10-13", metadata["chunkId"])
	_, hasPage := (&Chunk{Source: "x"}).Metadata()["page"]
	assert.False(t, hasPage)
}
