package chunker

import (
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/sovereign/document"
)

func TestNew(t *testing.T) {
	var testCases = []struct {
		description string
		settings    Settings
		expectErr   string
	}{
		{description: "defaults", settings: DefaultSettings()},
		{description: "empty strategy defaults to window", settings: Settings{Size: 10, Overlap: 2}},
		{description: "zero overlap", settings: Settings{Size: 10}},
		{description: "overlap equals size", settings: Settings{Size: 10, Overlap: 10}, expectErr: "overlap 10 must be smaller than size 10"},
		{description: "overlap exceeds size", settings: Settings{Size: 10, Overlap: 11}, expectErr: "must be smaller than size"},
		{description: "zero size", settings: Settings{Size: 0}, expectErr: "size 0 must be positive"},
		{description: "negative overlap", settings: Settings{Size: 10, Overlap: -1}, expectErr: "must not be negative"},
		{description: "unknown strategy", settings: Settings{Size: 10, Overlap: 1, Strategy: "semantic"}, expectErr: "unsupported strategy"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			c, err := New(testCase.settings)
			if testCase.expectErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), testCase.expectErr)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, StrategyWindow, c.Settings().Strategy)
		})
	}
}

func TestChunker_Split_Empty(t *testing.T) {
	c, err := New(DefaultSettings())
	require.NoError(t, err)
	assert.Empty(t, c.Split("a.txt", ""))
	assert.Empty(t, c.SplitSource(nil))
}

func TestChunker_Split_Reconstructs(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	words := []string{"encryption", "at", "rest", "is", "mandatory", "für", "alle", "数据库", "\n", "\n\n", "policy", "1.3."}
	randomText := func(n int) string {
		var b strings.Builder
		for b.Len() < n {
			b.WriteString(words[rng.Intn(len(words))])
			if rng.Intn(3) > 0 {
				b.WriteByte(' ')
			}
		}
		return b.String()
	}
	var testCases = []struct {
		description string
		settings    Settings
		text        string
	}{
		{description: "shorter than size", settings: DefaultSettings(), text: "Encryption at rest is mandatory for all vector databases."},
		{description: "exactly size", settings: Settings{Size: 5, Overlap: 1}, text: "abcde"},
		{description: "no whitespace", settings: Settings{Size: 7, Overlap: 3}, text: strings.Repeat("x", 50)},
		{description: "default settings long text", settings: DefaultSettings(), text: randomText(12000)},
		{description: "small windows", settings: Settings{Size: 20, Overlap: 19}, text: randomText(500)},
		{description: "multibyte", settings: Settings{Size: 16, Overlap: 4}, text: strings.Repeat("数据库 für alle ", 40)},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			c, err := New(testCase.settings)
			require.NoError(t, err)
			chunks := c.Split("doc", testCase.text)
			require.NotEmpty(t, chunks)
			assert.Equal(t, testCase.text, reconstruct(t, chunks))

			runes := []rune(testCase.text)
			assert.Equal(t, 0, chunks[0].Start)
			assert.Equal(t, len(runes), chunks[len(chunks)-1].End)
			for i, chunk := range chunks {
				assert.Equal(t, i, chunk.Seq)
				assert.Equal(t, "doc", chunk.Source)
				assert.LessOrEqual(t, utf8.RuneCountInString(chunk.Text), testCase.settings.Size)
				assert.Equal(t, string(runes[chunk.Start:chunk.End]), chunk.Text)
				assert.Equal(t, document.Checksum(chunk.Text), chunk.Checksum)
				if i > 0 {
					assert.Equal(t, chunks[i-1].End-testCase.settings.Overlap, chunk.Start)
				}
			}
		})
	}
}

func TestChunker_Split_PrefersParagraphBreak(t *testing.T) {
	c, err := New(Settings{Size: 40, Overlap: 5})
	require.NoError(t, err)
	text := "First paragraph is here.\n\nSecond paragraph follows and keeps going for a while."
	chunks := c.Split("doc", text)
	require.True(t, len(chunks) > 1)
	assert.Equal(t, "First paragraph is here.\n\n", chunks[0].Text)
	assert.Equal(t, text, reconstruct(t, chunks))
}

func TestChunker_SplitSource_Pages(t *testing.T) {
	c, err := New(Settings{Size: 10, Overlap: 2})
	require.NoError(t, err)
	src := &document.Source{
		Path:  "policy.pdf",
		Text:  "page one..page two..",
		Pages: []document.Page{{Number: 1, Start: 0, End: 10}, {Number: 2, Start: 10, End: 20}},
	}
	chunks := c.SplitSource(src)
	require.NotEmpty(t, chunks)
	assert.Equal(t, 1, chunks[0].Page)
	assert.Equal(t, 2, chunks[len(chunks)-1].Page)
}

func TestChunker_Split_Recursive(t *testing.T) {
	c, err := New(Settings{Size: 60, Overlap: 10, Strategy: StrategyRecursive})
	require.NoError(t, err)
	text := strings.Repeat("Encryption at rest is mandatory for all vector databases.\n\n", 6)
	chunks := c.Split("doc", text)
	require.NotEmpty(t, chunks)
	runes := []rune(text)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Seq)
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk.Text), 60)
		assert.Equal(t, string(runes[chunk.Start:chunk.End]), chunk.Text)
		if i > 0 {
			assert.Greater(t, chunk.Start, chunks[i-1].Start)
		}
	}
}

// reconstruct concatenates chunks dropping each successor's overlap with its predecessor.
func reconstruct(t *testing.T, chunks document.Chunks) string {
	t.Helper()
	var b strings.Builder
	prevEnd := 0
	for i, chunk := range chunks {
		runes := []rune(chunk.Text)
		if i > 0 {
			require.LessOrEqual(t, chunk.Start, prevEnd, "gap before chunk %d", i)
			runes = runes[prevEnd-chunk.Start:]
		}
		b.WriteString(string(runes))
		prevEnd = chunk.End
	}
	return b.String()
}
