package splitter

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	s := New()

	assert.Equal(t, DefaultChunkSize, s.ChunkSize())
	assert.Equal(t, DefaultOverlap, s.Overlap())
}

func TestNew_ClampsOverlapBelowChunkSize(t *testing.T) {
	s := New(WithChunkSize(100), WithOverlap(100))

	assert.Equal(t, 100, s.ChunkSize())
	assert.Equal(t, 25, s.Overlap())
}

func TestSplit_EmptyInput(t *testing.T) {
	s := New()

	assert.Nil(t, s.Split(""))
	assert.Nil(t, s.Split("   \n\n\t  "))
}

func TestSplit_ShortTextIsSingleChunk(t *testing.T) {
	s := New()

	chunks := s.Split("  a short document  ")

	require.Len(t, chunks, 1)
	assert.Equal(t, "a short document", chunks[0])
}

func TestSplit_ParagraphsSplitAtParagraphBreaks(t *testing.T) {
	p1 := strings.Repeat("a", 800)
	p2 := strings.Repeat("b", 800)
	p3 := strings.Repeat("c", 800)
	text := p1 + "\n\n" + p2 + "\n\n" + p3

	s := New(WithChunkSize(1000), WithOverlap(200))
	chunks := s.Split(text)

	require.Len(t, chunks, 3)
	assert.Equal(t, p1, chunks[0])
	assert.Equal(t, p2, chunks[1])
	assert.Equal(t, p3, chunks[2])
}

func TestSplit_WordsShareOverlapWindow(t *testing.T) {
	s := New(WithChunkSize(10), WithOverlap(4))

	chunks := s.Split("aa bb cc dd ee")

	require.Equal(t, []string{"aa bb cc", "cc dd ee"}, chunks)
}

func TestSplit_ChunksNeverExceedChunkSize(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 500; i++ {
		b.WriteString("lorem ipsum dolor sit amet ")
		if i%7 == 0 {
			b.WriteString("\n")
		}
		if i%20 == 0 {
			b.WriteString("\n\n")
		}
	}

	s := New(WithChunkSize(200), WithOverlap(40))
	chunks := s.Split(b.String())

	require.NotEmpty(t, chunks)
	for i, chunk := range chunks {
		assert.NotEmpty(t, chunk, "chunk %d", i)
		assert.LessOrEqual(t, len(chunk), 200, "chunk %d", i)
	}
}

func TestSplit_HardCutOnUnbrokenText(t *testing.T) {
	s := New(WithChunkSize(10), WithOverlap(4))

	chunks := s.Split("abcdefghijklmnopqrstuvwxy")

	require.Equal(t, []string{
		"abcdefghij",
		"ghijklmnop",
		"mnopqrstuv",
		"stuvwxy",
	}, chunks)
}

func TestSplit_HardCutKeepsRunesIntact(t *testing.T) {
	text := strings.Repeat("é", 30)

	s := New(WithChunkSize(10), WithOverlap(3))
	chunks := s.Split(text)

	require.NotEmpty(t, chunks)
	for i, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk), "chunk %d is not valid UTF-8", i)
	}
}

func TestSplit_PrefersHigherPrioritySeparator(t *testing.T) {
	// Both paragraph and line breaks present: the paragraph break wins,
	// so lines within a paragraph stay together.
	text := "first line\nsecond line\n\n" + strings.Repeat("x", 30)

	s := New(WithChunkSize(25), WithOverlap(5))
	chunks := s.Split(text)

	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Equal(t, "first line\nsecond line", chunks[0])
}
