// Package splitter provides recursive separator-based text splitting.
//
// Text is split by the highest-priority separator that appears in it
// (paragraph break, then line break, then whitespace), pieces are merged
// back into chunks no larger than the chunk size, and adjacent chunks
// share an overlap window to preserve cross-boundary context. A piece no
// separator can reduce falls back to a hard character cut.
//
// The splitter is pure: no I/O, no shared state.
package splitter

import (
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize is the default maximum chunk length in characters.
const DefaultChunkSize = 1000

// DefaultOverlap is the default overlap window in characters.
const DefaultOverlap = 200

// separators in priority order. The empty string marks the hard-cut
// fallback and always terminates the recursion.
var separators = []string{"\n\n", "\n", " ", ""}

// Splitter splits text into overlapping chunks.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithChunkSize sets the maximum chunk length in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap window in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a Splitter with the given options.
// The overlap is clamped below the chunk size.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// ChunkSize returns the configured maximum chunk length.
func (s *Splitter) ChunkSize() int {
	return s.chunkSize
}

// Overlap returns the configured overlap window.
func (s *Splitter) Overlap() int {
	return s.overlap
}

// Split splits text into chunks of at most ChunkSize characters.
// Whitespace-only output is dropped, so every returned chunk is non-empty.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.split(text, separators)
}

// split walks the separator priority list: pieces that fit are merged into
// chunks, oversized pieces recurse on the remaining separators.
func (s *Splitter) split(text string, seps []string) []string {
	sep := seps[len(seps)-1]
	var rest []string
	for i, candidate := range seps {
		if candidate == "" {
			sep = candidate
			break
		}
		if strings.Contains(text, candidate) {
			sep = candidate
			rest = seps[i+1:]
			break
		}
	}

	if sep == "" {
		return s.hardCut(text)
	}

	var final []string
	var fitting []string
	for _, piece := range strings.Split(text, sep) {
		if len(piece) < s.chunkSize {
			fitting = append(fitting, piece)
			continue
		}
		if len(fitting) > 0 {
			final = append(final, s.merge(fitting, sep)...)
			fitting = nil
		}
		if len(rest) == 0 {
			final = append(final, s.hardCut(piece)...)
		} else {
			final = append(final, s.split(piece, rest)...)
		}
	}
	if len(fitting) > 0 {
		final = append(final, s.merge(fitting, sep)...)
	}
	return final
}

// merge joins consecutive pieces into chunks of at most chunkSize
// characters. When a chunk is emitted, pieces are dropped from the front
// of the window until at most overlap characters remain, so the next
// chunk starts with the tail of the previous one.
func (s *Splitter) merge(pieces []string, sep string) []string {
	sepLen := len(sep)

	var chunks []string
	var window []string
	total := 0

	for _, piece := range pieces {
		pieceLen := len(piece)
		if total+pieceLen+sepLen*btoi(len(window) > 0) > s.chunkSize && len(window) > 0 {
			if chunk := joinTrimmed(window, sep); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for total > s.overlap ||
				(total+pieceLen+sepLen*btoi(len(window) > 0) > s.chunkSize && total > 0) {
				total -= len(window[0]) + sepLen*btoi(len(window) > 1)
				window = window[1:]
			}
		}
		window = append(window, piece)
		total += pieceLen + sepLen*btoi(len(window) > 1)
	}

	if chunk := joinTrimmed(window, sep); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// hardCut slices text into chunkSize windows advancing by
// chunkSize - overlap, the degradation path when no separator fits.
// Cut points are aligned to rune boundaries so multi-byte characters are
// never split.
func (s *Splitter) hardCut(text string) []string {
	step := s.chunkSize - s.overlap

	var chunks []string
	start := 0
	for {
		end := start + s.chunkSize
		if end >= len(text) {
			if tail := strings.TrimSpace(text[start:]); tail != "" {
				chunks = append(chunks, tail)
			}
			break
		}
		for end > start && !utf8.RuneStart(text[end]) {
			end--
		}
		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}
		next := start + step
		for next < len(text) && !utf8.RuneStart(text[next]) {
			next++
		}
		start = next
	}
	return chunks
}

// joinTrimmed joins window pieces with the separator and trims the result.
func joinTrimmed(window []string, sep string) string {
	return strings.TrimSpace(strings.Join(window, sep))
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
