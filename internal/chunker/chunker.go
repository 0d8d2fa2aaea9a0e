// Package chunker splits oversized documents into bounded segments the
// generator can consume, preferring paragraph boundaries, then sentence
// boundaries, and hard-cutting only when a single sentence is itself too
// large.
package chunker

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvariant reports a chunk that exceeded maxSize without an oversized
// atomic unit to blame. It marks a programming error; callers abort the
// request, not the process.
var ErrInvariant = errors.New("chunker produced an oversized chunk")

var paragraphSep = regexp.MustCompile(`\n\s*\n`)

// Split cuts text into ordered chunks of at most maxSize characters each.
// Paragraphs (blank-line delimited) are accumulated greedily; a paragraph
// that alone exceeds maxSize is accumulated sentence by sentence; a
// sentence that alone exceeds maxSize is sliced at exactly maxSize-byte
// boundaries, the only case where output may cross semantic boundaries.
// Concatenating the chunks reproduces the input up to normalization of
// paragraph separators to a single blank line.
func Split(text string, maxSize int) ([]string, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("invalid max chunk size %d", maxSize)
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")

	var chunks []string
	var buf strings.Builder
	hardCut := make(map[int]bool)

	flush := func() {
		if buf.Len() > 0 {
			chunks = append(chunks, buf.String())
			buf.Reset()
		}
	}

	// append a unit to the buffer, flushing first when the unit plus its
	// separator would overflow.
	add := func(unit, sep string) {
		needed := len(unit)
		if buf.Len() > 0 {
			needed += buf.Len() + len(sep)
		}
		if needed > maxSize && buf.Len() > 0 {
			flush()
		}
		if buf.Len() > 0 {
			buf.WriteString(sep)
		}
		buf.WriteString(unit)
	}

	for _, paragraph := range paragraphSep.Split(text, -1) {
		if paragraph == "" {
			continue
		}

		if len(paragraph) <= maxSize {
			add(paragraph, "\n\n")
			continue
		}

		// Paragraph too large: descend to sentences. Flush first so buffered
		// paragraphs keep their blank-line separator instead of being glued
		// to the first sentence with a space.
		flush()
		for _, sentence := range splitSentences(paragraph) {
			if len(sentence) <= maxSize {
				add(sentence, " ")
				continue
			}

			// Sentence too large: hard cut.
			flush()
			for i := 0; i < len(sentence); i += maxSize {
				end := i + maxSize
				if end > len(sentence) {
					end = len(sentence)
				}
				hardCut[len(chunks)] = true
				chunks = append(chunks, sentence[i:end])
			}
		}
	}
	flush()

	for i, c := range chunks {
		if len(c) > maxSize && !hardCut[i] {
			return nil, fmt.Errorf("%w: chunk %d has %d bytes, max %d", ErrInvariant, i, len(c), maxSize)
		}
	}

	return chunks, nil
}

// splitSentences cuts a paragraph after '.', '!' or '?' followed by
// whitespace. The separating whitespace is consumed; trailing text without
// a terminator forms the final sentence.
func splitSentences(paragraph string) []string {
	var sentences []string
	start := 0
	i := 0
	for i < len(paragraph) {
		c := paragraph[i]
		if c == '.' || c == '!' || c == '?' {
			j := i + 1
			if j < len(paragraph) && isSpace(paragraph[j]) {
				sentences = append(sentences, paragraph[start:j])
				for j < len(paragraph) && isSpace(paragraph[j]) {
					j++
				}
				start = j
				i = j
				continue
			}
		}
		i++
	}
	if start < len(paragraph) {
		sentences = append(sentences, paragraph[start:])
	}
	return sentences
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
