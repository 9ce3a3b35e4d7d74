// Package search filters snippet collections and marks query matches for
// display. Matching is a literal, case-insensitive substring scan; the
// query is never compiled into a pattern.
package search

import (
	"unicode"
	"unicode/utf8"

	"github.com/five82/snipbox/internal/snippet"
)

// Span is a half-open byte range [Start, End) into the searched text.
type Span struct {
	Start int
	End   int
}

// Segment is a run of text that either matched the query or did not.
type Segment struct {
	Text  string
	Match bool
}

// Fields reports where a snippet matched a query. Tags holds the indices of
// matching tags.
type Fields struct {
	Title   bool
	Content bool
	Tags    []int
}

// Any reports whether at least one field matched.
func (f Fields) Any() bool {
	return f.Title || f.Content || len(f.Tags) > 0
}

// Contains reports whether q occurs in text, ignoring case.
// An empty query is contained in everything.
func Contains(text, q string) bool {
	if q == "" {
		return true
	}
	start, _ := indexFold(text, q, 0)
	return start >= 0
}

// Matches reports whether the snippet's title, content or any tag contains q.
func Matches(s snippet.Snippet, q string) bool {
	if q == "" {
		return true
	}
	if Contains(s.Title, q) || Contains(s.Content, q) {
		return true
	}
	for _, tag := range s.Tags {
		if Contains(tag, q) {
			return true
		}
	}
	return false
}

// MatchedFields reports which fields of s contain q. An empty query matches nothing.
func MatchedFields(s snippet.Snippet, q string) Fields {
	var f Fields
	if q == "" {
		return f
	}
	f.Title = Contains(s.Title, q)
	f.Content = Contains(s.Content, q)
	for i, tag := range s.Tags {
		if Contains(tag, q) {
			f.Tags = append(f.Tags, i)
		}
	}
	return f
}

// Filter returns the snippets matching q in their original order.
// An empty query returns every snippet.
func Filter(q string, all []snippet.Snippet) []snippet.Snippet {
	out := make([]snippet.Snippet, 0, len(all))
	for _, s := range all {
		if Matches(s, q) {
			out = append(out, s)
		}
	}
	return out
}

// Spans returns every non-overlapping occurrence of q in text, scanning left
// to right. Offsets refer to text even when case folding changes byte widths.
func Spans(text, q string) []Span {
	if q == "" {
		return nil
	}
	var spans []Span
	from := 0
	for from < len(text) {
		start, end := indexFold(text, q, from)
		if start < 0 {
			break
		}
		spans = append(spans, Span{Start: start, End: end})
		from = end
	}
	return spans
}

// Highlight splits text into alternating plain and matched segments.
// Without matches the result is a single plain segment holding text.
func Highlight(text, q string) []Segment {
	spans := Spans(text, q)
	if len(spans) == 0 {
		return []Segment{{Text: text}}
	}

	segments := make([]Segment, 0, 2*len(spans)+1)
	pos := 0
	for _, sp := range spans {
		if sp.Start > pos {
			segments = append(segments, Segment{Text: text[pos:sp.Start]})
		}
		segments = append(segments, Segment{Text: text[sp.Start:sp.End], Match: true})
		pos = sp.End
	}
	if pos < len(text) {
		segments = append(segments, Segment{Text: text[pos:]})
	}
	return segments
}

// indexFold finds the first case-insensitive occurrence of q in text at or
// after byte offset from. It returns the byte range of the match in text, or
// (-1, -1).
func indexFold(text, q string, from int) (int, int) {
	for i := from; i < len(text); {
		if end, ok := prefixFold(text[i:], q); ok {
			return i, i + end
		}
		_, w := utf8.DecodeRuneInString(text[i:])
		i += w
	}
	return -1, -1
}

// prefixFold reports whether text starts with q under simple case folding and
// how many bytes of text the match consumed.
func prefixFold(text, q string) (int, bool) {
	n := 0
	for q != "" {
		if n >= len(text) {
			return 0, false
		}
		tr, tw := utf8.DecodeRuneInString(text[n:])
		qr, qw := utf8.DecodeRuneInString(q)
		if tr == utf8.RuneError || qr == utf8.RuneError {
			// Invalid bytes and U+FFFD only match the same bytes.
			if tw != qw || text[n:n+tw] != q[:qw] {
				return 0, false
			}
		} else if !equalFold(tr, qr) {
			return 0, false
		}
		n += tw
		q = q[qw:]
	}
	return n, true
}

func equalFold(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}
