// Package snippet defines the Snippet record and its normalization rules.
package snippet

import (
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/five82/snipbox/internal/apperror"
)

// TimeLayout is the ISO-8601 layout used for CreatedAt (millisecond precision, UTC).
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Snippet is a titled, tagged block of text content.
// CreatedAt is kept as the verbatim string so imported values round-trip unchanged.
type Snippet struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	CreatedAt string   `json:"createdAt"`
}

// Draft holds user-entered fields for a new or edited snippet.
type Draft struct {
	Title   string
	Content string
	Tags    []string
}

// NewID returns a fresh, globally unique snippet id.
func NewID() string {
	return xid.New().String()
}

// Timestamp formats t in the CreatedAt layout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// New builds a normalized snippet with a fresh id and creation time.
// It does not validate; call Validate before storing.
func New(d Draft, now time.Time) Snippet {
	return Normalize(Snippet{
		ID:        NewID(),
		Title:     d.Title,
		Content:   d.Content,
		Tags:      d.Tags,
		CreatedAt: Timestamp(now),
	})
}

// Normalize trims the title and cleans tags. Content is kept verbatim so
// leading indentation and newlines survive.
func Normalize(s Snippet) Snippet {
	s.Title = strings.TrimSpace(s.Title)
	s.Tags = CleanTags(s.Tags)
	return s
}

// Validate reports a validation error when title or content is blank.
func Validate(s Snippet) error {
	if strings.TrimSpace(s.Title) == "" {
		return apperror.ValidationFailed("title", "title is required")
	}
	if strings.TrimSpace(s.Content) == "" {
		return apperror.ValidationFailed("content", "content is required")
	}
	return nil
}

// CleanTags trims every tag and drops empty entries. It never returns nil.
func CleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		out = append(out, tag)
	}
	return out
}

// ParseTags splits comma-separated tag input.
func ParseTags(raw string) []string {
	return CleanTags(strings.Split(raw, ","))
}

// JoinTags is the inverse of ParseTags for pre-filling edit forms.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// Clone returns a deep copy of s.
func (s Snippet) Clone() Snippet {
	if s.Tags != nil {
		tags := make([]string, len(s.Tags))
		copy(tags, s.Tags)
		s.Tags = tags
	}
	return s
}

// CloneAll deep-copies a collection.
func CloneAll(items []Snippet) []Snippet {
	if len(items) == 0 {
		return []Snippet{}
	}
	dup := make([]Snippet, len(items))
	for i, item := range items {
		dup[i] = item.Clone()
	}
	return dup
}
