// Package importer validates an external snippet file and merges it into the
// collection.
//
// The default (lenient) mode appends every array element as-is: ids are not
// checked for collisions and fields are not validated, matching the format
// older exports were written in. Strict mode rejects the whole file when any
// element is not a valid snippet or repeats an id.
package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/five82/snipbox/internal/apperror"
	"github.com/five82/snipbox/internal/snippet"
)

// Target is the collection an import merges into.
type Target interface {
	All() []snippet.Snippet
	Append(items []snippet.Snippet)
}

// Options controls merge validation.
type Options struct {
	Strict bool
	// Now stamps strict-mode elements without a createdAt. Defaults to time.Now.
	Now func() time.Time
}

// Merge parses raw and appends its elements to dst in order. It returns the
// number of imported elements. On any error dst is left untouched.
func Merge(dst Target, raw []byte, opts Options) (int, error) {
	var (
		items []snippet.Snippet
		err   error
	)
	if opts.Strict {
		now := time.Now
		if opts.Now != nil {
			now = opts.Now
		}
		items, err = ParseStrict(raw, dst.All(), now())
	} else {
		items, err = Parse(raw)
	}
	if err != nil {
		return 0, err
	}
	if len(items) > 0 {
		dst.Append(items)
	}
	return len(items), nil
}

// Parse decodes raw leniently. The root must be a JSON array; elements that
// are not objects, or fields of the wrong type, decode to zero values.
func Parse(raw []byte) ([]snippet.Snippet, error) {
	elems, err := splitArray(raw)
	if err != nil {
		return nil, err
	}
	items := make([]snippet.Snippet, 0, len(elems))
	for _, elem := range elems {
		items = append(items, decodeLenient(elem))
	}
	return items, nil
}

// ParseStrict decodes raw and validates every element. Elements must be
// objects with string fields, pass snippet validation after normalization
// and carry ids unique within the batch and against existing. Missing ids
// and timestamps are filled in.
func ParseStrict(raw []byte, existing []snippet.Snippet, now time.Time) ([]snippet.Snippet, error) {
	elems, err := splitArray(raw)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(existing)+len(elems))
	for _, s := range existing {
		seen[s.ID] = struct{}{}
	}

	items := make([]snippet.Snippet, 0, len(elems))
	for i, elem := range elems {
		if !isObject(elem) {
			return nil, apperror.InvalidFormat(fmt.Sprintf("element %d is not an object", i), nil)
		}
		var s snippet.Snippet
		if err := json.Unmarshal(elem, &s); err != nil {
			return nil, apperror.InvalidFormat(fmt.Sprintf("element %d is not a snippet", i), err)
		}

		s = snippet.Normalize(s)
		if err := snippet.Validate(s); err != nil {
			return nil, atElement(i, err)
		}
		if s.ID == "" {
			s.ID = snippet.NewID()
		}
		if _, dup := seen[s.ID]; dup {
			return nil, apperror.ValidationFailed("id", fmt.Sprintf("element %d: duplicate id %s", i, s.ID))
		}
		seen[s.ID] = struct{}{}
		if strings.TrimSpace(s.CreatedAt) == "" {
			s.CreatedAt = snippet.Timestamp(now)
		}
		items = append(items, s)
	}
	return items, nil
}

func splitArray(raw []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, apperror.InvalidFormat("import file is empty", nil)
	}
	if trimmed[0] != '[' {
		if !json.Valid(trimmed) {
			return nil, apperror.InvalidFormat("import file is not valid JSON", nil)
		}
		return nil, apperror.InvalidFormat("import file must contain a JSON array of snippets", nil)
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, apperror.InvalidFormat("import file is not valid JSON", err)
	}
	return elems, nil
}

func isObject(elem json.RawMessage) bool {
	trimmed := bytes.TrimSpace(elem)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func decodeLenient(elem json.RawMessage) snippet.Snippet {
	s := snippet.Snippet{Tags: []string{}}
	if !isObject(elem) {
		return s
	}

	var fields map[string]any
	dec := json.NewDecoder(bytes.NewReader(elem))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return s
	}

	s.ID = scalar(fields["id"])
	s.Title = text(fields["title"])
	s.Content = text(fields["content"])
	s.CreatedAt = text(fields["createdAt"])
	if list, ok := fields["tags"].([]any); ok {
		for _, v := range list {
			if tag, ok := v.(string); ok {
				s.Tags = append(s.Tags, tag)
			}
		}
	}
	return s
}

func text(v any) string {
	s, _ := v.(string)
	return s
}

// scalar renders string and numeric ids; older exports used millisecond
// timestamps as numeric ids.
func scalar(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case json.Number:
		return id.String()
	default:
		return ""
	}
}

func atElement(i int, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return apperror.ValidationFailed(appErr.Field, fmt.Sprintf("element %d: %s", i, appErr.Message))
	}
	return fmt.Errorf("element %d: %w", i, err)
}
