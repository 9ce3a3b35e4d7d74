package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/five82/snipbox/internal/apperror"
	"github.com/five82/snipbox/internal/snippet"
)

// ExportFileName is the conventional name of an exported collection.
const ExportFileName = "snippets.json"

// Adapter serializes the snippet collection into a Slot.
type Adapter struct {
	slot Slot
}

func NewAdapter(slot Slot) *Adapter {
	return &Adapter{slot: slot}
}

// Load reads the collection. A never-written slot yields an empty collection;
// unparseable content is reported as an invalid format error.
func (a *Adapter) Load() ([]snippet.Snippet, error) {
	data, ok, err := a.slot.Read()
	if err != nil {
		return nil, err
	}
	if !ok || len(bytes.TrimSpace(data)) == 0 {
		return []snippet.Snippet{}, nil
	}
	var items []snippet.Snippet
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, apperror.InvalidFormat("stored snippets are not readable", err)
	}
	if items == nil {
		items = []snippet.Snippet{}
	}
	return items, nil
}

// Save overwrites the slot with the full collection.
func (a *Adapter) Save(items []snippet.Snippet) error {
	data, err := encode(items, "")
	if err != nil {
		return fmt.Errorf("encode snippets: %w", err)
	}
	return a.slot.Write(data)
}

// Close releases the underlying slot.
func (a *Adapter) Close() error {
	return a.slot.Close()
}

// Export renders a pretty-printed snapshot for the user to keep. It has no side effects.
func Export(items []snippet.Snippet) ([]byte, error) {
	data, err := encode(items, "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return data, nil
}

// ExportFile writes Export output to dir/snippets.json and returns the path.
func ExportFile(dir string, items []snippet.Snippet) (string, error) {
	data, err := Export(items)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, ExportFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

// encode writes JSON without HTML escaping so code like "<div>" stays readable.
// The output ends with a newline.
func encode(items []snippet.Snippet, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(nonNil(items)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func nonNil(items []snippet.Snippet) []snippet.Snippet {
	if items == nil {
		return []snippet.Snippet{}
	}
	return items
}
