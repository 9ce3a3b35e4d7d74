package logtail

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	// Create a temporary log file
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	// Write 10 lines of content
	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got != nil {
		t.Fatalf("Read() = %v, want nil", got)
	}
}

func TestTail_Reader(t *testing.T) {
	got, err := Tail(strings.NewReader("a\nb\nc\n"), 2)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Fatalf("Tail() = %v, want [b c]", got)
	}
}

func TestLevelOf(t *testing.T) {
	tests := []struct {
		line   string
		want   slog.Level
		wantOK bool
	}{
		{`time=2024-06-01T12:00:00.000Z level=INFO msg="snippet created" id=abc`, slog.LevelInfo, true},
		{`time=2024-06-01T12:00:00.000Z level=WARN msg="clipboard unavailable"`, slog.LevelWarn, true},
		{`time=2024-06-01T12:00:00.000Z level=ERROR msg="persist snippets failed"`, slog.LevelError, true},
		{`time=2024-06-01T12:00:00.000Z level=DEBUG msg="snippets saved"`, slog.LevelDebug, true},
		{`plain text without level`, 0, false},
		{`level=LOUD msg=x`, 0, false},
	}
	for _, tt := range tests {
		got, ok := LevelOf(tt.line)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("LevelOf(%q) = %v, %v; want %v, %v", tt.line, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestAtLeast(t *testing.T) {
	lines := []string{
		`level=DEBUG msg="snippets saved"`,
		`level=INFO msg="snippet created"`,
		`level=WARN msg="import rejected"`,
		`continuation`,
		`level=ERROR msg="persist snippets failed"`,
	}
	got := AtLeast(lines, slog.LevelWarn)
	want := []string{lines[2], lines[3], lines[4]}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AtLeast() = %v, want %v", got, want)
	}
}
