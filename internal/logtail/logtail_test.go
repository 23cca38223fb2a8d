package logtail

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/five82/pulsar/internal/entity"
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
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read(missing) = %v, %v; want nil, nil", got, err)
	}
}

func TestRead_Compressed(t *testing.T) {
	tmpDir := t.TempDir()
	content := []byte("one\ntwo\nthree\n")

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, _ = zw.Write(content)
	_ = zw.Close()

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	zst := enc.EncodeAll(content, nil)
	enc.Close()

	for name, data := range map[string][]byte{"log.gz": gz.Bytes(), "log.zst": zst} {
		path := filepath.Join(tmpDir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		got, err := Read(path, 2)
		if err != nil {
			t.Fatalf("Read(%s) error = %v", name, err)
		}
		if want := []string{"two", "three"}; !reflect.DeepEqual(got, want) {
			t.Fatalf("Read(%s) = %v, want %v", name, got, want)
		}
	}
}

func TestReadRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.ndjson")
	lines := []string{
		`{"ts":"2026-01-02T03:04:05Z","level":"warning","label":"db","msg":"slow query"}`,
		``,
		`{not json`,
		`{"ts":"2026-01-02T03:04:06Z","level":"debug","label":"network","msg":"","task":{"method":"POST","url":"https://x.io/a","state":"failure","status_code":0,"error_code":-1001}}`,
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	imp, err := ReadRecords(path, 0)
	if err != nil {
		t.Fatalf("ReadRecords error = %v", err)
	}
	if imp.Skipped != 1 || len(imp.Records) != 2 {
		t.Fatalf("import = %d records, %d skipped; want 2, 1", len(imp.Records), imp.Skipped)
	}
	e := imp.Records[1].Entity()
	if e.Task == nil || e.Task.State != entity.TaskFailure || entity.StatusTitle(e.Task) != "-1001 (Timed Out)" {
		t.Fatalf("task = %+v", e.Task)
	}
	if got := imp.Records[0].Entity(); got.Level != entity.LevelWarning || got.Label != "db" {
		t.Fatalf("first entity = %+v", got)
	}

	tail, err := ReadRecords(path, 1)
	if err != nil || len(tail.Records) != 1 || tail.Records[0].Label != "network" {
		t.Fatalf("tail import = %+v, %v", tail, err)
	}
}
