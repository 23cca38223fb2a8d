package logtail

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/five82/pulsar/internal/entity"
)

const maxLineSize = 4 * 1024 * 1024

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
// gzip and zstd compressed files are decompressed transparently.
func Read(path string, maxLines int) ([]string, error) {
	r, err := open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer r.Close()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Import is the result of reading an NDJSON entity file.
type Import struct {
	Records []entity.Record
	// Skipped counts lines that were not valid records.
	Skipped int
}

// ReadRecords parses the last maxRecords lines of an NDJSON file, one
// entity.Record per line. Blank lines are ignored and malformed ones
// counted in Skipped.
func ReadRecords(path string, maxRecords int) (Import, error) {
	lines, err := Read(path, maxRecords)
	if err != nil {
		return Import{}, err
	}
	var out Import
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var rec entity.Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			out.Skipped++
			continue
		}
		out.Records = append(out.Records, rec)
	}
	return out, nil
}

type multiCloser struct {
	io.Reader
	closers []func() error
}

func (m *multiCloser) Close() error {
	var errs []error
	for _, c := range m.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// open returns a reader over the file contents, inflating gzip and zstd.
func open(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	br := bufio.NewReader(file)
	magic, _ := br.Peek(4)

	switch {
	case bytes.HasPrefix(magic, []byte{0x1f, 0x8b}):
		zr, err := gzip.NewReader(br)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("open gzip log: %w", err)
		}
		return &multiCloser{Reader: zr, closers: []func() error{zr.Close, file.Close}}, nil
	case bytes.HasPrefix(magic, []byte{0x28, 0xb5, 0x2f, 0xfd}):
		zr, err := zstd.NewReader(br)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("open zstd log: %w", err)
		}
		return &multiCloser{Reader: zr, closers: []func() error{func() error { zr.Close(); return nil }, file.Close}}, nil
	default:
		return &multiCloser{Reader: br, closers: []func() error{file.Close}}, nil
	}
}
