package gradebook

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Source is a gradebook held in memory. Byte offsets used by Cursor refer to
// the decompressed text.
type Source struct {
	Name string
	data []byte
}

// Cursor marks where the header section ended: Offset is the byte offset of
// the first student-section line and Line the number of lines before it.
type Cursor struct {
	Offset int64 `json:"offset"`
	Line   int   `json:"line"`
}

func OpenFile(path string) (*Source, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading gradebook: %w", err)
	}
	return Open(path, content)
}

// Open wraps an in-memory gradebook, decompressing gzip or zstd payloads.
func Open(name string, content []byte) (*Source, error) {
	data, err := decompress(content)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", name, err)
	}
	return &Source{Name: name, data: data}, nil
}

func decompress(content []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(content, gzipMagic):
		slog.Debug("gradebook is gzip compressed")
		zr, err := gzip.NewReader(bytes.NewReader(content))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case bytes.HasPrefix(content, zstdMagic):
		slog.Debug("gradebook is zstd compressed")
		zr, err := zstd.NewReader(bytes.NewReader(content))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	}
	return content, nil
}

func (s *Source) Size() int {
	return len(s.data)
}

// Lines returns a reader positioned at the cursor.
func (s *Source) Lines(from Cursor) (*LineReader, error) {
	if from.Offset < 0 || from.Offset > int64(len(s.data)) {
		return nil, fmt.Errorf("cursor offset %d outside of %s (%d bytes)", from.Offset, s.Name, len(s.data))
	}
	return &LineReader{data: s.data, pos: from.Offset, lineNo: from.Line}, nil
}

type Line struct {
	Text   string
	Offset int64
	Number int
}

type LineReader struct {
	data   []byte
	pos    int64
	lineNo int
}

// Next returns the next line without its terminator. ok is false at the end
// of input.
func (lr *LineReader) Next() (line Line, ok bool) {
	if lr.pos >= int64(len(lr.data)) {
		return Line{}, false
	}
	start := lr.pos
	rest := lr.data[start:]
	end := bytes.IndexByte(rest, '\n')
	var text []byte
	if end < 0 {
		text = rest
		lr.pos = int64(len(lr.data))
	} else {
		text = rest[:end]
		lr.pos = start + int64(end) + 1
	}
	text = bytes.TrimSuffix(text, []byte{'\r'})
	lr.lineNo++
	return Line{Text: string(text), Offset: start, Number: lr.lineNo}, true
}

// Cursor points at the line that Next would return.
func (lr *LineReader) Cursor() Cursor {
	return Cursor{Offset: lr.pos, Line: lr.lineNo}
}
