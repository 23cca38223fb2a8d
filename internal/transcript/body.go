package transcript

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/five82/pulsar/internal/entity"
)

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	gzipMagic = []byte{0x1f, 0x8b}
)

var (
	zstdOnce    sync.Once
	zstdDecoder *zstd.Decoder
	zstdErr     error
)

func sharedZstd() (*zstd.Decoder, error) {
	zstdOnce.Do(func() {
		zstdDecoder, zstdErr = zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	})
	return zstdDecoder, zstdErr
}

// DecodeBody returns the payload of a stored response body, inflating zstd
// and gzip blobs. Undecodable blobs are returned unchanged.
func DecodeBody(data []byte) []byte {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		dec, err := sharedZstd()
		if err != nil {
			return data
		}
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return data
		}
		return out
	case bytes.HasPrefix(data, gzipMagic):
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return data
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return data
		}
		return out
	default:
		return data
	}
}

func appendBody(t *Text, data []byte) {
	data = DecodeBody(data)
	if appendJSON(t, data) {
		return
	}
	if utf8.Valid(data) {
		t.Append(Span{Text: string(data), Style: StyleMessage, Level: entity.LevelDebug})
		return
	}
	t.Append(Span{
		Text:  fmt.Sprintf("<binary data, %d bytes>", len(data)),
		Style: StyleMessage,
		Level: entity.LevelTrace,
	})
}
