package content

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// MaxDecodedSize caps the output of Decompress. Anything beyond is dropped; the
// logger truncates far earlier anyway.
const MaxDecodedSize = 8 << 20

// ErrUnsupportedEncoding is returned for content codings Decompress does not know.
var ErrUnsupportedEncoding = errors.New("unsupported content encoding")

// Decompress reverses a Content-Encoding header value. Multiple codings are
// undone in reverse order of application. The input is never modified.
func Decompress(data []byte, contentEncoding string) ([]byte, error) {
	codings := strings.Split(contentEncoding, ",")
	out := data
	for i := len(codings) - 1; i >= 0; i-- {
		coding := strings.ToLower(strings.TrimSpace(codings[i]))
		var err error
		out, err = decodeOne(out, coding)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// IsIdentity reports whether contentEncoding leaves the bytes untouched.
func IsIdentity(contentEncoding string) bool {
	for _, c := range strings.Split(contentEncoding, ",") {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" && c != "identity" {
			return false
		}
	}
	return true
}

func decodeOne(data []byte, coding string) ([]byte, error) {
	switch coding {
	case "", "identity":
		return data, nil
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("creating gzip reader: %w", err)
		}
		defer zr.Close()
		return readLimited(zr, "gzip")
	case "deflate":
		// 规范要求 zlib 包装，但不少服务端发送裸 deflate
		if zr, err := zlib.NewReader(bytes.NewReader(data)); err == nil {
			defer zr.Close()
			return readLimited(zr, "deflate")
		}
		fr := flate.NewReader(bytes.NewReader(data))
		defer fr.Close()
		return readLimited(fr, "deflate")
	case "br":
		return readLimited(brotli.NewReader(bytes.NewReader(data)), "brotli")
	case "zstd":
		dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxDecodedSize))
		if err != nil {
			return nil, fmt.Errorf("creating zstd decoder: %w", err)
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("reading zstd content: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, coding)
	}
}

func readLimited(r io.Reader, name string) ([]byte, error) {
	out, err := io.ReadAll(io.LimitReader(r, MaxDecodedSize))
	if err != nil {
		return nil, fmt.Errorf("reading %s content: %w", name, err)
	}
	return out, nil
}
