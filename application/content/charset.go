package content

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// Encoding resolves a charset name. It returns nil for blank, unknown and
// UTF-8 names; callers treat nil as UTF-8.
func Encoding(charset string) encoding.Encoding {
	charset = strings.TrimSpace(charset)
	if charset == "" {
		return nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil
	}
	if name, err := htmlindex.Name(enc); err == nil && name == "utf-8" {
		return nil
	}
	return enc
}

// DecodeText converts data in the given charset to a Go string. Unsupported
// charsets and undecodable input fall back to the raw bytes read as UTF-8.
func DecodeText(data []byte, charset string) string {
	if len(data) == 0 {
		return ""
	}
	enc := Encoding(charset)
	if enc == nil {
		return string(data)
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(out)
}
