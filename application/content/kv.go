package content

import (
	"net/url"
	"strings"

	"http-logging/application/masking"
	"http-logging/domain/entity"
)

// ParseQuery splits a raw query string into an ordered block. Keys and values
// are percent-decoded and then read in the given charset. A part without '='
// is recorded with an empty value. Malformed escapes are kept verbatim.
func ParseQuery(raw, charset string) *entity.KeyValueBlock {
	block := entity.NewKeyValueBlock()
	if raw == "" {
		return block
	}
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		block.Add(unescape(key, charset), unescape(value, charset))
	}
	return block
}

// ParseForm parses the raw bytes of an application/x-www-form-urlencoded body.
// Splitting and percent-decoding work on bytes; each key and value is then
// read in charset exactly once.
func ParseForm(raw []byte, charset string) *entity.KeyValueBlock {
	return ParseQuery(strings.TrimSpace(string(raw)), charset)
}

func unescape(s, charset string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return DecodeText([]byte(decoded), charset)
}

// EncodeMasked re-encodes a block as a query string with sensitive values
// replaced. Key order is preserved.
func EncodeMasked(block *entity.KeyValueBlock, policy masking.Policy) string {
	var sb strings.Builder
	for _, key := range block.Keys() {
		values := policy.MaskValues(key, block.Values(key))
		if len(values) == 0 {
			values = []string{""}
		}
		for _, v := range values {
			if sb.Len() > 0 {
				sb.WriteByte('&')
			}
			sb.WriteString(url.QueryEscape(key))
			sb.WriteByte('=')
			if policy.Matches(key) {
				sb.WriteString(v)
			} else {
				sb.WriteString(url.QueryEscape(v))
			}
		}
	}
	return sb.String()
}
