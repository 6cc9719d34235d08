package registry

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strconv"
)

// Canonical serializes the registry into its canonical byte form: JSON with
// keys sorted lexicographically at every nesting level, "," and ":" as the
// only separators, and non-ASCII characters preserved literally. The digest
// published next to the registry is computed over exactly these bytes, so
// this form must stay stable across releases.
func Canonical(r Registry) []byte {
	entries := make(map[string]any, len(r))
	for name, entry := range r {
		entries[name] = entry.Fields()
	}
	var buf bytes.Buffer
	writeCanonical(&buf, entries)
	return buf.Bytes()
}

// ContentHash computes the registry content digest: the MD5 of the canonical
// serialization, rendered as 32 lowercase hex characters. MD5 is a change
// detector here, not a cryptographic commitment.
func ContentHash(r Registry) string {
	sum := md5.Sum(Canonical(r))
	return hex.EncodeToString(sum[:])
}

func writeCanonical(buf *bytes.Buffer, v any) {
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(t))
	case int:
		buf.WriteString(strconv.Itoa(t))
	case int64:
		buf.WriteString(strconv.FormatInt(t, 10))
	case float64:
		buf.WriteString(strconv.FormatFloat(t, 'g', -1, 64))
	case string:
		writeCanonicalString(buf, t)
	case []string:
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCanonicalString(buf, item)
		}
		buf.WriteByte(']')
	case []any:
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCanonical(buf, item)
		}
		buf.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCanonicalString(buf, k)
			buf.WriteByte(':')
			writeCanonical(buf, t[k])
		}
		buf.WriteByte('}')
	default:
		// Shapes outside the registry data model; encoding/json output is
		// still deterministic for them.
		b, _ := json.Marshal(t)
		buf.Write(b)
	}
}

// writeCanonicalString escapes only what JSON requires: quote, backslash,
// and control characters. Everything else, including non-ASCII, is written
// literally as UTF-8.
func writeCanonicalString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		default:
			if r < 0x20 {
				buf.WriteString(`\u`)
				hexDigits := strconv.FormatInt(int64(r), 16)
				for len(hexDigits) < 4 {
					hexDigits = "0" + hexDigits
				}
				buf.WriteString(hexDigits)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}
