// Package extract pulls fixed fields out of raw JSON-RPC response text.
//
// The Scan functions are substring scans, not a JSON parser. They look for
// the first occurrence of a literal `"key":` pattern anywhere in the buffer,
// so a key that also appears at a different nesting level can match the
// wrong value, and escaped quotes inside strings are not honoured. Strict
// (see strict.go) decodes the document properly for callers that need it.
//
// None of the functions return errors. Absent or undecodable fields decode
// to the zero value.
package extract

import (
	"strconv"
	"strings"
)

// DefaultEpochLength replaces a decoded epoch length of zero.
const DefaultEpochLength = 1800

// HexField returns the value of the first `"key":"0x…"` fragment in buf.
// It returns 0 when the key is absent, the value lacks the 0x prefix, the
// closing quote is missing, or the digits do not fit a uint64.
func HexField(buf, key string) uint64 {
	pat := `"` + key + `":"0x`
	i := strings.Index(buf, pat)
	if i < 0 {
		return 0
	}
	rest := buf[i+len(pat):]
	end := strings.IndexByte(rest, '"')
	if end <= 0 {
		return 0
	}
	v, err := strconv.ParseUint(rest[:end], 16, 64)
	if err != nil {
		return 0
	}
	return v
}

// ArrayLength counts the elements of the array that follows `"key":[`.
// Commas are counted only at the array's own depth, so nested arrays and
// objects inside elements do not inflate the count.
func ArrayLength(buf, key string) uint32 {
	pat := `"` + key + `":[`
	i := strings.Index(buf, pat)
	if i < 0 {
		return 0
	}
	rest := buf[i+len(pat):]
	if len(rest) == 0 || rest[0] == ']' {
		return 0
	}

	count := uint32(1)
	depth := 1
	for j := 0; j < len(rest) && depth > 0; j++ {
		switch rest[j] {
		case '[', '{':
			depth++
		case ']', '}':
			depth--
		case ',':
			if depth == 1 {
				count++
			}
		}
	}
	return count
}

// QuotedString returns the text between `"key":"` and the next quote.
// Escape sequences are not interpreted; an escaped quote ends the value.
func QuotedString(buf, key string) string {
	pat := `"` + key + `":"`
	i := strings.Index(buf, pat)
	if i < 0 {
		return ""
	}
	rest := buf[i+len(pat):]
	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return ""
	}
	return rest[:end]
}

// EpochFields is the decoded form of a packed epoch descriptor.
type EpochFields struct {
	Number uint64
	Index  uint32
	Length uint32
}

// UnpackEpoch splits a packed epoch value. Bits 0-15 hold the index, bits
// 16-31 the length and bits 32-55 the epoch number; higher bits are ignored.
func UnpackEpoch(v uint64) EpochFields {
	e := EpochFields{
		Number: (v >> 32) & 0xFFFFFF,
		Length: uint32((v >> 16) & 0xFFFF),
		Index:  uint32(v & 0xFFFF),
	}
	if e.Length == 0 {
		e.Length = DefaultEpochLength
	}
	return e
}

// PackEpoch is the inverse of UnpackEpoch for in-range values.
func PackEpoch(e EpochFields) uint64 {
	return (e.Number&0xFFFFFF)<<32 | uint64(e.Length&0xFFFF)<<16 | uint64(e.Index&0xFFFF)
}

// Epoch decodes the "epoch" hex field of a tip header response.
func Epoch(buf string) EpochFields {
	return UnpackEpoch(HexField(buf, "epoch"))
}

// NodeIDSuffix shortens a node identifier for display: "..." followed by
// its last 16 characters. Shorter ids are returned whole behind the prefix.
func NodeIDSuffix(id string) string {
	if id == "" {
		return ""
	}
	if len(id) > 16 {
		id = id[len(id)-16:]
	}
	return "..." + id
}
