package render

import (
	"encoding/binary"
	"unicode/utf8"
)

const (
	asciiHighBitsMask uint64 = 0x8080808080808080
	repeatOnes        uint64 = 0x0101010101010101
	controlThreshold  uint64 = 0x2020202020202020
	quoteMask         uint64 = 0x2222222222222222
	backslashMask     uint64 = 0x5c5c5c5c5c5c5c5c
	spaceMask         uint64 = 0x2020202020202020
	equalsMask        uint64 = 0x3d3d3d3d3d3d3d3d
	delMask           uint64 = 0x7f7f7f7f7f7f7f7f
)

// chunkEqual reports whether any byte of chunk equals the byte repeated in
// target. It may report a false positive next to a real match, so callers
// only use it to skip clean chunks.
func chunkEqual(chunk, target uint64) bool {
	x := chunk ^ target
	return (x-repeatOnes)&^x&asciiHighBitsMask != 0
}

func chunkHasControl(chunk uint64) bool {
	return (chunk-controlThreshold)&^chunk&asciiHighBitsMask != 0
}

func chunkJSONClean(chunk uint64) bool {
	return chunk&asciiHighBitsMask == 0 &&
		!chunkHasControl(chunk) &&
		!chunkEqual(chunk, quoteMask) &&
		!chunkEqual(chunk, backslashMask)
}

func chunkConsoleClean(chunk uint64) bool {
	return !chunkHasControl(chunk) &&
		!chunkEqual(chunk, quoteMask) &&
		!chunkEqual(chunk, backslashMask) &&
		!chunkEqual(chunk, spaceMask) &&
		!chunkEqual(chunk, equalsMask) &&
		!chunkEqual(chunk, delMask)
}

var jsonNeedsEscape = func() [256]bool {
	var table [256]bool
	for i := range 0x20 {
		table[i] = true
	}
	table['"'] = true
	table['\\'] = true
	for i := 0x80; i < 0x100; i++ {
		table[i] = true
	}
	return table
}()

var consoleNeedsQuote = func() [256]bool {
	var table [256]bool
	for i := range 0x20 {
		table[i] = true
	}
	table[' '] = true
	table['"'] = true
	table['\\'] = true
	table['='] = true
	table[0x7f] = true
	return table
}()

// firstJSONUnsafe returns the index of the first byte of s that cannot be
// copied verbatim into a JSON string, or len(s).
func firstJSONUnsafe(s string) int {
	i := 0
	for ; i+8 <= len(s); i += 8 {
		if !chunkJSONClean(binary.LittleEndian.Uint64([]byte(s[i : i+8]))) {
			break
		}
	}
	for ; i < len(s); i++ {
		if jsonNeedsEscape[s[i]] {
			return i
		}
	}
	return len(s)
}

func needsQuote(s string) bool {
	if s == "" {
		return true
	}
	i := 0
	for ; i+8 <= len(s); i += 8 {
		if !chunkConsoleClean(binary.LittleEndian.Uint64([]byte(s[i : i+8]))) {
			break
		}
	}
	for ; i < len(s); i++ {
		if consoleNeedsQuote[s[i]] {
			return true
		}
	}
	return false
}

// appendJSONString appends s as a quoted JSON string. Invalid UTF-8 is
// replaced with U+FFFD.
func appendJSONString(dst []byte, s string) []byte {
	const hex = "0123456789abcdef"
	dst = append(dst, '"')
	for len(s) > 0 {
		idx := firstJSONUnsafe(s)
		dst = append(dst, s[:idx]...)
		if idx == len(s) {
			break
		}
		s = s[idx:]
		c := s[0]
		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(s)
			if r == utf8.RuneError && size == 1 {
				dst = append(dst, "\ufffd"...)
			} else {
				dst = append(dst, s[:size]...)
			}
			s = s[size:]
			continue
		}
		switch c {
		case '\\', '"':
			dst = append(dst, '\\', c)
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			dst = append(dst, '\\', 'u', '0', '0', hex[c>>4], hex[c&0x0f])
		}
		s = s[1:]
	}
	return append(dst, '"')
}

// appendConsoleString appends s bare when it is a single token and quoted
// otherwise.
func appendConsoleString(dst []byte, s string) []byte {
	if !needsQuote(s) {
		return append(dst, s...)
	}
	const hex = "0123456789abcdef"
	dst = append(dst, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' || c == '"':
			dst = append(dst, '\\', c)
		case c == '\n':
			dst = append(dst, '\\', 'n')
		case c == '\r':
			dst = append(dst, '\\', 'r')
		case c == '\t':
			dst = append(dst, '\\', 't')
		case c < 0x20 || c == 0x7f:
			dst = append(dst, '\\', 'x', hex[c>>4], hex[c&0x0f])
		default:
			dst = append(dst, c)
		}
	}
	return append(dst, '"')
}

// appendConsoleMessage appends a free-text message. Spaces are kept, control
// characters are escaped so one record stays on one line.
func appendConsoleMessage(dst []byte, s string) []byte {
	const hex = "0123456789abcdef"
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\n':
			dst = append(dst, '\\', 'n')
		case c == '\r':
			dst = append(dst, '\\', 'r')
		case c == '\t':
			dst = append(dst, '\\', 't')
		case c < 0x20 || c == 0x7f:
			dst = append(dst, '\\', 'x', hex[c>>4], hex[c&0x0f])
		default:
			dst = append(dst, c)
		}
	}
	return dst
}
