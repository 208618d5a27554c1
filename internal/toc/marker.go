package toc

import "bytes"

// Marker is the placeholder replaced by the table of contents.
const Marker = "[[toc]]"

var markerBytes = []byte(Marker)

// DetectMarker reports whether src holds the TOC marker starting exactly at
// pos. The match is case-insensitive and must be the whole remainder of the
// line, apart from trailing spaces or tabs.
//
// On a match the returned index is the position of the next newline, or
// len(src) when the marker sits on the last line: the marker claims its line.
// Otherwise pos is returned unchanged.
func DetectMarker(src []byte, pos int) (int, bool) {
	if pos < 0 || pos >= len(src) || src[pos] != '[' {
		return pos, false
	}

	end := pos + len(markerBytes)
	if end > len(src) || !bytes.EqualFold(src[pos:end], markerBytes) {
		return pos, false
	}

	rest := end
	for rest < len(src) && (src[rest] == ' ' || src[rest] == '\t') {
		rest++
	}
	if rest < len(src) && src[rest] != '\n' && src[rest] != '\r' {
		return pos, false
	}

	if nl := bytes.IndexByte(src[end:], '\n'); nl >= 0 {
		return end + nl, true
	}
	return len(src), true
}
