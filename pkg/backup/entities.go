package backup

import (
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// surrogatePairs rewrites pairs of numeric character references to UTF-16 surrogates, which is how
// Android exports encode emoji (&#55357;&#56832;), into the UTF-8 encoding of the combined rune.
// encoding/xml would otherwise decode each half to U+FFFD.
type surrogatePairs struct {
	transform.NopResetter
}

func (surrogatePairs) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if src[nSrc] != '&' {
			end := nSrc + 1
			for end < len(src) && src[end] != '&' {
				end++
			}
			n := copy(dst[nDst:], src[nSrc:end])
			short := nSrc+n < end
			nDst += n
			nSrc += n
			if short {
				return nDst, nSrc, transform.ErrShortDst
			}
			continue
		}

		r, size, more := matchSurrogatePair(src[nSrc:])
		if more && !atEOF {
			return nDst, nSrc, transform.ErrShortSrc
		}
		if size == 0 {
			if nDst >= len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = '&'
			nDst++
			nSrc++
			continue
		}
		if nDst+utf8.RuneLen(r) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], r)
		nSrc += size
	}
	return nDst, nSrc, nil
}

// matchSurrogatePair reports the rune encoded by a high/low surrogate reference pair at the start of
// b and the number of bytes it spans. more is set when b ends before a decision can be made.
func matchSurrogatePair(b []byte) (r rune, size int, more bool) {
	high, i, more := matchCharRef(b, 0)
	if more || i == 0 || !utf16.IsSurrogate(high) {
		return 0, 0, more
	}
	low, j, more := matchCharRef(b, i)
	if more || j == i {
		return 0, 0, more
	}
	r = utf16.DecodeRune(high, low)
	if r == utf8.RuneError {
		return 0, 0, false
	}
	return r, j, false
}

// matchCharRef parses a decimal reference "&#NNN;" at b[i:], returning its value and end offset. The
// end offset equals i when there is no reference.
func matchCharRef(b []byte, i int) (rune, int, bool) {
	j := i
	for _, c := range []byte("&#") {
		if j >= len(b) {
			return 0, i, true
		}
		if b[j] != c {
			return 0, i, false
		}
		j++
	}

	var v rune
	start := j
	for j < len(b) && b[j] >= '0' && b[j] <= '9' && j-start < 7 {
		v = v*10 + rune(b[j]-'0')
		j++
	}
	if j >= len(b) {
		return 0, i, true
	}
	if j == start || b[j] != ';' {
		return 0, i, false
	}
	return v, j + 1, false
}
