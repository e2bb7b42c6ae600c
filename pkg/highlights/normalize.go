package highlights

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

const (
	sentenceClass = "sentence"

	zeroWidthSpace = '\u200b'
	byteOrderMark  = '\ufeff'
)

// span is a half-open byte range [start, end).
type span struct {
	start int
	end   int
}

// RemoveSentenceSpam strips the noise the reader's text-to-speech bridge
// leaves in captured text: the sentence wrappers it puts around every sentence
// (`<span class="sentence">` and its matching `</span>`), zero-width markers
// (U+200B, U+FEFF) and repeated whitespace, which is cut down to the first
// whitespace byte of each run. All other bytes are kept as they are, and the
// result is a fixed point:
// RemoveSentenceSpam(RemoveSentenceSpam(s)) == RemoveSentenceSpam(s).
func RemoveSentenceSpam(s string) string {
	out, _ := normalize(s, true)
	return out
}

// normalize runs removal passes until nothing more is removed and returns the
// result along with the removed ranges of every pass, in pass order. Each
// pass's ranges are relative to that pass's input. Whitespace runs are only
// collapsed when collapseSpace is set.
func normalize(s string, collapseSpace bool) (string, [][]span) {
	removals := []func(string) (string, []span){removeSentenceSpans, removeZeroWidth}
	if collapseSpace {
		removals = append(removals, collapseWhitespace)
	}

	var passes [][]span
	for {
		changed := false
		for _, remove := range removals {
			out, removed := remove(s)
			if len(removed) == 0 {
				continue
			}
			passes = append(passes, removed)
			s = out
			changed = true
		}
		if !changed {
			return s, passes
		}
	}
}

// mapOffset translates a byte offset in the input of normalize to the
// matching offset in its output. Offsets inside a removed range collapse to
// the start of that range.
func mapOffset(offset int, passes [][]span) int {
	for _, removed := range passes {
		shift := 0
		for _, r := range removed {
			if r.start >= offset {
				break
			}
			if r.end <= offset {
				shift += r.end - r.start
			} else {
				shift += offset - r.start
			}
		}
		offset -= shift
	}
	return offset
}

// removeSentenceSpans does a single pass with the HTML tokenizer. Tokens are
// copied through by their raw bytes so nothing outside of the removed tags is
// re-encoded. Unmatched closing spans belong to markup outside the fragment
// and are kept.
func removeSentenceSpans(s string) (string, []span) {
	if !strings.Contains(s, sentenceClass) {
		return s, nil
	}

	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	b.Grow(len(s))

	var removed []span
	var open []bool
	pos := 0

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		raw := z.Raw()
		drop := false

		//nolint:exhaustive // only span tags matter here
		switch tt {
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			if string(name) == "span" {
				sentence := hasAttr && hasSentenceClass(z)
				open = append(open, sentence)
				drop = sentence
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "span" && len(open) > 0 {
				drop = open[len(open)-1]
				open = open[:len(open)-1]
			}
		}

		if drop {
			removed = append(removed, span{pos, pos + len(raw)})
		} else {
			b.Write(raw)
		}
		pos += len(raw)
	}

	if len(removed) == 0 {
		return s, nil
	}

	// Whatever the tokenizer did not hand back (a tag cut off at the end of
	// the fragment, for instance) is kept verbatim.
	b.WriteString(s[pos:])
	return b.String(), removed
}

func hasSentenceClass(z *html.Tokenizer) bool {
	for {
		key, val, more := z.TagAttr()
		if string(key) == "class" {
			for _, c := range strings.Fields(string(val)) {
				if c == sentenceClass {
					return true
				}
			}
		}
		if !more {
			return false
		}
	}
}

// removeZeroWidth drops U+200B and U+FEFF. Other bytes, including invalid
// UTF-8, are copied through untouched.
func removeZeroWidth(s string) (string, []span) {
	if !strings.ContainsRune(s, zeroWidthSpace) && !strings.ContainsRune(s, byteOrderMark) {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	var removed []span
	last := 0
	for i, r := range s {
		if r != zeroWidthSpace && r != byteOrderMark {
			continue
		}
		b.WriteString(s[last:i])
		end := i + utf8.RuneLen(r)
		removed = append(removed, span{i, end})
		last = end
	}
	b.WriteString(s[last:])
	return b.String(), removed
}

// collapseWhitespace keeps the first byte of every whitespace run and drops
// the rest.
func collapseWhitespace(s string) (string, []span) {
	var b strings.Builder
	var removed []span
	last := 0
	for i := 1; i < len(s); i++ {
		if !isSpace(s[i]) || !isSpace(s[i-1]) {
			continue
		}
		if n := len(removed); n > 0 && removed[n-1].end == i {
			removed[n-1].end = i + 1
			continue
		}
		removed = append(removed, span{i, i + 1})
	}
	if len(removed) == 0 {
		return s, nil
	}

	b.Grow(len(s))
	for _, r := range removed {
		b.WriteString(s[last:r.start])
		last = r.end
	}
	b.WriteString(s[last:])
	return b.String(), removed
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}
