package template

import (
	"strings"
)

// Captures maps capture names to the text they consumed. Filename captures
// overwrite directory captures on name collision.
type Captures map[string]string

// Match tests a concrete path, relative to the template's scope, against
// the template. It returns the captures and true on success, or nil and
// false on rejection. The extension is compared literally before anything
// else is looked at.
func Match(relPath string, t *Template) (Captures, bool) {
	relPath = strings.Trim(relPath, "/")
	comps := strings.Split(relPath, "/")
	final := comps[len(comps)-1]
	dirComps := comps[:len(comps)-1]

	stem, ext := splitExt(final)
	if ext != t.Ext {
		return nil, false
	}

	caps := make(Captures)

	di := 0
	for gi, group := range t.DirSegments {
		if len(group) == 1 && group[0].Kind == SegmentSpread {
			// Greedy, but reserve one trailing component per static
			// segment remaining in the pattern so those still have
			// something to match against.
			reserved := staticCountAfter(t.DirSegments, gi)
			avail := len(dirComps) - di - reserved
			if avail < 0 {
				return nil, false
			}
			caps[group[0].Text] = strings.Join(dirComps[di:di+avail], "/")
			di += avail
			continue
		}
		if di >= len(dirComps) {
			return nil, false
		}
		compCaps, ok := matchStrict(group, dirComps[di])
		if !ok {
			return nil, false
		}
		for name, val := range compCaps {
			caps[name] = val
		}
		di++
	}

	leftover := dirComps[di:]

	if hasSpread(t.StemSegments) {
		// A spread in the filename absorbs whatever path depth the
		// directory walk left unconsumed, plus the stem itself.
		stemCaps, ok := matchStemSpread(t.StemSegments, leftover, stem)
		if !ok {
			return nil, false
		}
		for name, val := range stemCaps {
			caps[name] = val
		}
		return caps, true
	}

	// Without a filename spread, the directory walk must have consumed
	// every component.
	if len(leftover) > 0 {
		return nil, false
	}

	stemCaps, ok := matchStrict(t.StemSegments, stem)
	if !ok {
		return nil, false
	}
	for name, val := range stemCaps {
		caps[name] = val
	}
	return caps, true
}

// staticCountAfter counts static segments in the directory groups after
// index gi. Only statics reserve components for a directory spread.
func staticCountAfter(groups [][]Segment, gi int) int {
	count := 0
	for _, group := range groups[gi+1:] {
		for _, seg := range group {
			if seg.Kind == SegmentStatic {
				count++
			}
		}
	}
	return count
}

// matchStemSpread handles a filename group containing a spread: the spread
// captures the unconsumed directory components joined with the stem, and any
// static parts in the group must be present in the stem. Containment rather
// than positional anchoring is the observed behavior and is kept as is.
func matchStemSpread(segs []Segment, leftover []string, stem string) (Captures, bool) {
	caps := make(Captures)
	for _, seg := range segs {
		switch seg.Kind {
		case SegmentStatic:
			if seg.Text != "" && !strings.Contains(stem, seg.Text) {
				return nil, false
			}
		case SegmentSpread:
			parts := append(append([]string{}, leftover...), stem)
			caps[seg.Text] = strings.Join(parts, "/")
		case SegmentParam:
			// Params alongside a filename spread have no defined
			// extent; they capture nothing.
		}
	}
	return caps, true
}

// matchStrict compiles a segment group into a strict left-to-right matcher
// over a single component or filename stem: statics must occur contiguously
// at their position, params capture a maximal run up to the next static
// boundary (or the end of the input when last). The input must be fully
// consumed. A spread inside a mixed group cannot cross a component boundary
// here and behaves like a param.
func matchStrict(segs []Segment, input string) (Captures, bool) {
	caps := make(Captures)
	pos := 0
	for i, seg := range segs {
		switch seg.Kind {
		case SegmentStatic:
			if !strings.HasPrefix(input[pos:], seg.Text) {
				return nil, false
			}
			pos += len(seg.Text)
		case SegmentParam, SegmentSpread:
			boundary := nextStaticText(segs[i+1:])
			if boundary == "" {
				caps[seg.Text] = input[pos:]
				pos = len(input)
				continue
			}
			idx := strings.LastIndex(input[pos:], boundary)
			if idx < 0 {
				return nil, false
			}
			caps[seg.Text] = input[pos : pos+idx]
			pos += idx
		}
	}
	if pos != len(input) {
		return nil, false
	}
	return caps, true
}

// nextStaticText returns the text of the next non-empty static segment, or
// "" when none remains.
func nextStaticText(segs []Segment) string {
	for _, seg := range segs {
		if seg.Kind == SegmentStatic && seg.Text != "" {
			return seg.Text
		}
	}
	return ""
}
