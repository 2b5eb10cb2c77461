package template

import (
	"strings"

	"github.com/arthur-debert/stencil/pkg/errors"
)

const spreadMarker = "..."

// Parse turns a pattern path into a Template. The path is interpreted with
// forward slashes; callers loading from disk normalize separators first.
// Scope fields are stamped by the loader, not here.
//
// Parsing is pure: identical input always yields identical structure. There
// is no escape syntax for literal brackets, and an unterminated bracket is
// kept as literal text rather than rejected.
func Parse(patternPath string) (*Template, error) {
	cleaned := strings.Trim(patternPath, "/")
	if cleaned == "" {
		return nil, errors.New(errors.ErrPatternInvalid, "empty pattern path")
	}

	components := strings.Split(cleaned, "/")
	final := components[len(components)-1]
	dirs := components[:len(components)-1]

	stem, ext := splitExt(final)

	t := &Template{
		SourcePath:   cleaned,
		Ext:          ext,
		StemSegments: parseComponent(stem),
	}
	for _, comp := range dirs {
		t.DirSegments = append(t.DirSegments, parseComponent(comp))
	}
	return t, nil
}

// splitExt separates the literal extension (from the last dot onward) from
// the stem of the final path component.
func splitExt(name string) (stem, ext string) {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return name, ""
	}
	return name[:idx], name[idx:]
}

// parseComponent scans one path component left to right for bracket tokens.
// Text between tokens becomes static segments, [name] becomes a param and
// [...name] a spread. A component with no tokens is a single static segment,
// including the empty component.
func parseComponent(component string) []Segment {
	var segs []Segment
	rest := component
	for {
		open := strings.Index(rest, "[")
		if open < 0 {
			break
		}
		closing := strings.Index(rest[open:], "]")
		if closing < 0 {
			// Unterminated token: the remainder is literal text.
			break
		}
		closing += open

		if open > 0 {
			segs = append(segs, Segment{Kind: SegmentStatic, Text: rest[:open]})
		}

		inner := rest[open+1 : closing]
		if strings.HasPrefix(inner, spreadMarker) {
			segs = append(segs, Segment{Kind: SegmentSpread, Text: strings.TrimPrefix(inner, spreadMarker)})
		} else {
			segs = append(segs, Segment{Kind: SegmentParam, Text: inner})
		}
		rest = rest[closing+1:]
	}

	if rest != "" || len(segs) == 0 {
		segs = append(segs, Segment{Kind: SegmentStatic, Text: rest})
	}
	return segs
}
