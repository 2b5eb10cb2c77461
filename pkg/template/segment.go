package template

// SegmentKind identifies the role of one portion of a pattern component.
// It is a closed set: every consumer (parser, matcher, specificity counter,
// watch-directory inference) switches exhaustively over these values.
type SegmentKind int

const (
	// SegmentStatic is literal text matched exactly.
	SegmentStatic SegmentKind = iota
	// SegmentParam captures exactly one path component, or one run of
	// filename characters.
	SegmentParam
	// SegmentSpread captures zero or more path components greedily.
	SegmentSpread
)

// Segment is one static or dynamic portion of a pattern component.
// Text holds the literal for SegmentStatic and the capture name for
// SegmentParam and SegmentSpread.
type Segment struct {
	Kind SegmentKind
	Text string
}

// String renders the segment back in pattern syntax.
func (s Segment) String() string {
	switch s.Kind {
	case SegmentStatic:
		return s.Text
	case SegmentParam:
		return "[" + s.Text + "]"
	case SegmentSpread:
		return "[..." + s.Text + "]"
	}
	return ""
}

// hasSpread reports whether any segment in the group is a spread.
func hasSpread(segs []Segment) bool {
	for _, s := range segs {
		if s.Kind == SegmentSpread {
			return true
		}
	}
	return false
}
