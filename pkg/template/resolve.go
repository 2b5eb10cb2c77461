package template

// specificity is the ordered ranking key used to pick a single winner when
// several templates match the same file. Fields are compared most
// significant first; larger values win.
type specificity struct {
	fullyStatic int // an exact literal pattern outranks anything dynamic
	staticStem  int // static filename parts
	staticDir   int // static directory parts
	spreads     int // negated count: fewer spreads wins
	params      int // negated count: fewer params wins
	scopeDepth  int // deeper scope wins only on an otherwise exact tie
}

func (s specificity) beats(other specificity) bool {
	if s.fullyStatic != other.fullyStatic {
		return s.fullyStatic > other.fullyStatic
	}
	if s.staticStem != other.staticStem {
		return s.staticStem > other.staticStem
	}
	if s.staticDir != other.staticDir {
		return s.staticDir > other.staticDir
	}
	if s.spreads != other.spreads {
		return s.spreads > other.spreads
	}
	if s.params != other.params {
		return s.params > other.params
	}
	return s.scopeDepth > other.scopeDepth
}

func rank(t *Template) specificity {
	s := specificity{fullyStatic: 1, scopeDepth: t.ScopeDepth}
	count := func(segs []Segment, stem bool) {
		for _, seg := range segs {
			switch seg.Kind {
			case SegmentStatic:
				if seg.Text == "" {
					continue
				}
				if stem {
					s.staticStem++
				} else {
					s.staticDir++
				}
			case SegmentParam:
				s.fullyStatic = 0
				s.params--
			case SegmentSpread:
				s.fullyStatic = 0
				s.spreads--
			}
		}
	}
	for _, group := range t.DirSegments {
		count(group, false)
	}
	count(t.StemSegments, true)
	return s
}

// ResolveBest matches a project-relative path against each candidate and
// returns the most specific winner with its captures, or nil when nothing
// matches. Scope containment is enforced structurally first: a candidate
// whose scope prefix does not cover the path is excluded regardless of
// pattern shape. On an exact specificity tie the first candidate in input
// order wins; callers keep that order stable (load order: presets before
// discovered roots, roots in discovery order).
func ResolveBest(relPath string, candidates []*Template) (*Template, Captures) {
	var best *Template
	var bestCaps Captures
	var bestRank specificity

	for _, t := range candidates {
		scoped, ok := t.ScopeRel(relPath)
		if !ok {
			continue
		}
		caps, ok := Match(scoped, t)
		if !ok {
			continue
		}
		r := rank(t)
		if best == nil || r.beats(bestRank) {
			best, bestCaps, bestRank = t, caps, r
		}
	}
	return best, bestCaps
}
