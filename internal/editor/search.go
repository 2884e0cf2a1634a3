package editor

import (
	"strings"
	"unicode/utf8"
)

// RecomputeMatches rebuilds the match list for LastSearch, row-major and left
// to right. Occurrences do not overlap.
func (s *State) RecomputeMatches() {
	s.Matches = nil
	s.MatchIdx = -1
	q := s.LastSearch
	if q == "" {
		return
	}
	for row := 0; row < s.Buf.LineCount(); row++ {
		line := s.Buf.Line(row)
		offset := 0
		for idx := 0; ; idx++ {
			i := strings.Index(line[offset:], q)
			if i < 0 {
				break
			}
			byteCol := offset + i
			s.Matches = append(s.Matches, Match{
				Row:   row,
				Index: idx,
				Col:   utf8.RuneCountInString(line[:byteCol]),
			})
			offset = byteCol + len(q)
		}
	}
}

// Find sets the query and jumps to the first match at or after the cursor,
// wrapping to the top. It reports whether anything matched.
func (s *State) Find(query string, visible int) bool {
	s.LastSearch = query
	s.RecomputeMatches()
	if len(s.Matches) == 0 {
		return false
	}
	target := 0
	for i, m := range s.Matches {
		if m.Row > s.Row || (m.Row == s.Row && m.Col >= s.Col) {
			target = i
			break
		}
	}
	s.jump(target, visible)
	return true
}

func (s *State) SearchNext(visible int) bool {
	if !s.ensureMatches() {
		return false
	}
	var target int
	if s.MatchIdx >= 0 {
		target = (s.MatchIdx + 1) % len(s.Matches)
	} else {
		target = 0
		for i, m := range s.Matches {
			if m.Row > s.Row || (m.Row == s.Row && m.Col > s.Col) {
				target = i
				break
			}
		}
	}
	s.jump(target, visible)
	return true
}

func (s *State) SearchPrev(visible int) bool {
	if !s.ensureMatches() {
		return false
	}
	n := len(s.Matches)
	var target int
	if s.MatchIdx >= 0 {
		target = (s.MatchIdx - 1 + n) % n
	} else {
		target = n - 1
		for i := n - 1; i >= 0; i-- {
			m := s.Matches[i]
			if m.Row < s.Row || (m.Row == s.Row && m.Col < s.Col) {
				target = i
				break
			}
		}
	}
	s.jump(target, visible)
	return true
}

func (s *State) ensureMatches() bool {
	if len(s.Matches) == 0 {
		s.RecomputeMatches()
	}
	return len(s.Matches) > 0
}

func (s *State) jump(i, visible int) {
	m := s.Matches[i]
	s.MatchIdx = i
	s.Row = m.Row
	s.Col = m.Col
	s.clampCol()
	s.follow(visible)
}

// CurrentMatch returns the selected match, if any.
func (s *State) CurrentMatch() (Match, bool) {
	if s.MatchIdx < 0 || s.MatchIdx >= len(s.Matches) {
		return Match{}, false
	}
	return s.Matches[s.MatchIdx], true
}
