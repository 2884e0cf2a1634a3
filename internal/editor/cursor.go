package editor

func (s *State) clampCol() {
	s.Col = clamp(s.Col, 0, s.Buf.LineLen(s.Row))
}

// follow keeps the cursor row inside the window of visible rows starting at
// Scroll. visible comes from the caller's layout.
func (s *State) follow(visible int) {
	if visible < 1 {
		visible = 1
	}
	if s.Row < s.Scroll {
		s.Scroll = s.Row
	}
	if s.Row >= s.Scroll+visible {
		s.Scroll = s.Row - visible + 1
	}
}

func (s *State) MoveLeft() {
	if s.Col > 0 {
		s.Col--
	}
}

func (s *State) MoveRight() {
	if s.Col < s.Buf.LineLen(s.Row) {
		s.Col++
	}
}

func (s *State) MoveUp() {
	if s.Row == 0 {
		return
	}
	s.Row--
	s.clampCol()
	if s.Row < s.Scroll {
		s.Scroll = s.Row
	}
}

func (s *State) MoveDown(visible int) {
	if s.Row+1 >= s.Buf.LineCount() {
		return
	}
	s.Row++
	s.clampCol()
	s.follow(visible)
}

func (s *State) LineStart() { s.Col = 0 }

func (s *State) LineEnd() { s.Col = s.Buf.LineLen(s.Row) }

// GotoLine moves to the 1-based line n, clamped to the buffer.
func (s *State) GotoLine(n, visible int) {
	s.Row = clamp(n-1, 0, s.Buf.LineCount()-1)
	s.Col = 0
	s.follow(visible)
}

// EnsureVisible re-applies scroll-follow, e.g. after the viewport shrinks.
func (s *State) EnsureVisible(visible int) {
	s.follow(visible)
}
