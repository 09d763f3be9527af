package usecase

import "sync"

// undoStack holds previously injected strings, newest last. Bounded only by
// process lifetime.
type undoStack struct {
	mu    sync.Mutex
	items []string
}

func (s *undoStack) push(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, text)
}

func (s *undoStack) pop() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return "", false
	}
	text := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return text, true
}

func (s *undoStack) depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
