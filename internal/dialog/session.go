package dialog

import (
	"github.com/vovakirdan/citywalk/internal/entity"
)

// Session is an open conversation with one interactable.
type Session struct {
	book   Book
	topic  string
	key    string
	cursor int
	target entity.ID
	name   string
	earned int
	open   bool
}

// Start opens a conversation on topic with target. An empty topic selects
// DefaultTopic. It returns nil when the topic has no start node.
func (b Book) Start(topic string, target entity.ID, name string) *Session {
	if topic == "" {
		topic = DefaultTopic
	}
	if !b.Has(topic) {
		return nil
	}
	return &Session{
		book:   b,
		topic:  topic,
		key:    StartNode,
		target: target,
		name:   name,
		open:   true,
	}
}

// Open reports whether the conversation is still running.
func (s *Session) Open() bool { return s != nil && s.open }

// Topic returns the conversation topic.
func (s *Session) Topic() string { return s.topic }

// Key returns the current node key.
func (s *Session) Key() string { return s.key }

// Target returns the entity being talked to.
func (s *Session) Target() entity.ID { return s.target }

// Name returns the display name of the entity being talked to.
func (s *Session) Name() string { return s.name }

// Cursor returns the highlighted option index.
func (s *Session) Cursor() int { return s.cursor }

// Earned returns the total reward collected during this session.
func (s *Session) Earned() int { return s.earned }

// Node returns the current node.
func (s *Session) Node() Node {
	return s.book[s.topic][s.key]
}

// Up moves the cursor to the previous option, wrapping around.
func (s *Session) Up() {
	n := len(s.Node().Options)
	if n == 0 {
		return
	}
	s.cursor = (s.cursor - 1 + n) % n
}

// Down moves the cursor to the next option, wrapping around.
func (s *Session) Down() {
	n := len(s.Node().Options)
	if n == 0 {
		return
	}
	s.cursor = (s.cursor + 1) % n
}

// Confirm picks the highlighted option.
func (s *Session) Confirm() int {
	return s.Choose(s.cursor)
}

// Choose picks option i and returns its reward. A reply with a Next that
// exists moves the conversation there; any other reply closes it.
// Out-of-range choices and choices on a closed session do nothing.
func (s *Session) Choose(i int) int {
	if !s.Open() {
		return 0
	}
	opts := s.Node().Options
	if i < 0 || i >= len(opts) {
		return 0
	}

	opt := opts[i]
	s.earned += opt.Reward
	if _, ok := s.book[s.topic][opt.Next]; opt.Next != "" && ok {
		s.key = opt.Next
		s.cursor = 0
	} else {
		s.open = false
	}
	return opt.Reward
}

// Close ends the conversation without choosing.
func (s *Session) Close() {
	if s != nil {
		s.open = false
	}
}
