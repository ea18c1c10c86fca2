package transcript

import (
	"bytes"
	"errors"
	"iter"
	"sync"

	"github.com/google/uuid"

	"healthguard-backend/internal/models"
)

var (
	ErrDuplicateID = errors.New("transcript: duplicate message id")
	ErrOutOfOrder  = errors.New("transcript: message id older than transcript tail")
	ErrNotFound    = errors.New("transcript: message not found")
)

// Store is the append-only ordered log of one session. Messages are never
// removed; Expanded is the only field that changes after Append.
type Store struct {
	mu       sync.RWMutex
	messages []models.Message
	index    map[uuid.UUID]int
}

func NewStore() *Store {
	return &Store{index: make(map[uuid.UUID]int)}
}

// Append adds msg at the tail. Ids must be unique and increase in creation
// order.
func (s *Store) Append(msg models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[msg.ID]; ok {
		return ErrDuplicateID
	}
	if n := len(s.messages); n > 0 {
		last := s.messages[n-1].ID
		if bytes.Compare(msg.ID[:], last[:]) < 0 {
			return ErrOutOfOrder
		}
	}

	s.index[msg.ID] = len(s.messages)
	s.messages = append(s.messages, msg)
	return nil
}

// ToggleExpanded flips the display state of one message and returns the
// updated copy.
func (s *Store) ToggleExpanded(id uuid.UUID) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return models.Message{}, ErrNotFound
	}
	s.messages[i].Expanded = !s.messages[i].Expanded
	return s.messages[i], nil
}

func (s *Store) Get(id uuid.UUID) (models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return models.Message{}, ErrNotFound
	}
	return s.messages[i], nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Snapshot returns a copy of the transcript in order.
func (s *Store) Snapshot() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// All yields the transcript in order. Each range works on its own snapshot,
// so the sequence can be ranged over again and never sees a half-applied
// mutation.
func (s *Store) All() iter.Seq[models.Message] {
	return func(yield func(models.Message) bool) {
		for _, m := range s.Snapshot() {
			if !yield(m) {
				return
			}
		}
	}
}
