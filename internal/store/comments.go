// Package store provides the bounded in-memory comment store. Comments live
// only for the lifetime of the process; when the store is full the oldest
// comment is evicted first.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Comment is a single posted comment.
type Comment struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentStore keeps the most recent comments in memory, bounded by a fixed
// capacity. Safe for concurrent use.
type CommentStore struct {
	mu       sync.Mutex
	capacity int
	byID     map[string]Comment
	order    []string // insertion order, oldest first
}

// NewCommentStore creates an empty store holding at most capacity comments.
func NewCommentStore(capacity int) *CommentStore {
	return &CommentStore{
		capacity: capacity,
		byID:     make(map[string]Comment),
	}
}

// Create persists a new comment with a generated ID and UTC timestamp,
// evicting the oldest comment if the store is at capacity.
func (s *CommentStore) Create(username, message string) Comment {
	c := Comment{
		ID:        uuid.New().String(),
		Username:  username,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.order) >= s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.byID, oldest)
	}

	s.byID[c.ID] = c
	s.order = append(s.order, c.ID)
	return c
}

// Get returns the comment with the given ID, if present.
func (s *CommentStore) Get(id string) (Comment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byID[id]
	return c, ok
}

// Recent returns up to limit comments, newest first.
func (s *CommentStore) Recent(limit int) []Comment {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit > len(s.order) {
		limit = len(s.order)
	}
	if limit <= 0 {
		return nil
	}

	comments := make([]Comment, 0, limit)
	for i := len(s.order) - 1; i >= len(s.order)-limit; i-- {
		comments = append(comments, s.byID[s.order[i]])
	}
	return comments
}

// Count returns the number of stored comments.
func (s *CommentStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Clear removes all comments.
func (s *CommentStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID = make(map[string]Comment)
	s.order = nil
}
