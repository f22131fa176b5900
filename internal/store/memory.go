package store

import (
	"context"
	"sync"
	"time"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/model"
)

// InMemoryStore is an implementation of Store backed by plain maps.  It
// is safe for concurrent use and intended primarily for unit tests and
// development.  Data stored in this store is not persisted beyond the
// lifetime of the process.
type InMemoryStore struct {
	mu    sync.Mutex
	users map[int]model.User
	todos map[int]model.Todo
	now   func() time.Time
}

// NewInMemoryStore constructs an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users: make(map[int]model.User),
		todos: make(map[int]model.Todo),
		now:   time.Now,
	}
}

// ListUsers filters and orders every stored user in process.
func (s *InMemoryStore) ListUsers(ctx context.Context, q model.UserQuery) (model.UserPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	return q.Apply(users), nil
}

// GetUser returns a copy of the stored user.
func (s *InMemoryStore) GetUser(ctx context.Context, id int) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

// UpsertUser keeps the original creation time when replacing a user.
func (s *InMemoryStore) UpsertUser(ctx context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if prev, ok := s.users[u.ID]; ok {
		u.CreatedAt = prev.CreatedAt
	} else if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	s.users[u.ID] = u
	return nil
}

func (s *InMemoryStore) CountUsers(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users), nil
}

func (s *InMemoryStore) ListTodos(ctx context.Context, userID int) ([]model.Todo, error) {
	todos := s.todosOf(userID)
	model.SortTodosForList(todos)
	return todos, nil
}

func (s *InMemoryStore) ListTodosNewestFirst(ctx context.Context, userID int) ([]model.Todo, error) {
	todos := s.todosOf(userID)
	model.SortTodosNewestFirst(todos)
	return todos, nil
}

func (s *InMemoryStore) todosOf(userID int) []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	todos := make([]model.Todo, 0)
	for _, t := range s.todos {
		if t.UserID == userID {
			todos = append(todos, t)
		}
	}
	return todos
}

// CreateTodo assigns max(id)+1 under the store lock, so sequential and
// concurrent creates never collide.
func (s *InMemoryStore) CreateTodo(ctx context.Context, userID int, text string) (*model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return nil, ErrNotFound
	}
	maxID := 0
	for id := range s.todos {
		maxID = max(maxID, id)
	}
	now := s.now()
	t := model.Todo{
		ID:        maxID + 1,
		Todo:      text,
		Completed: false,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.todos[t.ID] = t
	return &t, nil
}

func (s *InMemoryStore) UpdateTodo(ctx context.Context, id int, p model.TodoPatch) (*model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.todos[id]
	if !ok {
		return nil, ErrNotFound
	}
	t = p.Apply(t)
	t.UpdatedAt = s.now()
	s.todos[id] = t
	return &t, nil
}

func (s *InMemoryStore) DeleteTodo(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.todos[id]; !ok {
		return ErrNotFound
	}
	delete(s.todos, id)
	return nil
}

// ToggleTodo reads and writes under one lock acquisition.
func (s *InMemoryStore) ToggleTodo(ctx context.Context, id int) (*model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.todos[id]
	if !ok {
		return nil, ErrNotFound
	}
	t.Completed = !t.Completed
	t.UpdatedAt = s.now()
	s.todos[id] = t
	return &t, nil
}

func (s *InMemoryStore) UpsertTodo(ctx context.Context, t model.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if prev, ok := s.todos[t.ID]; ok {
		t.CreatedAt = prev.CreatedAt
	} else if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	s.todos[t.ID] = t
	return nil
}

func (s *InMemoryStore) CountTodos(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.todos), nil
}

// Close is a no-op.
func (s *InMemoryStore) Close() error { return nil }
