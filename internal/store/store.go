package store

import (
	"context"
	"errors"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/model"
)

// ErrNotFound is returned when an operation addresses a user or todo id
// that does not exist.  Callers should test for it with errors.Is.
var ErrNotFound = errors.New("not found")

// UserStore persists directory entries.
//
// Ids are assigned by the caller so that the bulk import can be re-run
// without creating duplicates.
type UserStore interface {
	// ListUsers returns the window of users selected by q, ordered by
	// first name then last name, and the total match count.
	ListUsers(ctx context.Context, q model.UserQuery) (model.UserPage, error)
	// GetUser returns the user identified by id or ErrNotFound.
	GetUser(ctx context.Context, id int) (*model.User, error)
	// UpsertUser inserts u or replaces the user with the same id.
	UpsertUser(ctx context.Context, u model.User) error
	// CountUsers returns the number of stored users.
	CountUsers(ctx context.Context) (int, error)
}

// TodoStore persists todos.  A todo always references an existing user
// at creation time; deleting users does not cascade.
type TodoStore interface {
	// ListTodos returns userID's todos ordered incomplete first, newest
	// first within each group.
	ListTodos(ctx context.Context, userID int) ([]model.Todo, error)
	// ListTodosNewestFirst returns userID's todos ordered by creation time
	// descending.
	ListTodosNewestFirst(ctx context.Context, userID int) ([]model.Todo, error)
	// CreateTodo stores a new incomplete todo with id max(id)+1.  It
	// returns ErrNotFound when userID does not exist.
	CreateTodo(ctx context.Context, userID int, text string) (*model.Todo, error)
	// UpdateTodo applies p to the todo identified by id.
	UpdateTodo(ctx context.Context, id int, p model.TodoPatch) (*model.Todo, error)
	// DeleteTodo removes the todo.  Deleting a missing id is ErrNotFound.
	DeleteTodo(ctx context.Context, id int) error
	// ToggleTodo flips the completion flag.  The flip is atomic with
	// respect to other toggles on the same backend.
	ToggleTodo(ctx context.Context, id int) (*model.Todo, error)
	// UpsertTodo inserts t or replaces the todo with the same id.
	UpsertTodo(ctx context.Context, t model.Todo) error
	// CountTodos returns the number of stored todos.
	CountTodos(ctx context.Context) (int, error)
}

// Store is the full persistence surface used by the server and the bulk
// import.  Implementations must be safe for concurrent use.
type Store interface {
	UserStore
	TodoStore
	Close() error
}
