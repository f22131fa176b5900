package hooks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/api"
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/model"
)

// UserAPI is the user namespace as seen by the hooks.
type UserAPI interface {
	GetUsers(ctx context.Context, in *api.GetUsersInput) (*api.GetUsersOutput, error)
	GetUserByID(ctx context.Context, id int) (*model.UserWithTodos, error)
}

// TodoAPI is the todo namespace as seen by the hooks.
type TodoAPI interface {
	GetTodosByUserID(ctx context.Context, userID int) ([]model.Todo, error)
	CreateTodo(ctx context.Context, userID int, text string) (*model.Todo, error)
	UpdateTodo(ctx context.Context, in *api.UpdateTodoInput) (*model.Todo, error)
	DeleteTodo(ctx context.Context, id int) error
	ToggleTodo(ctx context.Context, id int) (*model.Todo, error)
}

// API is satisfied by *client.GRPCClient.
type API interface {
	UserAPI
	TodoAPI
}

// Status is the lifecycle of one query.
type Status int

const (
	// StatusIdle means the query is disabled and was never sent.
	StatusIdle Status = iota
	StatusLoading
	StatusError
	StatusSuccess
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// Client binds the hooks to one API and one cache.
type Client struct {
	api   API
	cache Cache
	now   func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithClock replaces the clock used for temporary todo ids and
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New returns hooks calling a and caching in cache.  A nil cache gets a
// fresh MemoryCache.
func New(a API, cache Cache, opts ...Option) *Client {
	if cache == nil {
		cache = NewMemoryCache()
	}
	c := &Client{api: a, cache: cache, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Cache returns the cache shared by every hook of c.
func (c *Client) Cache() Cache { return c.cache }

// fetch runs a cached query and converts the outcome to a status.
func fetch[T any](ctx context.Context, cache Cache, key string, fn func(context.Context) (T, error)) (T, Status, error) {
	var zero T
	v, err := cache.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, StatusError, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, StatusError, fmt.Errorf("unexpected cached value for %s", key)
	}
	return out, StatusSuccess, nil
}

var errNoUser = errors.New("todo mutation without a user id")
