package server

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/api"
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/model"
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/store"
)

// userServer implements the user namespace by delegating to a UserStore
// and TodoStore.  Input has already been validated by the time a method
// runs; see validationInterceptor.
type userServer struct {
	store store.Store
}

// NewUserServer constructs the user namespace backed by s.
func NewUserServer(s store.Store) api.UserServer {
	return &userServer{store: s}
}

// GetUsers returns one page of the directory together with the total
// match count and the normalised list of active filters.
func (s *userServer) GetUsers(ctx context.Context, in *api.GetUsersInput) (*api.GetUsersOutput, error) {
	q := in.Query().Normalized()
	page, err := s.store.ListUsers(ctx, q)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "get users failed: %v", err)
	}
	return &api.GetUsersOutput{
		Users:         page.Users,
		Total:         page.Total,
		ActiveFilters: q.ActiveFilters(),
		HasMore:       q.HasMore(page.Total),
	}, nil
}

// GetUserByID returns a single user with all of its todos, newest first.
// If the user is not found, a NotFound status code is returned.
func (s *userServer) GetUserByID(ctx context.Context, in *api.GetUserByIDInput) (*model.UserWithTodos, error) {
	u, err := s.store.GetUser(ctx, *in.ID)
	if err != nil {
		return nil, storeError(err, "User not found", "get user")
	}
	todos, err := s.store.ListTodosNewestFirst(ctx, u.ID)
	if err != nil {
		return nil, storeError(err, "User not found", "get user todos")
	}
	return &model.UserWithTodos{User: *u, Todos: todos}, nil
}

type todoServer struct {
	store store.TodoStore
}

// NewTodoServer constructs the todo namespace backed by s.
func NewTodoServer(s store.TodoStore) api.TodoServer {
	return &todoServer{store: s}
}

func (s *todoServer) GetTodosByUserID(ctx context.Context, in *api.GetTodosByUserIDInput) (*api.TodoList, error) {
	todos, err := s.store.ListTodos(ctx, *in.UserID)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "get todos failed: %v", err)
	}
	list := api.TodoList(todos)
	return &list, nil
}

// CreateTodo stores a new todo for an existing user.  The id is one more
// than the current maximum.
func (s *todoServer) CreateTodo(ctx context.Context, in *api.CreateTodoInput) (*model.Todo, error) {
	t, err := s.store.CreateTodo(ctx, *in.UserID, in.Todo)
	if err != nil {
		return nil, storeError(err, "User not found", "create todo")
	}
	return t, nil
}

// UpdateTodo applies a partial update.  Absent fields are unchanged.
func (s *todoServer) UpdateTodo(ctx context.Context, in *api.UpdateTodoInput) (*model.Todo, error) {
	t, err := s.store.UpdateTodo(ctx, *in.ID, model.TodoPatch{Todo: in.Todo, Completed: in.Completed})
	if err != nil {
		return nil, storeError(err, "Todo not found", "update todo")
	}
	return t, nil
}

// DeleteTodo removes a todo.  Deleting an id that does not exist, including
// a second delete of the same id, returns NotFound.
func (s *todoServer) DeleteTodo(ctx context.Context, in *api.TodoIDInput) (*api.DeleteTodoOutput, error) {
	if err := s.store.DeleteTodo(ctx, *in.ID); err != nil {
		return nil, storeError(err, "Todo not found", "delete todo")
	}
	return &api.DeleteTodoOutput{Success: true}, nil
}

func (s *todoServer) ToggleTodo(ctx context.Context, in *api.TodoIDInput) (*model.Todo, error) {
	t, err := s.store.ToggleTodo(ctx, *in.ID)
	if err != nil {
		return nil, storeError(err, "Todo not found", "toggle todo")
	}
	return t, nil
}

type postServer struct {
	now func() time.Time
}

// NewPostServer constructs the demo namespace.
func NewPostServer() api.PostServer {
	return &postServer{now: time.Now}
}

func (s *postServer) Hello(ctx context.Context, in *api.HelloInput) (*api.HelloOutput, error) {
	return &api.HelloOutput{Greeting: "Hello " + *in.Text}, nil
}

// GetLatest returns a fixed sample post; there is no post table.
func (s *postServer) GetLatest(ctx context.Context, _ *emptypb.Empty) (*api.Post, error) {
	return &api.Post{ID: 1, Name: "Sample Post", CreatedAt: s.now()}, nil
}

// storeError maps store.ErrNotFound to NotFound with a human readable
// message and everything else to Internal.
func storeError(err error, notFound, op string) error {
	if errors.Is(err, store.ErrNotFound) {
		return status.Error(codes.NotFound, notFound)
	}
	return status.Errorf(codes.Internal, "%s failed: %v", op, err)
}
