package hooks

import (
	"context"
	"slices"
	"sync/atomic"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/api"
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/model"
)

// TodosResult is the outcome of TodosHook.List.  Todos is never nil.
type TodosResult struct {
	Status Status
	Err    error
	Todos  []model.Todo
}

// TodosHook manages one user's todo list: the list query and the four
// optimistic mutations.
type TodosHook struct {
	c      *Client
	userID *int

	pendingCreate atomic.Int32
	pendingUpdate atomic.Int32
	pendingDelete atomic.Int32
	pendingToggle atomic.Int32
}

// Todos returns the hook for userID.  A nil userID disables the list
// query.
func (c *Client) Todos(userID *int) *TodosHook {
	return &TodosHook{c: c, userID: userID}
}

// List fetches the todo list, incomplete todos first.
func (h *TodosHook) List(ctx context.Context) TodosResult {
	if h.userID == nil {
		return TodosResult{Status: StatusIdle, Todos: []model.Todo{}}
	}
	userID := *h.userID
	todos, st, err := fetch(ctx, h.c.cache, TodosKey(userID), func(ctx context.Context) ([]model.Todo, error) {
		return h.c.api.GetTodosByUserID(ctx, userID)
	})
	if todos == nil {
		todos = []model.Todo{}
	}
	return TodosResult{Status: st, Err: err, Todos: todos}
}

// Pending reports which mutations are currently awaiting the server, so
// callers can disable the matching controls.
type Pending struct {
	Create, Update, Delete, Toggle bool
}

func (p Pending) Any() bool { return p.Create || p.Update || p.Delete || p.Toggle }

func (h *TodosHook) Pending() Pending {
	return Pending{
		Create: h.pendingCreate.Load() > 0,
		Update: h.pendingUpdate.Load() > 0,
		Delete: h.pendingDelete.Load() > 0,
		Toggle: h.pendingToggle.Load() > 0,
	}
}

func (h *TodosHook) requireUser() (int, error) {
	if h.userID == nil {
		return 0, errNoUser
	}
	return *h.userID, nil
}

// mutation fills in the key and invalidation list shared by every todo
// mutation of this user.
func mutation[V, R any](userID int, apply func([]model.Todo, V) []model.Todo, do func(context.Context, V) (R, error)) Optimistic[[]model.Todo, V, R] {
	return Optimistic[[]model.Todo, V, R]{
		Key:        TodosKey(userID),
		Apply:      apply,
		Mutate:     do,
		Invalidate: []string{TodosKey(userID), UserKey(userID)},
	}
}

func track(n *atomic.Int32) func() {
	n.Add(1)
	return func() { n.Add(-1) }
}

// Create adds a todo.  Until the server answers, the cached list shows
// it first with a temporary id taken from the clock in milliseconds.
func (h *TodosHook) Create(ctx context.Context, text string) (*model.Todo, error) {
	userID, err := h.requireUser()
	if err != nil {
		return nil, err
	}
	defer track(&h.pendingCreate)()
	now := h.c.now()
	m := mutation(userID,
		func(prev []model.Todo, text string) []model.Todo {
			tmp := model.Todo{
				ID:        int(now.UnixMilli()),
				Todo:      text,
				UserID:    userID,
				CreatedAt: now,
				UpdatedAt: now,
			}
			return append([]model.Todo{tmp}, prev...)
		},
		func(ctx context.Context, text string) (*model.Todo, error) {
			return h.c.api.CreateTodo(ctx, userID, text)
		})
	return m.Run(ctx, h.c.cache, text)
}

// Update applies a partial update; absent fields are unchanged.
func (h *TodosHook) Update(ctx context.Context, id int, patch model.TodoPatch) (*model.Todo, error) {
	userID, err := h.requireUser()
	if err != nil {
		return nil, err
	}
	defer track(&h.pendingUpdate)()
	m := mutation(userID,
		func(prev []model.Todo, in *api.UpdateTodoInput) []model.Todo {
			return replace(prev, *in.ID, model.TodoPatch{Todo: in.Todo, Completed: in.Completed}.Apply)
		},
		h.c.api.UpdateTodo)
	return m.Run(ctx, h.c.cache, &api.UpdateTodoInput{ID: &id, Todo: patch.Todo, Completed: patch.Completed})
}

// Delete removes a todo from the cached list at once.
func (h *TodosHook) Delete(ctx context.Context, id int) error {
	userID, err := h.requireUser()
	if err != nil {
		return err
	}
	defer track(&h.pendingDelete)()
	m := mutation(userID,
		func(prev []model.Todo, id int) []model.Todo {
			return slices.DeleteFunc(slices.Clone(prev), func(t model.Todo) bool { return t.ID == id })
		},
		func(ctx context.Context, id int) (struct{}, error) {
			return struct{}{}, h.c.api.DeleteTodo(ctx, id)
		})
	_, err = m.Run(ctx, h.c.cache, id)
	return err
}

// Toggle flips the completion flag of a todo.
func (h *TodosHook) Toggle(ctx context.Context, id int) (*model.Todo, error) {
	userID, err := h.requireUser()
	if err != nil {
		return nil, err
	}
	defer track(&h.pendingToggle)()
	m := mutation(userID,
		func(prev []model.Todo, id int) []model.Todo {
			return replace(prev, id, func(t model.Todo) model.Todo {
				t.Completed = !t.Completed
				return t
			})
		},
		h.c.api.ToggleTodo)
	return m.Run(ctx, h.c.cache, id)
}

// replace returns a copy of todos with fn applied to the todo with id.
func replace(todos []model.Todo, id int, fn func(model.Todo) model.Todo) []model.Todo {
	out := make([]model.Todo, len(todos))
	for i, t := range todos {
		if t.ID == id {
			t = fn(t)
		}
		out[i] = t
	}
	return out
}
