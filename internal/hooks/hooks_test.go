package hooks_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/api"
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/hooks"
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/model"
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/store"
)

// fakeAPI serves the hooks from an in-memory store.  Individual calls can
// be made to fail or to block until released.
type fakeAPI struct {
	*store.InMemoryStore

	mu        sync.Mutex
	calls     map[string]int
	lastUsers *api.GetUsersInput
	failWith  error

	// When set, CreateTodo signals entered and waits on release.
	entered chan struct{}
	release chan struct{}
}

func newFakeAPI(t *testing.T, users int) *fakeAPI {
	t.Helper()
	f := &fakeAPI{InMemoryStore: store.NewInMemoryStore(), calls: make(map[string]int)}
	for i := 1; i <= users; i++ {
		u := model.User{ID: i, FirstName: fmt.Sprintf("User%02d", i), LastName: "Doe", Gender: "male"}
		if err := f.UpsertUser(context.Background(), u); err != nil {
			t.Fatalf("UpsertUser: %v", err)
		}
	}
	return f
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.failWith
}

func (f *fakeAPI) GetUsers(ctx context.Context, in *api.GetUsersInput) (*api.GetUsersOutput, error) {
	if err := f.record("getUsers"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastUsers = in
	f.mu.Unlock()
	q := in.Query().Normalized()
	page, err := f.ListUsers(ctx, q)
	if err != nil {
		return nil, err
	}
	return &api.GetUsersOutput{Users: page.Users, Total: page.Total, ActiveFilters: q.ActiveFilters(), HasMore: q.HasMore(page.Total)}, nil
}

func (f *fakeAPI) GetUserByID(ctx context.Context, id int) (*model.UserWithTodos, error) {
	if err := f.record("getUserById"); err != nil {
		return nil, err
	}
	u, err := f.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	todos, err := f.ListTodosNewestFirst(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.UserWithTodos{User: *u, Todos: todos}, nil
}

func (f *fakeAPI) GetTodosByUserID(ctx context.Context, userID int) ([]model.Todo, error) {
	if err := f.record("getTodosByUserId"); err != nil {
		return nil, err
	}
	return f.ListTodos(ctx, userID)
}

func (f *fakeAPI) CreateTodo(ctx context.Context, userID int, text string) (*model.Todo, error) {
	if err := f.record("createTodo"); err != nil {
		return nil, err
	}
	if f.entered != nil {
		close(f.entered)
		<-f.release
	}
	return f.InMemoryStore.CreateTodo(ctx, userID, text)
}

func (f *fakeAPI) UpdateTodo(ctx context.Context, in *api.UpdateTodoInput) (*model.Todo, error) {
	if err := f.record("updateTodo"); err != nil {
		return nil, err
	}
	return f.InMemoryStore.UpdateTodo(ctx, *in.ID, model.TodoPatch{Todo: in.Todo, Completed: in.Completed})
}

func (f *fakeAPI) DeleteTodo(ctx context.Context, id int) error {
	if err := f.record("deleteTodo"); err != nil {
		return err
	}
	return f.InMemoryStore.DeleteTodo(ctx, id)
}

func (f *fakeAPI) ToggleTodo(ctx context.Context, id int) (*model.Todo, error) {
	if err := f.record("toggleTodo"); err != nil {
		return nil, err
	}
	return f.InMemoryStore.ToggleTodo(ctx, id)
}

// recordingCache remembers every value written under one key.
type recordingCache struct {
	*hooks.MemoryCache
	watch string

	mu     sync.Mutex
	writes []any
}

func (c *recordingCache) Set(key string, value any) {
	if key == c.watch {
		c.mu.Lock()
		c.writes = append(c.writes, value)
		c.mu.Unlock()
	}
	c.MemoryCache.Set(key, value)
}

func ids(todos []model.Todo) []int {
	out := make([]int, len(todos))
	for i, t := range todos {
		out[i] = t.ID
	}
	return out
}

func TestUsersPagination(t *testing.T) {
	f := newFakeAPI(t, 12)
	h := hooks.New(f, nil)
	ctx := context.Background()

	res := h.Users(ctx, hooks.UsersParams{})
	if res.Status != hooks.StatusSuccess || len(res.Users) != 10 || res.Total != 12 || !res.HasMore {
		t.Fatalf("first page: %+v", res)
	}
	if res.TotalPages != 2 || res.CurrentPage != 1 {
		t.Fatalf("expected page 1 of 2, got %d of %d", res.CurrentPage, res.TotalPages)
	}

	res = h.Users(ctx, hooks.UsersParams{Page: 2, PageSize: 10})
	if len(res.Users) != 2 || res.HasMore || res.CurrentPage != 2 {
		t.Fatalf("second page: %+v", res)
	}
	if in := f.lastUsers; *in.Skip != 10 || *in.Take != 10 || in.Search != "" {
		t.Fatalf("unexpected input %+v", in)
	}

	// A repeated read is served from the cache.
	_ = h.Users(ctx, hooks.UsersParams{Page: 2})
	if n := f.count("getUsers"); n != 2 {
		t.Fatalf("expected 2 calls, got %d", n)
	}
}

func TestUsersEmptyAndError(t *testing.T) {
	f := newFakeAPI(t, 3)
	h := hooks.New(f, nil)

	res := h.Users(context.Background(), hooks.UsersParams{Search: "nobody"})
	if res.Status != hooks.StatusSuccess || len(res.Users) != 0 || res.Total != 0 || res.TotalPages != 0 {
		t.Fatalf("expected empty success, got %+v", res)
	}

	f.failWith = errors.New("unavailable")
	res = h.Users(context.Background(), hooks.UsersParams{Search: "other"})
	if res.Status != hooks.StatusError || res.Err == nil || res.Users == nil {
		t.Fatalf("expected error state with empty users, got %+v", res)
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct{ total, size, want int }{
		{0, 10, 0}, {1, 10, 1}, {10, 10, 1}, {11, 10, 2}, {208, 20, 11},
	}
	for _, tc := range cases {
		if got := hooks.TotalPages(tc.total, tc.size); got != tc.want {
			t.Fatalf("TotalPages(%d, %d) = %d, want %d", tc.total, tc.size, got, tc.want)
		}
	}
}

func TestUserDisabledWithoutID(t *testing.T) {
	f := newFakeAPI(t, 1)
	h := hooks.New(f, nil)

	if res := h.User(context.Background(), nil); res.Status != hooks.StatusIdle {
		t.Fatalf("expected idle, got %v", res.Status)
	}
	if res := h.Todos(nil).List(context.Background()); res.Status != hooks.StatusIdle {
		t.Fatalf("expected idle todo list, got %v", res.Status)
	}
	if n := f.count("getUserById") + f.count("getTodosByUserId"); n != 0 {
		t.Fatalf("disabled queries were sent %d times", n)
	}

	id := 1
	if res := h.User(context.Background(), &id); res.Status != hooks.StatusSuccess || res.User.ID != 1 {
		t.Fatalf("unexpected user result %+v", res)
	}
	missing := 7
	if res := h.User(context.Background(), &missing); res.Status != hooks.StatusError || !errors.Is(res.Err, store.ErrNotFound) {
		t.Fatalf("expected not found error, got %+v", res)
	}
}

// TestCreateShowsTemporaryID follows one create through its optimistic
// phase and checks that the permanent id replaces the temporary one.
func TestCreateShowsTemporaryID(t *testing.T) {
	f := newFakeAPI(t, 1)
	clock := time.UnixMilli(1_700_000_000_000)
	h := hooks.New(f, nil, hooks.WithClock(func() time.Time { return clock }))
	ctx := context.Background()
	userID := 1
	todos := h.Todos(&userID)

	if res := todos.List(ctx); res.Status != hooks.StatusSuccess || len(res.Todos) != 0 {
		t.Fatalf("unexpected initial list %+v", res)
	}
	_ = h.User(ctx, &userID)

	f.entered = make(chan struct{})
	f.release = make(chan struct{})
	done := make(chan *model.Todo, 1)
	go func() {
		created, err := todos.Create(ctx, "buy milk")
		if err != nil {
			t.Errorf("Create returned error: %v", err)
		}
		done <- created
	}()

	<-f.entered
	raw, ok := h.Cache().Get(hooks.TodosKey(userID))
	if !ok {
		t.Fatalf("expected optimistic list in cache")
	}
	optimistic := raw.([]model.Todo)
	if len(optimistic) != 1 || optimistic[0].ID != int(clock.UnixMilli()) || optimistic[0].Completed {
		t.Fatalf("unexpected optimistic list %+v", optimistic)
	}
	if !todos.Pending().Create {
		t.Fatalf("expected create to be pending")
	}
	close(f.release)
	created := <-done

	if todos.Pending().Any() {
		t.Fatalf("nothing should be pending after settle")
	}
	if _, ok := h.Cache().Get(hooks.TodosKey(userID)); ok {
		t.Fatalf("todo list should be invalidated after settle")
	}
	if _, ok := h.Cache().Get(hooks.UserKey(userID)); ok {
		t.Fatalf("parent user should be invalidated after settle")
	}

	res := todos.List(ctx)
	if len(res.Todos) != 1 || res.Todos[0].ID != created.ID || created.ID == int(clock.UnixMilli()) {
		t.Fatalf("expected server id %d, got %v", created.ID, ids(res.Todos))
	}
}

func TestFailedMutationRollsBack(t *testing.T) {
	f := newFakeAPI(t, 1)
	cache := &recordingCache{MemoryCache: hooks.NewMemoryCache()}
	h := hooks.New(f, cache)
	ctx := context.Background()
	userID := 1
	todos := h.Todos(&userID)

	first, err := f.InMemoryStore.CreateTodo(ctx, userID, "first")
	if err != nil {
		t.Fatalf("CreateTodo: %v", err)
	}
	cache.watch = hooks.TodosKey(userID)
	snapshot := todos.List(ctx).Todos

	f.failWith = errors.New("server down")
	if _, err := todos.Toggle(ctx, first.ID); err == nil {
		t.Fatalf("expected toggle to fail")
	}

	// Fetch stores its result directly; Set sees the optimistic write and
	// the rollback.
	if len(cache.writes) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(cache.writes))
	}
	if optimistic := cache.writes[0].([]model.Todo); !optimistic[0].Completed {
		t.Fatalf("optimistic write should flip completed: %+v", optimistic)
	}
	restored := cache.writes[1].([]model.Todo)
	if len(restored) != len(snapshot) || restored[0] != snapshot[0] {
		t.Fatalf("rollback did not restore the snapshot: %+v", restored)
	}
	if snapshot[0].Completed {
		t.Fatalf("optimistic apply modified the snapshot")
	}
	if _, ok := cache.Get(hooks.TodosKey(userID)); ok {
		t.Fatalf("list should be invalidated after a failed mutation")
	}

	f.failWith = nil
	if res := todos.List(ctx); res.Todos[0].Completed {
		t.Fatalf("store should still hold completed=false")
	}
}

func TestMutationsRoundTrip(t *testing.T) {
	f := newFakeAPI(t, 1)
	h := hooks.New(f, nil)
	ctx := context.Background()
	userID := 1
	todos := h.Todos(&userID)

	a, err := todos.Create(ctx, "a")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, err := todos.Create(ctx, "b")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.ID <= a.ID {
		t.Fatalf("expected increasing ids, got %d then %d", a.ID, b.ID)
	}

	_ = todos.List(ctx)
	text := "a, renamed"
	updated, err := todos.Update(ctx, a.ID, model.TodoPatch{Todo: &text})
	if err != nil || updated.Todo != text {
		t.Fatalf("Update = %+v, %v", updated, err)
	}

	for i := 0; i < 2; i++ {
		_ = todos.List(ctx)
		if _, err := todos.Toggle(ctx, b.ID); err != nil {
			t.Fatalf("Toggle: %v", err)
		}
	}
	if res := todos.List(ctx); res.Todos[0].ID != b.ID || res.Todos[0].Completed {
		t.Fatalf("two toggles should restore the flag: %+v", res.Todos)
	}

	if err := todos.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := ids(todos.List(ctx).Todos); len(got) != 1 || got[0] != b.ID {
		t.Fatalf("deleted todo still listed: %v", got)
	}
	if err := todos.Delete(ctx, a.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second delete should fail with not found, got %v", err)
	}
	if got := ids(todos.List(ctx).Todos); len(got) != 1 {
		t.Fatalf("failed delete changed the list: %v", got)
	}
}

func TestMutationWithoutUser(t *testing.T) {
	h := hooks.New(newFakeAPI(t, 0), nil)
	if _, err := h.Todos(nil).Create(context.Background(), "x"); err == nil {
		t.Fatalf("expected error for a todo without a user")
	}
}
