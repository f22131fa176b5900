package web_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/client"
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/hooks"
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/model"
	srv "github.com/afoley587/coding-challenges-2025/addressbook/internal/server"
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/store"
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/web"
)

// newTestEngine serves the web front end against a real gRPC server
// backed by an in-memory store.
func newTestEngine(t *testing.T) (*gin.Engine, *store.InMemoryStore) {
	t.Helper()
	r, st, _ := newTrackedEngine(t)
	return r, st
}

// newTrackedEngine is newTestEngine that also reports how many users
// hold a shared todos hook.
func newTrackedEngine(t *testing.T) (*gin.Engine, *store.InMemoryStore, func() int) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewInMemoryStore()
	ctx := context.Background()
	users := []model.User{
		{ID: 1, FirstName: "Emily", LastName: "Johnson", Email: "emily@example.com", Gender: "female", HairColor: "Brown"},
		{ID: 2, FirstName: "Michael", LastName: "Williams", Email: "michael@example.com", Gender: "male", HairColor: "Black"},
	}
	for _, u := range users {
		if err := st.UpsertUser(ctx, u); err != nil {
			t.Fatalf("UpsertUser: %v", err)
		}
	}
	if err := st.UpsertTodo(ctx, model.Todo{ID: 1, Todo: "Buy milk", UserID: 1}); err != nil {
		t.Fatalf("UpsertTodo: %v", err)
	}

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	grpcServer := srv.New(st, zap.NewNop())
	go func() { _ = grpcServer.Serve(lis) }()
	t.Cleanup(grpcServer.Stop)

	c, err := client.NewClient(client.DialConfig{Address: lis.Addr().String(), Insecure: true})
	if err != nil {
		t.Fatalf("failed to dial server: %v", err)
	}
	t.Cleanup(c.Close)

	h := hooks.New(c, hooks.NewMemoryCache(hooks.WithStaleTime(0)))
	r, tracked := web.NewWithTracking(h, zap.NewNop(), web.Options{RenderTimeout: 5 * time.Second})
	return r, st, tracked
}

func get(t *testing.T, r http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func post(t *testing.T, r http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListRedirectsToCanonicalURL(t *testing.T) {
	r, _ := newTestEngine(t)

	w := get(t, r, "/?page=1&pageSize=10&search=&gender=")
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to /, got %q", loc)
	}

	w = get(t, r, "/?search=emily&page=1")
	if loc := w.Header().Get("Location"); loc != "/?search=emily" {
		t.Fatalf("expected redirect to /?search=emily, got %q", loc)
	}
}

func TestListRendersUsers(t *testing.T) {
	r, _ := newTestEngine(t)

	w := get(t, r, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"Emily Johnson", "Michael Williams", "Showing 1 to 2 of 2 results", `href="/users/1"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected body to contain %q", want)
		}
	}
	if strings.Contains(body, "<th>Hair Color</th>") {
		t.Fatalf("expected no hair color column without a filter")
	}
}

func TestListFilterAddsColumnAndChip(t *testing.T) {
	r, _ := newTestEngine(t)

	w := get(t, r, "/?"+model.FilterHairColor+"=Brown")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "<th>Hair Color</th>") {
		t.Fatalf("expected hair color column")
	}
	if strings.Contains(body, "Michael Williams") {
		t.Fatalf("expected filtered out user to be absent")
	}
	if !strings.Contains(body, `class="chip"`) {
		t.Fatalf("expected an active filter chip")
	}
}

func TestListEmptyState(t *testing.T) {
	r, _ := newTestEngine(t)

	body := get(t, r, "/?search=nobody").Body.String()
	if !strings.Contains(body, "No users found") || !strings.Contains(body, "Try adjusting your search or filters.") {
		t.Fatalf("expected empty state, got %s", body)
	}
}

func TestUserDetail(t *testing.T) {
	r, _ := newTestEngine(t)

	w := get(t, r, "/users/1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Emily Johnson") || !strings.Contains(body, "Contact Information") {
		t.Fatalf("expected profile to render")
	}
	if strings.Contains(body, `id="todos"`) {
		t.Fatalf("expected drawer to be closed")
	}

	body = get(t, r, "/users/1?todos=open").Body.String()
	if !strings.Contains(body, "Buy milk") || !strings.Contains(body, "0 of 1 completed") {
		t.Fatalf("expected open drawer with todos, got %s", body)
	}
}

func TestUserNotFound(t *testing.T) {
	r, _ := newTestEngine(t)

	for _, target := range []string{"/users/999", "/users/abc"} {
		w := get(t, r, target)
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", target, w.Code)
		}
		if !strings.Contains(w.Body.String(), "User Not Found") {
			t.Fatalf("%s: expected not found page", target)
		}
	}
}

func TestTodoMutations(t *testing.T) {
	r, st := newTestEngine(t)

	// Prime the cache so the mutations go through the optimistic path.
	get(t, r, "/users/1?todos=open")

	w := post(t, r, "/users/1/todos", url.Values{"todo": {"Walk the dog"}})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/users/1?todos=open" {
		t.Fatalf("unexpected redirect %q", loc)
	}
	body := get(t, r, "/users/1?todos=open").Body.String()
	if !strings.Contains(body, "Walk the dog") {
		t.Fatalf("expected created todo in drawer")
	}

	w = post(t, r, "/todos/1/toggle", url.Values{"userId": {"1"}})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	todos, err := st.ListTodos(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListTodos: %v", err)
	}
	for _, td := range todos {
		if td.ID == 1 && !td.Completed {
			t.Fatalf("expected todo 1 to be completed")
		}
	}

	post(t, r, "/todos/1/delete", url.Values{"userId": {"1"}})
	body = get(t, r, "/users/1?todos=open").Body.String()
	if strings.Contains(body, "Buy milk") {
		t.Fatalf("expected deleted todo to be gone")
	}
}

func TestTodoMutationFailureCarriesMessage(t *testing.T) {
	r, _ := newTestEngine(t)

	w := post(t, r, "/todos/42/toggle", url.Values{"userId": {"1"}})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	loc, err := url.Parse(w.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	if msg := loc.Query().Get("error"); msg != "Todo not found" {
		t.Fatalf("expected error message in redirect, got %q", msg)
	}

	body := get(t, r, loc.String()).Body.String()
	if !strings.Contains(body, `id="flash"`) {
		t.Fatalf("expected flash message on drawer")
	}
}

func TestHealthz(t *testing.T) {
	r, _ := newTestEngine(t)
	if w := get(t, r, "/healthz"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestWritesFromOtherClientsAppearOnReload(t *testing.T) {
	r, st := newTestEngine(t)

	get(t, r, "/users/1?todos=open")
	if _, err := st.CreateTodo(context.Background(), 1, "Written elsewhere"); err != nil {
		t.Fatalf("CreateTodo: %v", err)
	}
	if body := get(t, r, "/users/1?todos=open").Body.String(); !strings.Contains(body, "Written elsewhere") {
		t.Fatalf("expected reload to show a todo created outside the web front end")
	}

	get(t, r, "/?search=emily")
	if err := st.UpsertUser(context.Background(), model.User{ID: 3, FirstName: "Emily", LastName: "Brown"}); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}
	if body := get(t, r, "/?search=emily").Body.String(); !strings.Contains(body, "Emily Brown") {
		t.Fatalf("expected reload to show a user added outside the web front end")
	}
}

func TestSharedTodoHooksAreReleased(t *testing.T) {
	r, _, tracked := newTrackedEngine(t)

	get(t, r, "/users/999")
	get(t, r, "/users/1?todos=open")
	post(t, r, "/users/1/todos", url.Values{"todo": {"Walk the dog"}})
	post(t, r, "/users/999/todos", url.Values{"todo": {"Nobody"}})
	if n := tracked(); n != 0 {
		t.Fatalf("expected no todos hooks left after requests finished, got %d", n)
	}
}
