package view_test

import (
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/hooks"
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/model"
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/view"
)

func section(p view.DetailPage, title string) (view.Section, bool) {
	for _, s := range p.Sections {
		if s.Title == title {
			return s, true
		}
	}
	return view.Section{}, false
}

func TestBuildDetailPageNotFound(t *testing.T) {
	res := hooks.UserResult{Status: hooks.StatusError, Err: status.Error(codes.NotFound, "User not found")}
	p := view.BuildDetailPage(res, hooks.TodosResult{}, hooks.Pending{}, false)
	if p.Render != view.StateError || p.Title != "User Not Found" || p.Message != "User not found" {
		t.Fatalf("unexpected page %+v", p)
	}
	idle := view.BuildDetailPage(hooks.UserResult{Status: hooks.StatusIdle}, hooks.TodosResult{}, hooks.Pending{}, false)
	if idle.Render != view.StateLoading {
		t.Fatalf("idle user should render loading, got %v", idle.Render)
	}
}

func TestBuildDetailPagePanels(t *testing.T) {
	bank := `{"cardNumber":"1234","cardType":"Visa","currency":"EUR","iban":""}`
	broken := `not json`
	u := &model.UserWithTodos{User: model.User{
		ID: 3, FirstName: "Sophia", LastName: "Brown", Height: 170.5, HairColor: "Red", HairType: "Wavy",
		BankJSON: &bank, CryptoJSON: &broken,
	}}
	p := view.BuildDetailPage(hooks.UserResult{Status: hooks.StatusSuccess, User: u}, hooks.TodosResult{}, hooks.Pending{}, false)
	if p.Render != view.StatePopulated || p.Title != "Sophia Brown - Address Book" {
		t.Fatalf("unexpected page %+v", p)
	}
	b, ok := section(p, "Bank Information")
	if !ok || len(b.Fields) != 3 {
		t.Fatalf("bank panel should show the three present fields, got %+v", b)
	}
	if _, ok := section(p, "Crypto Information"); ok {
		t.Fatalf("crypto panel must be hidden when the blob does not parse")
	}
	phys, _ := section(p, "Physical Attributes")
	if phys.Fields[0].Value != "170.5 cm" || phys.Fields[1].Value != "N/A" || phys.Fields[3].Value != "Red (Wavy)" {
		t.Fatalf("unexpected physical attributes %+v", phys.Fields)
	}
	if p.Drawer.Open || p.Drawer.URL != "/users/3?todos=open" {
		t.Fatalf("unexpected drawer %+v", p.Drawer)
	}
}

func TestDrawerStates(t *testing.T) {
	user := hooks.UserResult{Status: hooks.StatusSuccess, User: &model.UserWithTodos{User: model.User{ID: 1}}}

	empty := view.BuildDetailPage(user, hooks.TodosResult{Status: hooks.StatusSuccess}, hooks.Pending{}, true)
	if empty.Drawer.Render != view.StateEmpty || empty.Drawer.Detail != "Get started by creating a new todo." {
		t.Fatalf("empty drawer: %+v", empty.Drawer)
	}

	failed := view.BuildDetailPage(user, hooks.TodosResult{Status: hooks.StatusError, Err: status.Error(codes.Internal, "db down")}, hooks.Pending{}, true)
	if failed.Drawer.Render != view.StateError || failed.Drawer.Message != "Failed to load todos: db down" {
		t.Fatalf("failed drawer: %+v", failed.Drawer)
	}

	todos := []model.Todo{{ID: 1, Todo: "a"}, {ID: 2, Todo: "b", Completed: true}}
	full := view.BuildDetailPage(user, hooks.TodosResult{Status: hooks.StatusSuccess, Todos: todos}, hooks.Pending{Toggle: true}, true)
	if full.Drawer.Render != view.StatePopulated || full.Drawer.Completed != 1 || len(full.Drawer.Todos) != 2 || !full.Drawer.Pending.Toggle {
		t.Fatalf("populated drawer: %+v", full.Drawer)
	}
}
