package api

import (
	"time"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/model"
)

// Inputs carry validator/v10 tags; the server rejects any input that
// fails them before touching the store.  Pointer fields distinguish
// "absent" from a zero value.

type GetUsersInput struct {
	Skip       *int   `json:"skip,omitempty" validate:"omitempty,min=0"`
	Take       *int   `json:"take,omitempty" validate:"omitempty,min=1,max=100"`
	Search     string `json:"search,omitempty"`
	Gender     string `json:"gender,omitempty"`
	HairColor  string `json:"hairColor,omitempty"`
	EyeColor   string `json:"eyeColor,omitempty"`
	BloodGroup string `json:"bloodGroup,omitempty"`
}

// Query converts the input to a store query, applying defaults.
func (in *GetUsersInput) Query() model.UserQuery {
	q := model.UserQuery{
		Skip:       model.DefaultSkip,
		Take:       model.DefaultTake,
		Search:     in.Search,
		Gender:     in.Gender,
		HairColor:  in.HairColor,
		EyeColor:   in.EyeColor,
		BloodGroup: in.BloodGroup,
	}
	if in.Skip != nil {
		q.Skip = *in.Skip
	}
	if in.Take != nil {
		q.Take = *in.Take
	}
	return q
}

type GetUsersOutput struct {
	Users         []model.User         `json:"users"`
	Total         int                  `json:"total"`
	ActiveFilters []model.ActiveFilter `json:"activeFilters"`
	HasMore       bool                 `json:"hasMore"`
}

type GetUserByIDInput struct {
	ID *int `json:"id" validate:"required"`
}

type GetTodosByUserIDInput struct {
	UserID *int `json:"userId" validate:"required"`
}

// TodoList is the result of getTodosByUserId.
type TodoList []model.Todo

type CreateTodoInput struct {
	UserID *int   `json:"userId" validate:"required"`
	Todo   string `json:"todo" validate:"min=1"`
}

type UpdateTodoInput struct {
	ID        *int    `json:"id" validate:"required"`
	Todo      *string `json:"todo,omitempty" validate:"omitempty,min=1"`
	Completed *bool   `json:"completed,omitempty"`
}

// TodoIDInput addresses a single todo for delete and toggle.
type TodoIDInput struct {
	ID *int `json:"id" validate:"required"`
}

type DeleteTodoOutput struct {
	Success bool `json:"success"`
}

type HelloInput struct {
	Text *string `json:"text" validate:"required"`
}

type HelloOutput struct {
	Greeting string `json:"greeting"`
}

type Post struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
