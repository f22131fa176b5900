package model

import "time"

// Todo belongs to exactly one user.  Ids are assigned either by the bulk
// import or as max(id)+1 on creation.
type Todo struct {
	ID        int       `json:"id"`
	Todo      string    `json:"todo"`
	Completed bool      `json:"completed"`
	UserID    int       `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TodoPatch holds the fields of a partial update.  Nil fields are left
// unchanged.
type TodoPatch struct {
	Todo      *string
	Completed *bool
}

// Apply returns t with the patch applied.
func (p TodoPatch) Apply(t Todo) Todo {
	if p.Todo != nil {
		t.Todo = *p.Todo
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}
