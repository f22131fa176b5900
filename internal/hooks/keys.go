package hooks

import (
	"encoding/json"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/api"
)

// Procedure names used as cache key prefixes.
const (
	ProcGetUsers         = "user.getUsers"
	ProcGetUserByID      = "user.getUserById"
	ProcGetTodosByUserID = "todo.getTodosByUserId"
)

func key(proc string, input any) string {
	data, err := json.Marshal(input)
	if err != nil {
		// Inputs are plain structs of ints and strings.
		panic(err)
	}
	return proc + string(data)
}

// UsersKey is the cache key of one getUsers input.
func UsersKey(in *api.GetUsersInput) string { return key(ProcGetUsers, in) }

// UserKey is the cache key of getUserById for id.
func UserKey(id int) string { return key(ProcGetUserByID, api.GetUserByIDInput{ID: &id}) }

// TodosKey is the cache key of getTodosByUserId for userID.
func TodosKey(userID int) string {
	return key(ProcGetTodosByUserID, api.GetTodosByUserIDInput{UserID: &userID})
}
