package hooks

import (
	"context"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/api"
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/model"
)

// Page defaults of the directory listing.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// UsersParams selects one page of the directory.  Zero Page and PageSize
// mean the defaults; empty strings mean the filter is not applied.
type UsersParams struct {
	Page       int
	PageSize   int
	Search     string
	Gender     string
	HairColor  string
	EyeColor   string
	BloodGroup string
}

// Input converts the params to the getUsers input.  Empty filters are
// sent as absent.
func (p UsersParams) Input() *api.GetUsersInput {
	page, size := p.window()
	return &api.GetUsersInput{
		Skip:       api.Int((page - 1) * size),
		Take:       api.Int(size),
		Search:     p.Search,
		Gender:     p.Gender,
		HairColor:  p.HairColor,
		EyeColor:   p.EyeColor,
		BloodGroup: p.BloodGroup,
	}
}

func (p UsersParams) window() (page, size int) {
	page, size = p.Page, p.PageSize
	if page < 1 {
		page = DefaultPage
	}
	if size < 1 {
		size = DefaultPageSize
	}
	return page, size
}

// UsersResult is the outcome of the Users hook.  The slices are never
// nil, so callers can range over them in every state.
type UsersResult struct {
	Status        Status
	Err           error
	Users         []model.User
	Total         int
	ActiveFilters []model.ActiveFilter
	HasMore       bool
	TotalPages    int
	CurrentPage   int
}

// Users fetches one page of the directory.
func (c *Client) Users(ctx context.Context, p UsersParams) UsersResult {
	page, size := p.window()
	in := p.Input()
	res := UsersResult{
		Users:         []model.User{},
		ActiveFilters: []model.ActiveFilter{},
		CurrentPage:   page,
	}
	out, st, err := fetch(ctx, c.cache, UsersKey(in), func(ctx context.Context) (*api.GetUsersOutput, error) {
		return c.api.GetUsers(ctx, in)
	})
	res.Status, res.Err = st, err
	if err != nil {
		return res
	}
	if out.Users != nil {
		res.Users = out.Users
	}
	if out.ActiveFilters != nil {
		res.ActiveFilters = out.ActiveFilters
	}
	res.Total = out.Total
	res.HasMore = out.HasMore
	res.TotalPages = TotalPages(out.Total, size)
	return res
}

// TotalPages is ceil(total/pageSize), and 0 for an empty result.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// UserResult is the outcome of the User hook.
type UserResult struct {
	Status Status
	Err    error
	User   *model.UserWithTodos
}

// User fetches one user with its todos.  A nil id disables the query:
// nothing is sent and the status is StatusIdle.
func (c *Client) User(ctx context.Context, id *int) UserResult {
	if id == nil {
		return UserResult{Status: StatusIdle}
	}
	userID := *id
	u, st, err := fetch(ctx, c.cache, UserKey(userID), func(ctx context.Context) (*model.UserWithTodos, error) {
		return c.api.GetUserByID(ctx, userID)
	})
	return UserResult{Status: st, Err: err, User: u}
}
