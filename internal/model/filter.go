package model

import (
	"sort"
	"strings"
)

const (
	DefaultSkip = 0
	DefaultTake = 10
	MaxTake     = 100
)

// Filter keys, in the order they are reported as active.
const (
	FilterGender     = "gender"
	FilterHairColor  = "hairColor"
	FilterEyeColor   = "eyeColor"
	FilterBloodGroup = "bloodGroup"
)

// ActiveFilter is a non-empty filter dimension applied to a user query.
type ActiveFilter struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Label string `json:"label"`
}

// UserQuery selects a page of users.  Search is matched as a substring
// against name, email, phone and company name; the remaining fields are
// equality filters.  Empty strings mean "no constraint".
type UserQuery struct {
	Skip       int
	Take       int
	Search     string
	Gender     string
	HairColor  string
	EyeColor   string
	BloodGroup string
}

// UserPage is one window of a user query together with the total number
// of matching rows.
type UserPage struct {
	Users []User
	Total int
}

// Normalized trims the search term and fills in the default window.
func (q UserQuery) Normalized() UserQuery {
	q.Search = strings.TrimSpace(q.Search)
	if q.Skip < 0 {
		q.Skip = DefaultSkip
	}
	if q.Take <= 0 {
		q.Take = DefaultTake
	}
	return q
}

// ActiveFilters lists the applied equality filters.
func (q UserQuery) ActiveFilters() []ActiveFilter {
	out := make([]ActiveFilter, 0, 4)
	add := func(key, value, prefix string) {
		if value != "" {
			out = append(out, ActiveFilter{Key: key, Value: value, Label: prefix + ": " + value})
		}
	}
	add(FilterGender, q.Gender, "Gender")
	add(FilterHairColor, q.HairColor, "Hair")
	add(FilterEyeColor, q.EyeColor, "Eyes")
	add(FilterBloodGroup, q.BloodGroup, "Blood")
	return out
}

// HasMore reports whether rows remain past the requested window.
func (q UserQuery) HasMore(total int) bool {
	return q.Skip+q.Take < total
}

// Matches evaluates the query predicate against u.  It is used by the
// backends that filter in process.
func (q UserQuery) Matches(u User) bool {
	if s := strings.TrimSpace(q.Search); s != "" {
		if !strings.Contains(u.FirstName, s) &&
			!strings.Contains(u.LastName, s) &&
			!strings.Contains(u.Email, s) &&
			!strings.Contains(u.Phone, s) &&
			!strings.Contains(u.CompanyName, s) {
			return false
		}
	}
	if q.Gender != "" && u.Gender != q.Gender {
		return false
	}
	if q.HairColor != "" && u.HairColor != q.HairColor {
		return false
	}
	if q.EyeColor != "" && u.EyeColor != q.EyeColor {
		return false
	}
	if q.BloodGroup != "" && u.BloodGroup != q.BloodGroup {
		return false
	}
	return true
}

// Apply filters, orders and windows users in process.
func (q UserQuery) Apply(users []User) UserPage {
	q = q.Normalized()
	matched := make([]User, 0, len(users))
	for _, u := range users {
		if q.Matches(u) {
			matched = append(matched, u)
		}
	}
	SortUsers(matched)
	total := len(matched)
	start := min(q.Skip, total)
	end := min(start+q.Take, total)
	return UserPage{Users: matched[start:end], Total: total}
}

// SortUsers orders by first name, last name, then id.
func SortUsers(users []User) {
	sort.SliceStable(users, func(i, j int) bool {
		a, b := users[i], users[j]
		if a.FirstName != b.FirstName {
			return a.FirstName < b.FirstName
		}
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		return a.ID < b.ID
	})
}

// SortTodosNewestFirst orders by creation time descending, then id
// descending.
func SortTodosNewestFirst(todos []Todo) {
	sort.SliceStable(todos, func(i, j int) bool {
		a, b := todos[i], todos[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

// SortTodosForList puts incomplete todos first, newest first within each
// group.
func SortTodosForList(todos []Todo) {
	sort.SliceStable(todos, func(i, j int) bool {
		a, b := todos[i], todos[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}
