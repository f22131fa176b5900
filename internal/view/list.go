package view

import (
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/hooks"
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/model"
)

// Row is one rendered table row.
type Row struct {
	ID    int
	URL   string
	Image string
	Cells []string
}

// Chip is an active filter with the URL that removes it.
type Chip struct {
	Label     string
	RemoveURL string
}

// ListPage is the view model of the directory page.
type ListPage struct {
	State    ListState
	Render   RenderState
	Title    string
	Message  string
	Detail   string
	Columns  []Column
	Rows     []Row
	Chips    []Chip
	ClearURL string
	Filters  []FilterSelect

	// Pagination is nil unless the table is populated.
	Pagination *Pagination
	PageSizes  []int
}

// BuildListPage derives the directory page from its state and the
// result of the Users hook.
func BuildListPage(s ListState, res hooks.UsersResult) ListPage {
	p := ListPage{
		State:     s,
		Render:    renderState(res.Status, len(res.Users)),
		Title:     "Address Book - User Directory",
		Filters:   FilterSelects(s),
		PageSizes: PageSizes,
		ClearURL:  s.ClearFilters().URL(),
	}
	for _, f := range res.ActiveFilters {
		p.Chips = append(p.Chips, Chip{Label: f.Label, RemoveURL: s.WithFilter(f.Key, "").URL()})
	}
	switch p.Render {
	case StateError:
		p.Message = "Error loading users: " + orDefault(ErrorMessage(res.Err), "Unknown error")
	case StateEmpty:
		p.Message = "No users found"
		p.Detail = "Try adjusting your search or filters."
	case StatePopulated:
		p.Columns = Columns(res.ActiveFilters)
		p.Rows = rows(p.Columns, res.Users)
		pg := NewPagination(s, res.Total, res.TotalPages)
		p.Pagination = &pg
	}
	return p
}

func rows(cols []Column, users []model.User) []Row {
	out := make([]Row, 0, len(users))
	for _, u := range users {
		r := Row{ID: u.ID, URL: UserURL(u.ID), Image: u.Image, Cells: make([]string, len(cols))}
		for i, c := range cols {
			r.Cells[i] = c.Value(u)
		}
		out = append(out, r)
	}
	return out
}

// PageLink is one numbered pagination link.
type PageLink struct {
	Number  int
	URL     string
	Current bool
}

// Pagination describes the controls under the table.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	PageSize    int
	Total       int
	// From and To are the 1-based bounds of the rows shown.
	From, To int
	PrevURL  string
	NextURL  string
	Pages    []PageLink
}

// paginationWindow is the number of numbered links shown at once.
const paginationWindow = 5

// NewPagination builds the controls for page s.Page of totalPages.
func NewPagination(s ListState, total, totalPages int) Pagination {
	p := Pagination{
		CurrentPage: s.Page,
		TotalPages:  totalPages,
		PageSize:    s.PageSize,
		Total:       total,
	}
	if total > 0 {
		p.From = min((s.Page-1)*s.PageSize+1, total)
		p.To = min(s.Page*s.PageSize, total)
	}
	if s.Page > 1 {
		p.PrevURL = s.WithPage(s.Page - 1).URL()
	}
	if s.Page < totalPages {
		p.NextURL = s.WithPage(s.Page + 1).URL()
	}

	start := max(1, s.Page-paginationWindow/2)
	end := min(totalPages, start+paginationWindow-1)
	start = max(1, end-paginationWindow+1)
	for n := start; n <= end; n++ {
		p.Pages = append(p.Pages, PageLink{Number: n, URL: s.WithPage(n).URL(), Current: n == s.Page})
	}
	return p
}
