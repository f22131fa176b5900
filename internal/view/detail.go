package view

import (
	"fmt"
	"strconv"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/hooks"
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/model"
)

// UserURL is the detail page of user id.
func UserURL(id int) string { return "/users/" + strconv.Itoa(id) }

// DrawerURL is the detail page of user id with the todo drawer open.
func DrawerURL(id int) string { return UserURL(id) + "?todos=open" }

// Field is one labelled value of a profile section.
type Field struct {
	Label string
	Value string
}

// Section is one card of the profile.
type Section struct {
	Title  string
	Fields []Field
}

// DetailPage is the view model of a user's profile page.
type DetailPage struct {
	Render   RenderState
	Title    string
	Message  string
	User     *model.UserWithTodos
	Sections []Section
	Drawer   Drawer
}

// Drawer is the view model of the todo panel.
type Drawer struct {
	Open      bool
	URL       string
	CloseURL  string
	Render    RenderState
	Message   string
	Detail    string
	Todos     []model.Todo
	Completed int
	Pending   hooks.Pending
	// Flash is the message of the last failed mutation, if any.
	Flash string
}

// BuildDetailPage derives the profile page.  The drawer is only built
// when open.
func BuildDetailPage(user hooks.UserResult, todos hooks.TodosResult, pending hooks.Pending, drawerOpen bool) DetailPage {
	p := DetailPage{Render: StatePopulated}
	switch {
	case user.Status == hooks.StatusError:
		p.Render = StateError
	case user.Status != hooks.StatusSuccess:
		p.Render = StateLoading
	case user.User == nil:
		p.Render = StateError
	}
	switch p.Render {
	case StateLoading:
		p.Title = "Loading User..."
		return p
	case StateError:
		p.Title = "User Not Found"
		p.Message = orDefault(ErrorMessage(user.Err), "The user you're looking for doesn't exist.")
		return p
	}

	u := user.User
	p.User = u
	p.Title = u.FullName() + " - Address Book"
	p.Sections = profileSections(u.User)
	p.Drawer = Drawer{
		Open:     drawerOpen,
		URL:      DrawerURL(u.ID),
		CloseURL: UserURL(u.ID),
		Pending:  pending,
	}
	if drawerOpen {
		fillDrawer(&p.Drawer, todos)
	}
	return p
}

func fillDrawer(d *Drawer, res hooks.TodosResult) {
	d.Render = renderState(res.Status, len(res.Todos))
	switch d.Render {
	case StateError:
		d.Message = "Failed to load todos: " + orDefault(ErrorMessage(res.Err), "Unknown error")
	case StateEmpty:
		d.Message = "No todos"
		d.Detail = "Get started by creating a new todo."
	case StatePopulated:
		d.Todos = res.Todos
		for _, t := range res.Todos {
			if t.Completed {
				d.Completed++
			}
		}
	}
}

func profileSections(u model.User) []Section {
	sections := []Section{
		{Title: "Contact Information", Fields: []Field{
			{"Email", u.Email},
			{"Phone", orNA(u.Phone)},
			{"Username", u.Username},
		}},
		{Title: "Personal Details", Fields: []Field{
			{"Age", intOrNA(u.Age)},
			{"Gender", orNA(u.Gender)},
			{"Birth Date", orNA(u.BirthDate)},
			{"Blood Group", orNA(u.BloodGroup)},
		}},
		{Title: "Physical Attributes", Fields: []Field{
			{"Height", measure(u.Height, "cm")},
			{"Weight", measure(u.Weight, "kg")},
			{"Eye Color", orNA(u.EyeColor)},
			{"Hair", orNA(u.HairColor) + suffix(u.HairType)},
		}},
		{Title: "Address", Fields: []Field{
			{"Street", orNA(u.Address)},
			{"City", orNA(u.City)},
			{"State", orNA(u.State) + suffix(u.StateCode)},
			{"Postal Code", orNA(u.PostalCode)},
			{"Country", orNA(u.Country)},
		}},
		{Title: "Company", Fields: []Field{
			{"Company Name", orNA(u.CompanyName)},
			{"Title", orNA(u.CompanyTitle)},
			{"Department", orNA(u.CompanyDepartment)},
			{"Address", companyAddress(u)},
		}},
		{Title: "Education", Fields: []Field{
			{"University", orNA(u.University)},
		}},
	}
	if b, ok := u.ParseBank(); ok {
		sections = append(sections, Section{Title: "Bank Information", Fields: present(
			Field{"Card Number", b.CardNumber},
			Field{"Card Type", b.CardType},
			Field{"Currency", b.Currency},
			Field{"IBAN", b.IBAN},
		)})
	}
	if c, ok := u.ParseCrypto(); ok {
		sections = append(sections, Section{Title: "Crypto Information", Fields: present(
			Field{"Coin", c.Coin},
			Field{"Wallet", c.Wallet},
			Field{"Network", c.Network},
		)})
	}
	return sections
}

// present drops fields without a value.
func present(fields ...Field) []Field {
	out := fields[:0]
	for _, f := range fields {
		if f.Value != "" {
			out = append(out, f)
		}
	}
	return out
}

func suffix(s string) string {
	if s == "" {
		return ""
	}
	return " (" + s + ")"
}

func intOrNA(n int) string {
	if n == 0 {
		return "N/A"
	}
	return strconv.Itoa(n)
}

func measure(v float64, unit string) string {
	if v == 0 {
		return "N/A"
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + unit
}

func companyAddress(u model.User) string {
	if u.CompanyAddress == "" {
		return "N/A"
	}
	return fmt.Sprintf("%s, %s, %s", u.CompanyAddress, u.CompanyCity, u.CompanyState)
}
