package view

import (
	"strings"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/model"
)

// Column is one column of the user table.
type Column struct {
	Key   string
	Title string
	value func(model.User) string
}

// Value renders u's cell in this column.
func (c Column) Value(u model.User) string { return c.value(u) }

var baseColumns = []Column{
	{Key: "user", Title: "User", value: model.User.FullName},
	{Key: "email", Title: "Email", value: func(u model.User) string { return u.Email }},
	{Key: "phone", Title: "Phone", value: func(u model.User) string { return orNA(u.Phone) }},
	{Key: "company", Title: "Company", value: func(u model.User) string { return orNA(u.CompanyName) }},
	{Key: "address", Title: "Address", value: func(u model.User) string {
		return orNA(joinNonEmpty(", ", u.Address, u.City, u.State))
	}},
}

// filterColumns are shown only while their filter is active.
var filterColumns = []Column{
	{Key: model.FilterGender, Title: "Gender", value: func(u model.User) string { return orNA(u.Gender) }},
	{Key: model.FilterHairColor, Title: "Hair Color", value: func(u model.User) string { return orNA(u.HairColor) }},
	{Key: model.FilterEyeColor, Title: "Eye Color", value: func(u model.User) string { return orNA(u.EyeColor) }},
	{Key: model.FilterBloodGroup, Title: "Blood Group", value: func(u model.User) string { return orNA(u.BloodGroup) }},
}

// Columns returns the base columns followed by one column per active
// filter dimension.
func Columns(active []model.ActiveFilter) []Column {
	cols := append([]Column{}, baseColumns...)
	for _, c := range filterColumns {
		for _, f := range active {
			if f.Key == c.Key {
				cols = append(cols, c)
				break
			}
		}
	}
	return cols
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
