package view

import "github.com/afoley587/coding-challenges-2025/addressbook/internal/model"

// Option is one entry of a filter select.
type Option struct {
	Value, Label string
}

// FilterSelect describes one select of the filter panel.
type FilterSelect struct {
	Key      string
	Label    string
	Options  []Option
	Selected string
}

var (
	genderOptions = []Option{{"male", "Male"}, {"female", "Female"}}
	hairOptions   = plain("Black", "Brown", "Blond", "Red", "Gray", "White", "Auburn")
	eyeOptions    = plain("Brown", "Blue", "Green", "Gray", "Hazel", "Amber")
	bloodOptions  = plain("A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-")
)

// filterPanel lists the filter selects in display order.
var filterPanel = []FilterSelect{
	{Key: model.FilterGender, Label: "Gender", Options: genderOptions},
	{Key: model.FilterHairColor, Label: "Hair Color", Options: hairOptions},
	{Key: model.FilterEyeColor, Label: "Eye Color", Options: eyeOptions},
	{Key: model.FilterBloodGroup, Label: "Blood Group", Options: bloodOptions},
}

// PageSizes are the choices offered by the page size select.
var PageSizes = []int{10, 20, 50, 100}

func plain(values ...string) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Option{Value: v, Label: v}
	}
	return out
}

// FilterSelects returns the filter panel for s.
func FilterSelects(s ListState) []FilterSelect {
	out := make([]FilterSelect, len(filterPanel))
	for i, f := range filterPanel {
		f.Selected = s.Filter(f.Key)
		out[i] = f
	}
	return out
}
