package view

import (
	"net/url"
	"strconv"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/hooks"
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/model"
)

// URL query parameter names of the list page.
const (
	ParamPage     = "page"
	ParamPageSize = "pageSize"
	ParamSearch   = "search"
)

// ListState is everything the list page shows, mirrored in its URL.
type ListState struct {
	Page       int
	PageSize   int
	Search     string
	Gender     string
	HairColor  string
	EyeColor   string
	BloodGroup string
}

// DefaultListState is the state of a bare "/".
func DefaultListState() ListState {
	return ListState{Page: hooks.DefaultPage, PageSize: hooks.DefaultPageSize}
}

// ParseListState reads the list page state from URL query values.
// Missing or unusable numbers fall back to their defaults; a page size
// outside [1, 100] is unusable because the server would reject it.
func ParseListState(v url.Values) ListState {
	s := DefaultListState()
	if n, err := strconv.Atoi(v.Get(ParamPage)); err == nil && n >= 1 {
		s.Page = n
	}
	if n, err := strconv.Atoi(v.Get(ParamPageSize)); err == nil && n >= 1 && n <= model.MaxTake {
		s.PageSize = n
	}
	s.Search = v.Get(ParamSearch)
	s.Gender = v.Get(model.FilterGender)
	s.HairColor = v.Get(model.FilterHairColor)
	s.EyeColor = v.Get(model.FilterEyeColor)
	s.BloodGroup = v.Get(model.FilterBloodGroup)
	return s
}

// Values encodes s, leaving out every parameter at its default so URLs
// stay minimal.
func (s ListState) Values() url.Values {
	v := url.Values{}
	if s.Page != hooks.DefaultPage && s.Page > 0 {
		v.Set(ParamPage, strconv.Itoa(s.Page))
	}
	if s.PageSize != hooks.DefaultPageSize && s.PageSize > 0 {
		v.Set(ParamPageSize, strconv.Itoa(s.PageSize))
	}
	for _, p := range []struct{ key, val string }{
		{ParamSearch, s.Search},
		{model.FilterGender, s.Gender},
		{model.FilterHairColor, s.HairColor},
		{model.FilterEyeColor, s.EyeColor},
		{model.FilterBloodGroup, s.BloodGroup},
	} {
		if p.val != "" {
			v.Set(p.key, p.val)
		}
	}
	return v
}

// URL is the list page path for s.
func (s ListState) URL() string {
	if q := s.Values().Encode(); q != "" {
		return "/?" + q
	}
	return "/"
}

// Filter returns the value of the filter named key.
func (s ListState) Filter(key string) string {
	switch key {
	case model.FilterGender:
		return s.Gender
	case model.FilterHairColor:
		return s.HairColor
	case model.FilterEyeColor:
		return s.EyeColor
	case model.FilterBloodGroup:
		return s.BloodGroup
	}
	return ""
}

// WithSearch changes the search term and returns to the first page.
func (s ListState) WithSearch(search string) ListState {
	s.Search = search
	s.Page = 1
	return s
}

// WithFilter sets one filter and returns to the first page.  An empty
// value removes the filter.  Unknown keys leave s unchanged.
func (s ListState) WithFilter(key, value string) ListState {
	switch key {
	case model.FilterGender:
		s.Gender = value
	case model.FilterHairColor:
		s.HairColor = value
	case model.FilterEyeColor:
		s.EyeColor = value
	case model.FilterBloodGroup:
		s.BloodGroup = value
	default:
		return s
	}
	s.Page = 1
	return s
}

// ClearFilters removes every filter, keeping the search term.
func (s ListState) ClearFilters() ListState {
	s.Gender, s.HairColor, s.EyeColor, s.BloodGroup = "", "", "", ""
	s.Page = 1
	return s
}

func (s ListState) HasFilters() bool {
	return s.Gender != "" || s.HairColor != "" || s.EyeColor != "" || s.BloodGroup != ""
}

// WithPage moves to page, keeping everything else.
func (s ListState) WithPage(page int) ListState {
	s.Page = max(page, 1)
	return s
}

// WithPageSize changes the page size and returns to the first page.
func (s ListState) WithPageSize(size int) ListState {
	s.PageSize = size
	s.Page = 1
	return s
}

// Params converts s to the input of the Users hook.
func (s ListState) Params() hooks.UsersParams {
	return hooks.UsersParams{
		Page:       s.Page,
		PageSize:   s.PageSize,
		Search:     s.Search,
		Gender:     s.Gender,
		HairColor:  s.HairColor,
		EyeColor:   s.EyeColor,
		BloodGroup: s.BloodGroup,
	}
}
