package model_test

import (
	"fmt"
	"testing"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/model"
)

func directory(n int) []model.User {
	users := make([]model.User, 0, n)
	for i := 1; i <= n; i++ {
		users = append(users, model.User{
			ID:        i,
			FirstName: fmt.Sprintf("User%02d", i),
			LastName:  "Smith",
			Gender:    []string{"male", "female"}[i%2],
		})
	}
	return users
}

// TestApplyPagination covers the twelve-user example: the first page is
// full and has more, the second holds the remaining two.
func TestApplyPagination(t *testing.T) {
	users := directory(12)

	q := model.UserQuery{Skip: 0, Take: 10}
	page := q.Apply(users)
	if len(page.Users) != 10 || page.Total != 12 || !q.HasMore(page.Total) {
		t.Fatalf("first page: got %d users, total %d, hasMore %v", len(page.Users), page.Total, q.HasMore(page.Total))
	}

	q = model.UserQuery{Skip: 10, Take: 10}
	page = q.Apply(users)
	if len(page.Users) != 2 || page.Total != 12 || q.HasMore(page.Total) {
		t.Fatalf("second page: got %d users, total %d, hasMore %v", len(page.Users), page.Total, q.HasMore(page.Total))
	}

	q = model.UserQuery{Skip: 50, Take: 10}
	page = q.Apply(users)
	if len(page.Users) != 0 || page.Total != 12 {
		t.Fatalf("past the end: got %d users, total %d", len(page.Users), page.Total)
	}
}

func TestHasMore(t *testing.T) {
	for skip := 0; skip <= 15; skip++ {
		for take := 1; take <= 15; take++ {
			for total := 0; total <= 20; total++ {
				q := model.UserQuery{Skip: skip, Take: take}
				if got, want := q.HasMore(total), skip+take < total; got != want {
					t.Fatalf("HasMore(skip=%d take=%d total=%d) = %v", skip, take, total, got)
				}
			}
		}
	}
}

func TestMatchesSearchAndFilters(t *testing.T) {
	u := model.User{
		FirstName:   "Emily",
		LastName:    "Johnson",
		Email:       "emily.johnson@x.dummyjson.com",
		Phone:       "+81 965-431-3024",
		CompanyName: "Dooley, Kozey and Cronin",
		Gender:      "female",
		HairColor:   "Brown",
		EyeColor:    "Green",
		BloodGroup:  "O-",
	}
	cases := []struct {
		name string
		q    model.UserQuery
		want bool
	}{
		{"empty", model.UserQuery{}, true},
		{"whitespace search", model.UserQuery{Search: "   "}, true},
		{"first name", model.UserQuery{Search: "Emi"}, true},
		{"last name", model.UserQuery{Search: "Johns"}, true},
		{"email", model.UserQuery{Search: "dummyjson"}, true},
		{"phone", model.UserQuery{Search: "431"}, true},
		{"company", model.UserQuery{Search: "Kozey"}, true},
		{"padded search", model.UserQuery{Search: "  Kozey "}, true},
		{"no match", model.UserQuery{Search: "doe"}, false},
		{"case sensitive", model.UserQuery{Search: "emily j"}, false},
		{"gender", model.UserQuery{Gender: "female"}, true},
		{"wrong gender", model.UserQuery{Gender: "male"}, false},
		{"search and filters", model.UserQuery{Search: "Emily", HairColor: "Brown", EyeColor: "Green", BloodGroup: "O-"}, true},
		{"search ok filter fails", model.UserQuery{Search: "Emily", BloodGroup: "A+"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.q.Matches(u); got != tc.want {
				t.Fatalf("Matches = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestActiveFiltersOrderAndLabels(t *testing.T) {
	q := model.UserQuery{BloodGroup: "A+", Gender: "male", EyeColor: "Blue"}
	got := q.ActiveFilters()
	want := []model.ActiveFilter{
		{Key: "gender", Value: "male", Label: "Gender: male"},
		{Key: "eyeColor", Value: "Blue", Label: "Eyes: Blue"},
		{Key: "bloodGroup", Value: "A+", Label: "Blood: A+"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d filters, got %+v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("filter %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
	if n := len(model.UserQuery{}.ActiveFilters()); n != 0 {
		t.Fatalf("expected no active filters, got %d", n)
	}
}

func TestParseBlobs(t *testing.T) {
	bank := `{"cardNumber":"9289760655481815","currency":"CNY","iban":"YPUXISOBI7TTHPK2BR3HAIXL"}`
	broken := `{"coin":`
	u := model.User{BankJSON: &bank, CryptoJSON: &broken}

	b, ok := u.ParseBank()
	if !ok || b.Currency != "CNY" || b.IBAN != "YPUXISOBI7TTHPK2BR3HAIXL" {
		t.Fatalf("unexpected bank: %+v ok=%v", b, ok)
	}
	if _, ok := u.ParseCrypto(); ok {
		t.Fatalf("expected malformed crypto blob to be rejected")
	}
	if _, ok := (model.User{}).ParseBank(); ok {
		t.Fatalf("expected absent bank blob to be rejected")
	}
}
