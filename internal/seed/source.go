package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/model"
)

// DefaultBaseURL is the public DummyJSON API.
const DefaultBaseURL = "https://dummyjson.com"

// fetchLimit asks for every record in one page.
const fetchLimit = 1000

// Source supplies the records of a bulk import.
type Source interface {
	FetchUsers(ctx context.Context) ([]RemoteUser, error)
	FetchTodos(ctx context.Context) ([]RemoteTodo, error)
}

// DummyJSON reads users and todos from a DummyJSON compatible API.
type DummyJSON struct {
	BaseURL string
	Client  *http.Client
}

// NewDummyJSON returns a source for baseURL, or DefaultBaseURL when
// empty.
func NewDummyJSON(baseURL string) *DummyJSON {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &DummyJSON{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (d *DummyJSON) FetchUsers(ctx context.Context) ([]RemoteUser, error) {
	var page struct {
		Users []RemoteUser `json:"users"`
	}
	if err := d.get(ctx, "users", &page); err != nil {
		return nil, err
	}
	return page.Users, nil
}

func (d *DummyJSON) FetchTodos(ctx context.Context) ([]RemoteTodo, error) {
	var page struct {
		Todos []RemoteTodo `json:"todos"`
	}
	if err := d.get(ctx, "todos", &page); err != nil {
		return nil, err
	}
	return page.Todos, nil
}

func (d *DummyJSON) get(ctx context.Context, resource string, dst any) error {
	url := fmt.Sprintf("%s/%s?limit=%d", d.BaseURL, resource, fetchLimit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", resource, err)
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", resource, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch %s: %s", resource, http.StatusText(resp.StatusCode))
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", resource, err)
	}
	return nil
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type RemoteAddress struct {
	Address     string      `json:"address"`
	City        string      `json:"city"`
	State       string      `json:"state"`
	StateCode   string      `json:"stateCode"`
	PostalCode  string      `json:"postalCode"`
	Coordinates Coordinates `json:"coordinates"`
	Country     string      `json:"country"`
}

// RemoteUser is a user as published by DummyJSON, with nested address,
// company, bank and crypto objects.
type RemoteUser struct {
	ID         int     `json:"id"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	MaidenName string  `json:"maidenName"`
	Age        int     `json:"age"`
	Gender     string  `json:"gender"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Username   string  `json:"username"`
	Password   string  `json:"password"`
	BirthDate  string  `json:"birthDate"`
	Image      string  `json:"image"`
	BloodGroup string  `json:"bloodGroup"`
	Height     float64 `json:"height"`
	Weight     float64 `json:"weight"`
	EyeColor   string  `json:"eyeColor"`
	Hair       struct {
		Color string `json:"color"`
		Type  string `json:"type"`
	} `json:"hair"`
	IP         string         `json:"ip"`
	Address    *RemoteAddress `json:"address"`
	MacAddress string         `json:"macAddress"`
	University string         `json:"university"`
	Bank       *model.Bank    `json:"bank"`
	Company    *struct {
		Department string         `json:"department"`
		Name       string         `json:"name"`
		Title      string         `json:"title"`
		Address    *RemoteAddress `json:"address"`
	} `json:"company"`
	EIN       string        `json:"ein"`
	SSN       string        `json:"ssn"`
	UserAgent string        `json:"userAgent"`
	Crypto    *model.Crypto `json:"crypto"`
	Role      string        `json:"role"`
}

type RemoteTodo struct {
	ID        int    `json:"id"`
	Todo      string `json:"todo"`
	Completed bool   `json:"completed"`
	UserID    int    `json:"userId"`
}

// Model flattens r into the stored shape.  Bank and crypto details are
// kept as JSON text.
func (r RemoteUser) Model() (model.User, error) {
	u := model.User{
		ID:         r.ID,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		MaidenName: r.MaidenName,
		Age:        r.Age,
		Gender:     r.Gender,
		Email:      r.Email,
		Phone:      r.Phone,
		Username:   r.Username,
		Password:   r.Password,
		BirthDate:  r.BirthDate,
		Image:      r.Image,
		BloodGroup: r.BloodGroup,
		Height:     r.Height,
		Weight:     r.Weight,
		EyeColor:   r.EyeColor,
		HairColor:  r.Hair.Color,
		HairType:   r.Hair.Type,
		IP:         r.IP,
		MacAddress: r.MacAddress,
		University: r.University,
		EIN:        r.EIN,
		SSN:        r.SSN,
		UserAgent:  r.UserAgent,
		Role:       r.Role,
	}
	if a := r.Address; a != nil {
		u.Address = a.Address
		u.City = a.City
		u.State = a.State
		u.StateCode = a.StateCode
		u.PostalCode = a.PostalCode
		u.AddressLat = a.Coordinates.Lat
		u.AddressLng = a.Coordinates.Lng
		u.Country = a.Country
	}
	if c := r.Company; c != nil {
		u.CompanyName = c.Name
		u.CompanyTitle = c.Title
		u.CompanyDepartment = c.Department
		if a := c.Address; a != nil {
			u.CompanyAddress = a.Address
			u.CompanyCity = a.City
			u.CompanyState = a.State
			u.CompanyStateCode = a.StateCode
			u.CompanyPostalCode = a.PostalCode
			u.CompanyLat = a.Coordinates.Lat
			u.CompanyLng = a.Coordinates.Lng
			u.CompanyCountry = a.Country
		}
	}

	var err error
	if r.Bank != nil {
		if u.BankJSON, err = model.EncodeBlob(r.Bank); err != nil {
			return u, fmt.Errorf("encode bank of user %d: %w", r.ID, err)
		}
	}
	if r.Crypto != nil {
		if u.CryptoJSON, err = model.EncodeBlob(r.Crypto); err != nil {
			return u, fmt.Errorf("encode crypto of user %d: %w", r.ID, err)
		}
	}
	return u, nil
}

func (r RemoteTodo) Model() model.Todo {
	return model.Todo{ID: r.ID, Todo: r.Todo, Completed: r.Completed, UserID: r.UserID}
}
