package model

import (
	"encoding/json"
	"time"
)

// User is a directory entry.  Address and company details are stored
// flattened; bank and crypto metadata are kept as opaque JSON text and
// parsed on read.
type User struct {
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
	HairColor  string  `json:"hairColor"`
	HairType   string  `json:"hairType"`
	IP         string  `json:"ip"`
	MacAddress string  `json:"macAddress"`
	University string  `json:"university"`
	EIN        string  `json:"ein"`
	SSN        string  `json:"ssn"`
	UserAgent  string  `json:"userAgent"`
	Role       string  `json:"role"`

	Address    string  `json:"address"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	StateCode  string  `json:"stateCode"`
	PostalCode string  `json:"postalCode"`
	AddressLat float64 `json:"addressLat"`
	AddressLng float64 `json:"addressLng"`
	Country    string  `json:"country"`

	CompanyName       string  `json:"companyName"`
	CompanyTitle      string  `json:"companyTitle"`
	CompanyDepartment string  `json:"companyDepartment"`
	CompanyAddress    string  `json:"companyAddress"`
	CompanyCity       string  `json:"companyCity"`
	CompanyState      string  `json:"companyState"`
	CompanyStateCode  string  `json:"companyStateCode"`
	CompanyPostalCode string  `json:"companyPostalCode"`
	CompanyLat        float64 `json:"companyLat"`
	CompanyLng        float64 `json:"companyLng"`
	CompanyCountry    string  `json:"companyCountry"`

	BankJSON   *string `json:"bankJson"`
	CryptoJSON *string `json:"cryptoJson"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserWithTodos is a user together with every todo it owns.
type UserWithTodos struct {
	User
	Todos []Todo `json:"todos"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

type Bank struct {
	CardExpire string `json:"cardExpire"`
	CardNumber string `json:"cardNumber"`
	CardType   string `json:"cardType"`
	Currency   string `json:"currency"`
	IBAN       string `json:"iban"`
}

type Crypto struct {
	Coin    string `json:"coin"`
	Wallet  string `json:"wallet"`
	Network string `json:"network"`
}

// ParseBank decodes the bank blob.  ok is false when the blob is absent
// or is not valid JSON.
func (u User) ParseBank() (*Bank, bool) {
	var b Bank
	if !parseBlob(u.BankJSON, &b) {
		return nil, false
	}
	return &b, true
}

// ParseCrypto decodes the crypto blob.  ok is false when the blob is
// absent or is not valid JSON.
func (u User) ParseCrypto() (*Crypto, bool) {
	var c Crypto
	if !parseBlob(u.CryptoJSON, &c) {
		return nil, false
	}
	return &c, true
}

func parseBlob(raw *string, dst any) bool {
	if raw == nil || *raw == "" {
		return false
	}
	return json.Unmarshal([]byte(*raw), dst) == nil
}

// EncodeBlob serialises v for storage in one of the JSON text columns.
// A nil v yields a nil blob.
func EncodeBlob(v any) (*string, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := string(data)
	return &s, nil
}
