package domain

import (
	"errors"
	"strings"

	"parcel-portal/internal/core/apperror"
	quotes "parcel-portal/internal/features/quotes/domain"
)

const (
	// RegistrationCountry is the country name the backend expects for new accounts.
	RegistrationCountry = "Polska"
	// RegistrationCompanyName is sent for private customers; the backend rejects an empty value.
	RegistrationCompanyName = "Klient Indywidualny"
	// RegistrationPlaceNr is sent as apartment number; the backend rejects an empty value.
	RegistrationPlaceNr = "1"
)

var (
	// ErrInvalidCredentials is returned when the API rejects the login.
	ErrInvalidCredentials = errors.New("invalid login or password")
)

// Action tells the browser what to do after an offer was selected.
type Action string

const (
	// ActionProceed means the visitor may continue to the order form.
	ActionProceed Action = "proceed"
	// ActionLogin means the visitor must log in first; the selection waits under a continuation token.
	ActionLogin Action = "login"
)

// Credentials is the login form.
type Credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Validate checks that both fields are present.
func (c Credentials) Validate() error {
	var details []apperror.ValidationDetail
	if strings.TrimSpace(c.Login) == "" {
		details = append(details, apperror.Field("login", "required"))
	}
	if c.Password == "" {
		details = append(details, apperror.Field("password", "required"))
	}
	if len(details) > 0 {
		return apperror.NewValidationError("please enter login and password", details...)
	}
	return nil
}

// RegisterForm is the account registration form. Every field is required.
type RegisterForm struct {
	Login    string `json:"login"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Phone    string `json:"phone"`
	Street   string `json:"street"`
	HouseNr  string `json:"houseNr"`
	ZipCode  string `json:"zipCode"`
	CityName string `json:"cityName"`
}

// Validate reports every empty field.
func (f RegisterForm) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"login", f.Login},
		{"email", f.Email},
		{"password", f.Password},
		{"name", f.Name},
		{"surname", f.Surname},
		{"phone", f.Phone},
		{"street", f.Street},
		{"houseNr", f.HouseNr},
		{"zipCode", f.ZipCode},
		{"cityName", f.CityName},
	}

	var details []apperror.ValidationDetail
	for _, field := range fields {
		if strings.TrimSpace(field.value) == "" {
			details = append(details, apperror.Field(field.name, "required"))
		}
	}
	if len(details) > 0 {
		return apperror.NewValidationError("please fill in all fields", details...)
	}
	return nil
}

// City is the nested city object of the registration payload.
type City struct {
	CityName string `json:"cityName"`
	ZipCode  string `json:"zipCode"`
	Country  string `json:"country"`
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Login       string `json:"login"`
	Password    string `json:"password"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Phone       string `json:"phone"`
	Street      string `json:"street"`
	HouseNr     string `json:"houseNr"`
	PlaceNr     string `json:"placeNr"`
	City        City   `json:"city"`
	CompanyName string `json:"companyName"`
	NIP         string `json:"nip"`
	BankAccount string `json:"bankAccount"`
}

// NewRegisterRequest normalizes the form into the payload the backend accepts.
func NewRegisterRequest(f RegisterForm) RegisterRequest {
	return RegisterRequest{
		Login:    f.Login,
		Password: f.Password,
		Email:    f.Email,
		Name:     f.Name,
		Surname:  f.Surname,
		Phone:    f.Phone,
		Street:   f.Street,
		HouseNr:  f.HouseNr,
		PlaceNr:  RegistrationPlaceNr,
		City: City{
			CityName: f.CityName,
			ZipCode:  strings.ReplaceAll(f.ZipCode, "-", ""),
			Country:  RegistrationCountry,
		},
		CompanyName: RegistrationCompanyName,
	}
}

// SelectResult is the outcome of selecting an offer.
type SelectResult struct {
	Action Action `json:"action"`
	// Selection is echoed back when the visitor may proceed.
	Selection *quotes.Selection `json:"selection,omitempty"`
	// Continuation identifies the pending selection to resume after login.
	Continuation string `json:"continuation,omitempty"`
	Redirect     string `json:"redirect,omitempty"`
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	SessionID string `json:"-"`
	Login     string `json:"login"`
	// Resume is the pending selection captured before login, if any. It is delivered once.
	Resume *quotes.Selection `json:"resume,omitempty"`
}

// SessionView is the public state of the current session.
type SessionView struct {
	Authenticated bool   `json:"authenticated"`
	Login         string `json:"login,omitempty"`
}
