package domain

import (
	"testing"

	"parcel-portal/internal/core/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentials_Validate(t *testing.T) {
	assert.NoError(t, Credentials{Login: "jan", Password: "secret"}.Validate())

	ve, ok := apperror.AsValidation(Credentials{Login: " "}.Validate())
	require.True(t, ok)
	require.Len(t, ve.Details, 2)
	assert.Equal(t, "login", ve.Details[0].Field)
	assert.Equal(t, "password", ve.Details[1].Field)
}

func validRegisterForm() RegisterForm {
	return RegisterForm{
		Login:    "jan",
		Email:    "jan@example.com",
		Password: "secret",
		Name:     "Jan",
		Surname:  "Kowalski",
		Phone:    "500600700",
		Street:   "Marszałkowska",
		HouseNr:  "10",
		ZipCode:  "00-950",
		CityName: "Warszawa",
	}
}

func TestRegisterForm_Validate(t *testing.T) {
	assert.NoError(t, validRegisterForm().Validate())

	form := validRegisterForm()
	form.Phone = ""
	form.CityName = "  "

	ve, ok := apperror.AsValidation(form.Validate())
	require.True(t, ok)
	require.Len(t, ve.Details, 2)
	assert.Equal(t, "phone", ve.Details[0].Field)
	assert.Equal(t, "cityName", ve.Details[1].Field)
}

func TestNewRegisterRequest(t *testing.T) {
	req := NewRegisterRequest(validRegisterForm())

	assert.Equal(t, "00950", req.City.ZipCode)
	assert.Equal(t, "Warszawa", req.City.CityName)
	assert.Equal(t, RegistrationCountry, req.City.Country)
	assert.Equal(t, RegistrationPlaceNr, req.PlaceNr)
	assert.Equal(t, RegistrationCompanyName, req.CompanyName)
	assert.Empty(t, req.NIP)
	assert.Empty(t, req.BankAccount)
	assert.Equal(t, "10", req.HouseNr)
}
