package domain

import (
	"strings"
	"unicode"

	"parcel-portal/internal/core/apperror"
	"parcel-portal/internal/core/waybill"
	quotes "parcel-portal/internal/features/quotes/domain"
)

const (
	// DefaultCountryCode is used when a profile has no country.
	DefaultCountryCode = "PL"
	// DefaultHouseNumber is sent when the house number is left empty; the backend rejects an empty value.
	DefaultHouseNumber = "1"
	// MissingSurname is sent when the name has a single word and no surname is known.
	MissingSurname = "-"
)

// AddressProfile is a sender or receiver identity as edited in the order form.
type AddressProfile struct {
	Name            string `json:"name"`
	Surname         string `json:"surname"`
	CompanyName     string `json:"companyName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Street          string `json:"street"`
	HouseNumber     string `json:"houseNumber"`
	ApartmentNumber string `json:"apartmentNumber"`
	PostalCode      string `json:"postalCode"`
	City            string `json:"city"`
	CountryCode     string `json:"countryCode"`
	IsCompany       bool   `json:"isCompany"`
	// NIP is the tax id, required for companies.
	NIP string `json:"nip"`
}

// EmptyProfile is the blank form used when no default sender is known.
func EmptyProfile() AddressProfile {
	return AddressProfile{CountryCode: DefaultCountryCode}
}

// Normalize returns the copy of the profile that is sent to the backend.
// The name is split on the first space, the postal code keeps digits only and
// an empty house number becomes "1".
func Normalize(p AddressProfile) AddressProfile {
	out := p

	first, rest, _ := strings.Cut(strings.TrimSpace(p.Name), " ")
	out.Name = first
	switch {
	case strings.TrimSpace(rest) != "":
		out.Surname = strings.TrimSpace(rest)
	case strings.TrimSpace(p.Surname) == "":
		out.Surname = MissingSurname
	}

	out.PostalCode = strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, p.PostalCode)

	if strings.TrimSpace(out.HouseNumber) == "" {
		out.HouseNumber = DefaultHouseNumber
	}
	if out.CountryCode == "" {
		out.CountryCode = DefaultCountryCode
	}
	return out
}

// Draft is an order waiting for submission: the selected offer plus both addresses.
type Draft struct {
	Offer    quotes.CourierOffer  `json:"offer"`
	Packages []quotes.PackageSpec `json:"packages"`
	Sender   AddressProfile       `json:"sender"`
	Receiver AddressProfile       `json:"receiver"`
}

// Validate checks the draft in a fixed order and reports the first violation.
// Demo offers are refused unless allowFallback is set.
func (d Draft) Validate(allowFallback bool) error {
	checks := []struct {
		failed  bool
		field   string
		message string
	}{
		{blank(d.Sender.Name), "sender.name", "sender name is required"},
		{blank(d.Sender.Email), "sender.email", "sender email is required"},
		{blank(d.Receiver.Name), "receiver.name", "receiver name is required"},
		{blank(d.Receiver.City), "receiver.city", "receiver city is required"},
		{d.Sender.IsCompany && blank(d.Sender.NIP), "sender.nip", "a tax id (NIP) is required for company senders"},
		{d.Receiver.IsCompany && blank(d.Receiver.NIP), "receiver.nip", "a tax id (NIP) is required for company receivers"},
		{d.Offer.PricingID == nil, "offer.pricingId", "offer has no pricing id"},
		{!allowFallback && d.Offer.IsFallback(), "offer.fallback", "demo offers cannot be ordered, please request a new quote"},
		{len(d.Packages) == 0, "packages", "at least one package is required"},
	}

	for _, c := range checks {
		if c.failed {
			return apperror.NewValidationError(c.message, apperror.Field(c.field, c.message))
		}
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Shipment is the normalized order sent to the backend.
type Shipment struct {
	PricingID int64
	Courier   string
	Packages  []quotes.PackageSpec
	Sender    AddressProfile
	Receiver  AddressProfile
}

// NewShipment normalizes a validated draft.
func NewShipment(d Draft) Shipment {
	return Shipment{
		PricingID: *d.Offer.PricingID,
		Courier:   d.Offer.Courier,
		Packages:  d.Packages,
		Sender:    Normalize(d.Sender),
		Receiver:  Normalize(d.Receiver),
	}
}

// SendResult is the backend answer to an order submission.
type SendResult struct {
	OrderID     string
	Waybill     string
	Status      string
	TrackingURL string
}

// Confirmation is the accepted order as returned to the browser.
type Confirmation struct {
	OrderID     string          `json:"orderId"`
	Waybill     waybill.Waybill `json:"waybill"`
	Status      string          `json:"status"`
	TrackingURL string          `json:"trackingUrl,omitempty"`
	Courier     string          `json:"courier"`
}

// AddressBookEntry is a saved address.
type AddressBookEntry struct {
	ID string `json:"id"`
	AddressProfile
}

// FilterAddressBook keeps the entries matching the query in name, surname, company, city or street.
// Matching is case-insensitive; an empty query keeps everything.
func FilterAddressBook(entries []AddressBookEntry, query string) []AddressBookEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return entries
	}

	matched := make([]AddressBookEntry, 0, len(entries))
	for _, e := range entries {
		for _, field := range []string{e.Name, e.Surname, e.CompanyName, e.City, e.Street} {
			if strings.Contains(strings.ToLower(field), q) {
				matched = append(matched, e)
				break
			}
		}
	}
	return matched
}
