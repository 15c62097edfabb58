package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"parcel-portal/internal/core/logistics"
	"parcel-portal/internal/features/orders/domain"
	quotes "parcel-portal/internal/features/quotes/domain"
)

// flexString accepts JSON strings and numbers; the backend is not consistent about ids.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// apiCity is the nested city object the backend uses in addresses.
type apiCity struct {
	CityName            string `json:"cityName"`
	ZipCode             string `json:"zipCode,omitempty"`
	StringZipCode       string `json:"stringZipCode,omitempty"`
	FormatStringZipCode string `json:"formatStringZipCode,omitempty"`
	Country             string `json:"country,omitempty"`
}

// apiAddress is the backend representation of a sender, receiver or saved address.
type apiAddress struct {
	ID          flexString `json:"id,omitempty"`
	Name        string     `json:"name"`
	Surname     string     `json:"surname"`
	CompanyName string     `json:"companyName"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Street      string     `json:"street"`
	HouseNr     string     `json:"houseNr"`
	PlaceNr     string     `json:"placeNr"`
	City        apiCity    `json:"city"`
	IsCompany   bool       `json:"isCompany"`
	NIP         string     `json:"nip"`
}

func toAPIAddress(p domain.AddressProfile) apiAddress {
	return apiAddress{
		Name:        p.Name,
		Surname:     p.Surname,
		CompanyName: p.CompanyName,
		Email:       p.Email,
		Phone:       p.Phone,
		Street:      p.Street,
		HouseNr:     p.HouseNumber,
		PlaceNr:     p.ApartmentNumber,
		City: apiCity{
			CityName: p.City,
			ZipCode:  p.PostalCode,
			Country:  p.CountryCode,
		},
		IsCompany: p.IsCompany,
		NIP:       p.NIP,
	}
}

// toProfile maps a stored address to the form, preferring the formatted zip code.
func (a apiAddress) toProfile() domain.AddressProfile {
	zip := a.City.FormatStringZipCode
	if zip == "" {
		zip = a.City.StringZipCode
	}
	if zip == "" {
		zip = a.City.ZipCode
	}

	return domain.AddressProfile{
		Name:            a.Name,
		Surname:         a.Surname,
		CompanyName:     a.CompanyName,
		Email:           a.Email,
		Phone:           a.Phone,
		Street:          a.Street,
		HouseNumber:     a.HouseNr,
		ApartmentNumber: a.PlaceNr,
		PostalCode:      zip,
		City:            a.City.CityName,
		CountryCode:     domain.DefaultCountryCode,
		IsCompany:       a.IsCompany,
		NIP:             a.NIP,
	}
}

// sendRequest is the body of POST /courier/send.
// The add-on flags are required by the backend schema and always off here.
type sendRequest struct {
	Courier  string               `json:"courier"`
	Packages []quotes.PackageSpec `json:"packages"`
	Sender   apiAddress           `json:"sender"`
	Receiver apiAddress           `json:"receiver"`
	quotes.AddOns
}

type sendResponse struct {
	OrderID     flexString `json:"orderId"`
	Waybill     *string    `json:"waybill"`
	Status      string     `json:"status"`
	TrackingURL string     `json:"trackingUrl"`
}

// LogisticsOrderAdapter implements ports.OrderGateway against the logistics API.
type LogisticsOrderAdapter struct {
	client *logistics.Client
}

// NewLogisticsOrderAdapter creates a new LogisticsOrderAdapter.
func NewLogisticsOrderAdapter(client *logistics.Client) *LogisticsOrderAdapter {
	return &LogisticsOrderAdapter{
		client: client,
	}
}

// DefaultSender fetches GET /sender.
func (a *LogisticsOrderAdapter) DefaultSender(ctx context.Context) (*domain.AddressProfile, error) {
	var sender apiAddress
	if _, err := a.client.Do(ctx, logistics.Request{
		Method: http.MethodGet,
		Path:   "/sender",
	}, &sender); err != nil {
		return nil, fmt.Errorf("sender request failed: %w", err)
	}

	profile := sender.toProfile()
	return &profile, nil
}

// Send submits the shipment bound to its pricing id.
func (a *LogisticsOrderAdapter) Send(ctx context.Context, shipment domain.Shipment) (*domain.SendResult, error) {
	body := sendRequest{
		Courier:  shipment.Courier,
		Packages: shipment.Packages,
		Sender:   toAPIAddress(shipment.Sender),
		Receiver: toAPIAddress(shipment.Receiver),
	}

	var resp sendResponse
	if _, err := a.client.Do(ctx, logistics.Request{
		Method: http.MethodPost,
		Path:   "/courier/send",
		Query:  url.Values{"pricingId": {strconv.FormatInt(shipment.PricingID, 10)}},
		Body:   body,
	}, &resp); err != nil {
		return nil, fmt.Errorf("send request failed: %w", err)
	}

	result := &domain.SendResult{
		OrderID:     string(resp.OrderID),
		Status:      resp.Status,
		TrackingURL: resp.TrackingURL,
	}
	if resp.Waybill != nil {
		result.Waybill = *resp.Waybill
	}
	return result, nil
}

// AddressBook fetches the saved addresses.
func (a *LogisticsOrderAdapter) AddressBook(ctx context.Context) ([]domain.AddressBookEntry, error) {
	var addresses []apiAddress
	if _, err := a.client.Do(ctx, logistics.Request{
		Method: http.MethodGet,
		Path:   "/address-book",
	}, &addresses); err != nil {
		return nil, fmt.Errorf("address book request failed: %w", err)
	}

	entries := make([]domain.AddressBookEntry, 0, len(addresses))
	for _, addr := range addresses {
		profile := addr.toProfile()
		profile.IsCompany = profile.IsCompany || profile.CompanyName != ""
		entries = append(entries, domain.AddressBookEntry{
			ID:             string(addr.ID),
			AddressProfile: profile,
		})
	}
	return entries, nil
}
