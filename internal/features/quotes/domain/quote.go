package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"parcel-portal/internal/core/apperror"
)

// DefaultService is the service tier used when a package does not name one.
const DefaultService = "STANDARD"

// DefaultCurrency is assumed when the API omits the offer currency.
const DefaultCurrency = "PLN"

// Source tells where the offers of a QuoteResult came from.
type Source string

const (
	// SourceAPI means the offers were returned by the logistics API.
	SourceAPI Source = "api"
	// SourceFallback means the fixed demo offers were substituted.
	SourceFallback Source = "fallback"
)

var (
	// ErrNoOffers is returned when the API produced no priced offer and fallback is disabled.
	ErrNoOffers = errors.New("no priced offers available")
)

// Dimension is a raw form value. It accepts both JSON strings and numbers.
type Dimension string

// UnmarshalJSON implements json.Unmarshaler.
func (d *Dimension) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = Dimension(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("dimension must be a number or string: %w", err)
	}
	*d = Dimension(n.String())
	return nil
}

// PackageForm is a package as typed by the visitor.
type PackageForm struct {
	Width   Dimension `json:"width"`
	Height  Dimension `json:"height"`
	Length  Dimension `json:"length"`
	Weight  Dimension `json:"weight"`
	Service string    `json:"service,omitempty"`
}

// PackageSpec is a validated package. It travels unchanged from quote to order.
type PackageSpec struct {
	ID      int     `json:"id"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Length  float64 `json:"length"`
	Weight  float64 `json:"weight"`
	Service string  `json:"service"`
}

// AddOns are the optional services priced with the quote. All default to false/0.
type AddOns struct {
	Insurance             float64 `json:"insurance"`
	Taken                 float64 `json:"taken"`
	ReceptionNotification bool    `json:"receptionNotification"`
	GivingNotification    bool    `json:"givingNotification"`
	Confirmation          bool    `json:"confirmation"`
	Unloading             bool    `json:"unloading"`
	Glass                 bool    `json:"glass"`
	Saturday              bool    `json:"saturday"`
	PosteRestante         bool    `json:"posteRestante"`
	SMS                   bool    `json:"sms"`
	CheckPackage          bool    `json:"checkPackage"`
	ADR                   bool    `json:"adr"`
	ThirdPart             bool    `json:"thirdPart"`
}

// CourierOffer is one priced option returned by an estimate.
type CourierOffer struct {
	Courier     string   `json:"courier"`
	DisplayName string   `json:"displayName"`
	Price       *float64 `json:"price"`
	Currency    string   `json:"currency"`
	PricingID   *int64   `json:"pricingId"`
	// Packages is the per-package price breakdown, passed through as returned.
	Packages json.RawMessage `json:"packages,omitempty"`
	Waybill  *string         `json:"waybill"`
	// Fallback marks demo offers produced when the API could not price the shipment.
	Fallback bool `json:"fallback"`
}

// Priced reports whether the offer carries a price.
func (o CourierOffer) Priced() bool {
	return o.Price != nil
}

// QuoteResult is the tagged outcome of an estimate.
type QuoteResult struct {
	Source Source         `json:"source"`
	Offers []CourierOffer `json:"offers"`
}

// Selection is an offer chosen by the visitor together with the packages it was priced for.
type Selection struct {
	Offer    CourierOffer  `json:"offer"`
	Packages []PackageSpec `json:"packages"`
}

// ParsePackages validates the forms and converts them to package specs.
// All four dimensions of every package must be present and numeric; a decimal comma is accepted.
func ParsePackages(forms []PackageForm) ([]PackageSpec, error) {
	if len(forms) == 0 {
		return nil, apperror.NewValidationError("at least one package is required",
			apperror.Field("packages", "required"))
	}

	var details []apperror.ValidationDetail
	specs := make([]PackageSpec, 0, len(forms))

	for i, form := range forms {
		spec := PackageSpec{ID: i, Service: form.Service}
		if spec.Service == "" {
			spec.Service = DefaultService
		}

		fields := []struct {
			name  string
			value Dimension
			dst   *float64
		}{
			{"width", form.Width, &spec.Width},
			{"height", form.Height, &spec.Height},
			{"length", form.Length, &spec.Length},
			{"weight", form.Weight, &spec.Weight},
		}
		for _, f := range fields {
			field := fmt.Sprintf("packages[%d].%s", i, f.name)
			raw := strings.TrimSpace(string(f.value))
			if raw == "" {
				details = append(details, apperror.Field(field, "required"))
				continue
			}
			v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
			if err != nil {
				details = append(details, apperror.Field(field, "must be a number"))
				continue
			}
			*f.dst = v
		}

		specs = append(specs, spec)
	}

	if len(details) > 0 {
		return nil, apperror.NewValidationError("please fill in all package dimensions", details...)
	}
	return specs, nil
}

// FilterPriced drops offers without a price, keeping the server order.
func FilterPriced(offers []CourierOffer) []CourierOffer {
	priced := make([]CourierOffer, 0, len(offers))
	for _, o := range offers {
		if !o.Priced() {
			continue
		}
		if o.Currency == "" {
			o.Currency = DefaultCurrency
		}
		o.DisplayName = FormatCourierName(o.Courier)
		priced = append(priced, o)
	}
	return priced
}

// IsFallbackPricingID reports whether the pricing id belongs to a demo offer.
// Demo offers carry negative ids, which the logistics API never issues.
func IsFallbackPricingID(id int64) bool {
	return id < 0
}

// IsFallback reports whether the offer is a demo offer, by flag or by pricing id.
func (o CourierOffer) IsFallback() bool {
	return o.Fallback || (o.PricingID != nil && IsFallbackPricingID(*o.PricingID))
}

// FallbackOffers returns the fixed demo offer set.
func FallbackOffers() []CourierOffer {
	seed := []struct {
		courier   string
		price     float64
		pricingID int64
	}{
		{"DPD", 16.99, -1},
		{"INPOST", 13.49, -2},
		{"DHL", 18.59, -3},
		{"UPS", 21.90, -4},
	}

	offers := make([]CourierOffer, 0, len(seed))
	for _, s := range seed {
		price := s.price
		pricingID := s.pricingID
		offers = append(offers, CourierOffer{
			Courier:     s.courier,
			DisplayName: FormatCourierName(s.courier),
			Price:       &price,
			Currency:    DefaultCurrency,
			PricingID:   &pricingID,
			Fallback:    true,
		})
	}
	return offers
}
