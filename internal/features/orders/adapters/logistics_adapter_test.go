package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"parcel-portal/internal/core/logistics"
	"parcel-portal/internal/features/orders/domain"
	quotes "parcel-portal/internal/features/quotes/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdapter(t *testing.T, h http.HandlerFunc) *LogisticsOrderAdapter {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewLogisticsOrderAdapter(logistics.NewClient(srv.URL, srv.Client()))
}

func TestLogisticsOrderAdapter_Send(t *testing.T) {
	adapter := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/courier/send", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("pricingId"))

		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.JSONEq(t, `"DPD"`, string(body["courier"]))
		assert.JSONEq(t, `false`, string(body["saturday"]))

		var sender apiAddress
		require.NoError(t, json.Unmarshal(body["sender"], &sender))
		assert.Equal(t, "Jan", sender.Name)
		assert.Equal(t, "00950", sender.City.ZipCode)
		assert.Equal(t, "1", sender.HouseNr)

		w.Write([]byte(`{"orderId":1234,"waybill":"WB-9","status":"NEW"}`))
	})

	result, err := adapter.Send(context.Background(), domain.Shipment{
		PricingID: 42,
		Courier:   "DPD",
		Packages:  []quotes.PackageSpec{{Width: 1, Height: 1, Length: 1, Weight: 1}},
		Sender:    domain.AddressProfile{Name: "Jan", PostalCode: "00950", HouseNumber: "1"},
		Receiver:  domain.AddressProfile{Name: "Anna"},
	})

	require.NoError(t, err)
	assert.Equal(t, "1234", result.OrderID)
	assert.Equal(t, "WB-9", result.Waybill)
	assert.Equal(t, "NEW", result.Status)
}

func TestLogisticsOrderAdapter_Send_NoWaybill(t *testing.T) {
	adapter := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"orderId":"A-1","waybill":null}`))
	})

	result, err := adapter.Send(context.Background(), domain.Shipment{PricingID: 1})

	require.NoError(t, err)
	assert.Equal(t, "A-1", result.OrderID)
	assert.Empty(t, result.Waybill)
}

func TestLogisticsOrderAdapter_Send_Rejected(t *testing.T) {
	adapter := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"pricing expired"}`))
	})

	_, err := adapter.Send(context.Background(), domain.Shipment{PricingID: 1})

	apiErr, ok := logistics.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "pricing expired", apiErr.Message)
}

func TestLogisticsOrderAdapter_DefaultSender(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantZip string
	}{
		{
			name:    "FormattedZip",
			body:    `{"name":"Jan","surname":"Kowalski","city":{"cityName":"Warszawa","stringZipCode":"00950","formatStringZipCode":"00-950"}}`,
			wantZip: "00-950",
		},
		{
			name:    "PlainZip",
			body:    `{"name":"Jan","surname":"Kowalski","city":{"cityName":"Warszawa","stringZipCode":"00950"}}`,
			wantZip: "00950",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/sender", r.URL.Path)
				w.Write([]byte(tt.body))
			})

			profile, err := adapter.DefaultSender(context.Background())

			require.NoError(t, err)
			assert.Equal(t, "Jan", profile.Name)
			assert.Equal(t, "Warszawa", profile.City)
			assert.Equal(t, tt.wantZip, profile.PostalCode)
			assert.Equal(t, domain.DefaultCountryCode, profile.CountryCode)
		})
	}
}

func TestLogisticsOrderAdapter_AddressBook(t *testing.T) {
	adapter := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/address-book", r.URL.Path)
		w.Write([]byte(`[
			{"id":7,"name":"Anna","surname":"Nowak","city":{"cityName":"Kraków","stringZipCode":"30001"}},
			{"id":"x8","name":"Piotr","companyName":"Acme","city":{"cityName":"Gdańsk"}}
		]`))
	})

	entries, err := adapter.AddressBook(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "7", entries[0].ID)
	assert.Equal(t, "30001", entries[0].PostalCode)
	assert.False(t, entries[0].IsCompany)
	assert.Equal(t, "x8", entries[1].ID)
	assert.True(t, entries[1].IsCompany)
}

func TestFlexString(t *testing.T) {
	var v struct {
		A flexString `json:"a"`
		B flexString `json:"b"`
		C flexString `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":12,"b":"x","c":null}`), &v))
	assert.Equal(t, flexString("12"), v.A)
	assert.Equal(t, flexString("x"), v.B)
	assert.Empty(t, v.C)
}
