package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"parcel-portal/internal/core/logistics"
	"parcel-portal/internal/features/auth/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogisticsAuthenticator_Login(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/login", r.URL.Path)
			_, err := r.Cookie("JSESSIONID")
			assert.ErrorIs(t, err, http.ErrNoCookie)

			var creds domain.Credentials
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			assert.Equal(t, "jan", creds.Login)

			http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "upstream-1"})
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		auth := NewLogisticsAuthenticator(logistics.NewClient(server.URL, server.Client()))
		ctx := logistics.WithCookies(context.Background(), []logistics.Cookie{{Name: "JSESSIONID", Value: "stale"}})

		cookies, err := auth.Login(ctx, domain.Credentials{Login: "jan", Password: "secret"})
		require.NoError(t, err)
		assert.Equal(t, []logistics.Cookie{{Name: "JSESSIONID", Value: "upstream-1"}}, cookies)
	})

	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))
			defer server.Close()

			auth := NewLogisticsAuthenticator(logistics.NewClient(server.URL, server.Client()))
			_, err := auth.Login(context.Background(), domain.Credentials{Login: "jan", Password: "bad"})
			assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
			assert.NotErrorIs(t, err, logistics.ErrUnauthorized)
		})
	}

	t.Run("NonOKSuccessStatus", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		auth := NewLogisticsAuthenticator(logistics.NewClient(server.URL, server.Client()))
		_, err := auth.Login(context.Background(), domain.Credentials{Login: "jan", Password: "secret"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("ServerError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		auth := NewLogisticsAuthenticator(logistics.NewClient(server.URL, server.Client()))
		_, err := auth.Login(context.Background(), domain.Credentials{Login: "jan", Password: "secret"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestLogisticsAuthenticator_Register(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/register", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "1", body["placeNr"])
		assert.Equal(t, "Klient Indywidualny", body["companyName"])
		city := body["city"].(map[string]any)
		assert.Equal(t, "00950", city["zipCode"])
		assert.Equal(t, "Polska", city["country"])

		if body["login"] == "taken" {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"message":"login already exists"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	auth := NewLogisticsAuthenticator(logistics.NewClient(server.URL, server.Client()))
	form := domain.RegisterForm{Login: "jan", ZipCode: "00-950", CityName: "Warszawa"}

	require.NoError(t, auth.Register(context.Background(), domain.NewRegisterRequest(form)))

	form.Login = "taken"
	err := auth.Register(context.Background(), domain.NewRegisterRequest(form))
	apiErr, ok := logistics.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "login already exists", apiErr.Message)
}
