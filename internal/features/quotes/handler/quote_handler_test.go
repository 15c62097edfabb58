package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"parcel-portal/internal/core/apperror"
	"parcel-portal/internal/core/logistics"
	"parcel-portal/internal/core/server"
	"parcel-portal/internal/features/quotes/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockQuoteService is a mock implementation of ports.QuoteService.
type MockQuoteService struct {
	mock.Mock
}

func (m *MockQuoteService) Estimate(ctx context.Context, packages []domain.PackageForm, addOns domain.AddOns) (*domain.QuoteResult, error) {
	args := m.Called(ctx, packages, addOns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuoteResult), args.Error(1)
}

func setupApp(service *MockQuoteService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: server.ErrorHandler(nil)})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	handler := NewQuoteHandler(service)
	app.Post("/api/quotes", handler.Estimate)
	return app
}

func postJSON(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/quotes", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestQuoteHandler_Estimate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockQuoteService)
		app := setupApp(mockService)

		result := &domain.QuoteResult{Source: domain.SourceFallback, Offers: domain.FallbackOffers()}
		expectedForms := []domain.PackageForm{{Width: "10", Height: "20", Length: "30,5", Weight: "2"}}
		mockService.On("Estimate", mock.Anything, expectedForms, domain.AddOns{Insurance: 500, SMS: true}).Return(result, nil).Once()

		resp := postJSON(t, app, `{"packages":[{"width":10,"height":"20","length":"30,5","weight":2}],"addOns":{"insurance":500,"sms":true}}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body domain.QuoteResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, domain.SourceFallback, body.Source)
		assert.Len(t, body.Offers, 4)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidBody", func(t *testing.T) {
		mockService := new(MockQuoteService)
		app := setupApp(mockService)

		resp := postJSON(t, app, `{"packages":`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		mockService.AssertNotCalled(t, "Estimate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ValidationError", func(t *testing.T) {
		mockService := new(MockQuoteService)
		app := setupApp(mockService)

		ve := apperror.NewValidationError("please fill in all package dimensions", apperror.Field("packages[0].width", "required"))
		mockService.On("Estimate", mock.Anything, mock.Anything, mock.Anything).Return(nil, ve).Once()

		resp := postJSON(t, app, `{"packages":[{"height":1,"length":1,"weight":1}]}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var errResp server.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
		assert.Equal(t, "test-ray-id", errResp.RayID)
		require.Len(t, errResp.Details, 1)
		assert.Equal(t, "packages[0].width", errResp.Details[0].Field)
	})

	t.Run("NoOffers", func(t *testing.T) {
		mockService := new(MockQuoteService)
		app := setupApp(mockService)

		mockService.On("Estimate", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrNoOffers).Once()

		resp := postJSON(t, app, `{"packages":[{"width":1,"height":1,"length":1,"weight":1}]}`)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("UpstreamUnavailable", func(t *testing.T) {
		mockService := new(MockQuoteService)
		app := setupApp(mockService)

		err := errors.Join(errors.New("service: failed to estimate"), logistics.ErrUnavailable)
		mockService.On("Estimate", mock.Anything, mock.Anything, mock.Anything).Return(nil, err).Once()

		resp := postJSON(t, app, `{"packages":[{"width":1,"height":1,"length":1,"weight":1}]}`)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})
}
