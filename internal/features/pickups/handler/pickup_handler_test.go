package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"parcel-portal/internal/core/apperror"
	"parcel-portal/internal/core/inflight"
	"parcel-portal/internal/core/server"
	"parcel-portal/internal/features/pickups/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPickupService is a mock implementation of ports.PickupService.
type MockPickupService struct {
	mock.Mock
}

func (m *MockPickupService) Schedule(ctx context.Context, form domain.WindowForm) (*domain.PickupState, error) {
	args := m.Called(ctx, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PickupState), args.Error(1)
}

func (m *MockPickupService) Status(ctx context.Context, waybill string) (*domain.PickupState, error) {
	args := m.Called(ctx, waybill)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PickupState), args.Error(1)
}

func (m *MockPickupService) Availability(ctx context.Context, courier, zipCode string) ([]domain.DayAvailability, error) {
	args := m.Called(ctx, courier, zipCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DayAvailability), args.Error(1)
}

func setupApp() (*fiber.App, *MockPickupService) {
	service := new(MockPickupService)
	h := NewPickupHandler(service)

	app := fiber.New(fiber.Config{ErrorHandler: server.ErrorHandler(nil)})
	app.Get("/api/pickups/availability", h.Availability)
	app.Post("/api/pickups", h.Schedule)
	app.Get("/api/pickups/:waybill", h.Status)
	return app, service
}

func TestPickupHandler_Schedule(t *testing.T) {
	tests := []struct {
		name        string
		state       *domain.PickupState
		err         error
		wantStatus  int
		wantMessage string
	}{
		{name: "Success", state: &domain.PickupState{Waybill: "WB-1", Status: domain.StatusSuccess}, wantStatus: http.StatusOK},
		{name: "Validation", err: apperror.NewValidationError("the end of the window must be later than its start"), wantStatus: http.StatusBadRequest},
		{name: "Confirmed", err: domain.ErrPickupAlreadyConfirmed, wantStatus: http.StatusConflict},
		{name: "InFlight", err: inflight.ErrSubmissionInProgress, wantStatus: http.StatusConflict},
		{name: "Rejected", err: &domain.RejectedError{Message: "outside courier hours"}, wantStatus: http.StatusBadGateway, wantMessage: "outside courier hours"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, service := setupApp()
			service.On("Schedule", mock.Anything, domain.WindowForm{
				Waybill: "WB-1", Date: "2025-01-10", TimeFrom: "09:00", TimeTo: "12:00",
			}).Return(tt.state, tt.err).Once()

			body := `{"waybill":"WB-1","date":"2025-01-10","timeFrom":"09:00","timeTo":"12:00"}`
			req := httptest.NewRequest(http.MethodPost, "/api/pickups", bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantMessage != "" {
				var errResp server.ErrorResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
				assert.Equal(t, tt.wantMessage, errResp.Message)
			}
			service.AssertExpectations(t)
		})
	}
}

func TestPickupHandler_Status(t *testing.T) {
	app, service := setupApp()
	service.On("Status", mock.Anything, "WB-7").Return(&domain.PickupState{Waybill: "WB-7", Status: domain.StatusIdle}, nil).Once()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/pickups/WB-7", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var state domain.PickupState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Equal(t, domain.StatusIdle, state.Status)
}

func TestPickupHandler_Availability(t *testing.T) {
	app, service := setupApp()
	service.On("Availability", mock.Anything, "DPD", "00950").Return([]domain.DayAvailability{{Date: "2025-01-10"}}, nil).Once()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/pickups/availability?courier=DPD&zipCode=00950", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	service.AssertExpectations(t)
	service.AssertNotCalled(t, "Status", mock.Anything, mock.Anything)
}
