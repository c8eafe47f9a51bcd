package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/odp-Dev/opendoor-growth-hub-main/internal/bookings/service"
	apperrors "github.com/odp-Dev/opendoor-growth-hub-main/pkg/errors"
	httputil "github.com/odp-Dev/opendoor-growth-hub-main/pkg/http"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/logger"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockBookingService struct {
	service.BookingService

	gotLimit  int
	gotOffset int64
	updated   map[string]string
}

func (m *mockBookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	m.gotLimit, m.gotOffset = limit, offset
	return []*model.Booking{{ID: "b-2"}, {ID: "b-1"}}, 2, nil
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id != "b-1" {
		return nil, apperrors.NotFound("Booking")
	}
	return &model.Booking{ID: id, Status: model.BookingStatusPending}, nil
}

func (m *mockBookingService) UpdateStatus(ctx context.Context, id string, update *model.BookingStatusUpdate) error {
	if update.Status != model.BookingStatusConfirmed {
		return apperrors.InvalidInput("status must be one of: pending confirmed cancelled")
	}
	m.updated[id] = update.Status
	return nil
}

func passthrough(h httprouter.Handle) httprouter.Handle { return h }

func newTestRouter(svc *mockBookingService, guard func(httprouter.Handle) httprouter.Handle) *httprouter.Router {
	router := httprouter.New()
	NewAdminHandler(svc, guard, logger.Nop()).RegisterRoutes(router)
	return router
}

func TestListBookings(t *testing.T) {
	svc := &mockBookingService{}
	router := newTestRouter(svc, passthrough)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/bookings?limit=500&offset=-3", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 100, svc.gotLimit)
	assert.Equal(t, int64(0), svc.gotOffset)

	var body httputil.PaginatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(2), body.TotalCount)
}

func TestListBookings_InvalidLimit(t *testing.T) {
	router := newTestRouter(&mockBookingService{}, passthrough)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/bookings?limit=ten", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetBooking(t *testing.T) {
	router := newTestRouter(&mockBookingService{}, passthrough)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/bookings/id/b-1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"b-1"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/bookings/id/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateStatus(t *testing.T) {
	svc := &mockBookingService{updated: map[string]string{}}
	router := newTestRouter(svc, passthrough)

	patch := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/bookings/id/b-1/status", strings.NewReader(body))
		router.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, patch(`{"status":"confirmed"}`).Code)
	assert.Equal(t, model.BookingStatusConfirmed, svc.updated["b-1"])

	assert.Equal(t, http.StatusBadRequest, patch(`{"status":"archived"}`).Code)
	assert.Equal(t, http.StatusBadRequest, patch(`not json`).Code)
}

func TestRoutesAreGuarded(t *testing.T) {
	deny := func(httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
			w.WriteHeader(http.StatusUnauthorized)
		}
	}
	router := newTestRouter(&mockBookingService{}, deny)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/admin/bookings"},
		{http.MethodGet, "/api/v1/admin/bookings/id/b-1"},
		{http.MethodPatch, "/api/v1/admin/bookings/id/b-1/status"},
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.path)
	}
}
