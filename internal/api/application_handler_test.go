package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobtrail/jobtrail-api/internal/api/shared"
	"github.com/jobtrail/jobtrail-api/internal/domain"
	"github.com/jobtrail/jobtrail-api/internal/service"
	"github.com/jobtrail/jobtrail-api/internal/store"
)

// newApplicationRouter mounts an ApplicationHandler over the given store, the
// way the real router does, and injects the authenticated user into every
// request context.
func newApplicationRouter(appStore store.ApplicationStore, userID uuid.UUID) http.Handler {
	applications := service.NewApplicationService(appStore, nil, nil)
	handler := NewApplicationHandler(applications, nil)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Route("/applications", func(r chi.Router) {
		r.Post("/", handler.Create)
		r.Get("/", handler.List)
		r.Get("/{id}", handler.Get)
		r.Put("/{id}", handler.Update)
		r.Patch("/{id}/status", handler.UpdateStatus)
		r.Delete("/{id}", handler.Delete)
	})
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestApplicationHandler_Create(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("creates an application with a seeded timeline", func(t *testing.T) {
		t.Parallel()

		var created *domain.Application
		appStore := &mockApplicationStore{
			createFn: func(ctx context.Context, app *domain.Application) error {
				created = app
				return nil
			},
		}
		router := newApplicationRouter(appStore, userID)

		rr := doJSON(t, router, http.MethodPost, "/applications", CreateApplicationRequest{
			Company:  "Acme Corp",
			Position: "Backend Engineer",
			Platform: "LinkedIn",
		})

		require.Equal(t, http.StatusCreated, rr.Code)
		require.NotNil(t, created)
		assert.Equal(t, userID, created.UserID)
		assert.Equal(t, domain.ApplicationStatusApplied, created.Status)
		assert.Equal(t, "LinkedIn", created.Platform)
		require.Len(t, created.Timeline, 1)
		assert.Equal(t, domain.ApplicationStatusApplied, created.Timeline[0].Status)
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		t.Parallel()

		router := newApplicationRouter(&mockApplicationStore{}, userID)

		rr := doJSON(t, router, http.MethodPost, "/applications", map[string]string{
			"company":  "Acme Corp",
			"position": "Backend Engineer",
			"status":   "ghosted_me",
		})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("requires company and position", func(t *testing.T) {
		t.Parallel()

		router := newApplicationRouter(&mockApplicationStore{}, userID)

		rr := doJSON(t, router, http.MethodPost, "/applications", map[string]string{
			"company": "Acme Corp",
		})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestApplicationHandler_List(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("passes filters through from query parameters", func(t *testing.T) {
		t.Parallel()

		var gotFilters store.ApplicationFilters
		appStore := &mockApplicationStore{
			listByUserFn: func(ctx context.Context, uid uuid.UUID, filters store.ApplicationFilters) ([]*domain.Application, error) {
				assert.Equal(t, userID, uid)
				gotFilters = filters
				return []*domain.Application{}, nil
			},
		}
		router := newApplicationRouter(appStore, userID)

		rr := doJSON(t, router, http.MethodGet,
			"/applications?status=interview&platform=LinkedIn&sort=applied_date&order=asc", nil)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, domain.ApplicationStatusInterview, gotFilters.Status)
		assert.Equal(t, "LinkedIn", gotFilters.Platform)
		assert.Equal(t, "applied_date", gotFilters.SortBy)
		assert.False(t, gotFilters.Descending)
	})

	t.Run("defaults to descending order", func(t *testing.T) {
		t.Parallel()

		var gotFilters store.ApplicationFilters
		appStore := &mockApplicationStore{
			listByUserFn: func(ctx context.Context, uid uuid.UUID, filters store.ApplicationFilters) ([]*domain.Application, error) {
				gotFilters = filters
				return nil, nil
			},
		}
		router := newApplicationRouter(appStore, userID)

		rr := doJSON(t, router, http.MethodGet, "/applications", nil)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, gotFilters.Descending)
	})

	t.Run("rejects an invalid status filter", func(t *testing.T) {
		t.Parallel()

		router := newApplicationRouter(&mockApplicationStore{}, userID)

		rr := doJSON(t, router, http.MethodGet, "/applications?status=bogus", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestApplicationHandler_Get(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	appID := uuid.New()

	t.Run("returns the owned application", func(t *testing.T) {
		t.Parallel()

		appStore := &mockApplicationStore{
			findOwnedFn: func(ctx context.Context, id, uid uuid.UUID) (*domain.Application, error) {
				assert.Equal(t, appID, id)
				assert.Equal(t, userID, uid)
				return &domain.Application{ID: appID, UserID: userID, Company: "Acme Corp"}, nil
			},
		}
		router := newApplicationRouter(appStore, userID)

		rr := doJSON(t, router, http.MethodGet, "/applications/"+appID.String(), nil)

		require.Equal(t, http.StatusOK, rr.Code)

		var got domain.Application
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Equal(t, "Acme Corp", got.Company)
	})

	t.Run("another user's application is indistinguishable from a missing one", func(t *testing.T) {
		t.Parallel()

		// FindOwned defaults to not found, which is exactly what the store
		// returns for records owned by someone else.
		router := newApplicationRouter(&mockApplicationStore{}, userID)

		rr := doJSON(t, router, http.MethodGet, "/applications/"+appID.String(), nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("rejects a malformed id", func(t *testing.T) {
		t.Parallel()

		router := newApplicationRouter(&mockApplicationStore{}, userID)

		rr := doJSON(t, router, http.MethodGet, "/applications/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestApplicationHandler_UpdateStatus(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	appID := uuid.New()

	t.Run("records the transition and returns the updated application", func(t *testing.T) {
		t.Parallel()

		var gotEntry domain.TimelineEntry
		appStore := &mockApplicationStore{
			updateStatusFn: func(ctx context.Context, id, uid uuid.UUID, status domain.ApplicationStatus, entry domain.TimelineEntry) error {
				assert.Equal(t, appID, id)
				assert.Equal(t, domain.ApplicationStatusInterview, status)
				gotEntry = entry
				return nil
			},
			findOwnedFn: func(ctx context.Context, id, uid uuid.UUID) (*domain.Application, error) {
				return &domain.Application{ID: appID, UserID: userID, Status: domain.ApplicationStatusInterview}, nil
			},
		}
		router := newApplicationRouter(appStore, userID)

		rr := doJSON(t, router, http.MethodPatch, "/applications/"+appID.String()+"/status",
			UpdateStatusRequest{Status: "interview"})

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Status changed to interview", gotEntry.Notes)

		var got domain.Application
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Equal(t, domain.ApplicationStatusInterview, got.Status)
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		t.Parallel()

		appStore := &mockApplicationStore{
			updateStatusFn: func(ctx context.Context, id, uid uuid.UUID, status domain.ApplicationStatus, entry domain.TimelineEntry) error {
				t.Fatal("store should not be called for an invalid status")
				return nil
			},
		}
		router := newApplicationRouter(appStore, userID)

		rr := doJSON(t, router, http.MethodPatch, "/applications/"+appID.String()+"/status",
			UpdateStatusRequest{Status: "hired!"})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestApplicationHandler_Delete(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	appID := uuid.New()

	t.Run("deletes and returns no content", func(t *testing.T) {
		t.Parallel()

		deleted := false
		appStore := &mockApplicationStore{
			deleteFn: func(ctx context.Context, id, uid uuid.UUID) error {
				deleted = true
				return nil
			},
		}
		router := newApplicationRouter(appStore, userID)

		rr := doJSON(t, router, http.MethodDelete, "/applications/"+appID.String(), nil)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.True(t, deleted)
	})

	t.Run("missing application", func(t *testing.T) {
		t.Parallel()

		appStore := &mockApplicationStore{
			deleteFn: func(ctx context.Context, id, uid uuid.UUID) error {
				return store.ErrApplicationNotFound
			},
		}
		router := newApplicationRouter(appStore, userID)

		rr := doJSON(t, router, http.MethodDelete, "/applications/"+appID.String(), nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
