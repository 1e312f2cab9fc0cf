package profile

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/calcifyx/calcifyx/internal/platform/auth"
)

// failingRepo simulates a store-level failure on Create, as a unique
// constraint violation would surface from the driver.
type failingRepo struct {
	*mockRepo
	createErr error
}

func (f *failingRepo) Create(_ context.Context, _ *Profile) error {
	return f.createErr
}

func newTestContext(method, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, "/user-profile", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(string(auth.UserIDKey), "user-1")
	return c, rec
}

func TestCreateProfile_StoreFailureIsGeneric(t *testing.T) {
	storeErr := errors.New(`duplicate key value violates unique constraint "user_profiles_user_id_key"`)
	repo := &failingRepo{mockRepo: newMockRepo(), createErr: storeErr}
	h := NewHandler(NewService(repo, nil))

	c, _ := newTestContext(http.MethodPost, `{"user_type":"patient","full_name":"Ana"}`)
	err := h.CreateProfile(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %v", err)
	}
	if he.Message != "Internal server error" {
		t.Errorf("store error leaked to the client: %v", he.Message)
	}
	if !errors.Is(he.Internal, storeErr) {
		t.Errorf("expected cause preserved for the request logger, got %v", he.Internal)
	}
}

func TestCreateProfile_ValidationIs400(t *testing.T) {
	h := NewHandler(NewService(newMockRepo(), nil))

	c, _ := newTestContext(http.MethodPost, `{"user_type":"patient"}`)
	err := h.CreateProfile(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing full_name, got %v", err)
	}
	if msg, _ := he.Message.(string); !strings.Contains(msg, "full_name") {
		t.Errorf("expected a human-readable validation message, got %v", he.Message)
	}
}

func TestCreateProfile_Created(t *testing.T) {
	repo := newMockRepo()
	h := NewHandler(NewService(repo, nil))

	c, rec := newTestContext(http.MethodPost, `{"user_type":"doctor","full_name":"Dr. A"}`)
	if err := h.CreateProfile(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if p := repo.profiles["user-1"]; p == nil || p.UserType != TypeDoctor {
		t.Errorf("expected profile stored under the authenticated user, got %+v", p)
	}
}
