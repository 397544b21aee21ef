package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yourorg/genwork/internal/domain"
	"github.com/yourorg/genwork/internal/service"
	"github.com/yourorg/genwork/internal/validate"
)

func TestNewPagination(t *testing.T) {
	cases := []struct {
		page, limit, total int
		wantPages          int
	}{
		{1, 50, 125, 3},
		{1, 50, 100, 2},
		{1, 50, 0, 0},
		{2, 10, 11, 2},
		{0, 0, 75, 2}, // invalid inputs fall back to page 1, limit 50
	}
	for _, tc := range cases {
		p := NewPagination(tc.page, tc.limit, tc.total)
		if p.Pages != tc.wantPages {
			t.Fatalf("NewPagination(%d, %d, %d).Pages = %d, want %d",
				tc.page, tc.limit, tc.total, p.Pages, tc.wantPages)
		}
		if p.Total != tc.total {
			t.Fatalf("total mismatch: %d != %d", p.Total, tc.total)
		}
	}
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	return body
}

func TestResponderErrorMapping(t *testing.T) {
	rp := NewResponder(nil, false)
	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)

	cases := []struct {
		err        error
		wantStatus int
		wantMsg    string
	}{
		{validate.ValidationErrors{{Field: "email", Message: "Email is required"}}, http.StatusBadRequest, "Validation failed"},
		{domain.NewConflict("already exists"), http.StatusConflict, "already exists"},
		{domain.ErrNotFound, http.StatusNotFound, "Resource not found"},
		{service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
		{service.ErrAccountDeactivated, http.StatusUnauthorized, "Account has been deactivated"},
		{service.ErrInvalidToken, http.StatusUnauthorized, "Invalid token"},
		{errors.New("db exploded"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		rp.Error(rec, req, tc.err)
		if rec.Code != tc.wantStatus {
			t.Fatalf("error %v: status %d, want %d", tc.err, rec.Code, tc.wantStatus)
		}
		body := decodeEnvelope(t, rec)
		if body["success"] != false {
			t.Fatalf("error %v: expected success=false", tc.err)
		}
		if body["message"] != tc.wantMsg {
			t.Fatalf("error %v: message %q, want %q", tc.err, body["message"], tc.wantMsg)
		}
	}
}

func TestResponderDevelopmentExposesInternalError(t *testing.T) {
	rp := NewResponder(nil, true)
	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	rec := httptest.NewRecorder()

	rp.Error(rec, req, errors.New("db exploded"))
	body := decodeEnvelope(t, rec)
	if body["message"] != "db exploded" {
		t.Fatalf("development mode should expose the error, got %q", body["message"])
	}
}

func TestParsePageLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/test?page=3&limit=20", nil)
	page, limit := parsePageLimit(req)
	if page != 3 || limit != 20 {
		t.Fatalf("got page=%d limit=%d", page, limit)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/test?page=-1&limit=abc", nil)
	page, limit = parsePageLimit(req)
	if page != 1 || limit != 50 {
		t.Fatalf("bad params must fall back to defaults, got page=%d limit=%d", page, limit)
	}
}
