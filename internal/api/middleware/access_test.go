package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vbforge/product-catalog/internal/core/domain"
)

func testTable() Table {
	return Table{
		{Method: http.MethodGet, Pattern: "/auth/me", Policy: Authenticated()},
		{Pattern: "/auth/**", Policy: Public()},
		{Pattern: "/health/**", Policy: Public()},
		{Pattern: "/api/admin/**", Policy: Roles(domain.RoleAdmin)},
		{Pattern: "/api/products/**", Policy: Roles(domain.RoleUser, domain.RoleAdmin)},
	}
}

func TestTable_Evaluate(t *testing.T) {
	table := testTable()
	user := &domain.Identity{Username: "alice", Roles: []string{domain.RoleUser}}
	admin := &domain.Identity{Username: "root", Roles: []string{domain.RoleAdmin}}

	cases := []struct {
		name     string
		method   string
		path     string
		identity *domain.Identity
		want     Decision
	}{
		{"public login no identity", http.MethodPost, "/auth/login", nil, Allow},
		{"public health", http.MethodGet, "/health", nil, Allow},
		{"public health subpath", http.MethodGet, "/health/ready", nil, Allow},
		{"me without identity", http.MethodGet, "/auth/me", nil, DenyUnauthorized},
		{"me with identity", http.MethodGet, "/auth/me", user, Allow},
		{"admin route no identity", http.MethodGet, "/api/admin/stats", nil, DenyUnauthorized},
		{"admin route user role", http.MethodGet, "/api/admin/stats", user, DenyForbidden},
		{"admin route admin role", http.MethodGet, "/api/admin/stats", admin, Allow},
		{"products user role", http.MethodGet, "/api/products", user, Allow},
		{"products admin role", http.MethodPost, "/api/products", admin, Allow},
		{"products no identity", http.MethodGet, "/api/products/123", nil, DenyUnauthorized},
		{"unlisted route defaults to authenticated", http.MethodGet, "/internal/debug", nil, DenyUnauthorized},
		{"unlisted route with identity", http.MethodGet, "/internal/debug", user, Allow},
	}

	for _, tc := range cases {
		if got := table.Evaluate(tc.method, tc.path, tc.identity); got != tc.want {
			t.Errorf("%s: Evaluate(%s %s) = %v, want %v", tc.name, tc.method, tc.path, got, tc.want)
		}
	}
}

func TestTable_NoRolesNeverForbiddenWithoutIdentity(t *testing.T) {
	// 403 is reserved for a present identity with insufficient roles; an
	// absent identity must always produce 401, whatever the route policy.
	table := testTable()
	for _, path := range []string{"/api/admin/stats", "/api/products", "/anything"} {
		if got := table.Evaluate(http.MethodGet, path, nil); got == DenyForbidden {
			t.Errorf("path %s: absent identity must not yield DenyForbidden", path)
		}
	}
}

func TestMatchPattern(t *testing.T) {
	cases := []struct {
		pattern, path string
		want          bool
	}{
		{"/auth/**", "/auth/login", true},
		{"/auth/**", "/auth", true},
		{"/auth/**", "/authx", false},
		{"/auth/**", "/api/auth", false},
		{"/metrics", "/metrics", true},
		{"/metrics", "/metrics/extra", false},
		{"/api/products/**", "/api/products/1/tags/2", true},
		{"/**", "/", true},
		{"/**", "/anything/at/all", true},
		{"/**", "/metrics", true},
	}
	for _, tc := range cases {
		if got := matchPattern(tc.pattern, tc.path); got != tc.want {
			t.Errorf("matchPattern(%q, %q) = %v, want %v", tc.pattern, tc.path, got, tc.want)
		}
	}
}

func doEnforced(t *testing.T, table Table, target string, identity *domain.Identity) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity != nil {
		c.Set(identityKey, *identity)
	}

	handler := Enforce(table)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("enforce returned error: %v", err)
	}
	return rec
}

func decodeDeny(t *testing.T, rec *httptest.ResponseRecorder) denyResponse {
	t.Helper()
	var body denyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode deny body: %v", err)
	}
	return body
}

func TestEnforce_UnauthorizedBody(t *testing.T) {
	rec := doEnforced(t, testTable(), "/api/admin/stats", nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	body := decodeDeny(t, rec)
	if body.Status != 401 || body.Error != "Unauthorized" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if body.Path != "/api/admin/stats" {
		t.Fatalf("unexpected path: %q", body.Path)
	}
	if _, err := time.Parse(time.RFC3339, body.Timestamp); err != nil {
		t.Fatalf("timestamp not RFC3339: %q", body.Timestamp)
	}
}

func TestEnforce_ForbiddenBody(t *testing.T) {
	user := &domain.Identity{Username: "alice", Roles: []string{domain.RoleUser}}
	rec := doEnforced(t, testTable(), "/api/admin/stats", user)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	body := decodeDeny(t, rec)
	if body.Status != 403 || body.Error != "Forbidden" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestEnforce_AllowsPublic(t *testing.T) {
	rec := doEnforced(t, testTable(), "/auth/login", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
