package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer secret-key", http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong token", "Bearer wrong-key", http.StatusUnauthorized},
		{"malformed header", "Basic secret-key", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			requireAuth("secret-key", next).ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
			if called != (tt.want == http.StatusOK) {
				t.Errorf("next called = %v", called)
			}
		})
	}
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/rates/update"},
		{http.MethodPost, "/api/products"},
		{http.MethodPut, "/api/products/p1"},
		{http.MethodDelete, "/api/products/p1"},
		{http.MethodPost, "/api/catalog/import"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := serve(t, testServices(), rt.method, rt.path, "{}", "")
			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
		})
	}
}

func TestAdminRoutesOpenWithoutKey(t *testing.T) {
	svc := testServices()
	req := httptest.NewRequest(http.MethodPost, "/api/catalog/import", nil)
	w := httptest.NewRecorder()
	NewRouter(svc, "").ServeHTTP(w, req)

	// Reaches the handler, which rejects the empty body.
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestPublicRoutes(t *testing.T) {
	paths := []string{
		"/api/rates",
		"/api/rates/breakdown",
		"/api/purities",
		"/api/products",
		"/api/products/featured",
		"/api/products/category/rings",
		"/api/products/category/rings/bands",
	}

	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			w := serve(t, testServices(), http.MethodGet, p, "", "")
			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want 200: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestExportRouteOptional(t *testing.T) {
	w := serve(t, testServices(), http.MethodGet, "/api/export/prices.xlsx", "", testAPIKey)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 without a price list builder", w.Code)
	}
}

func TestNewServer(t *testing.T) {
	srv := NewServer("9090", testServices(), testAPIKey)
	if srv.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", srv.Addr)
	}
	if srv.Handler == nil {
		t.Fatal("Handler is nil")
	}
}
