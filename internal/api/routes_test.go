package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/coursemind/coursemind/internal/domain/tool"
	pkgauth "github.com/coursemind/coursemind/pkg/auth"
)

type routeStubs struct{}

func (routeStubs) Register(context.Context, string, string) (string, error) { return "u_1", nil }
func (routeStubs) Login(context.Context, string, string) (string, error)   { return "token", nil }
func (routeStubs) Answer(context.Context, string, string) (string, []tool.Source, string, error) {
	return "answer", nil, "s1", nil
}
func (routeStubs) ListCourseTitles(context.Context) ([]string, error) { return []string{"A"}, nil }
func (routeStubs) CourseCount(context.Context) (int, error)           { return 1, nil }
func (routeStubs) Clear(context.Context, string) error                { return nil }

func newTestRouter() http.Handler {
	s := routeStubs{}
	return NewRouter(Deps{Auth: s, Assistant: s, Catalog: s, Sessions: s})
}

func TestRouter_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestRouter_PublicAuthRoutes(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"a@b.com","password":"pw-long-enough"}`))
	newTestRouter().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("login status = %d: %s", rec.Code, rec.Body)
	}
}

func TestRouter_ProtectedRequiresJWT(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/courses", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without token", rec.Code)
	}
}

func TestRouter_ProtectedWithJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := pkgauth.GenerateJWT("u_1")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	for _, tc := range []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/api/v1/courses", "", http.StatusOK},
		{http.MethodPost, "/api/v1/query", `{"query":"q"}`, http.StatusOK},
		{http.MethodDelete, "/api/v1/sessions/s1", "", http.StatusNoContent},
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
		req.Header.Set("Authorization", "Bearer "+token)
		newTestRouter().ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Errorf("%s %s: status = %d, want %d", tc.method, tc.path, rec.Code, tc.want)
		}
	}
}
