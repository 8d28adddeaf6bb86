package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	domainauth "github.com/coursemind/coursemind/internal/domain/auth"
)

type stubAuthService struct {
	registerID  string
	registerErr error
	token       string
	loginErr    error
}

func (s *stubAuthService) Register(context.Context, string, string) (string, error) {
	return s.registerID, s.registerErr
}

func (s *stubAuthService) Login(context.Context, string, string) (string, error) {
	return s.token, s.loginErr
}

func post(t *testing.T, h http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestRegister(t *testing.T) {
	cases := []struct {
		name       string
		svc        *stubAuthService
		body       string
		wantStatus int
	}{
		{"created", &stubAuthService{registerID: "u_1"}, `{"email":"a@b.com","password":"long-enough"}`, http.StatusCreated},
		{"invalid email", &stubAuthService{registerErr: domainauth.ErrInvalidEmail}, `{"email":"x","password":"long-enough"}`, http.StatusBadRequest},
		{"weak password", &stubAuthService{registerErr: domainauth.ErrWeakPassword}, `{"email":"a@b.com","password":"x"}`, http.StatusBadRequest},
		{"duplicate", &stubAuthService{registerErr: domainauth.ErrEmailTaken}, `{"email":"a@b.com","password":"long-enough"}`, http.StatusConflict},
		{"bad json", &stubAuthService{}, `{`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewAuthHandler(tc.svc)
			rec := post(t, h.Register, "/auth/register", tc.body)
			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d: %s", rec.Code, tc.wantStatus, rec.Body)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{token: "jwt-token"})
	rec := post(t, h.Login, "/auth/login", `{"email":"a@b.com","password":"pw-long-enough"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "jwt-token") {
		t.Errorf("body = %s", rec.Body)
	}

	h = NewAuthHandler(&stubAuthService{loginErr: domainauth.ErrInvalidCredentials})
	rec = post(t, h.Login, "/auth/login", `{"email":"a@b.com","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
