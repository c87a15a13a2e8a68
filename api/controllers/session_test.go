package controllers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shakytails/shakytails-backend/internal/auth"
	pkgAuth "github.com/shakytails/shakytails-backend/pkg/auth"
	"github.com/shakytails/shakytails-backend/pkg/config"
	"github.com/shakytails/shakytails-backend/pkg/enums"
)

func sessionTestJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-test-secret-test-secret",
		Issuer:            "shakytails-test",
		ExpirationMinutes: 60,
	}
}

func mintTestToken(t *testing.T, cfg config.JWTConfig, issuedAt time.Time, jti string) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg, issuedAt, pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.SystemRoleUser,
		JTI:    jti,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthRefreshAcceptsExpiredAccessToken(t *testing.T) {
	cfg := sessionTestJWTConfig()
	token := mintTestToken(t, cfg, time.Now().Add(-3*time.Hour), "session-1")

	svc := &stubAuthService{refreshResp: &auth.RefreshResponse{AccessToken: "new-access", RefreshToken: "new-refresh"}}
	handler := AuthRefresh(svc, cfg, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewReader([]byte(`{"refresh_token":"old-refresh"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get("X-ST-Token"); got != "new-access" {
		t.Fatalf("expected rotated token header, got %q", got)
	}
}

func TestAuthRefreshRequiresBearerToken(t *testing.T) {
	handler := AuthRefresh(&stubAuthService{}, sessionTestJWTConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewReader([]byte(`{"refresh_token":"old-refresh"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRefreshRejectsTamperedToken(t *testing.T) {
	cfg := sessionTestJWTConfig()
	token := mintTestToken(t, cfg, time.Now(), "session-2")

	handler := AuthRefresh(&stubAuthService{}, cfg, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewReader([]byte(`{"refresh_token":"old-refresh"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token[:len(token)-2]+"xx")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthLogoutRevokesPresentedSession(t *testing.T) {
	cfg := sessionTestJWTConfig()
	token := mintTestToken(t, cfg, time.Now(), "session-3")

	svc := &stubAuthService{}
	handler := AuthLogout(svc, cfg, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.loggedOutID != "session-3" {
		t.Fatalf("expected session-3 revoked, got %q", svc.loggedOutID)
	}
}
