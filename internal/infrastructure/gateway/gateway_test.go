package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/uniblog/client/internal/core/domain"
)

// fakeResourceServer mimics the resource server's surface closely enough to
// exercise every classification branch of the gate.
func fakeResourceServer(t *testing.T) *httptest.Server {
	t.Helper()
	e := echo.New()
	e.HideBanner = true

	e.GET("/users/me", func(c echo.Context) error {
		auth := c.Request().Header.Get("Authorization")
		if auth == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
		}
		if auth != "bearer T1" && auth != "Bearer T1" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
		}
		return c.JSON(http.StatusOK, map[string]any{
			"id": 7, "email": "a@b.com", "is_active": true, "is_verified": true,
			"posts": []any{}, "bookmarks": []any{},
			"auth_header": auth,
		})
	})

	e.POST("/auth/token", func(c echo.Context) error {
		if ct := c.Request().Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			return c.JSON(http.StatusUnsupportedMediaType, map[string]string{"detail": "form body required"})
		}
		username := c.FormValue("username")
		password := c.FormValue("password")
		if username != "a@b.com" || password != "x" {
			return c.JSON(http.StatusBadRequest, map[string]string{"detail": "incorrect email or password"})
		}
		return c.JSON(http.StatusOK, map[string]string{"access_token": "T1", "token_type": "bearer"})
	})

	e.PUT("/users/me/username", func(c echo.Context) error {
		var payload struct {
			Username string `json:"username"`
		}
		if err := c.Bind(&payload); err != nil || payload.Username == "" {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"detail": "username must not be empty"})
		}
		return c.JSON(http.StatusOK, map[string]string{})
	})

	e.DELETE("/bookmarks/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	e.GET("/boom", func(c echo.Context) error {
		return c.String(http.StatusInternalServerError, "not json at all")
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := New(Config{BaseURL: baseURL, Timeout: 2 * time.Second}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestDo_SuccessReturnsBody(t *testing.T) {
	srv := fakeResourceServer(t)
	gate := newClient(t, srv.URL)
	sess := domain.Session{Token: "T1", TokenType: "bearer", Present: true}

	raw, err := gate.Do(context.Background(), http.MethodGet, "/users/me", nil, sess)
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["email"] != "a@b.com" {
		t.Fatalf("unexpected body: %v", resp)
	}
}

func TestDo_AuthorizationHeaderUsesStoredType(t *testing.T) {
	srv := fakeResourceServer(t)
	gate := newClient(t, srv.URL)

	cases := []struct {
		name string
		sess domain.Session
		want string
	}{
		{"stored type verbatim", domain.Session{Token: "T1", TokenType: "bearer", Present: true}, "bearer T1"},
		{"default scheme", domain.Session{Token: "T1", Present: true}, "Bearer T1"},
	}
	for _, tc := range cases {
		raw, err := gate.Do(context.Background(), http.MethodGet, "/users/me", nil, tc.sess)
		if err != nil {
			t.Fatalf("%s: Do failed: %v", tc.name, err)
		}
		var resp map[string]any
		if err := json.Unmarshal(raw, &resp); err != nil {
			t.Fatalf("%s: invalid json: %v", tc.name, err)
		}
		if resp["auth_header"] != tc.want {
			t.Fatalf("%s: Authorization = %v, want %q", tc.name, resp["auth_header"], tc.want)
		}
	}
}

func TestDo_AbsentSessionSendsNoHeader(t *testing.T) {
	srv := fakeResourceServer(t)
	gate := newClient(t, srv.URL)

	// the server answers 401 to anonymous requests, proving no header went out
	_, err := gate.Do(context.Background(), http.MethodGet, "/users/me", nil, domain.Session{})
	if !domain.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized for anonymous request, got %v", err)
	}
}

func TestDo_FormEncodedLogin(t *testing.T) {
	srv := fakeResourceServer(t)
	gate := newClient(t, srv.URL)

	form := url.Values{}
	form.Set("username", "a@b.com")
	form.Set("password", "x")

	raw, err := gate.Do(context.Background(), http.MethodPost, "/auth/token", form, domain.Session{})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	var tok struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(raw, &tok); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if tok.AccessToken != "T1" || tok.TokenType != "bearer" {
		t.Fatalf("unexpected token response: %+v", tok)
	}
}

func TestDo_UnauthorizedClassification(t *testing.T) {
	srv := fakeResourceServer(t)
	gate := newClient(t, srv.URL)
	stale := domain.Session{Token: "expired", TokenType: "bearer", Present: true}

	_, err := gate.Do(context.Background(), http.MethodGet, "/users/me", nil, stale)
	if !domain.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized for a stale token, got %v", err)
	}
}

func TestDo_DetailSurfacedVerbatim(t *testing.T) {
	srv := fakeResourceServer(t)
	gate := newClient(t, srv.URL)
	sess := domain.Session{Token: "T1", TokenType: "bearer", Present: true}

	_, err := gate.Do(context.Background(), http.MethodPut, "/users/me/username", map[string]string{"username": ""}, sess)
	if !domain.IsRequestFailed(err) {
		t.Fatalf("expected request failure, got %v", err)
	}
	var f *domain.Failure
	if !errors.As(err, &f) {
		t.Fatalf("expected *domain.Failure")
	}
	if f.StatusCode != http.StatusUnprocessableEntity || f.Detail != "username must not be empty" {
		t.Fatalf("unexpected failure: %+v", f)
	}
}

func TestDo_GenericFallbackWithoutDetail(t *testing.T) {
	srv := fakeResourceServer(t)
	gate := newClient(t, srv.URL)

	_, err := gate.Do(context.Background(), http.MethodGet, "/boom", nil, domain.Session{})
	if !domain.IsRequestFailed(err) {
		t.Fatalf("expected request failure, got %v", err)
	}
	var f *domain.Failure
	if !errors.As(err, &f) {
		t.Fatalf("expected *domain.Failure")
	}
	if f.Detail != "request failed with status 500" {
		t.Fatalf("unexpected fallback detail: %q", f.Detail)
	}
}

func TestDo_NoContentSuccess(t *testing.T) {
	srv := fakeResourceServer(t)
	gate := newClient(t, srv.URL)
	sess := domain.Session{Token: "T1", TokenType: "bearer", Present: true}

	raw, err := gate.Do(context.Background(), http.MethodDelete, "/bookmarks/40", nil, sess)
	if err != nil {
		t.Fatalf("204 must classify as success: %v", err)
	}
	if len(raw) != 0 {
		t.Fatalf("expected empty body, got %q", raw)
	}
}

func TestDo_UnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	gate := newClient(t, url)
	_, err := gate.Do(context.Background(), http.MethodGet, "/users/me", nil, domain.Session{})
	if !domain.IsUnreachable(err) {
		t.Fatalf("expected unreachable, got %v", err)
	}
}

func TestNew_RejectsInvalidBaseURL(t *testing.T) {
	if _, err := New(Config{BaseURL: "localhost:8000"}, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for base url without scheme")
	}
	if _, err := New(Config{BaseURL: "://"}, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for malformed base url")
	}
}
