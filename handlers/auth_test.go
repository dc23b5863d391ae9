package handlers

import (
	"net/http"
	"testing"

	"letterstosanta.app/cloud/internal/session"
	"letterstosanta.app/cloud/internal/testutil"
	"letterstosanta.app/cloud/models"
)

func TestLoginSuccess(t *testing.T) {
	ts := newTestServer(t)
	customer, _, _ := testutil.CreateTestCustomer(ts.Storage, "holly@example.com", models.TierMagic)

	w := ts.do(t, http.MethodPost, "/api/v1/auth/login", LoginRequest{
		Email:    "holly@example.com",
		Passcode: testutil.TestPasscode,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var sessionCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			sessionCookie = c
		}
	}
	if sessionCookie == nil || sessionCookie.Value == "" {
		t.Fatal("expected session cookie on successful login")
	}
	if !sessionCookie.HttpOnly {
		t.Error("session cookie must be httpOnly")
	}

	claims, err := ts.Sessions.Verify(sessionCookie.Value)
	if err != nil {
		t.Fatalf("cookie does not verify: %v", err)
	}
	if claims.CustomerID != customer.ID {
		t.Errorf("cookie identifies %s, want %s", claims.CustomerID, customer.ID)
	}

	body := decodeBody(t, w)
	got := body["customer"].(map[string]any)
	if got["email"] != "holly@example.com" {
		t.Errorf("unexpected customer in response: %v", got)
	}
	if _, present := got["passcodeHash"]; present {
		t.Error("login response leaks the passcode hash")
	}
}

func TestLoginNormalizesEmail(t *testing.T) {
	ts := newTestServer(t)
	testutil.CreateTestCustomer(ts.Storage, "holly@example.com", models.TierMagic)

	w := ts.do(t, http.MethodPost, "/api/v1/auth/login", LoginRequest{
		Email:    " Holly@Example.COM ",
		Passcode: testutil.TestPasscode,
	})
	if w.Code != http.StatusOK {
		t.Errorf("expected case-insensitive email match, got %d", w.Code)
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	ts := newTestServer(t)
	testutil.CreateTestCustomer(ts.Storage, "holly@example.com", models.TierMagic)

	wrongPasscode := ts.do(t, http.MethodPost, "/api/v1/auth/login", LoginRequest{
		Email:    "holly@example.com",
		Passcode: "nope99",
	})
	unknownEmail := ts.do(t, http.MethodPost, "/api/v1/auth/login", LoginRequest{
		Email:    "stranger@example.com",
		Passcode: testutil.TestPasscode,
	})

	if wrongPasscode.Code != http.StatusUnauthorized || unknownEmail.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrongPasscode.Code, unknownEmail.Code)
	}
	if wrongPasscode.Body.String() != unknownEmail.Body.String() {
		t.Error("wrong passcode and unknown email must be indistinguishable")
	}
	if len(wrongPasscode.Result().Cookies()) != 0 {
		t.Error("failed login must not set a cookie")
	}
}

func TestLoginRequiresBothFields(t *testing.T) {
	ts := newTestServer(t)

	for _, req := range []LoginRequest{
		{Email: "holly@example.com"},
		{Passcode: "1234"},
		{},
	} {
		w := ts.do(t, http.MethodPost, "/api/v1/auth/login", req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%+v: expected 400, got %d", req, w.Code)
		}
	}
}

func TestLoginRateLimited(t *testing.T) {
	ts := newTestServer(t)

	var last int
	for i := 0; i < 11; i++ {
		w := ts.do(t, http.MethodPost, "/api/v1/auth/login", LoginRequest{
			Email:    "holly@example.com",
			Passcode: "nope99",
		})
		last = w.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("expected 429 after exhausting the window, got %d", last)
	}
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t)

	// Valid without a session; logout is advisory.
	w := ts.do(t, http.MethodPost, "/api/v1/auth/logout", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != session.CookieName {
		t.Fatal("expected the session cookie to be cleared")
	}
	if cookies[0].MaxAge >= 0 {
		t.Error("expected an expired cookie")
	}
}
