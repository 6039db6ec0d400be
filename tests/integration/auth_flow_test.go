package integration

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestRegisterSendsPinnedPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.bot.registerChat("reg_user", 1001)

	w := ts.request(t, http.MethodPost, "/api/v1/auth/register", "",
		registerPayload("reg@test.com", "reg_user", 1001))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	messages := ts.bot.messages()
	if len(messages) != 1 {
		t.Fatalf("expected 1 welcome message, got %d", len(messages))
	}
	if messages[0].chatID != 1001 {
		t.Errorf("expected welcome message to chat 1001, got %d", messages[0].chatID)
	}
	if !strings.Contains(messages[0].text, generatedPassword("reg_user")) {
		t.Error("expected welcome message to contain the generated password")
	}
	if ts.bot.pinned != 1 {
		t.Errorf("expected the welcome message to be pinned, got %d pins", ts.bot.pinned)
	}
}

func TestRegisterSucceedsWhenTelegramUnreachable(t *testing.T) {
	ts := newTestServer(t)
	ts.bot.sendErr = errors.New("bot was blocked by the user")

	// The welcome message fails but the account still exists and the
	// generated password still works.
	w := ts.request(t, http.MethodPost, "/api/v1/auth/register", "",
		registerPayload("silent@test.com", "silent_user", 1002))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = ts.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "silent@test.com",
		"password": generatedPassword("silent_user"),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected login to succeed, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ts := newTestServer(t)

	w := ts.request(t, http.MethodPost, "/api/v1/auth/register", "",
		registerPayload("one@test.com", "shared_name", 1003))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = ts.request(t, http.MethodPost, "/api/v1/auth/register", "",
		registerPayload("two@test.com", "shared_name", 1004))
	assertErrorCode(t, w, http.StatusConflict, "USERNAME_TAKEN")
}

func TestRegisterRejectsInvalidHandle(t *testing.T) {
	ts := newTestServer(t)

	payload := registerPayload("bad@test.com", "a!", 1005)
	w := ts.request(t, http.MethodPost, "/api/v1/auth/register", "", payload)
	assertErrorCode(t, w, http.StatusBadRequest, "INVALID_INPUT")
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.registerAndLogin(t, "wrongpw@test.com", "wrongpw_user", 1006)

	w := ts.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "wrongpw@test.com",
		"password": "not-the-password",
	})
	assertErrorCode(t, w, http.StatusUnauthorized, "INVALID_CREDENTIALS")
}

func TestProfileRequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	w := ts.request(t, http.MethodGet, "/api/v1/profile", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}

	token := ts.registerAndLogin(t, "profile@test.com", "profile_user", 1007)
	w = ts.request(t, http.MethodGet, "/api/v1/profile", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "profile@test.com") {
		t.Error("expected profile response to contain the account email")
	}
}

func TestRefreshTokenRotation(t *testing.T) {
	ts := newTestServer(t)
	ts.registerAndLogin(t, "rotate@test.com", "rotate_user", 1008)

	w := ts.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "rotate@test.com",
		"password": generatedPassword("rotate_user"),
	})
	var first authResponse
	decodeBody(t, w, &first)

	w = ts.request(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{
		"refresh_token": first.RefreshToken,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected refresh to succeed, got %d: %s", w.Code, w.Body.String())
	}
	var second authResponse
	decodeBody(t, w, &second)
	if second.RefreshToken == "" {
		t.Fatal("expected a new refresh token")
	}

	// The old refresh token no longer matches the stored hash.
	w = ts.request(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{
		"refresh_token": first.RefreshToken,
	})
	assertErrorCode(t, w, http.StatusUnauthorized, "UNAUTHORIZED")
}

func TestLogoutInvalidatesRefreshToken(t *testing.T) {
	ts := newTestServer(t)
	ts.registerAndLogin(t, "bye@test.com", "bye_user", 1009)

	w := ts.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "bye@test.com",
		"password": generatedPassword("bye_user"),
	})
	var auth authResponse
	decodeBody(t, w, &auth)

	w = ts.request(t, http.MethodPost, "/api/v1/auth/logout", auth.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected logout to succeed, got %d: %s", w.Code, w.Body.String())
	}

	w = ts.request(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{
		"refresh_token": auth.RefreshToken,
	})
	assertErrorCode(t, w, http.StatusUnauthorized, "UNAUTHORIZED")
}
