package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/medminder/internal/db"
	"github.com/terraincognita07/medminder/internal/services"
)

type profilePayload struct {
	OK      bool   `json:"ok"`
	Status  string `json:"status"`
	Profile struct {
		Email            string `json:"email"`
		DisplayName      string `json:"display_name"`
		TelegramChatID   string `json:"telegram_chat_id"`
		RemindersEnabled bool   `json:"reminders_enabled"`
	} `json:"profile"`
}

func TestProfileRoutesRequireAuth(t *testing.T) {
	app, _ := newTestApp(t)

	for _, method := range []string{http.MethodGet, http.MethodPut} {
		response := doJSONRequest(t, app, method, "/api/user/profile", "", nil)
		if response.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s /api/user/profile: expected status 401, got %d", method, response.StatusCode)
		}
	}
	if response := doJSONRequest(t, app, http.MethodDelete, "/api/user", "", fiber.Map{"password": "StrongPass1"}); response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("DELETE /api/user: expected status 401, got %d", response.StatusCode)
	}
}

func TestProfileDefaultsAfterRegister(t *testing.T) {
	app, _ := newTestApp(t)
	session := registerTestUser(t, app, "profile@example.com")

	response := doJSONRequest(t, app, http.MethodGet, "/api/user/profile", session.Token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}
	payload := profilePayload{}
	decodeJSONBody(t, response.Body, &payload)
	if payload.Profile.Email != "profile@example.com" || payload.Profile.DisplayName != "" || payload.Profile.TelegramChatID != "" || !payload.Profile.RemindersEnabled {
		t.Fatalf("unexpected default profile %#v", payload.Profile)
	}
}

func TestUpdateProfilePersistsSettings(t *testing.T) {
	app, database := newTestApp(t)
	session := registerTestUser(t, app, "settings@example.com")

	response := doJSONRequest(t, app, http.MethodPut, "/api/user/profile", session.Token, fiber.Map{
		"display_name":     "  Maya  ",
		"telegram_chat_id": "123456789",
	})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}
	payload := profilePayload{}
	decodeJSONBody(t, response.Body, &payload)
	if !payload.OK || payload.Status != "profile_updated" {
		t.Fatalf("unexpected update response %#v", payload)
	}
	if payload.Profile.DisplayName != "Maya" || payload.Profile.TelegramChatID != "123456789" || !payload.Profile.RemindersEnabled {
		t.Fatalf("unexpected updated profile %#v", payload.Profile)
	}

	response = doJSONRequest(t, app, http.MethodPut, "/api/user/profile", session.Token, fiber.Map{
		"display_name":      "",
		"reminders_enabled": false,
	})
	payload = profilePayload{}
	decodeJSONBody(t, response.Body, &payload)
	if payload.Status != "profile_name_cleared" || payload.Profile.TelegramChatID != "123456789" || payload.Profile.RemindersEnabled {
		t.Fatalf("unexpected partial update response %#v", payload)
	}

	stored, err := db.NewUserRepository(database).FindByID(session.User.ID)
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if stored.DisplayName != "" || stored.TelegramChatID != "123456789" || stored.RemindersEnabled {
		t.Fatalf("profile not persisted: %#v", stored)
	}

	fetched := doJSONRequest(t, app, http.MethodGet, "/api/user/profile", session.Token, nil)
	payload = profilePayload{}
	decodeJSONBody(t, fetched.Body, &payload)
	if payload.Profile.TelegramChatID != "123456789" || payload.Profile.RemindersEnabled {
		t.Fatalf("GET after update returned %#v", payload.Profile)
	}
}

func TestUpdateProfileValidation(t *testing.T) {
	app, _ := newTestApp(t)
	session := registerTestUser(t, app, "invalid-profile@example.com")

	cases := []struct {
		name    string
		payload fiber.Map
		message string
	}{
		{"long display name", fiber.Map{"display_name": strings.Repeat("a", 65)}, "display name too long"},
		{"bad chat id", fiber.Map{"telegram_chat_id": "not a chat"}, "invalid telegram chat id"},
	}
	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			response := doJSONRequest(t, app, http.MethodPut, "/api/user/profile", session.Token, testCase.payload)
			if response.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", response.StatusCode)
			}
			if got := readAPIError(t, response.Body); got != testCase.message {
				t.Fatalf("expected error %q, got %q", testCase.message, got)
			}
		})
	}
}

func TestDeleteAccountRequiresPassword(t *testing.T) {
	app, _ := newTestApp(t)
	session := registerTestUser(t, app, "keep@example.com")

	missing := doJSONRequest(t, app, http.MethodDelete, "/api/user", session.Token, fiber.Map{"password": "  "})
	if missing.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400 for missing password, got %d", missing.StatusCode)
	}
	wrong := doJSONRequest(t, app, http.MethodDelete, "/api/user", session.Token, fiber.Map{"password": "WrongPass1"})
	if wrong.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for wrong password, got %d", wrong.StatusCode)
	}

	still := doJSONRequest(t, app, http.MethodGet, "/api/user/profile", session.Token, nil)
	if still.StatusCode != http.StatusOK {
		t.Fatalf("account should survive failed deletion, got %d", still.StatusCode)
	}
}

func TestDeleteAccountRemovesUserAndMedications(t *testing.T) {
	app, database := newTestApp(t)
	session := registerTestUser(t, app, "leaving@example.com")

	added := doJSONRequest(t, app, http.MethodPost, "/api/medications", session.Token, fiber.Map{
		"name":   "Aspirin",
		"dosage": "81mg",
	})
	if added.StatusCode != http.StatusCreated {
		t.Fatalf("expected add status 201, got %d", added.StatusCode)
	}

	response := doJSONRequest(t, app, http.MethodDelete, "/api/user", session.Token, fiber.Map{"password": "StrongPass1"})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}
	if cookie := responseCookie(response.Cookies(), authCookieName); cookie == nil || cookie.Value != "" {
		t.Fatalf("expected cleared auth cookie, got %#v", cookie)
	}

	key := services.UserStorageNamespace(session.User.ID) + services.MedicationsStorageKey
	if _, ok, err := db.NewKeyValueRepository(database).Get(key); ok || err != nil {
		t.Fatalf("expected medications to be purged, ok=%v err=%v", ok, err)
	}
	if _, err := db.NewUserRepository(database).FindByID(session.User.ID); err == nil {
		t.Fatal("expected user row to be deleted")
	}

	after := doJSONRequest(t, app, http.MethodGet, "/api/user/profile", session.Token, nil)
	if after.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected deleted account token to be rejected, got %d", after.StatusCode)
	}
}
