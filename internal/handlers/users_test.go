package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShowUser(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "show@example.com")

	t.Run("Returns the user with empty product ids", func(t *testing.T) {
		w := env.request("GET", fmt.Sprintf("/users/%d", user.ID), "", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "show@example.com", body["email"])
		assert.Equal(t, []interface{}{}, body["product_ids"])
	})

	t.Run("Credentials are not exposed", func(t *testing.T) {
		w := env.request("GET", fmt.Sprintf("/users/%d", user.ID), "", nil)
		assert.NotContains(t, w.Body.String(), "auth_token")
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("Unknown id", func(t *testing.T) {
		w := env.request("GET", "/users/9999", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCreateUser(t *testing.T) {
	env := setupTestEnv(t)

	t.Run("Valid signup", func(t *testing.T) {
		w := env.request("POST", "/users", "", map[string]interface{}{
			"user": map[string]string{
				"email":                 "new@example.com",
				"password":              "12345678",
				"password_confirmation": "12345678",
			},
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "new@example.com", body["email"])
	})

	t.Run("Missing email", func(t *testing.T) {
		w := env.request("POST", "/users", "", map[string]interface{}{
			"user": map[string]string{
				"password":              "12345678",
				"password_confirmation": "12345678",
			},
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, errorMessages(t, w, "email"), "can't be blank")
	})

	t.Run("Malformed email", func(t *testing.T) {
		w := env.request("POST", "/users", "", map[string]interface{}{
			"user": map[string]string{
				"email":                 "bademail.com",
				"password":              "12345678",
				"password_confirmation": "12345678",
			},
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, errorMessages(t, w, "email"), "is invalid")
	})
}

func TestUpdateUser(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "before@example.com")

	t.Run("Requires authentication", func(t *testing.T) {
		w := env.request("PATCH", fmt.Sprintf("/users/%d", user.ID), "", map[string]interface{}{
			"user": map[string]string{"email": "newmail@example.com"},
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Rejects other users", func(t *testing.T) {
		other := env.createUser(t, "other@example.com")
		w := env.request("PATCH", fmt.Sprintf("/users/%d", user.ID), other.AuthToken, map[string]interface{}{
			"user": map[string]string{"email": "hijack@example.com"},
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Valid update", func(t *testing.T) {
		w := env.request("PATCH", fmt.Sprintf("/users/%d", user.ID), user.AuthToken, map[string]interface{}{
			"user": map[string]string{"email": "newmail@example.com"},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "newmail@example.com", body["email"])
	})

	t.Run("Malformed email", func(t *testing.T) {
		w := env.request("PATCH", fmt.Sprintf("/users/%d", user.ID), user.AuthToken, map[string]interface{}{
			"user": map[string]string{"email": "bademail.com"},
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, errorMessages(t, w, "email"), "is invalid")
	})
}

func TestDeleteUser(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "gone@example.com")

	t.Run("Requires authentication", func(t *testing.T) {
		w := env.request("DELETE", fmt.Sprintf("/users/%d", user.ID), "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Deletes and then 404s", func(t *testing.T) {
		w := env.request("DELETE", fmt.Sprintf("/users/%d", user.ID), user.AuthToken, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = env.request("GET", fmt.Sprintf("/users/%d", user.ID), "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
