package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spiceroute/storefront/internal/models"
)

func TestCreateReservation(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/reservations", map[string]any{
		"name":       "Asha Nair",
		"email":      "asha@example.com",
		"phone":      "555-0188",
		"party_size": 4,
		"date":       "2026-09-12",
		"time":       "19:00",
		"notes":      "window table",
	})
	require.NoError(t, env.Res.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var res models.Reservation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotEmpty(t, res.Code)
	assert.Equal(t, "pending", res.Status)
	assert.Equal(t, 4, res.PartySize)
}

func TestCreateReservationValidation(t *testing.T) {
	env := newTestEnv(t)

	base := func() map[string]any {
		return map[string]any{
			"name":       "Asha Nair",
			"email":      "asha@example.com",
			"phone":      "555-0188",
			"party_size": 2,
			"date":       "2026-09-12",
			"time":       "19:00",
		}
	}
	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"missing contact", func(b map[string]any) { b["phone"] = "" }},
		{"zero party", func(b map[string]any) { b["party_size"] = 0 }},
		{"missing time", func(b map[string]any) { b["time"] = "" }},
		{"bad date format", func(b map[string]any) { b["date"] = "12/09/2026" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := base()
			tt.mutate(body)
			_, c := env.doJSONRequest(http.MethodPost, "/api/v1/reservations", body)
			requireHTTPError(t, env.Res.Create(c), http.StatusBadRequest)
		})
	}
}

func TestReservationAdminStatus(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/reservations", map[string]any{
		"name":       "Asha Nair",
		"email":      "asha@example.com",
		"phone":      "555-0188",
		"party_size": 2,
		"date":       "2026-09-12",
		"time":       "19:00",
	})
	require.NoError(t, env.Res.Create(c))

	rec, c := env.doJSONRequest(http.MethodPatch, "/", map[string]any{"status": "confirmed"})
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.Res.AdminUpdateStatus(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.Reservation
	require.NoError(t, env.DB.First(&stored, 1).Error)
	assert.Equal(t, "confirmed", stored.Status)

	_, c = env.doJSONRequest(http.MethodPatch, "/", map[string]any{"status": "levitating"})
	c.SetParamNames("id")
	c.SetParamValues("1")
	requireHTTPError(t, env.Res.AdminUpdateStatus(c), http.StatusBadRequest)
}
