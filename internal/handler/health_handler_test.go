package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestLivez(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	RegisterHealthRoutes(app, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/livez", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestReadyz(t *testing.T) {
	t.Parallel()

	up := PingerFunc(func(context.Context) error { return nil })
	down := PingerFunc(func(context.Context) error { return errors.New("connection refused") })

	testCases := []struct {
		name       string
		checks     map[string]Pinger
		wantStatus int
		wantChecks map[string]string
	}{
		{
			name:       "all dependencies up",
			checks:     map[string]Pinger{"postgres": up, "redis": up, "rabbitmq": up},
			wantStatus: fiber.StatusOK,
			wantChecks: map[string]string{"postgres": "ok", "redis": "ok", "rabbitmq": "ok"},
		},
		{
			name:       "broker down",
			checks:     map[string]Pinger{"postgres": up, "redis": up, "rabbitmq": down},
			wantStatus: fiber.StatusServiceUnavailable,
			wantChecks: map[string]string{"postgres": "ok", "redis": "ok", "rabbitmq": "down"},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			app := fiber.New()
			RegisterHealthRoutes(app, tc.checks)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/readyz", nil))
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tc.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.wantStatus)
			}

			var body struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			for name, want := range tc.wantChecks {
				if body.Checks[name] != want {
					t.Fatalf("checks[%s] = %q, want %q", name, body.Checks[name], want)
				}
			}
		})
	}
}
