package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
		wantLevel   zapcore.Level
	}{
		{
			name:        "client error keeps message",
			err:         fiber.NewError(fiber.StatusBadRequest, "validation error: event id is required"),
			wantStatus:  fiber.StatusBadRequest,
			wantMessage: "validation error: event id is required",
			wantLevel:   zapcore.WarnLevel,
		},
		{
			name:        "mapped server error keeps message",
			err:         fiber.NewError(fiber.StatusBadGateway, "provider error: qonto: status=503"),
			wantStatus:  fiber.StatusBadGateway,
			wantMessage: "provider error: qonto: status=503",
			wantLevel:   zapcore.ErrorLevel,
		},
		{
			name:        "unmapped error is hidden",
			err:         errors.New("pq: connection refused"),
			wantStatus:  fiber.StatusInternalServerError,
			wantMessage: internalErrorMessage,
			wantLevel:   zapcore.ErrorLevel,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zapcore.DebugLevel)
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.New(core))})
			app.Get("/fail", func(c *fiber.Ctx) error {
				return tc.err
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fail", nil))
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tc.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.wantStatus)
			}

			var body map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["error"] != tc.wantMessage {
				t.Fatalf("error = %q, want %q", body["error"], tc.wantMessage)
			}

			entries := logs.All()
			if len(entries) != 1 {
				t.Fatalf("log entries = %d, want 1", len(entries))
			}
			if entries[0].Level != tc.wantLevel {
				t.Fatalf("log level = %s, want %s", entries[0].Level, tc.wantLevel)
			}
		})
	}
}
