package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kursadbilgin/partnership-gateway/internal/domain"
)

var mailjetTestConfig = domain.MailjetConfig{APIKey: "key", Secret: "secret", FromEmail: "crew@devfest.test", FromName: "DevFest"}

func TestMailjetSend(t *testing.T) {
	t.Parallel()

	var gotBody mailjetSendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3.1/send" {
			t.Errorf("path = %s, want /v3.1/send", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key" || pass != "secret" {
			t.Errorf("basic auth = %q/%q, want key/secret", user, pass)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	g, err := NewMailjetGateway(fakeConfigs{"int-1": mailjetTestConfig}, testClient(), server.URL)
	if err != nil {
		t.Fatalf("NewMailjetGateway() error = %v", err)
	}

	err = g.Send(context.Background(), "int-1", domain.RenderedContent{
		Subject:    "Welcome",
		Body:       "<p>Hi</p>",
		Recipients: []string{"a@acme.test", "b@acme.test"},
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if len(gotBody.Messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(gotBody.Messages))
	}
	msg := gotBody.Messages[0]
	if msg.From.Email != "crew@devfest.test" || len(msg.To) != 2 || msg.HTMLPart != "<p>Hi</p>" {
		t.Fatalf("message = %+v", msg)
	}
}

func TestMailjetSendRequiresRecipients(t *testing.T) {
	t.Parallel()

	g, err := NewMailjetGateway(fakeConfigs{"int-1": mailjetTestConfig}, testClient(), DefaultMailjetBaseURL)
	if err != nil {
		t.Fatalf("NewMailjetGateway() error = %v", err)
	}

	err = g.Send(context.Background(), "int-1", domain.RenderedContent{Subject: "s", Body: "b"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Send() error = %v, want ErrValidation", err)
	}
}

func TestMailjetStatus(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		statusCode int
		want       bool
		wantErr    bool
	}{
		{name: "valid key", statusCode: http.StatusOK, want: true},
		{name: "revoked key", statusCode: http.StatusUnauthorized, want: false},
		{name: "provider outage", statusCode: http.StatusServiceUnavailable, wantErr: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet || r.URL.Path != "/v3/REST/apikey" {
					t.Errorf("request = %s %s, want GET /v3/REST/apikey", r.Method, r.URL.Path)
				}
				w.WriteHeader(tc.statusCode)
			}))
			defer server.Close()

			g, err := NewMailjetGateway(fakeConfigs{"int-1": mailjetTestConfig}, testClient(), server.URL)
			if err != nil {
				t.Fatalf("NewMailjetGateway() error = %v", err)
			}

			got, err := g.Status(context.Background(), "int-1")
			if (err != nil) != tc.wantErr {
				t.Fatalf("Status() error = %v, wantErr %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("Status() = %v, want %v", got, tc.want)
			}
		})
	}
}
