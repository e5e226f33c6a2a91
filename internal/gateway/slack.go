package gateway

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/kursadbilgin/partnership-gateway/internal/domain"
	"github.com/kursadbilgin/partnership-gateway/internal/repository"
)

const DefaultSlackBaseURL = "https://slack.com/api"

var (
	_ NotificationGateway = (*SlackGateway)(nil)
	_ StatusGateway       = (*SlackGateway)(nil)
)

type slackMessage struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

type slackResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// SlackGateway posts messages with a bot token.
type SlackGateway struct {
	configs repository.ConfigReader
	client  *resty.Client
	baseURL string
}

func NewSlackGateway(configs repository.ConfigReader, client *resty.Client, baseURL string) (*SlackGateway, error) {
	client, err := prepareClient(client)
	if err != nil {
		return nil, err
	}
	base, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, fmt.Errorf("slack: %w", err)
	}
	return &SlackGateway{configs: configs, client: client, baseURL: base}, nil
}

func (g *SlackGateway) Provider() domain.Provider {
	return domain.ProviderSlack
}

func (g *SlackGateway) Send(ctx context.Context, integrationID string, content domain.RenderedContent) error {
	cfg, err := repository.LoadConfig[domain.SlackConfig](ctx, g.configs, integrationID)
	if err != nil {
		return err
	}

	text := content.Body
	if content.Subject != "" {
		text = fmt.Sprintf("*%s*\n%s", content.Subject, content.Body)
	}

	return g.call(ctx, cfg.Token, "/chat.postMessage", slackMessage{Channel: cfg.Channel, Text: text})
}

func (g *SlackGateway) Status(ctx context.Context, integrationID string) (bool, error) {
	cfg, err := repository.LoadConfig[domain.SlackConfig](ctx, g.configs, integrationID)
	if err != nil {
		return false, err
	}

	return statusFromError(g.call(ctx, cfg.Token, "/auth.test", nil))
}

// Slack answers 200 with ok=false on application errors.
func (g *SlackGateway) call(ctx context.Context, token string, path string, body any) error {
	var result slackResponse
	req := g.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json; charset=utf-8").
		SetResult(&result)
	if body != nil {
		req.SetBody(body)
	}

	response, err := req.Post(g.baseURL + path)
	if err := checkResponse(domain.ProviderSlack, response, err); err != nil {
		return err
	}
	if !result.OK {
		return &ProviderError{
			Provider:   domain.ProviderSlack,
			StatusCode: response.StatusCode(),
			Message:    fmt.Sprintf("slack rejected request: %s", result.Error),
			Transient:  result.Error == "ratelimited",
		}
	}
	return nil
}
