package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/kursadbilgin/partnership-gateway/internal/domain"
	"github.com/kursadbilgin/partnership-gateway/internal/repository"
)

const DefaultOpenPlannerBaseURL = "https://api.openplanner.fr"

var (
	_ AgendaGateway = (*OpenPlannerGateway)(nil)
	_ StatusGateway = (*OpenPlannerGateway)(nil)
)

type openPlannerTrack struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type openPlannerSpeaker struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	Company  string `json:"company"`
	PhotoURL string `json:"photoUrl"`
}

type openPlannerSession struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Abstract   string     `json:"abstract"`
	TrackID    string     `json:"trackId"`
	Language   string     `json:"language"`
	DateStart  *time.Time `json:"dateStart"`
	DateEnd    *time.Time `json:"dateEnd"`
	SpeakerIDs []string   `json:"speakerIds"`
}

type openPlannerEvent struct {
	Sessions []openPlannerSession `json:"sessions"`
	Speakers []openPlannerSpeaker `json:"speakers"`
	Tracks   []openPlannerTrack   `json:"tracks"`
}

// OpenPlannerGateway imports the published schedule of an OpenPlanner event.
type OpenPlannerGateway struct {
	configs repository.ConfigReader
	agenda  repository.AgendaRepository
	client  *resty.Client
	baseURL string
}

func NewOpenPlannerGateway(configs repository.ConfigReader, agenda repository.AgendaRepository, client *resty.Client, baseURL string) (*OpenPlannerGateway, error) {
	if agenda == nil {
		return nil, fmt.Errorf("openplanner: agenda repository is required")
	}
	client, err := prepareClient(client)
	if err != nil {
		return nil, err
	}
	base, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, fmt.Errorf("openplanner: %w", err)
	}
	return &OpenPlannerGateway{configs: configs, agenda: agenda, client: client, baseURL: base}, nil
}

func (g *OpenPlannerGateway) Provider() domain.Provider {
	return domain.ProviderOpenPlanner
}

func (g *OpenPlannerGateway) FetchAndStore(ctx context.Context, integrationID string, eventID string) (domain.AgendaSyncResult, error) {
	cfg, err := repository.LoadConfig[domain.OpenPlannerConfig](ctx, g.configs, integrationID)
	if err != nil {
		return domain.AgendaSyncResult{}, err
	}

	var remote openPlannerEvent
	response, err := g.request(ctx, cfg).SetResult(&remote).Get(g.eventURL(cfg))
	if err := checkResponse(domain.ProviderOpenPlanner, response, err); err != nil {
		return domain.AgendaSyncResult{}, err
	}

	speakers, sessions := mapOpenPlannerAgenda(eventID, remote)
	if err := g.agenda.SaveAgenda(ctx, eventID, speakers, sessions); err != nil {
		return domain.AgendaSyncResult{}, fmt.Errorf("failed to store agenda: %w", err)
	}

	return domain.AgendaSyncResult{Sessions: len(sessions), Speakers: len(speakers)}, nil
}

func (g *OpenPlannerGateway) Status(ctx context.Context, integrationID string) (bool, error) {
	cfg, err := repository.LoadConfig[domain.OpenPlannerConfig](ctx, g.configs, integrationID)
	if err != nil {
		return false, err
	}

	response, err := g.request(ctx, cfg).Get(g.eventURL(cfg))
	return statusFromError(checkResponse(domain.ProviderOpenPlanner, response, err))
}

func (g *OpenPlannerGateway) request(ctx context.Context, cfg domain.OpenPlannerConfig) *resty.Request {
	return g.client.R().
		SetContext(ctx).
		SetQueryParam("apiKey", cfg.APIKey)
}

func (g *OpenPlannerGateway) eventURL(cfg domain.OpenPlannerConfig) string {
	return g.baseURL + "/v1/" + url.PathEscape(cfg.EventID) + "/event"
}

// mapOpenPlannerAgenda skips entries without an id: they cannot be upserted.
// A repeated id keeps its first position and its last values, since one upsert
// statement may not touch the same row twice.
func mapOpenPlannerAgenda(eventID string, remote openPlannerEvent) ([]domain.Speaker, []domain.Session) {
	tracks := make(map[string]string, len(remote.Tracks))
	for _, track := range remote.Tracks {
		tracks[track.ID] = track.Name
	}

	speakers := make([]domain.Speaker, 0, len(remote.Speakers))
	speakerAt := make(map[string]int, len(remote.Speakers))
	for _, s := range remote.Speakers {
		if strings.TrimSpace(s.ID) == "" {
			continue
		}
		speaker := domain.Speaker{
			EventID:    eventID,
			ExternalID: s.ID,
			Name:       s.Name,
			Bio:        s.Bio,
			Company:    s.Company,
			PhotoURL:   s.PhotoURL,
		}
		if i, ok := speakerAt[s.ID]; ok {
			speakers[i] = speaker
			continue
		}
		speakerAt[s.ID] = len(speakers)
		speakers = append(speakers, speaker)
	}

	sessions := make([]domain.Session, 0, len(remote.Sessions))
	sessionAt := make(map[string]int, len(remote.Sessions))
	for _, s := range remote.Sessions {
		if strings.TrimSpace(s.ID) == "" {
			continue
		}
		session := domain.Session{
			EventID:     eventID,
			ExternalID:  s.ID,
			Title:       s.Title,
			Abstract:    s.Abstract,
			Track:       tracks[s.TrackID],
			Language:    s.Language,
			StartTime:   s.DateStart,
			EndTime:     s.DateEnd,
			SpeakerRefs: s.SpeakerIDs,
		}
		if i, ok := sessionAt[s.ID]; ok {
			sessions[i] = session
			continue
		}
		sessionAt[s.ID] = len(sessions)
		sessions = append(sessions, session)
	}

	return speakers, sessions
}
