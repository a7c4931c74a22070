package footballdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/matchday-predictor/internal/domain/match"
	"github.com/riskibarqy/matchday-predictor/internal/domain/standings"
	"github.com/riskibarqy/matchday-predictor/internal/domain/team"
	"github.com/riskibarqy/matchday-predictor/internal/platform/logging"
)

const (
	defaultBaseURL     = "https://api.football-data.org"
	defaultCompetition = "PL"

	// The v4 API expects calendar dates, not timestamps, in match filters.
	queryDateLayout = "2006-01-02"
)

// ClientConfig carries the settings for the football-data.org client.
type ClientConfig struct {
	HTTPClient  *http.Client
	BaseURL     string
	APIKey      string
	Competition string
	Timeout     time.Duration
	Logger      *logging.Logger
}

// Client reads league standings and fixtures from the football-data.org
// v4 API. Every call is a single attempt; a failed fetch fails the whole
// run. The API key travels in the X-Auth-Token header, never in the URL,
// so request URLs are safe to log as-is.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	competition string
	logger      *logging.Logger
}

// NewClient builds a client with sane defaults for anything unset.
func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	competition := strings.ToUpper(strings.TrimSpace(cfg.Competition))
	if competition == "" {
		competition = defaultCompetition
	}

	return &Client{
		httpClient:  httpClient,
		baseURL:     baseURL,
		apiKey:      strings.TrimSpace(cfg.APIKey),
		competition: competition,
		logger:      logger,
	}
}

// FetchStandings returns the current league table, ordered by position as
// the provider reports it.
func (c *Client) FetchStandings(ctx context.Context) ([]standings.Entry, error) {
	path := fmt.Sprintf("/v4/competitions/%s/standings", c.competition)

	var envelope standingsEnvelope
	if err := c.doJSON(ctx, path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch standings competition=%s: %w", c.competition, err)
	}

	table, err := selectTotalTable(envelope.Standings)
	if err != nil {
		return nil, fmt.Errorf("fetch standings competition=%s: %w", c.competition, err)
	}

	entries := make([]standings.Entry, 0, len(table.Table))
	for _, row := range table.Table {
		entries = append(entries, standings.Entry{
			Position:       row.Position,
			Team:           mapTeamRef(row.Team),
			PlayedGames:    row.PlayedGames,
			Won:            row.Won,
			Draw:           row.Draw,
			Lost:           row.Lost,
			Points:         row.Points,
			GoalsFor:       row.GoalsFor,
			GoalsAgainst:   row.GoalsAgainst,
			GoalDifference: row.GoalDifference,
			Form:           strings.TrimSpace(row.Form),
		})
	}
	return entries, nil
}

// FetchScheduledMatches returns fixtures between from and to that have not
// kicked off yet, ordered by kickoff time.
func (c *Client) FetchScheduledMatches(ctx context.Context, from, to time.Time) ([]match.Match, error) {
	path := fmt.Sprintf("/v4/competitions/%s/matches", c.competition)
	query := map[string]string{
		"status":   match.StatusScheduled,
		"dateFrom": from.UTC().Format(queryDateLayout),
		"dateTo":   to.UTC().Format(queryDateLayout),
	}

	var envelope matchesEnvelope
	if err := c.doJSON(ctx, path, query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch matches competition=%s: %w", c.competition, err)
	}

	matches := make([]match.Match, 0, len(envelope.Matches))
	for _, item := range envelope.Matches {
		if item.ID <= 0 {
			continue
		}
		status := match.NormalizeStatus(item.Status)
		if !match.IsUpcomingStatus(status) {
			continue
		}
		kickoff := parseMatchDate(item.UTCDate)
		if kickoff == nil {
			c.logger.WarnContext(ctx, "skip fixture with unparseable kickoff", "match_id", item.ID, "utc_date", item.UTCDate)
			continue
		}
		matches = append(matches, match.Match{
			ID:       item.ID,
			Matchday: item.Matchday,
			UTCDate:  *kickoff,
			Status:   status,
			HomeTeam: mapTeamRef(item.HomeTeam),
			AwayTeam: mapTeamRef(item.AwayTeam),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if !matches[i].UTCDate.Equal(matches[j].UTCDate) {
			return matches[i].UTCDate.Before(matches[j].UTCDate)
		}
		if matches[i].Matchday != matches[j].Matchday {
			return matches[i].Matchday < matches[j].Matchday
		}
		return matches[i].ID < matches[j].ID
	})
	return matches, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, err := c.executeRequest(ctx, fullURL)
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("X-Auth-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		callErr := fmt.Errorf("send request: %s", sanitizeSensitiveText(err.Error(), c.apiKey))
		c.logger.WarnContext(ctx, "football-data request failed", "url", fullURL, "error", callErr)
		return nil, callErr
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
	if err != nil {
		return nil, fmt.Errorf("read response body: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		callErr := fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
		c.logger.WarnContext(ctx, "football-data request failed", "url", fullURL, "error", callErr)
		return nil, callErr
	}

	return raw, nil
}

// selectTotalTable picks the overall table. The provider ships TOTAL, HOME
// and AWAY variants for the same standings; only TOTAL feeds the prompt.
func selectTotalTable(tables []standingsTable) (standingsTable, error) {
	if len(tables) == 0 {
		return standingsTable{}, fmt.Errorf("provider returned no standings tables")
	}
	for _, table := range tables {
		if strings.EqualFold(strings.TrimSpace(table.Type), "TOTAL") {
			return table, nil
		}
	}
	return tables[0], nil
}

func mapTeamRef(ref teamRef) team.Team {
	return team.Team{
		ID:        ref.ID,
		Name:      strings.TrimSpace(ref.Name),
		ShortName: strings.TrimSpace(ref.ShortName),
		TLA:       strings.TrimSpace(ref.TLA),
		Crest:     strings.TrimSpace(ref.Crest),
	}
}

func parseMatchDate(raw string) *time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			v := parsed.UTC()
			return &v
		}
	}
	return nil
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return value
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
