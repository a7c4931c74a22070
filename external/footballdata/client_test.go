package footballdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
)

func TestClientFetchStandings_MapsTotalTable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/v4/competitions/PL/standings" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Auth-Token"); got != "football-secret" {
			t.Fatalf("unexpected X-Auth-Token: %s", got)
		}
		if got := r.Header.Get("accept"); got != "application/json" {
			t.Fatalf("unexpected accept header: %s", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = jsoniter.NewEncoder(w).Encode(map[string]any{
			"standings": []map[string]any{
				{
					"stage": "REGULAR_SEASON",
					"type":  "HOME",
					"table": []map[string]any{
						{"position": 1, "team": map[string]any{"id": 57, "name": "Arsenal FC"}, "points": 99},
					},
				},
				{
					"stage": "REGULAR_SEASON",
					"type":  "TOTAL",
					"table": []map[string]any{
						{
							"position":       1,
							"team":           map[string]any{"id": 57, "name": "Arsenal FC", "shortName": "Arsenal", "tla": "ARS", "crest": "https://crests.football-data.org/57.png"},
							"playedGames":    11,
							"form":           " W,W,D,W,W ",
							"won":            8,
							"draw":           2,
							"lost":           1,
							"points":         26,
							"goalsFor":       20,
							"goalsAgainst":   5,
							"goalDifference": 15,
						},
						{
							"position":    2,
							"team":        map[string]any{"id": 64, "name": "Liverpool FC", "shortName": "Liverpool", "tla": "LIV"},
							"playedGames": 11,
							"points":      25,
						},
					},
				},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		HTTPClient:  srv.Client(),
		BaseURL:     srv.URL,
		APIKey:      "football-secret",
		Competition: "PL",
	})

	entries, err := client.FetchStandings(context.Background())
	if err != nil {
		t.Fatalf("fetch standings failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 table rows, got %d", len(entries))
	}

	first := entries[0]
	if first.Position != 1 {
		t.Fatalf("unexpected position: %d", first.Position)
	}
	if first.Team.ID != 57 || first.Team.Name != "Arsenal FC" || first.Team.TLA != "ARS" {
		t.Fatalf("unexpected team mapping: %+v", first.Team)
	}
	if first.PlayedGames != 11 || first.Won != 8 || first.Draw != 2 || first.Lost != 1 {
		t.Fatalf("unexpected record: %+v", first)
	}
	if first.Points != 26 {
		t.Fatalf("expected points from the TOTAL table, got %d", first.Points)
	}
	if first.GoalsFor != 20 || first.GoalsAgainst != 5 || first.GoalDifference != 15 {
		t.Fatalf("unexpected goal columns: %+v", first)
	}
	if first.Form != "W,W,D,W,W" {
		t.Fatalf("expected trimmed form, got %q", first.Form)
	}
	if entries[1].Team.Name != "Liverpool FC" {
		t.Fatalf("unexpected second row: %+v", entries[1])
	}
}

func TestClientFetchStandings_NoTables(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"standings":[]}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		HTTPClient:  srv.Client(),
		BaseURL:     srv.URL,
		APIKey:      "football-secret",
		Competition: "PL",
	})

	_, err := client.FetchStandings(context.Background())
	if err == nil {
		t.Fatalf("expected error when provider returns no tables")
	}
	if !strings.Contains(err.Error(), "no standings tables") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClientFetchScheduledMatches_FiltersAndSorts(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v4/competitions/PL/matches" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		query := r.URL.Query()
		if got := query.Get("status"); got != "SCHEDULED" {
			t.Fatalf("unexpected status filter: %s", got)
		}
		if got := query.Get("dateFrom"); got != "2025-11-01" {
			t.Fatalf("unexpected dateFrom: %s", got)
		}
		if got := query.Get("dateTo"); got != "2025-11-11" {
			t.Fatalf("unexpected dateTo: %s", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = jsoniter.NewEncoder(w).Encode(map[string]any{
			"matches": []map[string]any{
				{
					"id": 205, "utcDate": "2025-11-02T16:30:00Z", "status": "TIMED", "matchday": 11,
					"homeTeam": map[string]any{"id": 65, "name": "Manchester City FC", "shortName": "Man City"},
					"awayTeam": map[string]any{"id": 64, "name": "Liverpool FC", "shortName": "Liverpool"},
				},
				{
					"id": 202, "utcDate": "2025-11-02T16:30:00Z", "status": "scheduled", "matchday": 11,
					"homeTeam": map[string]any{"id": 61, "name": "Chelsea FC", "shortName": "Chelsea"},
					"awayTeam": map[string]any{"id": 73, "name": "Tottenham Hotspur FC", "shortName": "Spurs"},
				},
				{
					"id": 201, "utcDate": "2025-11-01T15:00:00Z", "status": "SCHEDULED", "matchday": 11,
					"homeTeam": map[string]any{"id": 57, "name": "Arsenal FC", "shortName": "Arsenal"},
					"awayTeam": map[string]any{"id": 563, "name": "West Ham United FC", "shortName": "West Ham"},
				},
				{
					"id": 0, "utcDate": "2025-11-03T20:00:00Z", "status": "SCHEDULED", "matchday": 11,
				},
				{
					"id": 203, "utcDate": "2025-11-01T12:30:00Z", "status": "FINISHED", "matchday": 11,
					"homeTeam": map[string]any{"id": 62, "name": "Everton FC"},
					"awayTeam": map[string]any{"id": 76, "name": "Wolves"},
				},
				{
					"id": 204, "utcDate": "not-a-date", "status": "SCHEDULED", "matchday": 11,
					"homeTeam": map[string]any{"id": 66, "name": "Manchester United FC"},
					"awayTeam": map[string]any{"id": 67, "name": "Newcastle United FC"},
				},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		HTTPClient:  srv.Client(),
		BaseURL:     srv.URL,
		APIKey:      "football-secret",
		Competition: "pl",
	})

	from := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	matches, err := client.FetchScheduledMatches(context.Background(), from, from.AddDate(0, 0, 10))
	if err != nil {
		t.Fatalf("fetch matches failed: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 upcoming fixtures, got %d", len(matches))
	}
	if matches[0].ID != 201 || matches[1].ID != 202 || matches[2].ID != 205 {
		t.Fatalf("unexpected fixture order: %d, %d, %d", matches[0].ID, matches[1].ID, matches[2].ID)
	}
	if matches[1].Status != "SCHEDULED" {
		t.Fatalf("expected normalized status, got %q", matches[1].Status)
	}
	if matches[0].HomeTeam.Name != "Arsenal FC" || matches[0].AwayTeam.ShortName != "West Ham" {
		t.Fatalf("unexpected team mapping: %+v", matches[0])
	}
	if !matches[0].UTCDate.Equal(time.Date(2025, 11, 1, 15, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected kickoff: %s", matches[0].UTCDate)
	}
}

func TestClientFetchScheduledMatches_EmptyWindow(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"matches":[]}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		HTTPClient:  srv.Client(),
		BaseURL:     srv.URL,
		APIKey:      "football-secret",
		Competition: "PL",
	})

	from := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	matches, err := client.FetchScheduledMatches(context.Background(), from, from.AddDate(0, 0, 10))
	if err != nil {
		t.Fatalf("fetch matches failed: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no fixtures, got %d", len(matches))
	}
}

func TestClientSurfacesProviderStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"You reached your request limit."}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		HTTPClient:  srv.Client(),
		BaseURL:     srv.URL,
		APIKey:      "football-secret",
		Competition: "PL",
	})

	_, err := client.FetchStandings(context.Background())
	if err == nil {
		t.Fatalf("expected error for 429 response")
	}
	if !strings.Contains(err.Error(), "status=429") || !strings.Contains(err.Error(), "request limit") {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d calls", calls.Load())
	}
}
