package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/sourcegraph/conc/pool"
	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/matchday-predictor/internal/domain/match"
	"github.com/riskibarqy/matchday-predictor/internal/domain/prediction"
	"github.com/riskibarqy/matchday-predictor/internal/domain/standings"
	"github.com/riskibarqy/matchday-predictor/internal/platform/logging"
)

// SportDataProvider reads the league snapshot one run is based on.
type SportDataProvider interface {
	FetchStandings(ctx context.Context) ([]standings.Entry, error)
	FetchScheduledMatches(ctx context.Context, from, to time.Time) ([]match.Match, error)
}

// PredictionGenerator turns a prompt into a validated prediction payload.
type PredictionGenerator interface {
	Predict(ctx context.Context, prompt string) (prediction.Response, error)
}

// ResultSink persists the final predictions.
type ResultSink interface {
	Write(ctx context.Context, response prediction.Response) error
}

type RunResult struct {
	StandingsRows    int
	FixturesInWindow int
	FixturesPrompted int
	Matchday         int
	Predictions      int
	Duration         time.Duration
}

type MatchdayPredictionService struct {
	provider   SportDataProvider
	generator  PredictionGenerator
	sink       ResultSink
	windowDays int
	logger     *logging.Logger
	now        func() time.Time
}

func NewMatchdayPredictionService(
	provider SportDataProvider,
	generator PredictionGenerator,
	sink ResultSink,
	windowDays int,
	logger *logging.Logger,
) *MatchdayPredictionService {
	if logger == nil {
		logger = logging.Default()
	}
	if windowDays <= 0 {
		windowDays = 10
	}

	return &MatchdayPredictionService{
		provider:   provider,
		generator:  generator,
		sink:       sink,
		windowDays: windowDays,
		logger:     logger,
		now:        time.Now,
	}
}

// Run executes one prediction pass: fetch standings and fixtures, build
// the prompt, generate predictions, persist them. The two fetches run
// concurrently; everything after needs both results and stays sequential.
func (s *MatchdayPredictionService) Run(ctx context.Context) (RunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchdayPredictionService.Run")
	defer span.End()

	if s.provider == nil || s.generator == nil || s.sink == nil {
		s.logger.WarnContext(ctx, "skip prediction run: pipeline is not fully wired",
			"provider_nil", s.provider == nil,
			"generator_nil", s.generator == nil,
			"sink_nil", s.sink == nil,
		)
		return RunResult{}, fmt.Errorf("%w: prediction pipeline is not fully wired", ErrDependencyUnavailable)
	}

	started := s.now()

	var (
		table    []standings.Entry
		fixtures []match.Match
	)

	group := pool.New().WithContext(ctx).WithCancelOnError()
	group.Go(func(ctx context.Context) error {
		rows, err := s.provider.FetchStandings(ctx)
		if err != nil {
			return fmt.Errorf("fetch standings: %w", err)
		}
		table = rows
		return nil
	})
	group.Go(func(ctx context.Context) error {
		from := started.UTC()
		to := from.AddDate(0, 0, s.windowDays)
		rows, err := s.provider.FetchScheduledMatches(ctx, from, to)
		if err != nil {
			return fmt.Errorf("fetch scheduled matches: %w", err)
		}
		fixtures = rows
		return nil
	})
	if err := group.Wait(); err != nil {
		return RunResult{}, err
	}

	s.logger.InfoContext(ctx, "fetched league snapshot",
		"standings_rows", len(table),
		"fixtures_in_window", len(fixtures),
	)
	if len(fixtures) == 0 {
		s.logger.WarnContext(ctx, "no scheduled fixtures in window, prompting with an empty fixture list",
			"window_days", s.windowDays,
		)
	}

	tableJSON, err := sonic.MarshalIndent(formatStandingsTable(table), "", "  ")
	if err != nil {
		return RunResult{}, fmt.Errorf("marshal standings table: %w", err)
	}

	roundFixtures := filterToFirstMatchday(fixtures)
	matchday := 0
	if len(roundFixtures) > 0 {
		matchday = roundFixtures[0].Matchday
	}

	prompt := buildPrompt(string(tableJSON), renderFixtureLines(roundFixtures))
	s.logger.DebugContext(ctx, "built prediction prompt",
		"matchday", matchday,
		"fixtures_prompted", len(roundFixtures),
		"prompt_bytes", len(prompt),
	)

	response, err := s.generator.Predict(ctx, prompt)
	if err != nil {
		return RunResult{}, fmt.Errorf("generate predictions: %w", err)
	}

	if err := s.sink.Write(ctx, response); err != nil {
		return RunResult{}, fmt.Errorf("persist predictions: %w", err)
	}

	return RunResult{
		StandingsRows:    len(table),
		FixturesInWindow: len(fixtures),
		FixturesPrompted: len(roundFixtures),
		Matchday:         matchday,
		Predictions:      len(response.Predictions),
		Duration:         s.now().Sub(started),
	}, nil
}

type standingsTableRow struct {
	Team string `json:"Team"`
	MP   int    `json:"MP"`
	W    int    `json:"W"`
	D    int    `json:"D"`
	L    int    `json:"L"`
	F    int    `json:"F"`
	A    int    `json:"A"`
	GD   int    `json:"GD"`
	P    int    `json:"P"`
	Form string `json:"Form"`
}

func formatStandingsTable(entries []standings.Entry) []standingsTableRow {
	out := make([]standingsTableRow, 0, len(entries))
	for _, entry := range entries {
		out = append(out, standingsTableRow{
			Team: entry.Team.DisplayName(),
			MP:   entry.PlayedGames,
			W:    entry.Won,
			D:    entry.Draw,
			L:    entry.Lost,
			F:    entry.GoalsFor,
			A:    entry.GoalsAgainst,
			GD:   entry.GoalDifference,
			P:    entry.Points,
			Form: entry.Form,
		})
	}

	return out
}

// filterToFirstMatchday keeps one coherent round: only fixtures sharing
// the first element's matchday survive, in their original order.
func filterToFirstMatchday(fixtures []match.Match) []match.Match {
	if len(fixtures) == 0 {
		return nil
	}

	matchday := fixtures[0].Matchday
	out := make([]match.Match, 0, len(fixtures))
	for _, item := range fixtures {
		if item.Matchday != matchday {
			continue
		}
		out = append(out, item)
	}

	return out
}

func renderFixtureLines(fixtures []match.Match) string {
	if len(fixtures) == 0 {
		return ""
	}

	lines := make([]string, 0, len(fixtures))
	for _, item := range fixtures {
		lines = append(lines, item.HomeTeam.DisplayName()+" - "+item.AwayTeam.DisplayName())
	}

	return strings.Join(lines, "\n")
}

const promptGlossary = `Column glossary:
MP = matches played, W = wins, D = draws, L = losses,
F = goals for, A = goals against, GD = goal difference,
P = points, Form = outcomes of the most recent matches (W/D/L).`

const promptInstruction = `For every fixture listed above, predict:
- a potential final score
- the result after 90 minutes
- over or under 2.5 total goals
- whether both teams score
Give every market a probability between 0 and 100.

Answer with JSON only, no markdown fences and no commentary, in exactly this shape:
{
  "predictions": [
    {
      "match": "Home Team v Away Team",
      "potentialScore": "2-1",
      "result": { "label": "Home Team to win", "probability": 55, "reasoning": "one short sentence" },
      "overUnder": { "label": "Over 2.5", "probability": 60, "reasoning": "one short sentence" },
      "bothTeamsToScore": { "label": "Yes", "probability": 58, "reasoning": "one short sentence" }
    }
  ]
}
Return one predictions entry per fixture, in the same order as the fixture list.`

func buildPrompt(tableJSON, fixtures string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	buf.WriteString("You are a football analyst. This is the current league table:\n\n")
	buf.WriteString(tableJSON)
	buf.WriteString("\n\n")
	buf.WriteString(promptGlossary)
	buf.WriteString("\n\nUpcoming fixtures for the next matchday:\n\n")
	buf.WriteString(fixtures)
	buf.WriteString("\n\n")
	buf.WriteString(promptInstruction)

	return buf.String()
}
