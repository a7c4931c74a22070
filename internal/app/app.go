package app

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/matchday-predictor/external/footballdata"
	"github.com/riskibarqy/matchday-predictor/external/gemini"
	"github.com/riskibarqy/matchday-predictor/internal/config"
	"github.com/riskibarqy/matchday-predictor/internal/infrastructure/filestore"
	"github.com/riskibarqy/matchday-predictor/internal/platform/logging"
	"github.com/riskibarqy/matchday-predictor/internal/usecase"
)

// NewPredictionPipeline wires the data provider, the model client and the
// output sink into one runnable prediction service. Outbound HTTP goes
// through otelhttp so provider calls show up as spans when tracing is on.
func NewPredictionPipeline(cfg config.Config, logger *logging.Logger) *usecase.MatchdayPredictionService {
	if logger == nil {
		logger = logging.Default()
	}

	footballClient := footballdata.NewClient(footballdata.ClientConfig{
		HTTPClient: &http.Client{
			Timeout:   cfg.FootballDataTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		BaseURL:     cfg.FootballDataBaseURL,
		APIKey:      cfg.FootballDataAPIKey,
		Competition: cfg.CompetitionCode,
		Timeout:     cfg.FootballDataTimeout,
		Logger:      logger,
	})

	geminiClient := gemini.NewClient(gemini.ClientConfig{
		HTTPClient: &http.Client{
			Timeout:   cfg.GeminiTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		BaseURL: cfg.GeminiBaseURL,
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		Timeout: cfg.GeminiTimeout,
		Logger:  logger,
	})

	sink := filestore.NewStore(cfg.OutputPath, logger)

	return usecase.NewMatchdayPredictionService(footballClient, geminiClient, sink, cfg.FixtureWindowDays, logger)
}
