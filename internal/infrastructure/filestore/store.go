package filestore

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/matchday-predictor/internal/domain/prediction"
	"github.com/riskibarqy/matchday-predictor/internal/platform/logging"
)

// Store persists one run's predictions as pretty-printed JSON. Each run
// replaces the previous file, so the path always holds the latest round.
type Store struct {
	path   string
	logger *logging.Logger
}

func NewStore(path string, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}

	return &Store{
		path:   strings.TrimSpace(path),
		logger: logger,
	}
}

func (s *Store) Write(ctx context.Context, response prediction.Response) error {
	if s.path == "" {
		return crerr.New("output path is required")
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return crerr.Wrapf(err, "create output directory %s", dir)
		}
	}

	payload, err := sonic.MarshalIndent(response, "", "  ")
	if err != nil {
		return crerr.Wrap(err, "marshal predictions")
	}

	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return crerr.Wrapf(err, "write predictions to %s", s.path)
	}

	s.logger.InfoContext(ctx, "predictions written", "path", s.path, "bytes", len(payload), "predictions", len(response.Predictions))
	return nil
}
