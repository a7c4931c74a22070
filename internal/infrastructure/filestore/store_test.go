package filestore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/matchday-predictor/internal/domain/prediction"
)

func TestStoreWrite_CreatesDirectoryAndFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "output", "data.json")
	store := NewStore(path, nil)

	if err := store.Write(context.Background(), sampleResponse("Arsenal FC vs Chelsea FC")); err != nil {
		t.Fatalf("write predictions: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output file: %v", err)
	}
	if !strings.Contains(string(raw), "\"predictions\": [") {
		t.Fatalf("expected pretty-printed predictions key, got %s", raw)
	}

	var decoded prediction.Response
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode output file: %v", err)
	}
	if len(decoded.Predictions) != 1 {
		t.Fatalf("expected one prediction, got %d", len(decoded.Predictions))
	}
	if decoded.Predictions[0].Match != "Arsenal FC vs Chelsea FC" {
		t.Fatalf("unexpected match label: %q", decoded.Predictions[0].Match)
	}
	if decoded.Predictions[0].Result.Probability != 55 {
		t.Fatalf("unexpected result probability: %v", decoded.Predictions[0].Result.Probability)
	}
}

func TestStoreWrite_ReplacesPreviousRun(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.json")
	store := NewStore(path, nil)

	first := sampleResponse("Arsenal FC vs Chelsea FC", "Liverpool FC vs Everton FC")
	if err := store.Write(context.Background(), first); err != nil {
		t.Fatalf("write first run: %v", err)
	}

	second := sampleResponse("Manchester City FC vs Tottenham Hotspur FC")
	if err := store.Write(context.Background(), second); err != nil {
		t.Fatalf("write second run: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output file: %v", err)
	}

	var decoded prediction.Response
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode output file: %v", err)
	}
	if len(decoded.Predictions) != 1 {
		t.Fatalf("expected the second run only, got %d predictions", len(decoded.Predictions))
	}
	if decoded.Predictions[0].Match != "Manchester City FC vs Tottenham Hotspur FC" {
		t.Fatalf("unexpected surviving prediction: %q", decoded.Predictions[0].Match)
	}
}

func TestStoreWrite_EmptyPath(t *testing.T) {
	t.Parallel()

	store := NewStore("   ", nil)

	err := store.Write(context.Background(), sampleResponse("Arsenal FC vs Chelsea FC"))
	if err == nil || !strings.Contains(err.Error(), "output path is required") {
		t.Fatalf("expected output path error, got %v", err)
	}
}

func sampleResponse(matches ...string) prediction.Response {
	var out prediction.Response
	for _, label := range matches {
		out.Predictions = append(out.Predictions, prediction.MatchPrediction{
			Match:            label,
			PotentialScore:   "2-1",
			Result:           prediction.Market{Label: "Home win", Probability: 55, Reasoning: "Form"},
			OverUnder:        prediction.Market{Label: "Over 2.5", Probability: 60},
			BothTeamsToScore: prediction.Market{Label: "Yes", Probability: 58},
		})
	}
	return out
}
