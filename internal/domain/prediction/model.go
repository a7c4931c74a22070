package prediction

// Market is one forecast axis for a fixture, scored 0-100.
type Market struct {
	Label       string  `json:"label" validate:"required"`
	Probability float64 `json:"probability" validate:"gte=0,lte=100"`
	Reasoning   string  `json:"reasoning"`
}

// MatchPrediction is the full forecast for one fixture.
type MatchPrediction struct {
	Match            string `json:"match" validate:"required"`
	PotentialScore   string `json:"potentialScore" validate:"required"`
	Result           Market `json:"result" validate:"required"`
	OverUnder        Market `json:"overUnder" validate:"required"`
	BothTeamsToScore Market `json:"bothTeamsToScore" validate:"required"`
}

// Response is the validated model output, one entry per fixture in
// the order the fixtures were presented.
type Response struct {
	Predictions []MatchPrediction `json:"predictions" validate:"required,dive"`
}
