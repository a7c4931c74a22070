package team

// Team identifies one club as the data provider exposes it.
type Team struct {
	ID        int64
	Name      string
	ShortName string
	TLA       string
	Crest     string
}

// DisplayName prefers the full club name and falls back to the
// short name or three-letter abbreviation when the provider omits it.
func (t Team) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	if t.ShortName != "" {
		return t.ShortName
	}
	return t.TLA
}
