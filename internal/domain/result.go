package domain

// Result is one team's side of a match: the points it scored and the Elo
// delta computed against the expected score once the match is reported.
// Before a report comes in, Points holds the expected score the principal
// computed when the match was formed.
type Result struct {
	ResultID int64   `json:"result_id"`
	Team     *Team   `json:"team"`
	Points   float64 `json:"points"`
	Delta    float64 `json:"delta"`
}

// Valid reports whether the result references a valid team.
func (r *Result) Valid() bool {
	return r != nil && r.Team.Valid()
}

// Add combines two results for the same team, summing points and delta.
func (r *Result) Add(other *Result) *Result {
	if r == nil || other == nil || !r.Team.Equal(other.Team) {
		return r
	}
	return &Result{
		ResultID: r.ResultID,
		Team:     r.Team,
		Points:   r.Points + other.Points,
		Delta:    r.Delta + other.Delta,
	}
}
