package model

// Intent represents the structured search intent extracted from a prompt
type Intent struct {
	Query    string `json:"query"`
	Location string `json:"location"`
	RadiusM  int    `json:"radius_m"`
}

// MinRadiusM is the lower bound applied to every extracted radius,
// regardless of whether it came from the model, the heuristic, or a default.
const MinRadiusM = 100
