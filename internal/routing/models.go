package routing

// matrixResponse is the Distance-Matrix style reply for a single
// origin/destination pair.
type matrixResponse struct {
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message,omitempty"`
	Rows         []matrixRow `json:"rows"`
}

type matrixRow struct {
	Elements []element `json:"elements"`
}

type element struct {
	Status            string     `json:"status"`
	Duration          *valueText `json:"duration"`
	DurationInTraffic *valueText `json:"duration_in_traffic"`
	Distance          *valueText `json:"distance"`
}

// valueText carries seconds for durations and meters for distances.
type valueText struct {
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}
