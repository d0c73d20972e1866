package table

// Card is a positioned token on the shared table. URL stays empty until a
// provider lookup fills it in.
type Card struct {
	URL    string  `json:"url,omitempty"`
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Locked bool    `json:"locked"`
	Tapped bool    `json:"tapped"`
}
