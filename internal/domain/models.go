package domain

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// Card is one immutable entry of the catalog.
type Card struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Draw is an ordered selection of distinct cards.
type Draw []Card

// DrawSize is the number of cards in a reading.
const DrawSize = 3

// Names returns the card names in draw order.
func (d Draw) Names() []string {
	names := make([]string, len(d))
	for i, c := range d {
		names[i] = c.Name
	}
	return names
}
