package domain

// DrawN draws n distinct cards from cards using the provided RNG.
// The input slice is not modified.
func DrawN(cards []Card, n int, rng RNG) (Draw, error) {
	if n < 1 {
		return nil, ErrInvalidN
	}
	if n > len(cards) {
		return nil, ErrNExceedsDeck
	}

	// Fisher-Yates over indices; only the first n are kept.
	indices := make([]int, len(cards))
	for i := range indices {
		indices[i] = i
	}
	for i := len(indices) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		indices[i], indices[j] = indices[j], indices[i]
	}

	out := make(Draw, n)
	for i := range n {
		out[i] = cards[indices[i]]
	}
	return out, nil
}

// DrawThree draws a three-card reading from the catalog.
func DrawThree(rng RNG) Draw {
	d, err := DrawN(majorArcana[:], DrawSize, rng)
	if err != nil {
		// The catalog is a constant larger than DrawSize.
		panic(err)
	}
	return d
}
