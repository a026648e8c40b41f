package domain

import "errors"

var (
	ErrInvalidN          = errors.New("n must be between 1 and the deck size")
	ErrNExceedsDeck      = errors.New("n exceeds number of cards in deck")
	ErrInvalidQuestion   = errors.New("question must not be blank")
	ErrInvalidCards      = errors.New("cards must be exactly three distinct catalog cards")
	ErrMissingCredential = errors.New("LLM credential is not configured")
	ErrUpstreamLLM       = errors.New("upstream LLM failure")
)
