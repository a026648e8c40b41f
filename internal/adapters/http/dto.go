package http

import "github.com/leekwangpil/tarot-web/internal/domain"

// ReadingRequest is the JSON body of POST /api/tarot.
type ReadingRequest struct {
	Question string   `json:"question"`
	Cards    []string `json:"cards"`
}

// ReadingResponse is the JSON shape returned by POST /api/tarot.
type ReadingResponse struct {
	Reading string `json:"reading"`
}

// CardsResponse is the JSON shape returned by GET /api/cards.
type CardsResponse struct {
	Cards []domain.Card `json:"cards"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// readingFailedMessage is the only error text a caller ever sees.
const readingFailedMessage = "타로 해석 중 오류가 발생했습니다."
