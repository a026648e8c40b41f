// Package prompt holds the fixed instructions sent to the completion model.
package prompt

import (
	"fmt"
	"strings"
)

// DefaultTemperature is the sampling temperature used for every reading.
const DefaultTemperature = 0.7

// System is the persona given to the model.
const System = "당신은 전문적인 타로 카드 리더입니다. 카드의 의미를 정확하게 해석하고, 질문자에게 도움이 되는 통찰력 있는 조언을 제공합니다."

// User builds the reading instruction for a question and the drawn card names.
func User(question string, cards []string) string {
	var b strings.Builder
	b.WriteString("타로 카드 해석을 해주세요.\n")
	fmt.Fprintf(&b, "질문: %s\n", question)
	fmt.Fprintf(&b, "뽑은 카드: %s\n\n", strings.Join(cards, ", "))
	b.WriteString("각 카드의 의미와 질문에 대한 해석을 종합적으로 설명해주세요.\n")
	b.WriteString("해석은 친근하고 이해하기 쉬운 어조로 작성해주세요.")
	return b.String()
}
