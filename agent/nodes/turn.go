package nodes

import (
	"errors"
	"strings"

	contractx "github.com/jirayus/storeline-service-agent/agent/contract"
)

var ErrInvalidMessage = errors.New("message is empty")

// RefusalMessage is the fixed reply for turns rejected by moderation.
const RefusalMessage = "Sorry, we cannot process this request."

type GraphInput struct {
	Text    string
	History []contractx.Message
}

type GraphOutput struct {
	Reply   string
	History []contractx.Message
}

// GraphState threads one turn through the pipeline. History always refers to
// the caller's slice until Respond replaces it with an extended copy; no node
// writes into the input slice.
type GraphState struct {
	Text    string
	History []contractx.Message

	Verdict     contractx.Verdict
	Records     []contractx.Record
	ProductInfo string

	Reply string
}

func ValidateRequest(in GraphInput) (*GraphState, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		Text:    text,
		History: in.History,
	}, nil
}
