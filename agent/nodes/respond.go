package nodes

import (
	"context"
	"fmt"

	contractx "github.com/jirayus/storeline-service-agent/agent/contract"
	llmx "github.com/jirayus/storeline-service-agent/agent/llm"
)

// Respond generates the grounded reply and extends the conversation history
// by exactly two turns. The recorded user turn carries the product context
// when retrieval produced any, so follow-up turns see what the answer was
// grounded on; otherwise the raw text is recorded.
func Respond(
	ctx context.Context,
	in *GraphState,
	oracle contractx.Oracle,
	cfg llmx.StepConfig,
	systemPersona string,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	augmented := AugmentUserText(in.Text, in.ProductInfo)

	messages := make([]contractx.Message, 0, len(in.History)+2)
	messages = append(messages, contractx.Message{Role: contractx.RoleSystem, Content: systemPersona})
	messages = append(messages, in.History...)
	messages = append(messages, contractx.Message{Role: contractx.RoleUser, Content: augmented})

	reply, err := oracle.ChatCompletion(ctx, cfg.Model, messages, cfg.Temperature)
	if err != nil {
		return nil, err
	}

	recorded := in.Text
	if in.ProductInfo != "" {
		recorded = augmented
	}

	history := make([]contractx.Message, 0, len(in.History)+2)
	history = append(history, in.History...)
	history = append(history,
		contractx.Message{Role: contractx.RoleUser, Content: recorded},
		contractx.Message{Role: contractx.RoleAssistant, Content: reply},
	)

	in.Reply = reply
	in.History = history
	return in, nil
}

// AugmentUserText appends the labeled product context block to the user
// text. The block is present even when info is empty, matching the prompt
// the response model sees.
func AugmentUserText(text, info string) string {
	return fmt.Sprintf("%s\n\nRelevant product information:\n%s\n", text, info)
}

// FinalizeTurn emits the turn result. The reply is the model's text
// verbatim, with no post-processing.
func FinalizeTurn(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	return GraphOutput{Reply: in.Reply, History: in.History}, nil
}

// BlockedTurn emits the fixed refusal with the caller's history untouched:
// a blocked exchange is never recorded.
func BlockedTurn(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	return GraphOutput{Reply: RefusalMessage, History: in.History}, nil
}
