// Package assistant sequences one customer-service turn:
// moderate -> extract -> retrieve -> respond.
package assistant

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/jirayus/storeline-service-agent/agent/contract"
	llmx "github.com/jirayus/storeline-service-agent/agent/llm"
	nodex "github.com/jirayus/storeline-service-agent/agent/nodes"
	promptx "github.com/jirayus/storeline-service-agent/agent/prompt"
)

var ErrInvalidMessage = nodex.ErrInvalidMessage

// RefusalMessage is what a blocked turn replies with.
const RefusalMessage = nodex.RefusalMessage

type Assistant struct {
	catalog contractx.Catalog
	oracle  contractx.Oracle
	llmCfg  llmx.Config
	prompts promptx.PromptSet

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]
}

func New(catalog contractx.Catalog, oracle contractx.Oracle, llmCfg llmx.Config) (*Assistant, error) {
	if catalog == nil {
		return nil, errors.New("catalog is required")
	}
	if oracle == nil {
		return nil, errors.New("oracle is required")
	}
	if err := llmCfg.Validate(); err != nil {
		return nil, err
	}

	a := &Assistant{
		catalog: catalog,
		oracle:  oracle,
		llmCfg:  llmCfg,
		prompts: promptx.LoadPromptSet(),
	}

	graphRunner, err := a.compileHandleTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	a.graphRunner = graphRunner

	return a, nil
}

// HandleTurn runs one turn and returns the reply plus the caller's history
// extended with the exchange. The input history is never mutated; a blocked
// turn returns it as-is. Concurrent calls are safe as long as each session
// owns its history slice.
func (a *Assistant) HandleTurn(
	ctx context.Context,
	text string,
	history []contractx.Message,
) (string, []contractx.Message, error) {
	out, err := a.graphRunner.Invoke(ctx, nodex.GraphInput{
		Text:    text,
		History: history,
	})
	if err != nil {
		return "", nil, err
	}
	return out.Reply, out.History, nil
}
