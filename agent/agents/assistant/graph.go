package assistant

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/jirayus/storeline-service-agent/agent/contract"
	nodex "github.com/jirayus/storeline-service-agent/agent/nodes"
)

func (a *Assistant) compileHandleTurnGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("moderate",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Moderate(ctx, in, a.oracle, a.llmCfg.Moderation())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node moderate: %w", err)
	}

	if err := graph.AddLambdaNode("blocked_turn",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.BlockedTurn(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node blocked_turn: %w", err)
	}

	if err := graph.AddLambdaNode("extract",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Extract(ctx, in, a.oracle, a.llmCfg.Extraction(), a.prompts, a.catalog)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node extract: %w", err)
	}

	if err := graph.AddLambdaNode("retrieve",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Retrieve(in, a.catalog)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node retrieve: %w", err)
	}

	if err := graph.AddLambdaNode("respond",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Respond(ctx, in, a.oracle, a.llmCfg.Response(), a.prompts.ResponseSystem())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node respond: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_turn",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeTurn(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_turn: %w", err)
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *nodex.GraphState) (string, error) {
			if in == nil {
				return "", fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
			}
			if in.Verdict == contractx.VerdictBlocked {
				return "blocked_turn", nil
			}
			return "extract", nil
		},
		map[string]bool{
			"blocked_turn": true,
			"extract":      true,
		},
	)

	if err := graph.AddEdge(compose.START, "validate_request"); err != nil {
		return nil, fmt.Errorf("add edge start->validate_request: %w", err)
	}
	if err := graph.AddEdge("validate_request", "moderate"); err != nil {
		return nil, fmt.Errorf("add edge validate_request->moderate: %w", err)
	}
	if err := graph.AddBranch("moderate", branch); err != nil {
		return nil, fmt.Errorf("add moderation branch: %w", err)
	}

	edges := [][2]string{
		{"extract", "retrieve"},
		{"retrieve", "respond"},
		{"respond", "finalize_turn"},
		{"finalize_turn", compose.END},
		{"blocked_turn", compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("assistant.handle_turn"))
	if err != nil {
		return nil, fmt.Errorf("compile assistant graph: %w", err)
	}
	return runner, nil
}
