package nodes

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/jirayus/storeline-service-agent/agent/contract"
	llmx "github.com/jirayus/storeline-service-agent/agent/llm"
)

// unsafeVerdict is the classifier's literal block marker. The policy is
// strict equality: "Unsafe", "safe", empty, or malformed output all allow.
const unsafeVerdict = "unsafe"

func Moderate(
	ctx context.Context,
	in *GraphState,
	oracle contractx.Oracle,
	cfg llmx.StepConfig,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	raw, err := oracle.SafetyClassify(ctx, cfg.Model, in.Text)
	if err != nil {
		return nil, err
	}

	if raw == unsafeVerdict {
		in.Verdict = contractx.VerdictBlocked
		log.Warn().Str("step", "moderate").Msg("input flagged by safety classifier")
		return in, nil
	}

	in.Verdict = contractx.VerdictAllowed
	return in, nil
}
