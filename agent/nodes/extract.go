package nodes

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/jirayus/storeline-service-agent/agent/contract"
	llmx "github.com/jirayus/storeline-service-agent/agent/llm"
	promptx "github.com/jirayus/storeline-service-agent/agent/prompt"
	recordsx "github.com/jirayus/storeline-service-agent/agent/records"
)

// Extract asks the model which catalog categories and products the query
// mentions. A parse failure is not a turn failure: it degrades to an empty
// record list so the turn continues without product context.
func Extract(
	ctx context.Context,
	in *GraphState,
	oracle contractx.Oracle,
	cfg llmx.StepConfig,
	prompts promptx.PromptSet,
	catalog contractx.Catalog,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	summary, err := json.MarshalIndent(catalog.Summary(), "", "    ")
	if err != nil {
		return nil, fmt.Errorf("%w: marshal catalog summary: %v", contractx.ErrValidation, err)
	}

	messages := []contractx.Message{
		{Role: contractx.RoleSystem, Content: prompts.ExtractionSystem(string(summary))},
		{Role: contractx.RoleUser, Content: promptx.WrapQuery(in.Text)},
	}

	raw, err := oracle.ChatCompletion(ctx, cfg.Model, messages, cfg.Temperature)
	if err != nil {
		return nil, err
	}

	recs, err := recordsx.Parse(raw)
	if err != nil {
		log.Warn().Str("step", "extract").Str("raw", raw).Err(err).
			Msg("unparseable extraction output, continuing with no records")
		in.Records = nil
		return in, nil
	}

	in.Records = recs
	return in, nil
}
