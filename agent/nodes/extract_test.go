package nodes

import (
	"context"
	"errors"
	"strings"
	"testing"

	llmx "github.com/jirayus/storeline-service-agent/agent/llm"
	promptx "github.com/jirayus/storeline-service-agent/agent/prompt"
)

func TestExtractBuildsDelimitedPrompt(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{completeResp: `[{"products": ["TechPro Ultrabook"]}]`}
	in := &GraphState{Text: "Tell me about the TechPro Ultrabook"}

	out, err := Extract(context.Background(), in, oracle, llmx.StepConfig{Model: "llama3.2"}, promptx.LoadPromptSet(), testCatalog())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(out.Records) != 1 || out.Records[0].Products[0] != "TechPro Ultrabook" {
		t.Fatalf("unexpected records: %+v", out.Records)
	}

	if oracle.lastModel != "llama3.2" {
		t.Fatalf("unexpected model: %s", oracle.lastModel)
	}
	if oracle.lastTemperature != 0 {
		t.Fatalf("expected deterministic decoding, got temperature %v", oracle.lastTemperature)
	}
	if len(oracle.lastMessages) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(oracle.lastMessages))
	}
	system := oracle.lastMessages[0].Content
	if !strings.Contains(system, "Computers and Laptops") {
		t.Fatal("catalog summary missing from system prompt")
	}
	user := oracle.lastMessages[1].Content
	if user != promptx.Delimiter+"Tell me about the TechPro Ultrabook"+promptx.Delimiter {
		t.Fatalf("user query not delimited: %q", user)
	}
}

func TestExtractParseFailureDegrades(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{completeResp: "I could not find any products, sorry!"}
	in := &GraphState{Text: "what's the weather?"}

	out, err := Extract(context.Background(), in, oracle, llmx.StepConfig{Model: "llama3.2"}, promptx.LoadPromptSet(), testCatalog())
	if err != nil {
		t.Fatalf("parse failure must not fail the turn, got %v", err)
	}
	if len(out.Records) != 0 {
		t.Fatalf("expected no records, got %+v", out.Records)
	}
	if got := Resolve(out.Records, testCatalog()); got != "" {
		t.Fatalf("retrieval after parse failure must be empty, got %q", got)
	}
}

func TestExtractTransportErrorPropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("oracle down")
	in := &GraphState{Text: "hello"}
	_, err := Extract(context.Background(), in, &fakeOracle{completeErr: boom}, llmx.StepConfig{Model: "llama3.2"}, promptx.LoadPromptSet(), testCatalog())
	if !errors.Is(err, boom) {
		t.Fatalf("expected transport error, got %v", err)
	}
}
