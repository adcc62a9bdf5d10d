package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jirayus/storeline-service-agent/agent/catalog"
	contractx "github.com/jirayus/storeline-service-agent/agent/contract"
	llmx "github.com/jirayus/storeline-service-agent/agent/llm"
)

type fakeOracle struct {
	classifyResp string
	classifyErr  error

	completions   []string
	completeErr   error
	completeCalls int
	seenMessages  [][]contractx.Message
}

func (f *fakeOracle) ChatCompletion(ctx context.Context, model string, messages []contractx.Message, temperature float64) (string, error) {
	f.completeCalls++
	f.seenMessages = append(f.seenMessages, append([]contractx.Message(nil), messages...))
	if f.completeErr != nil {
		return "", f.completeErr
	}
	idx := f.completeCalls - 1
	if idx >= len(f.completions) {
		return "", fmt.Errorf("no completion left at call=%d", f.completeCalls)
	}
	return f.completions[idx], nil
}

func (f *fakeOracle) SafetyClassify(ctx context.Context, model string, text string) (string, error) {
	if f.classifyErr != nil {
		return "", f.classifyErr
	}
	return f.classifyResp, nil
}

func testConfig() llmx.Config {
	return llmx.Config{
		ModerationModel: "llama-guard3",
		ExtractionModel: "llama3.2",
		ResponseModel:   "llama3.2",
	}
}

func testStore() *catalog.Store {
	return catalog.NewStore([]contractx.Product{
		{
			Name:     "TechPro Ultrabook",
			Category: "Computers and Laptops",
			Brand:    "TechPro",
			Attributes: map[string]any{
				"price":       799.99,
				"description": "A sleek and lightweight ultrabook for everyday use.",
			},
		},
		{
			Name:     "CineView 4K TV",
			Category: "Televisions and Home Theater Systems",
			Brand:    "CineView",
			Attributes: map[string]any{
				"price": 599.99,
			},
		},
	})
}

func newTestAssistant(t *testing.T, oracle contractx.Oracle) *Assistant {
	t.Helper()
	a, err := New(testStore(), oracle, testConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a
}

func TestHandleTurnEmptyInput(t *testing.T) {
	t.Parallel()

	a := newTestAssistant(t, &fakeOracle{classifyResp: "safe"})
	_, _, err := a.HandleTurn(context.Background(), "   ", nil)
	if !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
}

func TestHandleTurnBlockedLeavesHistoryUntouched(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{classifyResp: "unsafe"}
	a := newTestAssistant(t, oracle)

	history := []contractx.Message{
		{Role: contractx.RoleUser, Content: "earlier question"},
		{Role: contractx.RoleAssistant, Content: "earlier answer"},
	}

	reply, newHistory, err := a.HandleTurn(context.Background(), "do something harmful", history)
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if reply != RefusalMessage {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if len(newHistory) != len(history) {
		t.Fatalf("blocked turn must not extend history: got %d turns", len(newHistory))
	}
	for i := range history {
		if newHistory[i] != history[i] {
			t.Fatalf("history turn %d changed: %+v", i, newHistory[i])
		}
	}
	if oracle.completeCalls != 0 {
		t.Fatalf("no completion may run after a block, got %d calls", oracle.completeCalls)
	}
}

func TestHandleTurnNearMissVerdictsAllow(t *testing.T) {
	t.Parallel()

	for _, verdict := range []string{"Unsafe", "safe", "", "unsafe\nS1"} {
		oracle := &fakeOracle{
			classifyResp: verdict,
			completions:  []string{"[]", "Happy to help with our catalog!"},
		}
		a := newTestAssistant(t, oracle)

		reply, _, err := a.HandleTurn(context.Background(), "hello", nil)
		if err != nil {
			t.Fatalf("verdict %q: HandleTurn() error = %v", verdict, err)
		}
		if reply == RefusalMessage {
			t.Fatalf("verdict %q must not block", verdict)
		}
		if oracle.completeCalls != 2 {
			t.Fatalf("verdict %q: expected extract+respond calls, got %d", verdict, oracle.completeCalls)
		}
	}
}

func TestHandleTurnGroundedProductScenario(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{
		classifyResp: "safe",
		completions: []string{
			`[{'products': ['TechPro Ultrabook']}]`,
			"The TechPro Ultrabook is a sleek 13-inch laptop at $799.99. Anything else?",
		},
	}
	a := newTestAssistant(t, oracle)

	reply, newHistory, err := a.HandleTurn(context.Background(), "Tell me about the TechPro Ultrabook", nil)
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if !strings.Contains(reply, "TechPro Ultrabook") {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if len(newHistory) != 2 {
		t.Fatalf("expected two recorded turns, got %d", len(newHistory))
	}

	recorded := newHistory[0]
	if recorded.Role != contractx.RoleUser {
		t.Fatalf("first recorded turn must be the user, got %s", recorded.Role)
	}
	for _, want := range []string{
		"Tell me about the TechPro Ultrabook",
		"Relevant product information:",
		`"brand": "TechPro"`,
		`"price": 799.99`,
	} {
		if !strings.Contains(recorded.Content, want) {
			t.Fatalf("recorded user turn missing %q:\n%s", want, recorded.Content)
		}
	}
	if newHistory[1].Role != contractx.RoleAssistant || newHistory[1].Content != reply {
		t.Fatalf("unexpected assistant turn: %+v", newHistory[1])
	}

	// The response prompt itself must carry the retrieved block too.
	respondPrompt := oracle.seenMessages[1]
	last := respondPrompt[len(respondPrompt)-1]
	if !strings.Contains(last.Content, `"price": 799.99`) {
		t.Fatalf("response prompt missing product info: %q", last.Content)
	}
}

func TestHandleTurnUnrelatedQueryRecordsRawText(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{
		classifyResp: "safe",
		completions: []string{
			"[]",
			"I can only help with questions about our electronics store.",
		},
	}
	a := newTestAssistant(t, oracle)

	_, newHistory, err := a.HandleTurn(context.Background(), "What's the weather?", nil)
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if len(newHistory) != 2 {
		t.Fatalf("expected two recorded turns, got %d", len(newHistory))
	}
	if newHistory[0].Content != "What's the weather?" {
		t.Fatalf("recorded user turn = %q, want raw input", newHistory[0].Content)
	}
}

func TestHandleTurnParseFailureDegrades(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{
		classifyResp: "safe",
		completions: []string{
			"Sorry, I got confused and answered in prose.",
			"Here to help with our products!",
		},
	}
	a := newTestAssistant(t, oracle)

	reply, newHistory, err := a.HandleTurn(context.Background(), "Compare your laptops", nil)
	if err != nil {
		t.Fatalf("parse failure must degrade, got error %v", err)
	}
	if reply != "Here to help with our products!" {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if newHistory[0].Content != "Compare your laptops" {
		t.Fatalf("recorded user turn = %q, want raw input", newHistory[0].Content)
	}
}

func TestHandleTurnTransportErrorFailsWholeTurn(t *testing.T) {
	t.Parallel()

	boom := fmt.Errorf("%w: connection refused", contractx.ErrOracleInvoke)
	oracle := &fakeOracle{classifyResp: "safe", completeErr: boom}
	a := newTestAssistant(t, oracle)

	history := []contractx.Message{{Role: contractx.RoleUser, Content: "hi"}}
	_, _, err := a.HandleTurn(context.Background(), "Tell me about the TechPro Ultrabook", history)
	if !errors.Is(err, contractx.ErrOracleInvoke) {
		t.Fatalf("expected oracle error, got %v", err)
	}
	if len(history) != 1 {
		t.Fatal("failed turn must not commit partial state")
	}
}

func TestHandleTurnMultiTurnHistoryGrowth(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{
		classifyResp: "safe",
		completions: []string{
			"[]", "first answer",
			"[]", "second answer",
		},
	}
	a := newTestAssistant(t, oracle)

	_, h1, err := a.HandleTurn(context.Background(), "hello", nil)
	if err != nil {
		t.Fatalf("first turn error = %v", err)
	}
	_, h2, err := a.HandleTurn(context.Background(), "and another thing", h1)
	if err != nil {
		t.Fatalf("second turn error = %v", err)
	}
	if len(h1) != 2 || len(h2) != 4 {
		t.Fatalf("history growth wrong: %d then %d", len(h1), len(h2))
	}

	// Second respond prompt must include the first exchange.
	secondRespond := oracle.seenMessages[3]
	if len(secondRespond) != 4 {
		t.Fatalf("expected system+2 history+user, got %d", len(secondRespond))
	}
	if secondRespond[1].Content != "hello" || secondRespond[2].Content != "first answer" {
		t.Fatalf("prior exchange missing from prompt: %+v", secondRespond[1:3])
	}
}
