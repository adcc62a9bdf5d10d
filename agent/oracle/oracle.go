// Package oracle adapts the OpenAI SDK client to the pipeline's Oracle
// contract. Every call is attempted exactly once; deadlines and retries
// belong to the HTTP transport underneath.
package oracle

import (
	"context"
	"errors"
	"fmt"

	openaisdk "github.com/openai/openai-go"

	contractx "github.com/jirayus/storeline-service-agent/agent/contract"
)

type Client struct {
	api *openaisdk.Client
}

var _ contractx.Oracle = (*Client)(nil)

func New(api *openaisdk.Client) (*Client, error) {
	if api == nil {
		return nil, errors.New("openai client is required")
	}
	return &Client{api: api}, nil
}

func (c *Client) ChatCompletion(
	ctx context.Context,
	model string,
	messages []contractx.Message,
	temperature float64,
) (string, error) {
	params := openaisdk.ChatCompletionNewParams{
		Model:       openaisdk.ChatModel(model),
		Messages:    toParamMessages(messages),
		Temperature: openaisdk.Float(temperature),
	}

	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: chat completion model=%s: %v", contractx.ErrOracleInvoke, model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: chat completion model=%s returned no choices", contractx.ErrOracleInvoke, model)
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) SafetyClassify(ctx context.Context, model string, text string) (string, error) {
	params := openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.UserMessage(text),
		},
	}

	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: safety classify model=%s: %v", contractx.ErrOracleInvoke, model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: safety classify model=%s returned no choices", contractx.ErrOracleInvoke, model)
	}
	return resp.Choices[0].Message.Content, nil
}

func toParamMessages(messages []contractx.Message) []openaisdk.ChatCompletionMessageParamUnion {
	out := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case contractx.RoleSystem:
			out = append(out, openaisdk.SystemMessage(m.Content))
		case contractx.RoleAssistant:
			out = append(out, openaisdk.AssistantMessage(m.Content))
		default:
			out = append(out, openaisdk.UserMessage(m.Content))
		}
	}
	return out
}
