package conversation

import (
	"context"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatCompleter struct {
	resp openai.ChatCompletionResponse
	last openai.ChatCompletionRequest
}

func (f *fakeChatCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.last = req
	return f.resp, nil
}

func TestOpenAICompleteMapsRolesAndUsage(t *testing.T) {
	fake := &fakeChatCompleter{resp: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message:      openai.ChatCompletionMessage{Content: "  answer  "},
			FinishReason: openai.FinishReasonStop,
		}},
		Usage: openai.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}}
	c := newOpenAIClientWith(fake, "gpt-4o-mini")

	resp, err := c.Complete(context.Background(), LLMRequest{
		System: []string{"be brief"},
		Messages: []ChatMessage{
			{Role: ChatRoleUser, Content: "hi"},
			{Role: ChatRoleAssistant, Content: "hello"},
			{Role: ChatRoleUser, Content: "book me in"},
		},
		MaxTokens:   100,
		Temperature: 0.3,
	})
	require.NoError(t, err)

	assert.Equal(t, "answer", resp.Text)
	assert.Equal(t, int32(15), resp.Usage.TotalTokens)

	require.Len(t, fake.last.Messages, 4)
	assert.Equal(t, openai.ChatMessageRoleSystem, fake.last.Messages[0].Role)
	assert.Equal(t, openai.ChatMessageRoleAssistant, fake.last.Messages[2].Role)
	assert.Equal(t, "gpt-4o-mini", fake.last.Model)
}

func TestOpenAICompleteRejectsEmptyRequest(t *testing.T) {
	c := newOpenAIClientWith(&fakeChatCompleter{}, "gpt-4o-mini")
	_, err := c.Complete(context.Background(), LLMRequest{})
	assert.Error(t, err)
}

func TestNewOpenAIClientRequiresKey(t *testing.T) {
	_, err := NewOpenAILLMClient("", "gpt-4o-mini")
	assert.Error(t, err)
}
