package agent_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/supplysift/supplysift/pkg/agent"
)

// scriptedModel replays canned responses and records what it was asked.
type scriptedModel struct {
	responses []*llms.ContentResponse
	calls     int
	messages  [][]llms.MessageContent
}

func (m *scriptedModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.messages = append(m.messages, messages)
	resp := m.responses[m.calls]
	m.calls++
	return resp, nil
}

func (m *scriptedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", nil
}

func textResponse(text string) *llms.ContentResponse {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: text}},
	}
}

func toolCallResponse(id, name, arguments string) *llms.ContentResponse {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			ToolCalls: []llms.ToolCall{{
				ID:   id,
				Type: "function",
				FunctionCall: &llms.FunctionCall{
					Name:      name,
					Arguments: arguments,
				},
			}},
		}},
	}
}

func echoTool(name string, invoked *json.RawMessage) agent.Tool {
	return agent.Tool{
		Definition: llms.FunctionDefinition{
			Name:        name,
			Description: "echoes its arguments",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{"query": map[string]any{"type": "string"}},
			},
		},
		Run: func(ctx context.Context, args json.RawMessage) (string, error) {
			*invoked = args
			return `{"ok": true}`, nil
		},
	}
}

func TestRunToolLoop(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse("call-1", "web_search", `{"query": "acme"}`),
		textResponse("Acme is a Benelux logistics supplier."),
	}}

	var invoked json.RawMessage
	runner := agent.NewWithModel(agent.RunnerConfig{}, model, echoTool("web_search", &invoked))

	var observed []string
	runner.OnToolCall = func(name, arguments string) {
		observed = append(observed, name)
	}

	result, err := runner.Run(context.Background(), "You research suppliers.", "Research Acme.")
	require.NoError(t, err)

	assert.Equal(t, "Acme is a Benelux logistics supplier.", result.Output)
	assert.Equal(t, 1, result.ToolCalls)
	assert.NotEmpty(t, result.ID)
	assert.JSONEq(t, `{"query": "acme"}`, string(invoked))
	assert.Equal(t, []string{"web_search"}, observed)

	// The second turn must carry the assistant's tool call and the tool
	// response back to the model.
	require.Equal(t, 2, model.calls)
	secondTurn := model.messages[1]
	require.Len(t, secondTurn, 4)
	assert.Equal(t, llms.ChatMessageTypeAI, secondTurn[2].Role)
	assert.Equal(t, llms.ChatMessageTypeTool, secondTurn[3].Role)
}

func TestRunUnknownToolReportsError(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse("call-1", "does_not_exist", `{}`),
		textResponse("done"),
	}}

	runner := agent.NewWithModel(agent.RunnerConfig{}, model)

	result, err := runner.Run(context.Background(), "instructions", "task")
	require.NoError(t, err)
	assert.Equal(t, "done", result.Output)

	// The model saw an error payload, not a crash.
	toolMsg := model.messages[1][3]
	resp, ok := toolMsg.Parts[0].(llms.ToolCallResponse)
	require.True(t, ok)
	assert.Contains(t, resp.Content, "error")
}

func TestRunTurnBudget(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse("call-1", "web_search", `{}`),
		toolCallResponse("call-2", "web_search", `{}`),
	}}

	var invoked json.RawMessage
	runner := agent.NewWithModel(agent.RunnerConfig{MaxTurns: 2}, model, echoTool("web_search", &invoked))

	_, err := runner.Run(context.Background(), "instructions", "task")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 turns")
}

func TestNewWithConfigDefaults(t *testing.T) {
	runner, err := agent.NewWithConfig(agent.RunnerConfig{Token: "test-token"})
	require.NoError(t, err)
	assert.NotNil(t, runner)
}
