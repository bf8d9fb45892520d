// Package agent runs a hosted-model tool loop: post the task, let the model
// request tool calls, execute them, feed the outputs back, and repeat until
// the model answers with text.
package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ToolFunc executes one tool call. The returned string is handed to the
// model verbatim, so implementations should return JSON.
type ToolFunc func(ctx context.Context, args json.RawMessage) (string, error)

// Tool pairs a function definition the model sees with the code that backs
// it.
type Tool struct {
	Definition llms.FunctionDefinition
	Run        ToolFunc
}

type RunnerConfig struct {
	BaseURL     string
	Token       string
	Model       string
	Temperature float64
	MaxTurns    int
}

type Runner struct {
	config RunnerConfig
	llm    llms.Model
	tools  []llms.Tool
	byName map[string]ToolFunc

	// OnToolCall, when set, observes each dispatched tool call.
	OnToolCall func(name, arguments string)
}

func NewWithConfig(config RunnerConfig, tools ...Tool) (*Runner, error) {
	opts := []openai.Option{}
	if config.Model != "" {
		opts = append(opts, openai.WithModel(config.Model))
	}
	if config.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(config.BaseURL))
	}
	if config.Token != "" {
		opts = append(opts, openai.WithToken(config.Token))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize agent model: %w", err)
	}
	return NewWithModel(config, llm, tools...), nil
}

// NewWithModel wires a runner over an already-constructed model. Tests use
// this with a fake.
func NewWithModel(config RunnerConfig, model llms.Model, tools ...Tool) *Runner {
	if config.MaxTurns == 0 {
		config.MaxTurns = 20
	}

	r := &Runner{
		config: config,
		llm:    model,
		byName: make(map[string]ToolFunc, len(tools)),
	}
	for _, t := range tools {
		def := t.Definition
		r.tools = append(r.tools, llms.Tool{Type: "function", Function: &def})
		r.byName[t.Definition.Name] = t.Run
	}
	return r
}

// RunResult is the final answer of one agent run.
type RunResult struct {
	ID        string
	Output    string
	ToolCalls int
}

// Run drives the tool loop for one task until the model produces a text
// answer or the turn budget runs out. Tool failures are reported back to
// the model as error payloads; the loop keeps going.
func (r *Runner) Run(ctx context.Context, instructions, task string) (*RunResult, error) {
	result := &RunResult{ID: uuid.NewString()}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, instructions),
		llms.TextParts(llms.ChatMessageTypeHuman, task),
	}

	for turn := 0; turn < r.config.MaxTurns; turn++ {
		resp, err := r.llm.GenerateContent(ctx, messages,
			llms.WithTools(r.tools),
			llms.WithTemperature(r.config.Temperature),
		)
		if err != nil {
			return nil, fmt.Errorf("agent generation failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("agent returned no choices")
		}

		choice := resp.Choices[0]
		if len(choice.ToolCalls) == 0 {
			result.Output = choice.Content
			return result, nil
		}

		assistant := llms.MessageContent{Role: llms.ChatMessageTypeAI}
		for _, tc := range choice.ToolCalls {
			assistant.Parts = append(assistant.Parts, tc)
		}
		messages = append(messages, assistant)

		for _, tc := range choice.ToolCalls {
			output := r.dispatch(ctx, tc)
			messages = append(messages, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{llms.ToolCallResponse{
					ToolCallID: tc.ID,
					Name:       tc.FunctionCall.Name,
					Content:    output,
				}},
			})
			result.ToolCalls++
		}
	}

	return nil, fmt.Errorf("agent did not finish within %d turns", r.config.MaxTurns)
}

func (r *Runner) dispatch(ctx context.Context, tc llms.ToolCall) string {
	name := tc.FunctionCall.Name
	args := tc.FunctionCall.Arguments
	if args == "" {
		args = "{}"
	}

	if r.OnToolCall != nil {
		r.OnToolCall(name, args)
	}

	fn, ok := r.byName[name]
	if !ok {
		return errorPayload(fmt.Sprintf("unknown tool %s", name))
	}
	out, err := fn(ctx, json.RawMessage(args))
	if err != nil {
		return errorPayload(err.Error())
	}
	return out
}

func errorPayload(msg string) string {
	encoded, _ := json.Marshal(map[string]string{"error": msg})
	return string(encoded)
}
