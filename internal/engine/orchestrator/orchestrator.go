// Package orchestrator runs the bounded tool-calling loop for one
// conversation turn: compose instructions, call the model through the
// resilience governor, execute requested capabilities, fold their results
// into the session, and repeat until the model answers in prose or the
// iteration budget runs out.
package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	errx "github.com/careguide-ai/server/internal/core/error"
	"github.com/careguide-ai/server/internal/engine/extract"
	"github.com/careguide-ai/server/internal/engine/llm"
	"github.com/careguide-ai/server/internal/engine/model"
	"github.com/careguide-ai/server/internal/engine/prompt"
	"github.com/careguide-ai/server/internal/engine/resilience"
	"github.com/careguide-ai/server/internal/engine/tools"
	logx "github.com/careguide-ai/server/pkg/logger"
)

// modelDependency is the governor dependency name for model transport calls.
const modelDependency = "model"

const wrapUpNotice = "This is the final planning step. Do not request any " +
	"more capabilities. Answer the patient now with what you already know, " +
	"and say plainly which facts you could not verify."

// Orchestrator is safe for concurrent use across conversations; all
// per-conversation state lives in the TurnRequest.
type Orchestrator struct {
	provider llm.Provider
	registry *tools.Registry
	governor *resilience.Governor
	loop     model.LoopConfig

	// remote holds capability names the loop records but never executes;
	// an outer layer owns their execution.
	remote map[string]bool
}

// New wires an orchestrator. remoteCapabilities lists capability names to
// record without executing, typically "web_search".
func New(provider llm.Provider, registry *tools.Registry, governor *resilience.Governor, loop model.LoopConfig, remoteCapabilities []string) *Orchestrator {
	remote := make(map[string]bool, len(remoteCapabilities))
	for _, name := range remoteCapabilities {
		remote[name] = true
	}
	return &Orchestrator{
		provider: provider,
		registry: registry,
		governor: governor,
		loop:     loop,
		remote:   remote,
	}
}

// RunTurn executes one user turn to completion. On success the returned
// result carries the reply text, quick-reply suggestions, the updated
// session, and the transcript messages appended this turn. The session is
// mutated in place even on some failure paths; callers decide whether to
// persist it.
func (o *Orchestrator) RunTurn(ctx context.Context, req model.TurnRequest) (*model.TurnResult, error) {
	state := req.Session
	if state == nil {
		state = model.NewSessionState()
	}

	extract.ApplyUserText(req.UserMessage, state)
	triggers := prompt.DetectTriggers(conversationText(req.History, req.UserMessage), state)
	instructions := prompt.Compose(triggers, state)

	messages := make([]*schema.Message, 0, len(req.History)+2)
	messages = append(messages, schema.SystemMessage(instructions))
	messages = append(messages, req.History...)
	messages = append(messages, schema.UserMessage(req.UserMessage))
	turnStart := len(messages) - 1

	var capabilitiesUsed []string
	callSeq := 0

	for iteration := 1; iteration <= o.loop.MaxIterations; iteration++ {
		if iteration == o.loop.MaxIterations {
			messages = append(messages, schema.SystemMessage(wrapUpNotice))
		}

		reply, err := o.generate(ctx, messages)
		if err != nil {
			logx.Error().
				Str("conversation_id", req.ConversationID).
				Int("iteration", iteration).
				Err(err).
				Msg("Model call failed; turn aborted")
			return nil, err
		}

		// The transport may omit tool call IDs; transcript continuation
		// needs them to pair calls with responses.
		for i := range reply.ToolCalls {
			if reply.ToolCalls[i].ID == "" {
				callSeq++
				reply.ToolCalls[i].ID = fmt.Sprintf("call_%d", callSeq)
			}
		}
		messages = append(messages, reply)

		local := o.splitCalls(reply.ToolCalls, &capabilitiesUsed)
		logx.Info().
			Str("conversation_id", req.ConversationID).
			Int("iteration", iteration).
			Int("tool_calls", len(reply.ToolCalls)).
			Int("local_calls", len(local)).
			Interface("session", state.Redacted()).
			Msg("Loop iteration complete")

		if len(local) == 0 {
			return o.finalize(req, reply, state, capabilitiesUsed, messages[turnStart:]), nil
		}

		if !state.HasCoreIntake() {
			logx.Warn().
				Str("conversation_id", req.ConversationID).
				Msg("Capability invoked before core intake is complete")
		}
		for _, call := range local {
			messages = append(messages, o.invoke(ctx, call, state))
		}
	}

	logx.Error().
		Str("conversation_id", req.ConversationID).
		Int("max_iterations", o.loop.MaxIterations).
		Msg("Iteration budget exhausted without a final answer")
	return nil, errx.ToolLoopExceeded(o.loop.MaxIterations)
}

// generate performs one governed model call under the iteration timeout.
func (o *Orchestrator) generate(ctx context.Context, messages []*schema.Message) (*schema.Message, error) {
	iterCtx, cancel := context.WithTimeout(ctx, o.loop.IterationTimeout)
	defer cancel()

	var reply *schema.Message
	err := o.governor.Execute(iterCtx, modelDependency, func(ctx context.Context) error {
		r, err := o.provider.Generate(ctx, messages)
		if err != nil {
			return err
		}
		reply = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reply, nil
}

// splitCalls records every requested capability and returns only the ones
// this loop executes. Remote capabilities are recorded for the caller and
// skipped here.
func (o *Orchestrator) splitCalls(calls []schema.ToolCall, used *[]string) []schema.ToolCall {
	var local []schema.ToolCall
	for _, call := range calls {
		name := call.Function.Name
		*used = appendUniqueName(*used, name)
		if o.remote[name] {
			logx.Info().
				Str("capability", name).
				Str("arguments", call.Function.Arguments).
				Msg("Remote capability recorded, not executed")
			continue
		}
		local = append(local, call)
	}
	return local
}

// invoke runs one local capability and returns its transcript message.
// Results fold into the session only on success; a failed result still
// goes back to the model so it can adjust. Each capability gets a bounded
// number of invocations per conversation, so the model cannot burn the
// iteration budget re-running a search that keeps coming back empty.
func (o *Orchestrator) invoke(ctx context.Context, call schema.ToolCall, state *model.SessionState) *schema.Message {
	name := call.Function.Name
	attempts := state.RecordSearchAttempt(name)
	if o.loop.MaxToolAttempts > 0 && attempts > o.loop.MaxToolAttempts {
		logx.Warn().
			Str("capability", name).
			Int("attempts", attempts).
			Msg("Capability attempt limit reached; not executed")
		result := model.FailResult(fmt.Sprintf("attempt limit reached for %s; answer with what you already know", name))
		return schema.ToolMessage(result.Encode(), call.ID)
	}

	result := o.registry.Execute(ctx, name, call.Function.Arguments)
	if result.Success {
		extract.FoldToolResult(name, result, state)
	} else {
		logx.Warn().
			Str("capability", name).
			Int("attempts", attempts).
			Str("error", result.Error).
			Msg("Capability returned a failed result")
	}
	return schema.ToolMessage(result.Encode(), call.ID)
}

func (o *Orchestrator) finalize(req model.TurnRequest, reply *schema.Message, state *model.SessionState, capabilitiesUsed []string, turnMessages []*schema.Message) *model.TurnResult {
	finalText, suggestions := extract.ExtractSuggestions(reply.Content)
	extract.ApplyAssistantText(finalText, state)

	logx.Info().
		Str("conversation_id", req.ConversationID).
		Int("suggestions", len(suggestions)).
		Strs("capabilities", capabilitiesUsed).
		Interface("session", state.Redacted()).
		Msg("Turn complete")

	return &model.TurnResult{
		FinalText:        finalText,
		Suggestions:      suggestions,
		Session:          state,
		CapabilitiesUsed: capabilitiesUsed,
		Messages:         turnMessages,
	}
}

// conversationText joins the transcript prose with the new user message so
// trigger keywords from earlier turns keep steering composition.
func conversationText(history []*schema.Message, userMessage string) string {
	var b strings.Builder
	for _, msg := range history {
		if (msg.Role == schema.User || msg.Role == schema.Assistant) && msg.Content != "" {
			b.WriteString(msg.Content)
			b.WriteByte('\n')
		}
	}
	b.WriteString(userMessage)
	return b.String()
}

func appendUniqueName(names []string, name string) []string {
	for _, n := range names {
		if n == name {
			return names
		}
	}
	return append(names, name)
}
