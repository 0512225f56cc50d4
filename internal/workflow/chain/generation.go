package chain

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	llmctx "professor-ai-api/internal/domain/service"
	wfmodel "professor-ai-api/internal/workflow/model"
	workflowport "professor-ai-api/internal/workflow/port"
	workflowprompt "professor-ai-api/internal/workflow/prompt"
)

var defaultPromptRegistry = workflowprompt.NewRegistry()

// GenerationChain runs one task generation: format the task's prompt
// template, call the chat model once, return the raw message. No retries
// and no output parsing; the caller stores the text as-is.
type GenerationChain struct {
	factory workflowport.ChatModelFactory

	chainOnce sync.Once
	chain     compose.Runnable[*wfmodel.GenerationInput, *schema.Message]
	chainErr  error
}

func NewGenerationChain(factory workflowport.ChatModelFactory) *GenerationChain {
	return &GenerationChain{factory: factory}
}

func (c *GenerationChain) Invoke(ctx context.Context, in *wfmodel.GenerationInput) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}

	chain, err := c.getChain()
	if err != nil {
		return nil, err
	}
	return chain.Invoke(ctx, in)
}

type generationChainState struct {
	In       *wfmodel.GenerationInput
	Messages []*schema.Message
	OutMsg   *schema.Message
}

func (c *GenerationChain) getChain() (compose.Runnable[*wfmodel.GenerationInput, *schema.Message], error) {
	c.chainOnce.Do(func() {
		c.chain, c.chainErr = c.buildChain(context.Background())
	})
	return c.chain, c.chainErr
}

func (c *GenerationChain) buildChain(ctx context.Context) (compose.Runnable[*wfmodel.GenerationInput, *schema.Message], error) {
	chain := compose.NewChain[*wfmodel.GenerationInput, *schema.Message]()

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, in *wfmodel.GenerationInput) (*generationChainState, error) {
			if in == nil {
				return nil, fmt.Errorf("input is nil")
			}
			return &generationChainState{In: in}, nil
		}),
		compose.WithNodeName("generation.init"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *generationChainState) (*generationChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			msgs, err := formatGenerationMessages(ctx, st.In)
			if err != nil {
				return nil, err
			}
			st.Messages = msgs
			return st, nil
		}),
		compose.WithNodeName("generation.template"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *generationChainState) (*generationChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			if c.factory == nil {
				return nil, fmt.Errorf("llm factory not configured")
			}

			ctx = llmctx.WithWorkflowProvider(ctx, string(st.In.Task), strings.TrimSpace(st.In.Provider))
			chatModel, err := c.factory.Get(ctx, strings.TrimSpace(st.In.Provider))
			if err != nil {
				return nil, err
			}

			outMsg, err := chatModel.Generate(ctx, st.Messages, buildGenerationModelOptions(st.In)...)
			if err != nil {
				return nil, err
			}
			if outMsg == nil {
				return nil, fmt.Errorf("empty llm response")
			}
			st.OutMsg = outMsg
			return st, nil
		}),
		compose.WithNodeName("generation.llm"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, st *generationChainState) (*schema.Message, error) {
			if st == nil || st.OutMsg == nil {
				return nil, fmt.Errorf("state is nil")
			}
			return st.OutMsg, nil
		}),
		compose.WithNodeName("generation.finalize"),
	)

	return chain.Compile(ctx)
}

func formatGenerationMessages(ctx context.Context, in *wfmodel.GenerationInput) ([]*schema.Message, error) {
	id, err := workflowprompt.ForTask(in.Task)
	if err != nil {
		return nil, err
	}
	tpl, err := defaultPromptRegistry.ChatTemplate(id)
	if err != nil {
		return nil, err
	}
	return tpl.Format(ctx, in.Vars)
}

func buildGenerationModelOptions(in *wfmodel.GenerationInput) []model.Option {
	opts := make([]model.Option, 0, 3)
	if in == nil {
		return opts
	}
	if in.Temperature != nil {
		opts = append(opts, model.WithTemperature(*in.Temperature))
	}
	if in.MaxTokens != nil {
		opts = append(opts, model.WithMaxTokens(*in.MaxTokens))
	}
	if strings.TrimSpace(in.Model) != "" {
		opts = append(opts, model.WithModel(strings.TrimSpace(in.Model)))
	}
	return opts
}

// SystemPrompt exposes embedded system texts to other layers (chat).
func SystemPrompt(id workflowprompt.PromptID) (string, error) {
	return defaultPromptRegistry.SystemText(id)
}
