package chain

import (
	"context"
	"fmt"
	"strings"

	"professor-ai-api/internal/config"
	wfmodel "professor-ai-api/internal/workflow/model"
)

// Runner adapts the generation chain for the application layer, filling in
// the configured default provider and model when the input leaves them out.
type Runner struct {
	chain *GenerationChain
	llm   *config.LLMConfig
}

func NewRunner(chain *GenerationChain, cfg *config.Config) *Runner {
	return &Runner{chain: chain, llm: &cfg.LLM}
}

func (r *Runner) Run(ctx context.Context, in *wfmodel.GenerationInput) (text, provider, model string, err error) {
	if in == nil {
		return "", "", "", fmt.Errorf("input is nil")
	}

	provider = strings.TrimSpace(in.Provider)
	if provider == "" {
		provider = r.llm.DefaultProvider
	}
	model = strings.TrimSpace(in.Model)
	if model == "" {
		if providerCfg, ok := r.llm.Providers[provider]; ok {
			model = providerCfg.Model
		}
	}

	msg, err := r.chain.Invoke(ctx, in)
	if err != nil {
		return "", "", "", err
	}
	return msg.Content, provider, model, nil
}
