package port

import (
	"context"

	"github.com/cloudwego/eino/components/model"
)

// ChatModelFactory is the workflow layer's minimal dependency on LLM
// chat models (port).
type ChatModelFactory interface {
	Get(ctx context.Context, name string) (model.BaseChatModel, error)
}
