package model

import "professor-ai-api/internal/domain/entity"

// GenerationInput carries everything one generation run needs: the task
// kind, the already-validated template variables and the model overrides.
type GenerationInput struct {
	Task entity.TaskKind
	// Vars feeds the task's chat template. Keys match the template
	// placeholders, values are already rendered strings.
	Vars map[string]any

	Provider    string
	Model       string
	Temperature *float32
	MaxTokens   *int
}
