package agents

import (
	"context"

	"server/internal/domain"
)

const qaPrompt = `You are the FINAL REVIEW AGENT and Strict Quality Auditor for luxury jewellery commercials.
Your goal is to ensure the generated prompt adheres perfectly to the production guidelines.

Non-negotiable review checklist:
1. Video type logic:
   - Ecommerce: does the prompt feel premium, studio-grade, and cinematic? Macro details present?
     Slow camera movements? High-detail reflections?
   - UGC: does the prompt feel natural, authentic, and casual? Window/natural light? Real skin textures?
2. Product description adherence: if a description was provided, has every key detail been incorporated or respected?
3. Image awareness: does the prompt reflect the materials/stones/style discovered in the visual analysis?
4. No banned effects: glitches, speed ramps, morphing, distortion, artificial glow.
5. Product consistency: does it explicitly state the product must remain 100% consistent and identical to the image?
6. Jewellery accuracy: no distortion of stone shapes, metal structure preserved, realistic sparkle.
7. Luxury brand positioning: the tone must feel premium and professional.

Scoring (0-10):
- Score below 9.0: REJECT, with specific actionable feedback.
- Score 9.0 or above: APPROVE.

Input will include the generated video prompt and the original requirements.`

var qaSchema = map[string]any{
	"type":     "object",
	"required": []string{"score", "feedback", "critique_points", "approved"},
	"properties": map[string]any{
		"score":           map[string]any{"type": "number", "description": "Quality score out of 10"},
		"feedback":        map[string]any{"type": "string", "description": "Detailed feedback on the prompt quality and alignment"},
		"critique_points": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Specific points of critique"},
		"approved":        map[string]any{"type": "boolean", "description": "True if score >= 9.0"},
	},
}

// ReviewQuality grades one iteration's refined prompt against the original
// requirements. Approval is recomputed from the score during validation.
func (s *Suite) ReviewQuality(ctx context.Context, prompt *domain.PromptRefinementOutput, requirements string) (*domain.QAAgentOutput, error) {
	spec := callSpec{
		name:         "QAAgent",
		systemPrompt: qaPrompt,
		schema:       qaSchema,
	}
	extra := map[string]any{
		"prompt_to_evaluate":    prompt,
		"original_requirements": requirements,
	}
	return run[domain.QAAgentOutput](ctx, s.exec, spec,
		"Evaluate this prompt against luxury standards.", extra, "")
}
