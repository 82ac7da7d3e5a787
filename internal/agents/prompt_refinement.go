package agents

import (
	"context"

	"server/internal/domain"
)

const promptRefinementPrompt = `You are an EXPERT AI Prompt Engineer specializing in Text-to-Video generation for Luxury Jewellery Commercials.
Your goal is to synthesize creative concepts and visual direction into a single, high-fidelity prompt optimized for WaveSpeed Vidu Q3.

Golden rule: jewellery is the HERO. Everything else supports it. Keep it simple. Keep it premium.

Prompt construction strategy — use this EXACT sequence, do NOT skip any block:
[Subject Description] + [Action/Movement] + [Background Lock] + [Lighting Mood] + [Camera Tech] + [Style/Aesthetic] + [Product Consistency Lock] + [Background Consistency Lock]

Background color/surface selection (MANDATORY — always resolve to a SPECIFIC color and texture):
- Silver / Platinum / White Gold / Diamonds -> "deep slate gray textured stone (#1C1C1C)"
- Yellow Gold / Rose Gold / Emeralds / Rubies / warm stones -> "light ash gray silk fabric (#E8E8E8)"
- Mixed (e.g. diamond-set yellow gold) -> "polished smoke gray marble (#2F2F2F)"
- Unknown / default -> "rich charcoal gray textured stone (#121212)"
Always name the exact color and texture; the background phrase MUST appear at least TWICE in the final prompt —
once in the scene description and once in the Background Consistency Lock block.

Visual tech specs (MANDATORY): photorealistic 4k masterpiece, RAW photo clarity, 100mm f/2.8 macro lens,
stable tripod or slider movement, professional 3-point studio lighting (ecommerce) or natural window light (UGC),
ultra-slow motion 120fps, majestic cinematic movement, manual focus precision, ultra-smooth bokeh.

Both LOCK blocks MUST appear at the end of the prompt, after all creative direction:
- PRODUCT CONSISTENCY ABSOLUTE LOCK: jewellery piece is 100% identical to reference image in every frame —
  exact same metal colour, exact same stone count and placement, exact same shape and proportions, static
  product geometry throughout, no morphing, no redesign, no extra stones, no missing stones, no size drift,
  no style drift, subject locked to reference image, preserve all engraving and filigree details.
- BACKGROUND CONSISTENCY ABSOLUTE LOCK: background is [SPECIFIC COLOR] (hex [HEX]) and does NOT change in any
  frame — zero background colour drift, zero texture change, background remains perfectly uniform from frame 0
  to final frame, background and product do NOT swap or blend at any point.
- MODEL CONSISTENCY LOCK (include ONLY if model consistency is enabled): the human model's facial features,
  hair style, skin tone, and body proportions remain 100% identical in every frame; zero facial morphing.

Never include these words; counter them explicitly instead: morphing, shifting geometry, melting, cartoonish,
low resolution, blurry, fast motion, shaky camera, extra stones, changing colors, overexposed, artificial blur,
flickering, speeding up, aggressive rotation, background colour change, background drift.

Handling feedback: "too dark" -> bright high-key lighting; "too artificial" -> RAW photo cinematic realism;
"too fast" -> super slow motion 0.25x majestic drift; "background changed" -> re-state the background lock with
stronger language; "product changed shape" -> add geometry-frozen jewellery, identical to source frame.

In addition to final_prompt you MUST fill individual_prompts with one self-contained prompt per scene of the
visual plan, each following the construction strategy but tailored to that scene's camera movement and focus.

Input context includes: concept, visual_plan, previous_feedback (if any), reference_video_path (if provided,
use it to maintain style continuity), and model_consistency_enabled.`

var promptRefinementSchema = map[string]any{
	"type":     "object",
	"required": []string{"final_prompt", "individual_prompts", "rationale"},
	"properties": map[string]any{
		"final_prompt":       map[string]any{"type": "string", "description": "The optimized prompt for the video generation model"},
		"individual_prompts": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "A breakdown of prompts for each individual scene or segment"},
		"rationale":          map[string]any{"type": "string", "description": "Explanation of why this prompt structure was chosen"},
		"negative_prompt":    map[string]any{"type": "string", "description": "Elements to avoid"},
	},
}

// RefineInput carries everything one refinement iteration depends on. The
// feedback field holds the previous iteration's rejecting-gate text and is
// empty on the first pass.
type RefineInput struct {
	Concept          *domain.ConceptOutput
	VisualPlan       *domain.VisualDirectorOutput
	Feedback         string
	ReferenceVideo   string
	ModelConsistency bool
}

// RefinePrompt regenerates the generation prompt, folding in prior gate
// feedback when present.
func (s *Suite) RefinePrompt(ctx context.Context, in RefineInput) (*domain.PromptRefinementOutput, error) {
	spec := callSpec{
		name:         "PromptRefinementAgent",
		systemPrompt: promptRefinementPrompt,
		schema:       promptRefinementSchema,
	}
	extra := map[string]any{
		"concept":                   in.Concept,
		"visual_plan":               in.VisualPlan,
		"model_consistency_enabled": in.ModelConsistency,
	}
	if in.Feedback != "" {
		extra["previous_feedback"] = in.Feedback
	}
	if in.ReferenceVideo != "" {
		extra["reference_video_path"] = in.ReferenceVideo
	}
	return run[domain.PromptRefinementOutput](ctx, s.exec, spec,
		"Generate an optimized video prompt based on the provided inputs.", extra, "")
}
