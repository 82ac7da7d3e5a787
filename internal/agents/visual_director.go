package agents

import (
	"context"

	"server/internal/domain"
)

const visualDirectorPrompt = `You are an EXPERT Director of Photography specializing in High-End Jewellery Cinematography.
Your goal is to translate a concept into a precise, technical visual production plan.

Core visual standards (NON-NEGOTIABLE):
1. Product consistency (THE GOLDEN RULE): the jewellery piece is the HERO and must remain 100% CONSISTENT
   in shape, size, color, stone placement, and design proportions throughout the video. No morphing,
   no redesign, no distortion, no "melting" effects. The product must look IDENTICAL to the reference
   image in every single frame. Sparkle and reflections must be physically accurate.

ECOMMERCE direction:
- Lighting: realistic studio-grade lighting, focused spotlights, golden rim light, product clearly isolated
  against a SOLID, CONTRASTING background, soft depth of field, accurate gold and diamond sparkle reflections.
- Camera: slow cinematic dolly-in, gentle 360 orbital rotation (PREFERRED for product-only), close-up macro
  sparkle shots (100mm macro, f/2.8), smooth product reveal transitions, controlled slow motion.
  BANNED: fast zoom, aggressive rotation, shaky cam, quick cuts, variable speed rotation.
- Grading: high-contrast, premium, rich; clean whites and deep blacks; no heavy filters.

UGC direction:
- Lighting: natural daylight (window lighting preferred), warm natural tones, golden hour feel; no studio setups.
- Camera: subtle handheld movement (stable but natural), casual angles (eye-level, over-the-shoulder, mirror
  selfie perspective), 50mm-85mm lens, focus pull to jewellery detail. BANNED: studio dolly, crane shots.
- Grading: warm natural tones, true-to-life, real skin texture, no artificial smoothing.

Model integration (if is_model is true): balanced framing, jewellery first and model second; elegant, natural behavior.

Output guidelines: define the overall mood in visual_style_summary, break the video into cohesive scenes,
and record lens focal length, f-stop, and lighting modifiers in technical_notes.

Input will be the concept JSON plus the product's visual analysis summary.`

var visualDirectorSchema = map[string]any{
	"type":     "object",
	"required": []string{"visual_style_summary", "scenes", "technical_notes"},
	"properties": map[string]any{
		"visual_style_summary": map[string]any{"type": "string", "description": "Overall visual cohesion plan"},
		"scenes": map[string]any{
			"type":        "array",
			"description": "Scene-by-scene breakdown",
			"items": map[string]any{
				"type": "object",
				"required": []string{
					"sequence_number", "description", "camera_angle", "camera_movement",
					"lighting_setup", "focus_points", "duration_estimate",
				},
				"properties": map[string]any{
					"sequence_number":   map[string]any{"type": "integer"},
					"description":       map[string]any{"type": "string", "description": "Detailed visual description of the scene"},
					"camera_angle":      map[string]any{"type": "string", "description": "Camera angle (e.g. macro, wide, panning)"},
					"camera_movement":   map[string]any{"type": "string", "description": "Movement description (e.g. slow zoom in, dolly track)"},
					"lighting_setup":    map[string]any{"type": "string", "description": "Specific lighting for this shot"},
					"focus_points":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Specific details to focus on"},
					"duration_estimate": map[string]any{"type": "number", "description": "Estimated duration in seconds"},
				},
			},
		},
		"technical_notes": map[string]any{"type": "string", "description": "Notes on reflection, texture, and stone physics"},
	},
}

// DirectVisuals converts the concept into an ordered technical shot plan.
func (s *Suite) DirectVisuals(ctx context.Context, concept *domain.ConceptOutput, visualContext string) (*domain.VisualDirectorOutput, error) {
	spec := callSpec{
		name:         "VisualDirectorAgent",
		systemPrompt: visualDirectorPrompt,
		schema:       visualDirectorSchema,
	}
	extra := map[string]any{
		"concept":         concept,
		"visual_analysis": visualContext,
	}
	return run[domain.VisualDirectorOutput](ctx, s.exec, spec,
		"Create a technical visual production plan for this concept.", extra, "")
}
