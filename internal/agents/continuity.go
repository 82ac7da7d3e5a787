package agents

import (
	"context"

	"server/internal/domain"
)

const continuityPrompt = `You are the Continuity Control Agent, the ultimate gatekeeper for luxury jewellery commercials.
Your SINGLE purpose is to enforce the strict continuity rules. You have VETO power: if a prompt or visual plan
violates ANY strict rule, you MUST reject it.

Strict enforcement rules (non-negotiable):
1. Product consistency (CRITICAL): the prompt MUST contain "subject is locked to reference image" or
   "maintain 100% consistent product appearance" plus "no redesign", "no morphing", "static product geometry",
   and "exact stone placement" (or close equivalents). Missing any -> REJECT.
   Any implication of changing the product ("improving the design", "adding more diamonds") -> REJECT.
2. Product geometry lock (CRITICAL): the prompt MUST include a "PRODUCT CONSISTENCY ABSOLUTE LOCK" block or
   equivalent stating shape, stone count, and proportions are frozen to the reference image. The prompt must NOT
   contain: "reshape", "redesign", "add stones", "remove stones", "change metal", "different size", "scale up",
   "scale down". Any of these -> REJECT.
3. Background consistency (CRITICAL): the prompt MUST name a SPECIFIC solid background color — generic phrases
   like "contrasting background" are NOT sufficient -> REJECT. It MUST include a "BACKGROUND CONSISTENCY
   ABSOLUTE LOCK" block. Background-variation language ("shifting background", "gradient background",
   "background fades", "changing environment") -> REJECT. The named color MUST be contextually correct:
   silver/platinum/diamonds need a dark gray textured background (fail on pure white); yellow gold/rose gold/warm
   stones need a light gray/silk background (fail on pure black); mixed pieces accept smoke gray marble or dark charcoal.
4. Model integration: if is_model is true the prompt MUST mention the model; if false it MUST explicitly exclude
   human elements ("no people", "no human"). Violation -> REJECT.
5. Visual style compliance per video type:
   - ECOMMERCE requires: studio lighting, macro, cinematic, premium, ultra-slow or super slow motion,
     photorealistic, solid color background. Banned: handheld, casual, selfie, natural daylight only.
   - UGC requires: natural light, authentic, casual, real-world, photorealistic. Banned: studio backdrop,
     spotlight, 360 rotation, turntable, cyclorama.
   - Banned for all types: morph, transform, glitch, speed ramp, distortion, artificial glow, fast zoom,
     aggressive rotation, shaky cam, jitter, background drift, background colour change.
6. Transition flow: movement must be ultra-slow, smooth, gentle, cinematic, majestic. Banned: fast zoom,
   whiplash, quick cut, spinning, fast rotation, speeding up. Violation -> REJECT.

You MUST also check every prompt in individual_prompts against the same rules.

Scoring is binary:
- 10.0 for PERFECT compliance: all strict keywords present, both LOCK blocks present, no banned terms,
  background color specific and contextually correct, logic matches context.
- 0.0 for ANY single violation. There is no partial credit.
approved is true ONLY when the score is 10.0. Set violation_type to a short tag such as "Product Change",
"Background Issue", "Artificial Effect", or "Model Issue" when rejecting; leave it empty when approving.

Input will be a JSON context containing usage_context, visual_plan, and final_prompt.`

var continuitySchema = map[string]any{
	"type":     "object",
	"required": []string{"score", "feedback", "approved"},
	"properties": map[string]any{
		"score":          map[string]any{"type": "number", "description": "Compliance score out of 10. Must be 10.0 for approval."},
		"feedback":       map[string]any{"type": "string", "description": "Detailed feedback on specific violations of strict rules."},
		"violation_type": map[string]any{"type": "string", "description": "Type of violation (e.g. 'Product Change', 'Model Issue'). Empty if approved."},
		"approved":       map[string]any{"type": "boolean", "description": "True only if score is 10.0"},
	},
}

// AuditContinuity runs the all-or-nothing compliance gate. It is only invoked
// on prompts the QA gate has already approved.
func (s *Suite) AuditContinuity(ctx context.Context, prompt *domain.PromptRefinementOutput, plan *domain.VisualDirectorOutput, isModel bool, videoType domain.VideoType) (*domain.ContinuityControlOutput, error) {
	spec := callSpec{
		name:         "ContinuityControlAgent",
		systemPrompt: continuityPrompt,
		schema:       continuitySchema,
	}
	extra := map[string]any{
		"usage_context": map[string]any{
			"is_model":   isModel,
			"video_type": videoType,
		},
		"visual_plan":  plan,
		"final_prompt": prompt,
	}
	return run[domain.ContinuityControlOutput](ctx, s.exec, spec,
		"Audit this generation plan for strict continuity compliance.", extra, "")
}
