package domain

import "fmt"

// QAApprovalThreshold is the minimum quality score for approval. The same
// value gates "proceed without further iteration" in the refinement loop.
const QAApprovalThreshold = 9.0

// ContinuityPassScore is the only passing continuity score. The continuity
// audit is all-or-nothing: any violation drives the score to zero.
const ContinuityPassScore = 10.0

// ImageAnalysisOutput is the structured visual description of the product.
type ImageAnalysisOutput struct {
	JewelleryType        string `json:"jewellery_type"`
	Materials            string `json:"materials"`
	Gemstones            string `json:"gemstones"`
	DesignStyle          string `json:"design_style"`
	DetailedFeatures     string `json:"detailed_features"`
	ColorPalette         string `json:"color_palette"`
	VisualContextSummary string `json:"visual_context_summary"`
}

func (o *ImageAnalysisOutput) Validate() error {
	if o.VisualContextSummary == "" {
		return fmt.Errorf("visual_context_summary is required")
	}
	if o.Materials == "" {
		return fmt.Errorf("materials is required")
	}
	return nil
}

// ConceptOutput is the creative framing produced once per request.
type ConceptOutput struct {
	Title                string `json:"title"`
	StorytellingConcept  string `json:"storytelling_concept"`
	AestheticDirection   string `json:"aesthetic_direction"`
	LightingMood         string `json:"lighting_mood"`
	ProductFocusStrategy string `json:"product_focus_strategy"`
	NarrativeFlow        string `json:"narrative_flow"`
}

func (o *ConceptOutput) Validate() error {
	if o.Title == "" {
		return fmt.Errorf("title is required")
	}
	if o.StorytellingConcept == "" {
		return fmt.Errorf("storytelling_concept is required")
	}
	if o.NarrativeFlow == "" {
		return fmt.Errorf("narrative_flow is required")
	}
	return nil
}

// SceneDetail is one entry of the visual director's ordered shot plan.
type SceneDetail struct {
	SequenceNumber   int      `json:"sequence_number"`
	Description      string   `json:"description"`
	CameraAngle      string   `json:"camera_angle"`
	CameraMovement   string   `json:"camera_movement"`
	LightingSetup    string   `json:"lighting_setup"`
	FocusPoints      []string `json:"focus_points"`
	DurationEstimate float64  `json:"duration_estimate"`
}

// VisualDirectorOutput is the technical shot plan produced once per request.
type VisualDirectorOutput struct {
	VisualStyleSummary string        `json:"visual_style_summary"`
	Scenes             []SceneDetail `json:"scenes"`
	TechnicalNotes     string        `json:"technical_notes"`
}

func (o *VisualDirectorOutput) Validate() error {
	if o.VisualStyleSummary == "" {
		return fmt.Errorf("visual_style_summary is required")
	}
	if len(o.Scenes) == 0 {
		return fmt.Errorf("at least one scene is required")
	}
	for i, scene := range o.Scenes {
		if scene.Description == "" {
			return fmt.Errorf("scene %d: description is required", i+1)
		}
	}
	return nil
}

// PromptRefinementOutput is regenerated on every refinement iteration.
type PromptRefinementOutput struct {
	FinalPrompt       string   `json:"final_prompt"`
	IndividualPrompts []string `json:"individual_prompts"`
	Rationale         string   `json:"rationale"`
	NegativePrompt    string   `json:"negative_prompt,omitempty"`
}

func (o *PromptRefinementOutput) Validate() error {
	if o.FinalPrompt == "" {
		return fmt.Errorf("final_prompt is required")
	}
	if o.Rationale == "" {
		return fmt.Errorf("rationale is required")
	}
	return nil
}

// QAAgentOutput is the graded creative evaluation for one iteration.
type QAAgentOutput struct {
	Score          float64  `json:"score"`
	Feedback       string   `json:"feedback"`
	CritiquePoints []string `json:"critique_points"`
	Approved       bool     `json:"approved"`
}

// Validate checks the score range and recomputes the approval flag so the
// invariant approved == (score >= QAApprovalThreshold) holds regardless of
// what the model claimed.
func (o *QAAgentOutput) Validate() error {
	if o.Score < 0 || o.Score > 10 {
		return fmt.Errorf("score %.1f out of range [0, 10]", o.Score)
	}
	if o.Feedback == "" {
		return fmt.Errorf("feedback is required")
	}
	o.Approved = o.Score >= QAApprovalThreshold
	return nil
}

// ContinuityControlOutput is the binary-gate compliance record. It is only
// produced for prompts the QA gate has already approved.
type ContinuityControlOutput struct {
	Score         float64 `json:"score"`
	Feedback      string  `json:"feedback"`
	ViolationType string  `json:"violation_type,omitempty"`
	Approved      bool    `json:"approved"`
}

// Validate snaps the score to the binary contract: anything short of a
// perfect score counts as zero, and approval follows the score alone.
func (o *ContinuityControlOutput) Validate() error {
	if o.Feedback == "" {
		return fmt.Errorf("feedback is required")
	}
	if o.Score != ContinuityPassScore {
		o.Score = 0
	}
	o.Approved = o.Score == ContinuityPassScore
	return nil
}

// GenerationOutput is the terminal result of the remote video job.
type GenerationOutput struct {
	VideoURL     string `json:"video_url"`
	GenerationID string `json:"generation_id"`
	Status       string `json:"status"`
}
