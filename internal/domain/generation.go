package domain

import (
	"fmt"
	"strings"
	"time"
)

// VideoType enumerates the supported commercial styles.
type VideoType string

const (
	VideoTypeEcommerce VideoType = "ecommerce"
	VideoTypeUGC       VideoType = "ugc"
)

// GenerationRequest is the inbound contract for one video generation. It is
// created once per request and owned by the orchestrator for its lifetime.
type GenerationRequest struct {
	ProductDescription string    `json:"product_description,omitempty"`
	JewelleryType      string    `json:"jewellery_type"`
	Gender             string    `json:"gender"`
	VideoType          VideoType `json:"video_type"`
	Duration           int       `json:"duration"`
	Base64Image        string    `json:"base64_image"`
	IsMusic            bool      `json:"is_music"`
	IsModel            bool      `json:"is_model"`
	IsModelConsistency bool      `json:"is_model_consistency"`
	ReferenceVideo     string    `json:"reference_video,omitempty"`
}

// Validate checks the request against the inbound contract. It returns
// ErrInvalidRequest wrapped with the first failing field.
func (r *GenerationRequest) Validate() error {
	if strings.TrimSpace(r.JewelleryType) == "" {
		return fmt.Errorf("%w: jewellery_type is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.Gender) == "" {
		return fmt.Errorf("%w: gender is required", ErrInvalidRequest)
	}
	switch r.VideoType {
	case VideoTypeEcommerce, VideoTypeUGC:
	default:
		return fmt.Errorf("%w: video_type must be %q or %q", ErrInvalidRequest, VideoTypeEcommerce, VideoTypeUGC)
	}
	if r.Duration != 8 && r.Duration != 12 {
		return fmt.Errorf("%w: duration must be 8 or 12 seconds", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.Base64Image) == "" {
		return fmt.Errorf("%w: base64_image is required", ErrInvalidRequest)
	}
	return nil
}

// GenerationResponse is returned to the caller after the pipeline completes.
type GenerationResponse struct {
	VideoURL           string                `json:"video_url"`
	GenerationID       string                `json:"generation_id"`
	Status             string                `json:"status"`
	Concept            *ConceptOutput        `json:"concept"`
	VisualPlan         *VisualDirectorOutput `json:"visual_plan"`
	FinalPrompt        string                `json:"final_prompt"`
	IndividualPrompts  []string              `json:"individual_prompts"`
	QAScore            float64               `json:"qa_score"`
	FeedbackIterations int                   `json:"feedback_iterations"`
}

// GenerationRecord is the relational projection of a completed request.
// Recording is best-effort; the pipeline never fails on repository errors.
type GenerationRecord struct {
	ID            string
	JewelleryType string
	Gender        string
	VideoType     VideoType
	Status        string
	VideoURL      string
	FinalPrompt   string
	QAScore       float64
	Iterations    int
	CreatedAt     time.Time
}
