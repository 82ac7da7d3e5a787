package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"server/internal/agents"
	"server/internal/domain"
	"server/internal/infra"
	"server/internal/providers/vidu"
	"server/internal/storage"
)

// AgentSuite is the orchestrator's view of the specialized agents. It is
// satisfied by *agents.Suite and stubbed in tests.
type AgentSuite interface {
	AnalyzeImage(ctx context.Context, imageBase64 string) (*domain.ImageAnalysisOutput, error)
	DevelopConcept(ctx context.Context, brief string) (*domain.ConceptOutput, error)
	DirectVisuals(ctx context.Context, concept *domain.ConceptOutput, visualContext string) (*domain.VisualDirectorOutput, error)
	RefinePrompt(ctx context.Context, in agents.RefineInput) (*domain.PromptRefinementOutput, error)
	ReviewQuality(ctx context.Context, prompt *domain.PromptRefinementOutput, requirements string) (*domain.QAAgentOutput, error)
	AuditContinuity(ctx context.Context, prompt *domain.PromptRefinementOutput, plan *domain.VisualDirectorOutput, isModel bool, videoType domain.VideoType) (*domain.ContinuityControlOutput, error)
}

// VideoGenerator produces the final video from the approved prompt. It is
// satisfied by *vidu.Client.
type VideoGenerator interface {
	Generate(ctx context.Context, req vidu.GenerateRequest) (*domain.GenerationOutput, error)
}

// Options wires the orchestrator's collaborators. Store and Repo may be nil;
// persistence is best-effort and skipped when the backend is absent.
type Options struct {
	Agents        AgentSuite
	Video         VideoGenerator
	Store         *storage.FileStore
	Repo          domain.GenerationRepository
	Logger        *infra.Logger
	MaxIterations int
	HTTPClient    *http.Client
}

// Orchestrator runs the full generation pipeline: image analysis, concept,
// visual direction, the bounded QA/continuity refinement loop, video
// generation, and best-effort asset persistence.
type Orchestrator struct {
	agents        AgentSuite
	video         VideoGenerator
	store         *storage.FileStore
	repo          domain.GenerationRepository
	logger        *infra.Logger
	maxIterations int
	httpClient    *http.Client
	titleCaser    cases.Caser
}

// New constructs an Orchestrator.
func New(opts Options) (*Orchestrator, error) {
	if opts.Agents == nil {
		return nil, errors.New("orchestrator: agent suite is required")
	}
	if opts.Video == nil {
		return nil, errors.New("orchestrator: video generator is required")
	}
	if opts.Logger == nil {
		return nil, errors.New("orchestrator: logger is required")
	}
	maxIterations := opts.MaxIterations
	if maxIterations < 1 {
		maxIterations = 3
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	return &Orchestrator{
		agents:        opts.Agents,
		video:         opts.Video,
		store:         opts.Store,
		repo:          opts.Repo,
		logger:        opts.Logger,
		maxIterations: maxIterations,
		httpClient:    httpClient,
		titleCaser:    cases.Title(language.English),
	}, nil
}

// pipelineArtifacts collects everything worth persisting for one generation.
type pipelineArtifacts struct {
	Concept    *domain.ConceptOutput
	VisualPlan *domain.VisualDirectorOutput
	Prompt     *domain.PromptRefinementOutput
	QA         *domain.QAAgentOutput
	Continuity *domain.ContinuityControlOutput
}

// Generate runs the pipeline for one validated request. Agent and video
// failures abort the pipeline; persistence failures are logged and ignored.
func (o *Orchestrator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	generationID := uuid.NewString()
	logger := o.logger.With().Str("generation_id", generationID).Logger()
	start := time.Now()

	logger.Info().
		Str("jewellery_type", req.JewelleryType).
		Str("video_type", string(req.VideoType)).
		Int("duration", req.Duration).
		Bool("is_model", req.IsModel).
		Msg("starting generation pipeline")

	analysis, err := o.agents.AnalyzeImage(ctx, req.Base64Image)
	if err != nil {
		return nil, fmt.Errorf("image analysis: %w", err)
	}

	brief := o.buildBrief(req, analysis)
	concept, err := o.agents.DevelopConcept(ctx, brief)
	if err != nil {
		return nil, fmt.Errorf("concept development: %w", err)
	}
	logger.Info().Str("concept_title", concept.Title).Msg("concept developed")

	plan, err := o.agents.DirectVisuals(ctx, concept, analysis.VisualContextSummary)
	if err != nil {
		return nil, fmt.Errorf("visual direction: %w", err)
	}
	logger.Info().Int("scenes", len(plan.Scenes)).Msg("visual plan ready")

	artifacts := pipelineArtifacts{Concept: concept, VisualPlan: plan}
	iterations, err := o.refine(ctx, req, brief, &artifacts, &logger)
	if err != nil {
		return nil, err
	}

	out, err := o.video.Generate(ctx, vidu.GenerateRequest{
		Prompt:    artifacts.Prompt.FinalPrompt,
		Image:     imageDataURL(req.Base64Image),
		VideoType: req.VideoType,
		Duration:  req.Duration,
		IsMusic:   req.IsMusic,
		IsModel:   req.IsModel,
	})
	if err != nil {
		return nil, fmt.Errorf("video generation: %w", err)
	}

	o.persist(ctx, generationID, req, artifacts, out, iterations, &logger)

	logger.Info().
		Dur("elapsed", time.Since(start)).
		Int("iterations", iterations).
		Msg("pipeline completed")

	var qaScore float64
	if artifacts.QA != nil {
		qaScore = artifacts.QA.Score
	}
	return &domain.GenerationResponse{
		VideoURL:           out.VideoURL,
		GenerationID:       generationID,
		Status:             out.Status,
		Concept:            concept,
		VisualPlan:         plan,
		FinalPrompt:        artifacts.Prompt.FinalPrompt,
		IndividualPrompts:  artifacts.Prompt.IndividualPrompts,
		QAScore:            qaScore,
		FeedbackIterations: iterations,
	}, nil
}

// refine runs the bounded QA/continuity loop. The continuity audit is only
// reached once QA approves; a rejection by either gate becomes the next
// iteration's feedback. When the budget is exhausted the last refined prompt
// is kept and the pipeline proceeds.
func (o *Orchestrator) refine(ctx context.Context, req domain.GenerationRequest, requirements string, artifacts *pipelineArtifacts, logger *infra.Logger) (int, error) {
	feedback := ""
	iterations := 0

	for i := 1; i <= o.maxIterations; i++ {
		iterations = i

		prompt, err := o.agents.RefinePrompt(ctx, agents.RefineInput{
			Concept:          artifacts.Concept,
			VisualPlan:       artifacts.VisualPlan,
			Feedback:         feedback,
			ReferenceVideo:   req.ReferenceVideo,
			ModelConsistency: req.IsModelConsistency,
		})
		if err != nil {
			return iterations, fmt.Errorf("prompt refinement (iteration %d): %w", i, err)
		}
		artifacts.Prompt = prompt

		qa, err := o.agents.ReviewQuality(ctx, prompt, requirements)
		if err != nil {
			return iterations, fmt.Errorf("qa review (iteration %d): %w", i, err)
		}
		artifacts.QA = qa

		if !qa.Approved {
			feedback = "QA Creative Feedback: " + qa.Feedback
			logger.Warn().
				Int("iteration", i).
				Float64("qa_score", qa.Score).
				Msg("qa rejected prompt, refining")
			continue
		}

		cont, err := o.agents.AuditContinuity(ctx, prompt, artifacts.VisualPlan, req.IsModel, req.VideoType)
		if err != nil {
			return iterations, fmt.Errorf("continuity audit (iteration %d): %w", i, err)
		}
		artifacts.Continuity = cont

		if !cont.Approved {
			feedback = fmt.Sprintf("STRICT RULE VIOLATION (%s): %s", cont.ViolationType, cont.Feedback)
			logger.Warn().
				Int("iteration", i).
				Str("violation_type", cont.ViolationType).
				Msg("continuity audit rejected prompt, refining")
			continue
		}

		logger.Info().
			Int("iteration", i).
			Float64("qa_score", qa.Score).
			Msg("prompt approved by both gates")
		return iterations, nil
	}

	logger.Warn().
		Int("iterations", iterations).
		Msg("refinement budget exhausted, proceeding with last prompt")
	return iterations, nil
}

// buildBrief composes the creative brief passed to the concept and QA agents.
func (o *Orchestrator) buildBrief(req domain.GenerationRequest, analysis *domain.ImageAnalysisOutput) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Create a luxury %s video commercial concept for a %s designed for %s.",
		req.VideoType, o.titleCaser.String(req.JewelleryType), o.titleCaser.String(req.Gender))
	fmt.Fprintf(sb, " Target duration: %d seconds.", req.Duration)
	if desc := strings.TrimSpace(req.ProductDescription); desc != "" {
		fmt.Fprintf(sb, " Product description: %s.", strings.TrimSuffix(desc, "."))
	}
	if req.IsModel {
		sb.WriteString(" The jewellery is showcased worn by a human model.")
	} else {
		sb.WriteString(" Product-only showcase, no people in frame.")
	}
	if analysis != nil && analysis.VisualContextSummary != "" {
		fmt.Fprintf(sb, " Visual analysis of the product image: %s", analysis.VisualContextSummary)
	}
	return sb.String()
}

// persist writes the artifact bundle and the relational record. Every failure
// here is logged and swallowed: the caller already has a video URL.
func (o *Orchestrator) persist(ctx context.Context, generationID string, req domain.GenerationRequest, artifacts pipelineArtifacts, out *domain.GenerationOutput, iterations int, logger *infra.Logger) {
	if o.store != nil {
		files := map[string]any{
			"concept.json":      artifacts.Concept,
			"visual_plan.json":  artifacts.VisualPlan,
			"final_prompt.json": artifacts.Prompt,
		}
		if artifacts.QA != nil {
			files["qa_output.json"] = artifacts.QA
		}
		if artifacts.Continuity != nil {
			files["continuity_output.json"] = artifacts.Continuity
		}
		for name, v := range files {
			if _, err := o.store.WriteJSON(ctx, generationID+"/"+name, v); err != nil {
				logger.Warn().Err(err).Str("artifact", name).Msg("failed to persist artifact")
			}
		}
		if err := o.downloadVideo(ctx, generationID, out.VideoURL); err != nil {
			logger.Warn().Err(err).Msg("failed to persist video file")
		}
	}

	if o.repo != nil {
		var qaScore float64
		if artifacts.QA != nil {
			qaScore = artifacts.QA.Score
		}
		rec := &domain.GenerationRecord{
			ID:            generationID,
			JewelleryType: req.JewelleryType,
			Gender:        req.Gender,
			VideoType:     req.VideoType,
			Status:        out.Status,
			VideoURL:      out.VideoURL,
			FinalPrompt:   artifacts.Prompt.FinalPrompt,
			QAScore:       qaScore,
			Iterations:    iterations,
		}
		if err := o.repo.Create(ctx, rec); err != nil {
			logger.Warn().Err(err).Msg("failed to record generation")
		}
	}
}

// downloadVideo fetches the generated video and stores it beside the JSON
// artifacts.
func (o *Orchestrator) downloadVideo(ctx context.Context, generationID, videoURL string) error {
	if videoURL == "" {
		return errors.New("no video url to download")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, videoURL, nil)
	if err != nil {
		return err
	}
	resp, err := o.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("video download returned status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	_, err = o.store.Write(ctx, generationID+"/video.mp4", data)
	return err
}

// imageDataURL normalizes a raw base64 payload into a data URL. Values that
// are already URLs or data URLs pass through untouched.
func imageDataURL(image string) string {
	if strings.HasPrefix(image, "http") || strings.HasPrefix(image, "data:") {
		return image
	}
	return "data:image/jpeg;base64," + image
}

var (
	_ AgentSuite     = (*agents.Suite)(nil)
	_ VideoGenerator = (*vidu.Client)(nil)
)
