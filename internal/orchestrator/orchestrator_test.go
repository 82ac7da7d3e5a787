package orchestrator

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"server/internal/agents"
	"server/internal/domain"
	"server/internal/infra"
	"server/internal/providers/vidu"
	"server/internal/storage"
)

type fakeSuite struct {
	analyzeErr error
	conceptErr error
	directErr  error
	refineErr  error

	qaOutcomes   []*domain.QAAgentOutput
	contOutcomes []*domain.ContinuityControlOutput

	refineInputs []agents.RefineInput
	qaCalls      int
	contCalls    int
}

func (f *fakeSuite) AnalyzeImage(ctx context.Context, imageBase64 string) (*domain.ImageAnalysisOutput, error) {
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	return &domain.ImageAnalysisOutput{
		Materials:            "platinum",
		VisualContextSummary: "a platinum ring with a round brilliant diamond",
	}, nil
}

func (f *fakeSuite) DevelopConcept(ctx context.Context, brief string) (*domain.ConceptOutput, error) {
	if f.conceptErr != nil {
		return nil, f.conceptErr
	}
	return &domain.ConceptOutput{
		Title:               "Eternal Light",
		StorytellingConcept: "light travels through the stone",
		NarrativeFlow:       "reveal, orbit, close-up",
	}, nil
}

func (f *fakeSuite) DirectVisuals(ctx context.Context, concept *domain.ConceptOutput, visualContext string) (*domain.VisualDirectorOutput, error) {
	if f.directErr != nil {
		return nil, f.directErr
	}
	return &domain.VisualDirectorOutput{
		VisualStyleSummary: "macro studio cinematography",
		Scenes: []domain.SceneDetail{
			{SequenceNumber: 1, Description: "slow orbital reveal"},
		},
	}, nil
}

func (f *fakeSuite) RefinePrompt(ctx context.Context, in agents.RefineInput) (*domain.PromptRefinementOutput, error) {
	if f.refineErr != nil {
		return nil, f.refineErr
	}
	f.refineInputs = append(f.refineInputs, in)
	return &domain.PromptRefinementOutput{
		FinalPrompt:       "platinum diamond ring, slow orbit",
		IndividualPrompts: []string{"scene one prompt"},
		Rationale:         "follows the construction strategy",
	}, nil
}

func (f *fakeSuite) ReviewQuality(ctx context.Context, prompt *domain.PromptRefinementOutput, requirements string) (*domain.QAAgentOutput, error) {
	if f.qaCalls >= len(f.qaOutcomes) {
		return nil, errors.New("unexpected qa call")
	}
	out := f.qaOutcomes[f.qaCalls]
	f.qaCalls++
	return out, nil
}

func (f *fakeSuite) AuditContinuity(ctx context.Context, prompt *domain.PromptRefinementOutput, plan *domain.VisualDirectorOutput, isModel bool, videoType domain.VideoType) (*domain.ContinuityControlOutput, error) {
	if f.contCalls >= len(f.contOutcomes) {
		return nil, errors.New("unexpected continuity call")
	}
	out := f.contOutcomes[f.contCalls]
	f.contCalls++
	return out, nil
}

type fakeVideo struct {
	calls    int
	lastReq  vidu.GenerateRequest
	videoURL string
	err      error
}

func (f *fakeVideo) Generate(ctx context.Context, req vidu.GenerateRequest) (*domain.GenerationOutput, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	url := f.videoURL
	if url == "" {
		url = "https://cdn.example.com/video.mp4"
	}
	return &domain.GenerationOutput{VideoURL: url, GenerationID: "job-1", Status: "success"}, nil
}

type fakeRepo struct {
	createErr error
	records   []*domain.GenerationRecord
}

func (f *fakeRepo) Create(ctx context.Context, rec *domain.GenerationRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*domain.GenerationRecord, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeRepo) List(ctx context.Context, limit int) ([]domain.GenerationRecord, error) {
	return nil, nil
}

func qaPass() *domain.QAAgentOutput {
	return &domain.QAAgentOutput{Score: 9.5, Feedback: "excellent", Approved: true}
}

func qaFail() *domain.QAAgentOutput {
	return &domain.QAAgentOutput{Score: 7.0, Feedback: "lighting feels flat", Approved: false}
}

func contPass() *domain.ContinuityControlOutput {
	return &domain.ContinuityControlOutput{Score: 10, Feedback: "all locks present", Approved: true}
}

func contFail() *domain.ContinuityControlOutput {
	return &domain.ContinuityControlOutput{Score: 0, Feedback: "background color not named", ViolationType: "Background Issue", Approved: false}
}

func validRequest() domain.GenerationRequest {
	return domain.GenerationRequest{
		JewelleryType: "diamond ring",
		Gender:        "women",
		VideoType:     domain.VideoTypeEcommerce,
		Duration:      8,
		Base64Image:   "aGVsbG8=",
	}
}

func newTestOrchestrator(t *testing.T, opts Options) *Orchestrator {
	t.Helper()
	if opts.Logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		opts.Logger = &l
	}
	o, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return o
}

func TestGenerateApprovedFirstIteration(t *testing.T) {
	suite := &fakeSuite{
		qaOutcomes:   []*domain.QAAgentOutput{qaPass()},
		contOutcomes: []*domain.ContinuityControlOutput{contPass()},
	}
	video := &fakeVideo{}
	o := newTestOrchestrator(t, Options{Agents: suite, Video: video, MaxIterations: 3})

	resp, err := o.Generate(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.FeedbackIterations != 1 {
		t.Fatalf("FeedbackIterations = %d, want 1", resp.FeedbackIterations)
	}
	if len(suite.refineInputs) != 1 {
		t.Fatalf("refine calls = %d, want 1", len(suite.refineInputs))
	}
	if suite.refineInputs[0].Feedback != "" {
		t.Fatalf("first iteration feedback = %q, want empty", suite.refineInputs[0].Feedback)
	}
	if resp.VideoURL == "" || resp.GenerationID == "" {
		t.Fatalf("response missing video url or generation id: %+v", resp)
	}
	if resp.QAScore != 9.5 {
		t.Fatalf("QAScore = %v, want 9.5", resp.QAScore)
	}
	if video.lastReq.Prompt != "platinum diamond ring, slow orbit" {
		t.Fatalf("video prompt = %q", video.lastReq.Prompt)
	}
	if video.lastReq.Image != "data:image/jpeg;base64,aGVsbG8=" {
		t.Fatalf("video image = %q, want data url", video.lastReq.Image)
	}
}

func TestGenerateQAFeedbackPropagates(t *testing.T) {
	suite := &fakeSuite{
		qaOutcomes:   []*domain.QAAgentOutput{qaFail(), qaPass()},
		contOutcomes: []*domain.ContinuityControlOutput{contPass()},
	}
	video := &fakeVideo{}
	o := newTestOrchestrator(t, Options{Agents: suite, Video: video, MaxIterations: 3})

	resp, err := o.Generate(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.FeedbackIterations != 2 {
		t.Fatalf("FeedbackIterations = %d, want 2", resp.FeedbackIterations)
	}
	if len(suite.refineInputs) != 2 {
		t.Fatalf("refine calls = %d, want 2", len(suite.refineInputs))
	}
	got := suite.refineInputs[1].Feedback
	want := "QA Creative Feedback: lighting feels flat"
	if got != want {
		t.Fatalf("second iteration feedback = %q, want %q", got, want)
	}
	// The continuity gate must not run on a QA-rejected iteration.
	if suite.contCalls != 1 {
		t.Fatalf("continuity calls = %d, want 1", suite.contCalls)
	}
}

func TestGenerateContinuityFeedbackPropagates(t *testing.T) {
	suite := &fakeSuite{
		qaOutcomes:   []*domain.QAAgentOutput{qaPass(), qaPass()},
		contOutcomes: []*domain.ContinuityControlOutput{contFail(), contPass()},
	}
	video := &fakeVideo{}
	o := newTestOrchestrator(t, Options{Agents: suite, Video: video, MaxIterations: 3})

	resp, err := o.Generate(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.FeedbackIterations != 2 {
		t.Fatalf("FeedbackIterations = %d, want 2", resp.FeedbackIterations)
	}
	got := suite.refineInputs[1].Feedback
	want := "STRICT RULE VIOLATION (Background Issue): background color not named"
	if got != want {
		t.Fatalf("second iteration feedback = %q, want %q", got, want)
	}
}

func TestGenerateProceedsWhenBudgetExhausted(t *testing.T) {
	suite := &fakeSuite{
		qaOutcomes: []*domain.QAAgentOutput{qaFail(), qaFail(), qaFail()},
	}
	video := &fakeVideo{}
	o := newTestOrchestrator(t, Options{Agents: suite, Video: video, MaxIterations: 3})

	resp, err := o.Generate(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.FeedbackIterations != 3 {
		t.Fatalf("FeedbackIterations = %d, want 3", resp.FeedbackIterations)
	}
	if suite.contCalls != 0 {
		t.Fatalf("continuity calls = %d, want 0", suite.contCalls)
	}
	if video.calls != 1 {
		t.Fatalf("video calls = %d, want 1 (best-effort fallthrough)", video.calls)
	}
	if resp.QAScore != 7.0 {
		t.Fatalf("QAScore = %v, want last qa score 7.0", resp.QAScore)
	}
}

func TestGenerateProceedsWhenContinuityNeverApproves(t *testing.T) {
	suite := &fakeSuite{
		qaOutcomes:   []*domain.QAAgentOutput{qaPass(), qaPass(), qaPass()},
		contOutcomes: []*domain.ContinuityControlOutput{contFail(), contFail(), contFail()},
	}
	video := &fakeVideo{}
	o := newTestOrchestrator(t, Options{Agents: suite, Video: video, MaxIterations: 3})

	resp, err := o.Generate(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.FeedbackIterations != 3 {
		t.Fatalf("FeedbackIterations = %d, want 3", resp.FeedbackIterations)
	}
	if video.calls != 1 {
		t.Fatalf("video calls = %d, want exactly 1", video.calls)
	}
	if len(suite.refineInputs) != 3 {
		t.Fatalf("refine calls = %d, want 3", len(suite.refineInputs))
	}
	for i := 1; i < 3; i++ {
		if !strings.HasPrefix(suite.refineInputs[i].Feedback, "STRICT RULE VIOLATION (") {
			t.Fatalf("iteration %d feedback = %q, want continuity prefix", i+1, suite.refineInputs[i].Feedback)
		}
	}
}

func TestGenerateRejectsInvalidRequest(t *testing.T) {
	suite := &fakeSuite{}
	video := &fakeVideo{}
	o := newTestOrchestrator(t, Options{Agents: suite, Video: video})

	req := validRequest()
	req.Duration = 9
	if _, err := o.Generate(context.Background(), req); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("Generate() error = %v, want ErrInvalidRequest", err)
	}
	if video.calls != 0 {
		t.Fatalf("video calls = %d, want 0", video.calls)
	}
}

func TestGenerateAbortsOnConceptFailure(t *testing.T) {
	suite := &fakeSuite{conceptErr: errors.New("model unavailable")}
	video := &fakeVideo{}
	o := newTestOrchestrator(t, Options{Agents: suite, Video: video})

	if _, err := o.Generate(context.Background(), validRequest()); err == nil {
		t.Fatal("Generate() error = nil, want concept failure")
	}
	if video.calls != 0 {
		t.Fatalf("video calls = %d, want 0", video.calls)
	}
}

func TestGenerateSurvivesRepositoryFailure(t *testing.T) {
	suite := &fakeSuite{
		qaOutcomes:   []*domain.QAAgentOutput{qaPass()},
		contOutcomes: []*domain.ContinuityControlOutput{contPass()},
	}
	video := &fakeVideo{}
	repo := &fakeRepo{createErr: errors.New("connection refused")}
	o := newTestOrchestrator(t, Options{Agents: suite, Video: video, Repo: repo})

	if _, err := o.Generate(context.Background(), validRequest()); err != nil {
		t.Fatalf("Generate() error = %v, want persistence to be best-effort", err)
	}
}

func TestGenerateRecordsToRepository(t *testing.T) {
	suite := &fakeSuite{
		qaOutcomes:   []*domain.QAAgentOutput{qaPass()},
		contOutcomes: []*domain.ContinuityControlOutput{contPass()},
	}
	video := &fakeVideo{}
	repo := &fakeRepo{}
	o := newTestOrchestrator(t, Options{Agents: suite, Video: video, Repo: repo})

	resp, err := o.Generate(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(repo.records) != 1 {
		t.Fatalf("records = %d, want 1", len(repo.records))
	}
	rec := repo.records[0]
	if rec.ID != resp.GenerationID {
		t.Fatalf("record id = %q, want %q", rec.ID, resp.GenerationID)
	}
	if rec.QAScore != 9.5 || rec.Iterations != 1 {
		t.Fatalf("record = %+v, want qa_score 9.5 and 1 iteration", rec)
	}
}

func TestGeneratePersistsArtifactsAndVideo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("fake-mp4-bytes"))
	}))
	defer srv.Close()

	suite := &fakeSuite{
		qaOutcomes:   []*domain.QAAgentOutput{qaPass()},
		contOutcomes: []*domain.ContinuityControlOutput{contPass()},
	}
	video := &fakeVideo{videoURL: srv.URL + "/video.mp4"}

	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	o := newTestOrchestrator(t, Options{
		Agents:     suite,
		Video:      video,
		Store:      store,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	})

	resp, err := o.Generate(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	dir := filepath.Join(store.BasePath(), resp.GenerationID)
	for _, name := range []string{"concept.json", "visual_plan.json", "final_prompt.json", "qa_output.json", "continuity_output.json", "video.mp4"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("artifact %s missing: %v", name, err)
		}
	}
	data, err := os.ReadFile(filepath.Join(dir, "video.mp4"))
	if err != nil {
		t.Fatalf("read video: %v", err)
	}
	if string(data) != "fake-mp4-bytes" {
		t.Fatalf("video content = %q", data)
	}
}

func TestBuildBriefIncludesContext(t *testing.T) {
	suite := &fakeSuite{}
	o := newTestOrchestrator(t, Options{Agents: suite, Video: &fakeVideo{}})

	req := validRequest()
	req.ProductDescription = "three-stone setting with pave band"
	req.IsModel = true
	analysis := &domain.ImageAnalysisOutput{VisualContextSummary: "platinum band, round brilliant center stone"}

	brief := o.buildBrief(req, analysis)
	for _, want := range []string{
		"Diamond Ring",
		"Women",
		"8 seconds",
		"three-stone setting with pave band",
		"worn by a human model",
		"platinum band, round brilliant center stone",
	} {
		if !strings.Contains(brief, want) {
			t.Fatalf("brief missing %q:\n%s", want, brief)
		}
	}
}

func TestImageDataURL(t *testing.T) {
	if got := imageDataURL("aGVsbG8="); got != "data:image/jpeg;base64,aGVsbG8=" {
		t.Fatalf("imageDataURL(raw) = %q", got)
	}
	if got := imageDataURL("data:image/png;base64,xyz"); got != "data:image/png;base64,xyz" {
		t.Fatalf("imageDataURL(data url) = %q", got)
	}
	if got := imageDataURL("https://example.com/a.jpg"); got != "https://example.com/a.jpg" {
		t.Fatalf("imageDataURL(http url) = %q", got)
	}
}
