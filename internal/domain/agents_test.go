package domain

import "testing"

func TestQAAgentOutputValidateRecomputesApproval(t *testing.T) {
	cases := []struct {
		name     string
		score    float64
		claimed  bool
		approved bool
	}{
		{"above threshold claimed false", 9.5, false, true},
		{"exactly threshold", 9.0, false, true},
		{"below threshold claimed true", 8.9, true, false},
		{"zero", 0, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := QAAgentOutput{Score: tc.score, Feedback: "some feedback", Approved: tc.claimed}
			if err := out.Validate(); err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if out.Approved != tc.approved {
				t.Fatalf("Approved = %v, want %v for score %v", out.Approved, tc.approved, tc.score)
			}
		})
	}
}

func TestQAAgentOutputValidateRejectsBadInput(t *testing.T) {
	out := QAAgentOutput{Score: 11, Feedback: "x"}
	if err := out.Validate(); err == nil {
		t.Fatal("Validate() = nil, want out-of-range error")
	}
	out = QAAgentOutput{Score: 5}
	if err := out.Validate(); err == nil {
		t.Fatal("Validate() = nil, want missing feedback error")
	}
}

func TestContinuityControlOutputValidateSnapsScore(t *testing.T) {
	cases := []struct {
		name      string
		score     float64
		wantScore float64
		approved  bool
	}{
		{"perfect", 10, 10, true},
		{"near miss snaps to zero", 9.9, 0, false},
		{"partial credit snaps to zero", 5, 0, false},
		{"zero stays zero", 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := ContinuityControlOutput{Score: tc.score, Feedback: "audit notes", Approved: !tc.approved}
			if err := out.Validate(); err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if out.Score != tc.wantScore {
				t.Fatalf("Score = %v, want %v", out.Score, tc.wantScore)
			}
			if out.Approved != tc.approved {
				t.Fatalf("Approved = %v, want %v", out.Approved, tc.approved)
			}
		})
	}
}

func TestVisualDirectorOutputValidate(t *testing.T) {
	out := VisualDirectorOutput{VisualStyleSummary: "macro studio"}
	if err := out.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for empty scene list")
	}
	out.Scenes = []SceneDetail{{SequenceNumber: 1}}
	if err := out.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for scene without description")
	}
	out.Scenes[0].Description = "slow reveal"
	if err := out.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}
