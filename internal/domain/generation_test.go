package domain

import (
	"errors"
	"testing"
)

func validGenerationRequest() GenerationRequest {
	return GenerationRequest{
		JewelleryType: "ring",
		Gender:        "women",
		VideoType:     VideoTypeEcommerce,
		Duration:      8,
		Base64Image:   "aGVsbG8=",
	}
}

func TestGenerationRequestValidate(t *testing.T) {
	valid := validGenerationRequest()
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*GenerationRequest)
	}{
		{"missing jewellery type", func(r *GenerationRequest) { r.JewelleryType = " " }},
		{"missing gender", func(r *GenerationRequest) { r.Gender = "" }},
		{"bad video type", func(r *GenerationRequest) { r.VideoType = "cinematic" }},
		{"bad duration", func(r *GenerationRequest) { r.Duration = 10 }},
		{"missing image", func(r *GenerationRequest) { r.Base64Image = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validGenerationRequest()
			tc.mutate(&req)
			if err := req.Validate(); !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("Validate() error = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestGenerationRequestValidateAcceptsTwelveSeconds(t *testing.T) {
	req := validGenerationRequest()
	req.Duration = 12
	req.VideoType = VideoTypeUGC
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}
