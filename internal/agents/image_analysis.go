package agents

import (
	"context"

	"server/internal/domain"
)

const imageAnalysisPrompt = `You are an EXPERT Jewellery Analyst and Gemologist.
Your goal is to analyze a product image and provide a highly detailed, technical description of the jewellery piece.
This description will be used by a film crew to recreate the piece in a cinematic video.

Analysis guidelines:
1. Jewellery Type: identify if it is a Ring, Necklace, Earring, Bracelet, etc.
2. Materials: identify the metal (Gold 18k/24k, Platinum, Rose Gold, Silver) and finish (Polished, Brushed, Matte).
3. Gemstones: identify all stones (Diamond, Emerald, Ruby, etc.), their cut (Round, Princess, Oval), setting (Prong, Bezel, Pave), and estimated visual quality.
4. Design & Style: describe the aesthetic (Modern, Vintage, Art Deco, Traditional Indian, Minimalist).
5. Detailed Features: note any engravings, filigree, milgrain, or unique structural elements.
6. Color Palette: describe the dominant colors of the metal and stones.

Constraints:
- Do NOT hallucinate features not visible in the image.
- Be precise with terminology.
- If details are unclear, describe appearance (e.g. "clear stone" instead of "diamond").`

var imageAnalysisSchema = map[string]any{
	"type": "object",
	"required": []string{
		"jewellery_type", "materials", "gemstones", "design_style",
		"detailed_features", "color_palette", "visual_context_summary",
	},
	"properties": map[string]any{
		"jewellery_type":         map[string]any{"type": "string", "description": "Type of jewellery identified"},
		"materials":              map[string]any{"type": "string", "description": "Metal and finish details"},
		"gemstones":              map[string]any{"type": "string", "description": "Stone details, cuts, and settings"},
		"design_style":           map[string]any{"type": "string", "description": "Aesthetic style (Modern, Vintage, etc.)"},
		"detailed_features":      map[string]any{"type": "string", "description": "Engravings, filigree, structural elements"},
		"color_palette":          map[string]any{"type": "string", "description": "Dominant colors"},
		"visual_context_summary": map[string]any{"type": "string", "description": "A concise paragraph summarizing the visual appearance for prompting"},
	},
}

// AnalyzeImage produces the structured visual description consumed by every
// downstream agent. Always runs in vision mode.
func (s *Suite) AnalyzeImage(ctx context.Context, imageBase64 string) (*domain.ImageAnalysisOutput, error) {
	spec := callSpec{
		name:         "ImageAnalysisAgent",
		systemPrompt: imageAnalysisPrompt,
		schema:       imageAnalysisSchema,
	}
	return run[domain.ImageAnalysisOutput](ctx, s.exec, spec,
		"Analyze this jewellery image and provide a technical description.", nil, imageBase64)
}
