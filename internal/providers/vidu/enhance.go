package vidu

import (
	"fmt"
	"strings"

	"server/internal/domain"
)

// Background describes the exact backdrop to lock the generation to. The
// description sentence is used verbatim in the prompt so every layer speaks
// the same language and the video model never gets mixed signals.
type Background struct {
	Color       string
	Hex         string
	Description string
	Surface     string
}

// Light/white metals and clear stones take a very dark backdrop for maximum
// contrast; warm/dark metals and coloured stones take a light neutral one.
// The prompt refinement agent's instructions state the same mapping — keep
// the two in sync.
var (
	lightMetalKeywords = []string{
		"silver", "platinum", "white gold", "palladium",
		"diamond", "moissanite", "white sapphire", "clear stone",
	}
	warmMetalKeywords = []string{
		"yellow gold", "rose gold", "22k gold", "18k gold", "24k gold",
		"emerald", "ruby", "red stone", "green stone", "antique gold",
		"bronze", "copper tone",
	}
)

// ResolveBackground inspects the prompt for metal/stone keywords and picks a
// contrasting backdrop. Resolved once per generation and reused everywhere.
func ResolveBackground(prompt string) Background {
	p := strings.ToLower(prompt)

	isLight := containsAny(p, lightMetalKeywords)
	isWarm := containsAny(p, warmMetalKeywords)

	switch {
	case isLight && !isWarm:
		return Background{
			Color: "deep slate gray",
			Hex:   "#1C1C1C",
			Description: "premium textured deep slate gray stone surface, realistic mineral grain, " +
				"high-end matte stone finish, zero background variation, " +
				"perfectly stable stone texture, no color drift, background locked to #1C1C1C stone throughout",
			Surface: "textured slate gray stone cyclorama",
		}
	case isWarm && !isLight:
		return Background{
			Color: "warm parchment gray",
			Hex:   "#E8E8E8",
			Description: "elegant light ash gray silk fabric surface, realistic micro-weave texture, " +
				"soft premium fabric sheen, zero background variation, " +
				"perfectly uniform light gray surface, background locked to #E8E8E8 silk throughout",
			Surface: "light gray silk cyclorama",
		}
	case isLight && isWarm:
		return Background{
			Color: "polished smoke gray",
			Hex:   "#2F2F2F",
			Description: "premium polished smoke gray marble surface, subtle realistic mineral veining, " +
				"luxury stone texture, zero background variation, perfectly uniform gray marble, " +
				"no shifts in veining, background locked to #2F2F2F marble throughout",
			Surface: "polished gray marble cyclorama",
		}
	default:
		return Background{
			Color: "rich charcoal gray",
			Hex:   "#121212",
			Description: "solid rich charcoal gray textured volcanic stone surface, microscopic stone grain, " +
				"premium tactile finish, zero background variation, perfectly uniform charcoal surface, " +
				"no gradients, no color cast, background locked to #121212 stone throughout",
			Surface: "charcoal gray textured stone cyclorama",
		}
	}
}

// BuildEnhancedPrompt composes the full generation prompt from the refined
// creative prompt, the style/model/audio phrases, and the consistency lock
// blocks. Pure text composition, no failure modes.
func BuildEnhancedPrompt(req GenerateRequest, bg Background) string {
	sb := &strings.Builder{}
	sb.WriteString(req.Prompt)
	sb.WriteString(audioPrompt(req))
	sb.WriteString(modelPrompt(req, bg))
	sb.WriteString(stylePrompt(req, bg))
	sb.WriteString(", 8k resolution, RAW photo quality, photorealistic masterpiece, " +
		"physically accurate reflections, realistic sparkle, no artificial glow, " +
		"preserve metal grain texture and stone facet shapes, " +
		"avoid overexposure, avoid artificial blur, " +
		"super slow motion 120fps, majestic cinematic drift, " +
		"zero jitter, no sudden cuts, no fast zoom. ")
	sb.WriteString(productLock)
	sb.WriteString(". ")
	sb.WriteString(backgroundLock(bg))
	if req.IsModel {
		sb.WriteString(". ")
		sb.WriteString(modelLock)
	}
	sb.WriteString(".")
	return sb.String()
}

func audioPrompt(req GenerateRequest) string {
	if !req.IsMusic {
		return ""
	}
	if req.VideoType == domain.VideoTypeUGC {
		return ", soft ambient background music, warm, casual, feel-good, no vocals"
	}
	return ", elegant luxury background score, cinematic, premium, sophisticated, no vocals"
}

func modelPrompt(req GenerateRequest, bg Background) string {
	if req.IsModel {
		if req.VideoType == domain.VideoTypeUGC {
			return ", woman wearing the jewellery appropriately on her body, candid moment, " +
				"real skin texture with visible pores, authentic pose, casual-elegant, " +
				"jewellery is perfectly fitted and properly worn"
		}
		return ", high-end fashion model, elegant slow-motion pose, premium styling, " +
			"showcasing the jewellery by wearing it properly on her body, " +
			"realistic skin textures, high-fidelity human detail, " +
			"jewellery is perfectly positioned and worn naturally"
	}
	if req.VideoType == domain.VideoTypeUGC {
		return ", no people, no human, lifestyle flat-lay, " +
			"product on natural stone or wooden surface, cinematic close-up"
	}
	return fmt.Sprintf(", no people, no human, product only, "+
		"product centered on %s, "+
		"majestic ultra-slow 360-degree turntable rotation, "+
		"product resting on high-end %s, "+
		"background remains %s in every single frame", bg.Surface, bg.Surface, bg.Color)
}

func stylePrompt(req GenerateRequest, bg Background) string {
	if req.VideoType == domain.VideoTypeUGC {
		return ", natural daylight, warm golden hour tones, real-world lifestyle setting, " +
			"authentic cinematic aesthetic, soft natural bokeh, " +
			"slow-motion handheld breathing, photorealistic 8k, " +
			"tactile textures, emotionally relatable"
	}
	if req.IsModel {
		// Lifestyle background for models even in ecommerce.
		return ", elegant luxury lifestyle background, high-end interior setting, " +
			"cinematic lighting, premium editorial aesthetic, " +
			"ultra-slow constant-speed orbital camera movement, " +
			"cinematic depth of field, realistic environment, " +
			"luxurious atmosphere, photorealistic 8k"
	}
	// Solid background only for product-only shots.
	return fmt.Sprintf(", %s, "+
		"background does NOT change colour or texture at any point, "+
		"background remains %s from first frame to last frame, "+
		"soft cinematic top-down key light plus subtle side fill, "+
		"ultra-slow constant-speed 360-degree orbital camera orbit, "+
		"macro detailing of diamond facets and physically accurate metal reflections, "+
		"perfectly centered product framing, cinematic depth of field, "+
		"no harsh shadows, premium ecommerce hero-commercial aesthetic, "+
		"physically accurate diamond sparkle, high-polish metal surface reflections, "+
		"majestic product showcase, no vignetting on background edges", bg.Description, bg.Color)
}

// Repeated key phrases are intentional: repetition raises attention weight in
// diffusion-based models including Vidu Q3.
const productLock = "PRODUCT CONSISTENCY ABSOLUTE LOCK: " +
	"the jewellery piece is 100% identical to the reference image in every frame, " +
	"exact same shape, exact same stone count, exact same stone placement, " +
	"exact same metal colour, exact same proportions, exact same design details, " +
	"static product geometry throughout, no morphing whatsoever, " +
	"no redesign, no extra stones, no missing stones, no size change, " +
	"no style drift, subject locked to reference image, " +
	"preserve every engraving and filigree detail as seen in reference, " +
	"stone facets identical to reference, metal grain identical to reference"

const modelLock = "MODEL CONSISTENCY ABSOLUTE LOCK: " +
	"The human model's facial features, hair style, skin tone, and body proportions " +
	"must remain 100% identical in every frame. Zero facial morphing, zero feature drift, " +
	"clothing remains exactly the same throughout, preserve stable human identity"

func backgroundLock(bg Background) string {
	return fmt.Sprintf("BACKGROUND CONSISTENCY ABSOLUTE LOCK: "+
		"background is %s (hex %s) and must NOT change in any frame, "+
		"zero background colour drift, zero background texture change, "+
		"no fade to different colour, no gradient appearing mid-video, "+
		"background remains perfectly uniform %s from frame 0 to final frame, "+
		"background and product DO NOT swap or blend at any point", bg.Color, bg.Hex, bg.Color)
}

// movementAmplitude keeps the subtle handheld feel for UGC and lets the
// smooth orbital rotation play out for ecommerce.
func movementAmplitude(videoType domain.VideoType) string {
	if videoType == domain.VideoTypeEcommerce {
		return "auto"
	}
	return "small"
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
