package prompt

import (
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/amankumarsingh77/veda-gateway/internal/models"
)

const DefaultStyle = "cinematic"

// Preset is the prompt decoration applied for one style.
type Preset struct {
	Suffix   string
	Negative string
	Steps    int
	Guidance float64
}

const baseNegative = "blurry, low quality, distorted, watermark, text, deformed, flickering"

var presets = map[string]Preset{
	"cinematic": {
		Suffix:   "cinematic lighting, film grain, shallow depth of field, 35mm, dramatic composition",
		Negative: baseNegative + ", oversaturated, cartoon",
		Steps:    25,
		Guidance: 7.5,
	},
	"portrait": {
		Suffix:   "portrait, soft studio lighting, detailed skin texture, bokeh background, sharp focus on eyes",
		Negative: baseNegative + ", extra limbs, bad anatomy, disfigured face",
		Steps:    30,
		Guidance: 7.0,
	},
	"product": {
		Suffix:   "product shot, clean background, studio lighting, commercial photography, high detail",
		Negative: baseNegative + ", clutter, messy background",
		Steps:    25,
		Guidance: 8.0,
	},
	"nature": {
		Suffix:   "nature documentary, golden hour, lush colors, wide landscape, 4k",
		Negative: baseNegative + ", people, buildings",
		Steps:    25,
		Guidance: 7.0,
	},
	"aesthetic": {
		Suffix:   "aesthetic, pastel tones, dreamy atmosphere, soft light, minimal",
		Negative: baseNegative + ", harsh shadows, dark",
		Steps:    20,
		Guidance: 6.5,
	},
	"reels": {
		Suffix:   "vertical video, vibrant colors, dynamic motion, trending social media style",
		Negative: baseNegative + ", static, dull colors",
		Steps:    20,
		Guidance: 7.0,
	},
}

var ideas = map[string][]string{
	"trending": {
		"beautiful sunset over ocean, golden light, waves, cinematic",
		"woman smiling, sunset beach, wind in hair",
		"coffee steam rising from a cup, morning light, cozy cafe",
		"city street at night, neon reflections, light rain",
		"slow motion waterfall in a misty forest",
		"astronaut floating above earth, stars in background",
		"cherry blossoms falling in a quiet japanese garden",
		"sneaker rotating on a pedestal, studio lighting",
	},
	"nature": {
		"eagle soaring over snowy mountains",
		"northern lights over a frozen lake",
		"fox walking through autumn leaves",
		"storm clouds rolling over wheat fields",
	},
	"product": {
		"perfume bottle with water droplets, black background",
		"smartwatch on a marble table, soft reflections",
		"headphones floating with colorful smoke",
	},
}

// Styles lists the available style presets in a stable order.
func Styles() []string {
	out := make([]string, 0, len(presets))
	for name := range presets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the preset for style, falling back to cinematic.
func Lookup(style string) (string, Preset) {
	name := strings.ToLower(strings.TrimSpace(style))
	if p, ok := presets[name]; ok {
		return name, p
	}
	return DefaultStyle, presets[DefaultStyle]
}

func Enhance(prompt, style string) *models.EnhancedPrompt {
	name, p := Lookup(style)
	text := strings.TrimSpace(prompt)
	if text != "" {
		text = text + ", " + p.Suffix
	} else {
		text = p.Suffix
	}
	return &models.EnhancedPrompt{
		Prompt:         text,
		NegativePrompt: p.Negative,
		Steps:          p.Steps,
		Guidance:       p.Guidance,
		Style:          name,
	}
}

// SuggestIdeas returns prompt ideas for category. Unknown categories get the trending list.
func SuggestIdeas(category string) []string {
	list, ok := ideas[strings.ToLower(category)]
	if !ok {
		list = ideas["trending"]
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}

func RandomIdea(category string) string {
	list := SuggestIdeas(category)
	return list[rand.IntN(len(list))]
}
