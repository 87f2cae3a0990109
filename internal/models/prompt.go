package models

type EnhanceInput struct {
	Prompt string `json:"prompt" validate:"required,notblank"`
	Style  string `json:"style"`
}

type EnhancedPrompt struct {
	Prompt         string  `json:"prompt"`
	NegativePrompt string  `json:"negative"`
	Steps          int     `json:"steps"`
	Guidance       float64 `json:"guidance"`
	Style          string  `json:"style"`
}

type IdeaResponse struct {
	Idea string `json:"idea"`
}
