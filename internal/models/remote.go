package models

type RemoteConnectInput struct {
	URL string `json:"url" validate:"required,notblank"`
}

type RemoteState struct {
	Connected bool   `json:"connected"`
	URL       string `json:"url,omitempty"`
	Message   string `json:"message,omitempty"`
}

type RemoteGenerateInput struct {
	Prompt  string `json:"prompt" validate:"required,notblank"`
	Style   string `json:"style"`
	Frames  int    `json:"frames" validate:"omitempty,gte=1,lte=128"`
	Seed    *int64 `json:"seed" validate:"omitempty,gte=0"`
	Upscale *bool  `json:"upscale"`
}

// GenerationResult is what the remote backend reports for one generation call.
type GenerationResult struct {
	Status    string `json:"status"`
	VideoPath string `json:"video_path,omitempty"`
}
