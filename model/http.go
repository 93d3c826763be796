package model

// TranscribeResponse wraps tab records for both JSON and YAML output.
type TranscribeResponse struct {
	Status string `json:"status" yaml:"status"`
	Tabs   any    `json:"tabs" yaml:"tabs"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
