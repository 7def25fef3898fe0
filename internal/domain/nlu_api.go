package domain

// Wire types of the /v1/nlu endpoints.

type PredictRequest struct {
	Message string `json:"message"`
}

type PredictResponse struct {
	Intent   string  `json:"intent"`
	Score    float64 `json:"score"`
	Origin   string  `json:"origin"`
	Unit     string  `json:"unit"`
	Strategy string  `json:"strategy"`
	Evidence string  `json:"evidence,omitempty"`
}

type ExtractResponse struct {
	Entities Entities `json:"entities"`
}

type ResponseTemplate struct {
	Intent   string `json:"intent"`
	Response string `json:"response"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
