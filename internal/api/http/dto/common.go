package dto

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
	ErrorType  string `json:"errorType"`
	Message    string `json:"message"`
	RequestID  string `json:"requestId,omitempty"`
}
