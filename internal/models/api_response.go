package models

// APIResponse is the uniform response envelope returned by every endpoint.
// swagger:model APIResponse
type APIResponse struct {
	// HTTP status code mirrored into the body
	// example: 200
	StatusCode int `json:"statusCode"`

	// Response payload, shape depends on the endpoint
	Data interface{} `json:"data"`

	// Human-readable message
	// example: User registered successfully
	Message string `json:"message"`

	// True for 2xx responses
	// example: true
	Success bool `json:"success"`
}

// NewAPIResponse builds a success envelope.
func NewAPIResponse(statusCode int, data interface{}, message string) APIResponse {
	return APIResponse{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    statusCode < 400,
	}
}

// NewAPIError builds an error envelope with no payload.
func NewAPIError(statusCode int, message string) APIResponse {
	return APIResponse{
		StatusCode: statusCode,
		Data:       nil,
		Message:    message,
		Success:    false,
	}
}
