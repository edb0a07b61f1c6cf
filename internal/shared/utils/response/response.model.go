package response

// StandardApiResponse is the envelope every handler returns. Status is
// "success" or "error"; Errors carries binding or lookup detail when
// the request fails.
type StandardApiResponse struct {
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
}
