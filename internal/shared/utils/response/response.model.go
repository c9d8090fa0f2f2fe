package response

// StandardApiResponse is the envelope every CareBook endpoint emits,
// success or error. The authclient package decodes error messages from
// the Message field and validates the Data shape field by field, so the
// key names here are a wire contract.
type StandardApiResponse struct {
	Status     string      `json:"status"`           // "success" or "error"
	StatusCode int         `json:"status_code"`      // HTTP status code
	Message    string      `json:"message"`          // safe to show to an end user
	Data       interface{} `json:"data,omitempty"`   // payload on success
	Errors     interface{} `json:"errors,omitempty"` // validation details on 422
}
