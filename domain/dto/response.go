package dto

// Response is the envelope returned for every presentation-layer operation.
// Data is omitted for side-effecting operations.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK wraps data in a successful response
func OK(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// Done is a successful response without data
func Done() Response {
	return Response{Success: true}
}

// Fail builds a failed response carrying a displayable message
func Fail(err error) Response {
	return Response{Success: false, Error: err.Error()}
}

// AuthStatus is the payload of the auth status operation
type AuthStatus struct {
	Authenticated bool `json:"authenticated"`
}
