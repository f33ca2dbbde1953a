package serverutils

// Response is the uniform JSON envelope every endpoint returns.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Code    int         `json:"code,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func SuccessResponse(message string, data interface{}) Response {
	return Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) Response {
	return Response{
		Success: false,
		Code:    code,
		Message: message,
	}
}

// ValidationErrorResponse carries field-level messages so the form can
// highlight individual inputs instead of showing a generic failure.
func ValidationErrorResponse(fields map[string]string) Response {
	return Response{
		Success: false,
		Code:    422,
		Message: "validation failed",
		Errors:  fields,
	}
}
