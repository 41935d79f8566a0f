package serverutils

// BaseResponse is the JSON envelope of every non-streamed answer.
type BaseResponse[T any] struct {
	Success   bool   `json:"success"`
	Code      int    `json:"code"`
	Message   string `json:"message"`
	ErrorType string `json:"error_type,omitempty"`
	Data      T      `json:"data,omitempty"`
}

func SuccessResponse[T any](message string, data T) *BaseResponse[T] {
	return &BaseResponse[T]{
		Success: true,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) *BaseResponse[any] {
	return &BaseResponse[any]{
		Success: false,
		Code:    code,
		Message: message,
	}
}

// TypedErrorResponse carries a machine-checkable error type for clients.
func TypedErrorResponse(code int, errorType, message string) *BaseResponse[any] {
	r := ErrorResponse(code, message)
	r.ErrorType = errorType
	return r
}
