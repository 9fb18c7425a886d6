package dto

// HandleValidationError converts a request binding error into a
// standard validation error detail.
func HandleValidationError(err error) *ErrorDetail {
	return NewErrorDetail(ErrorCodeValidationFailed, "Invalid request format").
		WithDetails(err.Error())
}
