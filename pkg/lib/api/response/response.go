package response

// Response is the envelope for every non-resource body the API sends.
type Response struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

var (
	ErrBannerNotFound = Error("Banner not found")
	ErrServerInternal = Error("Internal server error")
	ErrBadRequest     = Error("Bad request")
	ErrBodyTooLarge   = Error("Request body too large")
)

func Error(msg string) Response {
	return Response{Message: msg}
}

func Message(msg string) Response {
	return Response{Message: msg}
}

func Deleted() Response {
	return Message("Banner deleted successfully")
}

func ValidationError(fields map[string][]string) Response {
	return Response{
		Message: "The given data was invalid.",
		Errors:  fields,
	}
}
