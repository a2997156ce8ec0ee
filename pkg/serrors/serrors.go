package serrors

import "fmt"

// Base is a coded error safe to render on the API surface.
type Base struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Meta    map[string]string `json:"meta,omitempty"`
}

func (e *Base) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code, message string, meta map[string]string) *Base {
	return &Base{Code: code, Message: message, Meta: meta}
}

// WithMeta returns a copy of the error with the given metadata attached.
func (e *Base) WithMeta(meta map[string]string) *Base {
	return &Base{Code: e.Code, Message: e.Message, Meta: meta}
}
