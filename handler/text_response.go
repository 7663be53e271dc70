package handler

import (
	"io"
	"net/http"
)

type textResponse struct {
	status      int
	contentType string
	body        string
}

func (t textResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", t.contentType)
	w.WriteHeader(t.status)
	_, err := io.WriteString(w, t.body)
	return err
}

// TextOption configures a text response.
type TextOption func(*textResponse)

// WithTextStatus sets custom HTTP status code.
func WithTextStatus(status int) TextOption {
	return func(t *textResponse) {
		t.status = status
	}
}

// WithContentType overrides the default text/plain content type.
func WithContentType(contentType string) TextOption {
	return func(t *textResponse) {
		if contentType != "" {
			t.contentType = contentType
		}
	}
}

// Text creates a plain text response.
func Text(body string, opts ...TextOption) Response {
	t := &textResponse{
		status:      http.StatusOK,
		contentType: "text/plain; charset=utf-8",
		body:        body,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}
