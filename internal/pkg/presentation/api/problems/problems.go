package problems

import (
	"encoding/json"
	"errors"
	"net/http"

	pgerrors "github.com/diwise/property-graph/pkg/errors"
)

// ProblemDetails stores details about a certain problem according to RFC7807
// See https://tools.ietf.org/html/rfc7807
type ProblemDetails interface {
	ContentType() string
	Type() string
	Title() string
	Detail() string
	ResponseCode() int
	MarshalJSON() ([]byte, error)
	WriteResponse(w http.ResponseWriter)
}

type problemDetails struct {
	typ    string
	title  string
	detail string
	code   int
}

const (
	// ProblemReportContentType as required by https://tools.ietf.org/html/rfc7807
	ProblemReportContentType string = "application/problem+json"

	typeBase string = "https://github.com/diwise/property-graph/problems/"
)

func NewBadRequest(detail string) ProblemDetails {
	return &problemDetails{
		typ:    typeBase + "BadRequest",
		title:  "Bad Request",
		detail: detail,
		code:   http.StatusBadRequest,
	}
}

func NewNotFound(detail string) ProblemDetails {
	return &problemDetails{
		typ:    typeBase + "ResourceNotFound",
		title:  "Not Found",
		detail: detail,
		code:   http.StatusNotFound,
	}
}

// NewSourceUnavailable reports that a backing record source could not be
// reached or failed to answer.
func NewSourceUnavailable(detail string) ProblemDetails {
	return &problemDetails{
		typ:    typeBase + "SourceUnavailable",
		title:  "Source Unavailable",
		detail: detail,
		code:   http.StatusBadGateway,
	}
}

func NewInternalError(detail string) ProblemDetails {
	return &problemDetails{
		typ:    typeBase + "InternalError",
		title:  "Internal Error",
		detail: detail,
		code:   http.StatusInternalServerError,
	}
}

// FromError picks the problem that best describes err.
func FromError(err error) ProblemDetails {
	switch {
	case errors.Is(err, pgerrors.ErrBadRequest):
		return NewBadRequest(err.Error())
	case errors.Is(err, pgerrors.ErrNotFound):
		return NewNotFound(err.Error())
	case errors.Is(err, pgerrors.ErrSourceUnavailable):
		return NewSourceUnavailable(err.Error())
	}

	return NewInternalError(err.Error())
}

// ReportError writes the problem that best describes err to w.
func ReportError(w http.ResponseWriter, err error) {
	FromError(err).WriteResponse(w)
}

func ReportBadRequest(w http.ResponseWriter, detail string) {
	NewBadRequest(detail).WriteResponse(w)
}

func ReportNotFound(w http.ResponseWriter, detail string) {
	NewNotFound(detail).WriteResponse(w)
}

func (p *problemDetails) ContentType() string {
	return ProblemReportContentType
}

func (p *problemDetails) Type() string   { return p.typ }
func (p *problemDetails) Title() string  { return p.title }
func (p *problemDetails) Detail() string { return p.detail }

func (p *problemDetails) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string `json:"type"`
		Title  string `json:"title"`
		Status int    `json:"status"`
		Detail string `json:"detail"`
	}{
		Type:   p.typ,
		Title:  p.title,
		Status: p.ResponseCode(),
		Detail: p.detail,
	})
}

// ResponseCode returns the HTTP response code to be used when returning a specific problem
func (p *problemDetails) ResponseCode() int {
	if p.code != 0 {
		return p.code
	}

	return http.StatusBadRequest
}

func (p *problemDetails) WriteResponse(w http.ResponseWriter) {
	w.Header().Add("Content-Type", p.ContentType())
	w.Header().Add("Content-Language", "en")
	w.WriteHeader(p.ResponseCode())

	pdbytes, err := json.MarshalIndent(p, "", "  ")
	if err == nil {
		w.Write(pdbytes)
	}
}
