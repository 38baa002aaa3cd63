package core

import (
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Request is the duck-typed HTTP-adjacent request shape from §6: url,
// method, headers, query, body, files. Header lookups are
// case-insensitive; a lowercase-keyed lookup is attempted first (§3
// Parameter / §4.E).
type Request interface {
	URL() string
	Method() string
	Header(name string) (string, bool)
	Query() url.Values
	Body() any
	File(name string) (io.Reader, bool)
}

// SimpleRequest is a concrete Request for callers building requests
// programmatically (tests, non-net/http transports).
type SimpleRequest struct {
	RequestURL    string
	RequestMethod string
	Headers       map[string]string
	QueryValues   url.Values
	RequestBody   any
	Files         map[string]io.Reader
}

func (r *SimpleRequest) URL() string    { return r.RequestURL }
func (r *SimpleRequest) Method() string { return r.RequestMethod }

// Header performs a case-insensitive lookup, trying the lowercase key
// first as §3/§4.E specifies.
func (r *SimpleRequest) Header(name string) (string, bool) {
	if r.Headers == nil {
		return "", false
	}
	lower := strings.ToLower(name)
	if v, ok := r.Headers[lower]; ok {
		return v, true
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

func (r *SimpleRequest) Query() url.Values { return r.QueryValues }
func (r *SimpleRequest) Body() any         { return r.RequestBody }

func (r *SimpleRequest) File(name string) (io.Reader, bool) {
	if r.Files == nil {
		return nil, false
	}
	f, ok := r.Files[name]
	return f, ok
}

// httpRequestAdapter adapts a *net/http.Request to Request. It is a thin,
// optional convenience — the core does not require net/http as a
// transport.
type httpRequestAdapter struct {
	req  *http.Request
	body any
}

// FromHTTPRequest wraps req, with body as the already-decoded request
// body (the core does not itself decode bodies; callers decode per
// Content-Type and pass the result here).
func FromHTTPRequest(req *http.Request, body any) Request {
	return &httpRequestAdapter{req: req, body: body}
}

func (a *httpRequestAdapter) URL() string    { return a.req.URL.String() }
func (a *httpRequestAdapter) Method() string { return a.req.Method }

func (a *httpRequestAdapter) Header(name string) (string, bool) {
	v := a.req.Header.Get(name)
	if v == "" {
		if _, ok := a.req.Header[http.CanonicalHeaderKey(name)]; !ok {
			return "", false
		}
	}
	return v, true
}

func (a *httpRequestAdapter) Query() url.Values { return a.req.URL.Query() }
func (a *httpRequestAdapter) Body() any         { return a.body }

func (a *httpRequestAdapter) File(name string) (io.Reader, bool) {
	if a.req.MultipartForm == nil {
		return nil, false
	}
	files := a.req.MultipartForm.File[name]
	if len(files) == 0 {
		return nil, false
	}
	f, err := files[0].Open()
	if err != nil {
		return nil, false
	}
	return f, true
}

// requestContentType returns the adapter-neutral Content-Type, stripping
// nothing: the negotiator itself handles parameter stripping.
func requestContentType(req Request) string {
	ct, _ := req.Header("content-type")
	return ct
}
