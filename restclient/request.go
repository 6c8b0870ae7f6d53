package restclient

// Request describes what to ask for: an absolute URL plus optional custom
// headers. Header keys are case-sensitive and last-write-wins on duplicate
// insertion. A Request must not be mutated while a call is executing.
type Request struct {
	URL     string
	Headers map[string]string
}

// NewRequest creates a request for the given absolute URL.
func NewRequest(url string) *Request {
	return &Request{
		URL:     url,
		Headers: make(map[string]string),
	}
}

// WithHeader adds a header to the request.
func (r *Request) WithHeader(key, value string) *Request {
	r.Headers[key] = value
	return r
}

// WithHeaders adds multiple headers to the request.
func (r *Request) WithHeaders(headers map[string]string) *Request {
	for key, value := range headers {
		r.Headers[key] = value
	}
	return r
}
