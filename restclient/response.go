package restclient

// StatusTransportFailure is the sentinel Status for requests that failed
// at the transport level before (or instead of) producing an HTTP status.
const StatusTransportFailure = -1

// failureBody is the fixed marker carried in Response.Body on transport
// failure.
const failureBody = "Failed to query."

// Response is the fully populated result of one request. Status holds the
// HTTP status code, or StatusTransportFailure when the transport failed;
// in that case Body holds the fixed failure marker and any headers parsed
// before the failure are kept. Body stays empty when the call streamed to
// a sink.
type Response struct {
	Status  int
	Body    []byte
	Headers map[string]string
}

// BodyString returns the body as a string.
func (r *Response) BodyString() string {
	return string(r.Body)
}

// GetHeader returns the value for an exact, case-sensitive header name.
// Header names are stored exactly as the transport delivered them.
func (r *Response) GetHeader(key string) string {
	return r.Headers[key]
}

// IsTransportFailure reports whether the request failed before an HTTP
// status was obtained.
func (r *Response) IsTransportFailure() bool {
	return r.Status < 0
}

// IsSuccess returns true if the status code is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.Status >= 200 && r.Status < 300
}

// IsRedirect returns true if the status code is in the 3xx range.
func (r *Response) IsRedirect() bool {
	return r.Status >= 300 && r.Status < 400
}

// IsClientError returns true if the status code is in the 4xx range.
func (r *Response) IsClientError() bool {
	return r.Status >= 400 && r.Status < 500
}

// IsServerError returns true if the status code is in the 5xx range.
func (r *Response) IsServerError() bool {
	return r.Status >= 500 && r.Status < 600
}
