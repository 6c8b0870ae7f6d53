package restclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Version of the client, also carried in the default user agent.
const Version = "0.2.0"

const defaultUserAgent = "restclient/" + Version

// Client executes HTTP requests over a Transport. Every call acquires a
// fresh session, so separate goroutines may issue requests concurrently
// through one Client; the mutable credential and cookie state is guarded
// here rather than living in package globals.
type Client struct {
	transport Transport
	userAgent string
	log       zerolog.Logger

	mu       sync.RWMutex
	userpass string
	cookies  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTransport replaces the default net/http transport.
func WithTransport(t Transport) ClientOption {
	return func(c *Client) {
		c.transport = t
	}
}

// WithUserAgent overrides the default user agent attached to requests that
// do not carry their own.
func WithUserAgent(agent string) ClientOption {
	return func(c *Client) {
		c.userAgent = agent
	}
}

// WithLogger enables debug logging of request execution.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a client with the given options.
func NewClient(options ...ClientOption) *Client {
	client := &Client{
		transport: NewTransport(),
		userAgent: defaultUserAgent,
		log:       zerolog.Nop(),
	}
	for _, option := range options {
		option(client)
	}
	return client
}

// SetAuth enables HTTP basic authentication with the given credentials for
// every subsequent request until ClearAuth.
func (c *Client) SetAuth(user, password string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userpass = user + ":" + password
}

// ClearAuth removes the stored credentials.
func (c *Client) ClearAuth() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userpass = ""
}

// SetCookies attaches a raw Cookie header value to every subsequent
// request until ClearCookies.
func (c *Client) SetCookies(cookies string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cookies = cookies
}

// ClearCookies removes the stored cookie string.
func (c *Client) ClearCookies() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cookies = ""
}

func (c *Client) credentials() (userpass, cookies string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userpass, c.cookies
}

// ExecOption configures a single call.
type ExecOption func(*execConfig)

// WithSink streams the response body to the caller-owned writer instead of
// accumulating it in Response.Body. The engine only writes; it never
// closes the sink.
func WithSink(w io.Writer) ExecOption {
	return func(ec *execConfig) {
		ec.sink = w
	}
}

// WithProgress registers a progress reporter for the call. A non-zero
// return from the reporter aborts the transfer.
func WithProgress(p ProgressReporter) ExecOption {
	return func(ec *execConfig) {
		ec.progress = p
	}
}

type execConfig struct {
	sink     io.Writer
	progress ProgressReporter

	form        map[string]FormField
	contentType string
	data        []byte
	upload      bool
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, req *Request, options ...ExecOption) *Response {
	var ec execConfig
	for _, option := range options {
		option(&ec)
	}
	return c.execute(ctx, http.MethodGet, req, ec)
}

// Post issues a multipart/form-data POST built from the form fields.
func (c *Client) Post(ctx context.Context, req *Request, form map[string]FormField) *Response {
	return c.execute(ctx, http.MethodPost, req, execConfig{form: form})
}

// PostData issues a POST with a single fixed body and content type.
func (c *Client) PostData(ctx context.Context, req *Request, contentType string, data []byte) *Response {
	return c.execute(ctx, http.MethodPost, req, execConfig{contentType: contentType, data: data})
}

// Put issues a PUT, streaming the body through the upload cursor with an
// exact content length.
func (c *Client) Put(ctx context.Context, req *Request, contentType string, data []byte) *Response {
	return c.execute(ctx, http.MethodPut, req, execConfig{contentType: contentType, data: data, upload: true})
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, req *Request) *Response {
	return c.execute(ctx, http.MethodDelete, req, execConfig{})
}

// execute runs the full request lifecycle: configure a fresh session,
// attach hooks, perform, assemble the Response. All failures come back
// through the Response; the session is released on every path.
func (c *Client) execute(ctx context.Context, method string, req *Request, ec execConfig) *Response {
	resp := &Response{
		Status:  StatusTransportFailure,
		Headers: make(map[string]string),
	}

	log := c.log.With().
		Str("request_id", uuid.New().String()).
		Str("method", method).
		Str("url", req.URL).
		Logger()

	sess, err := c.transport.NewSession()
	if err != nil {
		resp.Body = []byte(failureBody)
		log.Debug().Err(err).Msg("session acquisition failed")
		return resp
	}
	defer sess.Close()

	userpass, cookies := c.credentials()
	if userpass != "" {
		sess.SetBasicAuth(userpass)
	}
	if cookies != "" {
		sess.AddHeader("Cookie", cookies)
	}

	if len(req.Headers) > 0 {
		for key, value := range req.Headers {
			sess.AddHeader(key, value)
		}
		// Exact-match lookup: a "user-agent" key does not suppress the
		// default.
		if _, ok := req.Headers["User-Agent"]; !ok {
			sess.SetUserAgent(c.userAgent)
		}
	} else {
		sess.SetUserAgent(c.userAgent)
	}

	sess.DisableSignalHandlers()
	sess.SetURL(req.URL)
	sess.SetMethod(method)

	sess.OnHeaderLine(func(line string) {
		if key, value, ok := ParseHeaderLine(line); ok {
			resp.Headers[key] = value
		}
	})
	sess.OnBodyChunk(func(chunk []byte) error {
		if ec.sink != nil {
			_, werr := ec.sink.Write(chunk)
			return werr
		}
		resp.Body = append(resp.Body, chunk...)
		return nil
	})

	switch {
	case ec.upload:
		sess.AddHeader("Content-Type", ec.contentType)
		sess.SetUploadSize(int64(len(ec.data)))
		sess.OnBodyRead(newUploadBuffer(ec.data).fill)
	case ec.form != nil:
		contentType, body := encodeForm(ec.form)
		sess.AddHeader("Content-Type", contentType)
		sess.SetBody(body, -1)
	case ec.data != nil:
		sess.AddHeader("Content-Type", ec.contentType)
		sess.SetBody(bytes.NewReader(ec.data), int64(len(ec.data)))
	}

	if ec.progress != nil {
		sess.OnProgress(reportProgress(ec.progress))
	}

	if err := sess.Perform(ctx); err != nil {
		resp.Status = StatusTransportFailure
		resp.Body = []byte(failureBody)
		log.Debug().Err(err).Msg("transport failure")
		return resp
	}

	resp.Status = sess.StatusCode()
	log.Debug().Int("status", resp.Status).Int("body_bytes", len(resp.Body)).Msg("request complete")
	return resp
}
