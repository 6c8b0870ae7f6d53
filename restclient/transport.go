package restclient

import (
	"context"
	"io"
)

// HeaderFunc receives one raw header line, terminator included.
type HeaderFunc func(line string)

// WriteFunc receives one response body chunk. A non-nil error aborts the
// transfer.
type WriteFunc func(chunk []byte) error

// ReadFunc supplies up to len(p) upload bytes into p and reports how many
// were written. Returning 0 signals end of upload.
type ReadFunc func(p []byte) int

// Transport hands out fresh sessions. Sessions are never shared: each
// request configures and consumes its own.
type Transport interface {
	NewSession() (Session, error)
}

// Session is one configured handle for a single HTTP request. Options and
// hooks are set before Perform; hooks are typed closures bound to the
// request being executed, so no untyped context pointers change hands.
// A Session is single-use and must be closed on every exit path.
type Session interface {
	SetURL(url string)
	SetMethod(method string)

	// AddHeader attaches one request header verbatim. Duplicate keys are
	// last-write-wins.
	AddHeader(key, value string)

	// SetBasicAuth enables HTTP basic authentication from a
	// "username:password" credential string.
	SetBasicAuth(userpass string)

	SetUserAgent(agent string)

	// DisableSignalHandlers keeps the transport from installing any
	// process-level signal handling of its own.
	DisableSignalHandlers()

	// SetUploadSize declares the exact byte count a ReadFunc upload will
	// supply.
	SetUploadSize(n int64)

	// SetBody attaches a prebuilt request body. size < 0 means unknown
	// (chunked).
	SetBody(r io.Reader, size int64)

	OnHeaderLine(fn HeaderFunc)
	OnBodyChunk(fn WriteFunc)
	OnBodyRead(fn ReadFunc)
	OnProgress(fn ProgressFunc)

	// Perform drives the request to completion, blocking the caller for
	// the full transfer.
	Perform(ctx context.Context) error

	// StatusCode is meaningful only after Perform returns nil.
	StatusCode() int

	Close()
}
