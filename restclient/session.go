package restclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
)

// writeChunkSize caps the size of one body chunk handed to the write hook.
const writeChunkSize = 16 * 1024

var errAborted = errors.New("transfer aborted by progress callback")

type netTransport struct{}

// NewTransport returns the default Transport, backed by net/http. Every
// session gets its own http.Transport with keep-alives disabled, so no
// connection outlives the request that opened it and nothing is pooled or
// reused across calls.
func NewTransport() Transport {
	return netTransport{}
}

func (netTransport) NewSession() (Session, error) {
	return &netSession{method: http.MethodGet, uploadSize: -1, bodySize: -1}, nil
}

// netSession drives one request through net/http. The header hook is fed
// synthesized raw lines (status line, one line per header value, then a
// blank line) since net/http has already parsed the wire format; header
// names arrive in Go's canonical MIME case.
type netSession struct {
	url        string
	method     string
	headers    [][2]string
	userpass   string
	userAgent  string
	noSignals  bool
	uploadSize int64
	body       io.Reader
	bodySize   int64

	onHeader   HeaderFunc
	onBody     WriteFunc
	onRead     ReadFunc
	onProgress ProgressFunc

	status    int
	httpTrans *http.Transport

	// progress state; the upload side can tick from the transport's write
	// goroutine while the download side ticks from Perform.
	mu           sync.Mutex
	dlTotal, dl  int64
	ulTotal, ul  int64
	abort        context.CancelFunc
	abortedByFun bool
}

func (s *netSession) SetURL(url string) { s.url = url }

func (s *netSession) SetMethod(method string) { s.method = method }

func (s *netSession) AddHeader(key, val string) { s.headers = append(s.headers, [2]string{key, val}) }

func (s *netSession) SetBasicAuth(up string) { s.userpass = up }

func (s *netSession) SetUserAgent(agent string) { s.userAgent = agent }

func (s *netSession) DisableSignalHandlers() { s.noSignals = true }

func (s *netSession) SetUploadSize(n int64) { s.uploadSize = n }

func (s *netSession) SetBody(r io.Reader, n int64) {
	s.body = r
	s.bodySize = n
}

func (s *netSession) OnHeaderLine(fn HeaderFunc) { s.onHeader = fn }

func (s *netSession) OnBodyChunk(fn WriteFunc) { s.onBody = fn }

func (s *netSession) OnBodyRead(fn ReadFunc) { s.onRead = fn }

func (s *netSession) OnProgress(fn ProgressFunc) { s.onProgress = fn }

func (s *netSession) StatusCode() int { return s.status }

func (s *netSession) Close() {
	// A prebuilt body the transport never consumed (Perform failed before
	// the round trip) would otherwise pin its producer: tear it down so a
	// piped multipart writer unblocks and releases its files.
	if c, ok := s.body.(io.Closer); ok {
		c.Close()
	}
	if s.httpTrans != nil {
		s.httpTrans.CloseIdleConnections()
	}
}

func (s *netSession) Perform(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.abort = cancel

	body, contentLength := s.requestBody()

	req, err := http.NewRequestWithContext(ctx, s.method, s.url, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.ContentLength = contentLength
	}
	// Default user agent first so a custom header always wins at the wire,
	// whatever its spelling once net/http canonicalizes it.
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	for _, h := range s.headers {
		req.Header.Set(h[0], h[1])
	}
	if s.userpass != "" {
		user, pass, _ := strings.Cut(s.userpass, ":")
		req.SetBasicAuth(user, pass)
	}

	s.httpTrans = &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		DisableKeepAlives: true,
	}
	client := &http.Client{Transport: s.httpTrans}

	resp, err := client.Do(req)
	if err != nil {
		if s.tripped() {
			return errAborted
		}
		return err
	}
	defer resp.Body.Close()
	s.status = resp.StatusCode

	s.emitHeaderLines(resp)

	return s.drainBody(resp)
}

// requestBody picks the upload source: the read hook wrapped as a reader,
// or a prebuilt body. Either way the upload side of progress is counted.
func (s *netSession) requestBody() (io.Reader, int64) {
	var body io.Reader
	var n int64 = -1

	switch {
	case s.onRead != nil:
		body = &readFuncReader{fn: s.onRead}
		n = s.uploadSize
	case s.body != nil:
		body = s.body
		n = s.bodySize
	default:
		return nil, 0
	}

	if s.onProgress != nil {
		if n > 0 {
			s.ulTotal = n
		}
		body = &uploadCounter{r: body, s: s}
	}
	return body, n
}

func (s *netSession) emitHeaderLines(resp *http.Response) {
	if s.onHeader == nil {
		return
	}
	s.onHeader(resp.Proto + " " + resp.Status + "\r\n")
	for key, vals := range resp.Header {
		for _, val := range vals {
			s.onHeader(key + ": " + val + "\r\n")
		}
	}
	s.onHeader("\r\n")
}

func (s *netSession) drainBody(resp *http.Response) error {
	if resp.ContentLength > 0 {
		s.mu.Lock()
		s.dlTotal = resp.ContentLength
		s.mu.Unlock()
	}

	buf := make([]byte, writeChunkSize)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			if s.onBody != nil {
				if werr := s.onBody(buf[:n]); werr != nil {
					return werr
				}
			}
			s.mu.Lock()
			s.dl += int64(n)
			s.mu.Unlock()
			if terr := s.tick(); terr != nil {
				return terr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if s.tripped() {
				return errAborted
			}
			return err
		}
	}
}

// tick fires the progress hook with the current counters. A non-zero
// return cancels the request context and fails the transfer.
func (s *netSession) tick() error {
	if s.onProgress == nil {
		return nil
	}
	s.mu.Lock()
	dlTotal, dl, ulTotal, ul := s.dlTotal, s.dl, s.ulTotal, s.ul
	s.mu.Unlock()

	if s.onProgress(dlTotal, dl, ulTotal, ul) != 0 {
		s.mu.Lock()
		s.abortedByFun = true
		s.mu.Unlock()
		s.abort()
		return errAborted
	}
	return nil
}

func (s *netSession) tripped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.abortedByFun
}

// readFuncReader adapts the pull-based read hook to io.Reader. A 0-byte
// fill is the end-of-upload signal.
type readFuncReader struct {
	fn ReadFunc
}

func (r *readFuncReader) Read(p []byte) (int, error) {
	n := r.fn(p)
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// uploadCounter counts sent bytes and ticks progress from the upload side.
type uploadCounter struct {
	r io.Reader
	s *netSession
}

func (u *uploadCounter) Read(p []byte) (int, error) {
	n, err := u.r.Read(p)
	if n > 0 {
		u.s.mu.Lock()
		u.s.ul += int64(n)
		u.s.mu.Unlock()
		if terr := u.s.tick(); terr != nil {
			return n, terr
		}
	}
	return n, err
}
