// Package bench issues a fixed number of GET requests through the client
// and aggregates latencies in an HDR histogram.
package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"golang.org/x/time/rate"

	"github.com/restclient-go/restclient/restclient"
)

// Histogram range: 1µs to 1 minute, 3 significant figures. Samples outside
// the range saturate at the nearest bound.
const (
	histMinMicros = 1
	histMaxMicros = 60_000_000
)

func clampMicros(v int64) int64 {
	if v < histMinMicros {
		return histMinMicros
	}
	if v > histMaxMicros {
		return histMaxMicros
	}
	return v
}

// Options configures a benchmark run.
type Options struct {
	// Count is the total number of requests to issue.
	Count int

	// Rate caps requests per second; 0 means unlimited.
	Rate float64

	// Headers are attached to every request.
	Headers map[string]string
}

// Result aggregates one benchmark run.
type Result struct {
	Requests int
	Failed   int
	Elapsed  time.Duration

	hist *hdrhistogram.Histogram
}

// Run executes the benchmark. Requests are sequential: the engine is
// synchronous, so each request completes before the next starts.
func Run(ctx context.Context, client *restclient.Client, url string, opts Options) (*Result, error) {
	if opts.Count <= 0 {
		return nil, fmt.Errorf("request count must be positive, got %d", opts.Count)
	}

	var limiter *rate.Limiter
	if opts.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.Rate), 1)
	}

	result := &Result{
		hist: hdrhistogram.New(histMinMicros, histMaxMicros, 3),
	}

	start := time.Now()
	for i := 0; i < opts.Count; i++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		req := restclient.NewRequest(url).WithHeaders(opts.Headers)

		reqStart := time.Now()
		resp := client.Get(ctx, req)
		latency := time.Since(reqStart)

		result.Requests++
		if resp.IsTransportFailure() || resp.IsServerError() {
			result.Failed++
		}
		// Clamped into histogram range, so recording cannot fail.
		_ = result.hist.RecordValue(clampMicros(latency.Microseconds()))
	}
	result.Elapsed = time.Since(start)

	return result, nil
}

// Percentile returns the latency at the given percentile (0-100).
func (r *Result) Percentile(p float64) time.Duration {
	return time.Duration(r.hist.ValueAtQuantile(p)) * time.Microsecond
}

// Mean returns the mean latency.
func (r *Result) Mean() time.Duration {
	return time.Duration(r.hist.Mean()) * time.Microsecond
}

// Max returns the highest observed latency.
func (r *Result) Max() time.Duration {
	return time.Duration(r.hist.Max()) * time.Microsecond
}

// RPS returns the achieved request rate.
func (r *Result) RPS() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Requests) / r.Elapsed.Seconds()
}
