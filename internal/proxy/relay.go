// Package proxy forwards requests to a fixed upstream, retrying transport
// failures with exponential backoff.
package proxy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sm1l43s/movies/internal/telemetry"
)

// TraceHeader carries the per-call trace id to the upstream.
const TraceHeader = "TRACE"

// GenericFailureMessage is the only detail clients see when the relay gives up.
const GenericFailureMessage = "There was an error trying to process your request. Please try again later"

// ErrUpstreamUnavailable is returned once every attempt failed at the transport level.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// Response is an upstream answer, whatever its status code.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Relay forwards inbound requests to the configured upstream.
type Relay struct {
	upstream *url.URL
	client   *http.Client
	policy   RetryPolicy
	sleep    func(time.Duration)
	traceID  func() string
	log      logrus.FieldLogger
	metrics  *telemetry.Metrics
}

// Option customizes a Relay.
type Option func(*Relay)

// WithClient replaces the HTTP client used for upstream calls.
func WithClient(c *http.Client) Option {
	return func(r *Relay) { r.client = c }
}

// WithSleep replaces the function used to wait between attempts.
func WithSleep(sleep func(time.Duration)) Option {
	return func(r *Relay) { r.sleep = sleep }
}

// WithTraceIDs replaces the trace id generator.
func WithTraceIDs(gen func() string) Option {
	return func(r *Relay) { r.traceID = gen }
}

// WithLogger sets the logger for attempt and exhaustion events.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Relay) { r.log = log }
}

// WithMetrics records attempt outcomes on m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(r *Relay) { r.metrics = m }
}

// NewRelay creates a relay for upstream, an absolute http(s) URL whose path
// and query are ignored.
func NewRelay(upstream string, policy RetryPolicy, timeout time.Duration, opts ...Option) (*Relay, error) {
	u, err := url.Parse(upstream)
	if err != nil {
		return nil, fmt.Errorf("parse upstream url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("upstream url must be absolute http(s), got %q", upstream)
	}

	r := &Relay{
		upstream: u,
		client:   newUpstreamClient(timeout),
		policy:   policy.normalize(),
		sleep:    time.Sleep,
		traceID:  func() string { return uuid.NewString() },
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// newUpstreamClient never follows redirects: a 3xx is an upstream answer
// like any other and goes back to the caller.
func newUpstreamClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Upstream returns the configured upstream with any password masked.
func (r *Relay) Upstream() string {
	return r.upstream.Redacted()
}

// Policy returns the effective retry policy.
func (r *Relay) Policy() RetryPolicy {
	return r.policy
}

// Target builds the upstream URL for an inbound request: the upstream's
// scheme, userinfo and host with the inbound path and query kept verbatim.
func (r *Relay) Target(inbound *http.Request) *url.URL {
	return &url.URL{
		Scheme:   r.upstream.Scheme,
		User:     r.upstream.User,
		Host:     r.upstream.Host,
		Path:     inbound.URL.Path,
		RawPath:  inbound.URL.RawPath,
		RawQuery: inbound.URL.RawQuery,
	}
}

// Relay sends body with method to the upstream on behalf of inbound.
//
// Any HTTP response, 4xx and 5xx included, is returned as is after a single
// attempt. Transport failures are retried per the policy; when attempts run
// out the cause is logged and ErrUpstreamUnavailable is returned. Cancellation
// of ctx does not interrupt the retry loop.
func (r *Relay) Relay(ctx context.Context, body []byte, method string, inbound *http.Request) (*Response, error) {
	ctx = context.WithoutCancel(ctx)

	traceID := r.traceID()
	target := r.Target(inbound)
	header := outboundHeader(inbound.Header, traceID)

	log := r.log.WithFields(logrus.Fields{
		"trace_id": traceID,
		"method":   method,
		"target":   target.Redacted(),
	})

	var lastErr error
	for attempt := 1; ; attempt++ {
		resp, err := r.attempt(ctx, method, target, header, body)
		if err == nil {
			r.metrics.RecordProxyAttempt(telemetry.OutcomeResponse)
			log.WithFields(logrus.Fields{"attempt": attempt, "status": resp.StatusCode}).Info("upstream responded")
			return resp, nil
		}

		lastErr = err
		r.metrics.RecordProxyAttempt(telemetry.OutcomeTransportError)
		if !r.policy.ShouldRetry(attempt) {
			break
		}

		delay := r.policy.Delay(attempt)
		log.WithError(err).WithFields(logrus.Fields{"attempt": attempt, "retry_in": delay}).Warn("upstream attempt failed")
		r.sleep(delay)
	}

	r.metrics.RecordProxyExhausted()
	log.WithError(lastErr).WithField("attempts", r.policy.MaxAttempts).Error("proxy relay exhausted retries")
	return nil, ErrUpstreamUnavailable
}

func (r *Relay) attempt(ctx context.Context, method string, target *url.URL, header http.Header, body []byte) (*Response, error) {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header = header.Clone()

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       payload,
	}, nil
}

// outboundHeader copies the inbound headers, dropping the encoding headers so
// the client negotiates and decodes compression itself.
func outboundHeader(in http.Header, traceID string) http.Header {
	out := in.Clone()
	if out == nil {
		out = http.Header{}
	}
	out.Del("Content-Encoding")
	out.Del("Accept-Encoding")
	out.Set(TraceHeader, traceID)
	return out
}
