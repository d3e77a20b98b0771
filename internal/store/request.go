package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"projecttable/internal/trace"
)

// RequestIDHeader carries a per-request id for correlating client and server logs.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody caps how much of an error response is kept in the error.
const maxErrorBody = 512

// transport is the request plumbing shared by Client and Collection.
type transport struct {
	base *url.URL
	options
}

func newTransport(baseURL string, opts []Option) (transport, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return transport{}, fmt.Errorf("parse base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return transport{}, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	return transport{base: u, options: newOptions(opts)}, nil
}

// endpoint joins path segments onto the base URL.
func (t transport) endpoint(segments ...string) string {
	u := *t.base
	u.Path = strings.TrimRight(u.Path, "/")
	for _, s := range segments {
		u.Path += "/" + url.PathEscape(s)
	}
	return u.String()
}

func idSegment(id int) string { return strconv.Itoa(id) }

// do sends req and decodes a JSON response into out when out is non-nil.
// Every failure comes back as a *NetworkError.
func (t transport) do(ctx context.Context, op string, req *http.Request, out any) (err error) {
	start := time.Now()
	reqID := uuid.NewString()

	ctx, span := t.tracer.Start(ctx, "store."+op,
		oteltrace.WithSpanKind(oteltrace.SpanKindClient),
		oteltrace.WithAttributes(
			trace.Attr("op", op),
			trace.Attr("http.method", req.Method),
			trace.Attr("http.url", req.URL.String()),
			trace.Attr("request_id", reqID),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		t.metrics.Observe(op, start, err)
		t.logger.Debug("store request",
			zap.String("op", op),
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.String("request_id", reqID),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
	}()

	req = req.WithContext(ctx)
	req.Header.Set(RequestIDHeader, reqID)
	if out != nil {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	span.SetAttributes(trace.IntAttr("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var bodyErr error
		if msg := strings.TrimSpace(string(body)); msg != "" {
			bodyErr = errors.New(msg)
		}
		return &NetworkError{Op: op, Status: resp.StatusCode, Err: bodyErr}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
