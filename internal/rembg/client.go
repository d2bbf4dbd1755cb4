package rembg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// maxResponseBytes caps how much of the collaborator response is read.
// A cutout of a <=1024px PNG should never come close to this.
const maxResponseBytes = 64 << 20

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client calls a rembg-server style HTTP API: the image goes up as a
// multipart "file" field and the response body is the processed image.
type Client struct {
	httpClient *http.Client
	endpoint   string
	tracer     trace.Tracer
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/api/remove",
		tracer:   otel.Tracer("bgcompose/rembg"),
	}
}

func (c *Client) Remove(ctx context.Context, encoded []byte) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "rembg.remove", trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("rembg.endpoint", c.endpoint),
		attribute.Int("rembg.request_bytes", len(encoded)),
	)
	defer span.End()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "foreground.png")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(encoded); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, fmt.Errorf("call background removal service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("background removal service returned status=%d", resp.StatusCode)
		span.RecordError(err)
		span.SetStatus(codes.Error, "non-2xx response")
		return nil, err
	}

	processed, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read response failed")
		return nil, fmt.Errorf("read background removal response: %w", err)
	}
	if len(processed) == 0 {
		return nil, fmt.Errorf("background removal service returned an empty body")
	}

	span.SetAttributes(attribute.Int("rembg.response_bytes", len(processed)))
	return processed, nil
}
