package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"bgcompose/internal/config"
	"bgcompose/internal/domain"
	"bgcompose/internal/rembg"
)

// ErrBackgroundRemoval marks a failure of the external segmentation
// service, including an unparseable response. The pipeline never
// attempts a local fallback cutout.
var ErrBackgroundRemoval = errors.New("background removal failed")

// Processor runs one compose request end to end: validate both uploads,
// decode, downscale, strip the foreground's background via the external
// service, reconcile geometry, blend, encode. Every stage's output is
// the next stage's sole input; a Processor holds no per-request state
// and is safe to share across concurrent requests.
type Processor struct {
	cfg       config.UploadConfig
	validator Validator
	remover   rembg.Remover
	logger    *zap.Logger
	tracer    trace.Tracer
}

func NewProcessor(cfg config.UploadConfig, remover rembg.Remover, logger *zap.Logger) *Processor {
	return &Processor{
		cfg:       cfg,
		validator: NewValidator(cfg),
		remover:   remover,
		logger:    logger,
		tracer:    otel.Tracer("bgcompose/pipeline"),
	}
}

func (p *Processor) Compose(ctx context.Context, foreground, background domain.UploadedFile) (domain.CompositeResult, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.compose")
	defer span.End()

	if err := p.validator.Validate(foreground, "foreground"); err != nil {
		return domain.CompositeResult{}, err
	}
	if err := p.validator.Validate(background, "background"); err != nil {
		return domain.CompositeResult{}, err
	}

	fgImg, err := Decode(foreground.Data)
	if err != nil {
		return domain.CompositeResult{}, fmt.Errorf("decode foreground: %w", err)
	}
	bgImg, err := Decode(background.Data)
	if err != nil {
		return domain.CompositeResult{}, fmt.Errorf("decode background: %w", err)
	}

	p.logger.Info("decoded uploads",
		zap.Int("foreground_width", fgImg.Bounds().Dx()),
		zap.Int("foreground_height", fgImg.Bounds().Dy()),
		zap.Int("background_width", bgImg.Bounds().Dx()),
		zap.Int("background_height", bgImg.Bounds().Dy()),
	)

	fgImg = Downscale(fgImg, p.cfg.MaxDimensionPx)
	bgImg = Downscale(bgImg, p.cfg.MaxDimensionPx)

	cutout, err := p.removeBackground(ctx, fgImg)
	if err != nil {
		return domain.CompositeResult{}, err
	}

	fgRGBA, bgRGBA := Reconcile(cutout, bgImg)

	out, err := Composite(bgRGBA, fgRGBA)
	if err != nil {
		return domain.CompositeResult{}, fmt.Errorf("composite stage: %w", err)
	}

	encoded, err := EncodePNG(out)
	if err != nil {
		return domain.CompositeResult{}, fmt.Errorf("export stage: %w", err)
	}

	width := out.Bounds().Dx()
	height := out.Bounds().Dy()
	span.SetAttributes(
		attribute.Int("compose.width", width),
		attribute.Int("compose.height", height),
		attribute.Int("compose.bytes", len(encoded)),
	)
	p.logger.Info("compose finished",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("bytes", len(encoded)),
	)

	return domain.CompositeResult{PNG: encoded, Width: width, Height: height}, nil
}

// removeBackground stages the downscaled foreground through the external
// collaborator: lossless encode, opaque synchronous call, decode of the
// returned bytes. All three failure modes surface as ErrBackgroundRemoval.
func (p *Processor) removeBackground(ctx context.Context, foreground image.Image) (image.Image, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.remove_background")
	defer span.End()

	staged, err := EncodePNG(foreground)
	if err != nil {
		return nil, fmt.Errorf("stage foreground for removal: %w", err)
	}

	processed, err := p.remover.Remove(ctx, staged)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "removal call failed")
		return nil, fmt.Errorf("%w: %v", ErrBackgroundRemoval, err)
	}

	cutout, err := Decode(processed)
	if err != nil {
		span.SetStatus(codes.Error, "unusable removal output")
		return nil, fmt.Errorf("%w: service returned unusable output", ErrBackgroundRemoval)
	}

	return cutout, nil
}
