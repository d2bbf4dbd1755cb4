package api

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"bgcompose/internal/config"
	"bgcompose/internal/domain"
	"bgcompose/internal/pipeline"
)

const outputFilename = "output.png"

type composer interface {
	Compose(ctx context.Context, foreground, background domain.UploadedFile) (domain.CompositeResult, error)
}

type Server struct {
	logger   *zap.Logger
	composer composer
	upload   config.UploadConfig
	limiter  RateLimiter
	metrics  *metrics
	engine   *gin.Engine
}

func NewServer(logger *zap.Logger, composer composer, upload config.UploadConfig, limiter RateLimiter) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		logger:   logger,
		composer: composer,
		upload:   upload,
		limiter:  limiter,
		metrics:  newMetrics(),
		engine:   gin.New(),
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(s.withRequestID())
	s.engine.Use(s.withHTTPMetrics())
	s.engine.MaxMultipartMemory = int64(upload.MaxFileSizeMB) * 2 * 1024 * 1024
	s.engine.SetHTMLTemplate(template.Must(template.New("index").Parse(indexHTML)))

	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	s.engine.GET("/", s.handleIndex)
	s.engine.GET("/healthz", s.handleHealthz)
	s.engine.GET("/metrics", gin.WrapH(s.metrics.metricsHandler()))
	s.engine.POST("/v1/compose", s.withRateLimit(), s.handleCompose)
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index", gin.H{
		"AllowedFormats": s.upload.AllowedFormats,
		"MaxFileSizeMB":  s.upload.MaxFileSizeMB,
	})
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleCompose(c *gin.Context) {
	started := time.Now()
	requestID := c.GetString(requestIDKey)
	logger := s.logger.With(zap.String("request_id", requestID))

	foreground, err := readUpload(c, "foreground")
	if err != nil {
		s.metrics.composeTotal.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	background, err := readUpload(c, "background")
	if err != nil {
		s.metrics.composeTotal.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.composer.Compose(c.Request.Context(), foreground, background)
	if err != nil {
		status, message, outcome := classifyComposeError(err)
		logger.Warn("compose failed",
			zap.String("outcome", outcome),
			zap.Int("status", status),
			zap.Error(err),
		)
		s.metrics.composeTotal.WithLabelValues(outcome).Inc()
		c.JSON(status, gin.H{"error": message})
		return
	}

	logger.Info("compose succeeded",
		zap.Int("width", result.Width),
		zap.Int("height", result.Height),
		zap.Duration("elapsed", time.Since(started)),
	)
	s.metrics.composeTotal.WithLabelValues("succeeded").Inc()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", outputFilename))
	c.Header("X-Compose-Width", strconv.Itoa(result.Width))
	c.Header("X-Compose-Height", strconv.Itoa(result.Height))
	c.Data(http.StatusOK, "image/png", result.PNG)
}

// classifyComposeError maps the pipeline error taxonomy onto HTTP. The
// message is the single user-facing diagnostic; wrapped internals stay
// in the logs.
func classifyComposeError(err error) (status int, message, outcome string) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest, vErr.Error(), "validation_rejected"
	case errors.Is(err, pipeline.ErrInvalidImage):
		return http.StatusUnprocessableEntity, "one of the uploaded files is not a valid image, please try again", "invalid_image"
	case errors.Is(err, pipeline.ErrBackgroundRemoval):
		return http.StatusBadGateway, "an unexpected error occurred while removing the background", "collaborator_failed"
	default:
		return http.StatusInternalServerError, "an unexpected error occurred", "failed"
	}
}

func readUpload(c *gin.Context, field string) (domain.UploadedFile, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("missing %s image, please upload both images", field)
	}

	data, err := readAllMultipart(header)
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("failed to read %s image", field)
	}

	return domain.UploadedFile{
		Filename: header.Filename,
		Size:     header.Size,
		Data:     data,
	}, nil
}

func readAllMultipart(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

const requestIDKey = "request_id"

func (s *Server) withRequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := ksuid.New().String()
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}
