package pipeline

import (
	"fmt"
	"strings"

	"bgcompose/internal/config"
	"bgcompose/internal/domain"
)

// Validator gates uploads on their declared extension and byte size.
// It never inspects file contents; a mislabeled file passes here and is
// caught by the decoder instead.
type Validator struct {
	cfg config.UploadConfig
}

func NewValidator(cfg config.UploadConfig) Validator {
	return Validator{cfg: cfg}
}

func (v Validator) Validate(file domain.UploadedFile, label string) error {
	ext := declaredExtension(file.Filename)
	if !v.cfg.AllowsFormat(ext) {
		return &domain.ValidationError{
			Label:  label,
			Reason: fmt.Sprintf("format %q is not supported, allowed formats are %s", ext, strings.Join(v.cfg.AllowedFormats, ", ")),
		}
	}

	sizeMB := float64(file.Size) / (1024 * 1024)
	if sizeMB > float64(v.cfg.MaxFileSizeMB) {
		return &domain.ValidationError{
			Label:  label,
			Reason: fmt.Sprintf("file size exceeds %dMB", v.cfg.MaxFileSizeMB),
		}
	}

	return nil
}

// declaredExtension returns the lowercased substring after the last dot,
// or "" when the filename has no dot.
func declaredExtension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}
