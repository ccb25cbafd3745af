package ai

import (
	"errors"
	"fmt"

	"github.com/bryanwahyu/estatehub/internal/domain/errs"
)

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrNotConfigured is returned when no provider key was configured.
var ErrNotConfigured = fmt.Errorf("ai provider not configured: %w", errs.ErrUnavailable)
