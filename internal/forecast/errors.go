package forecast

import (
	"fmt"

	"pos-saas/internal/domain"
)

// ModelUnavailable and FeatureMismatch are the two forecaster-specific
// failure modes named in spec.md §4.2. They wrap domain.ErrUnavailable and
// domain.ErrBadRequest respectively, so errors.Is matches the domain
// sentinel at the engine and HTTP boundaries.
var (
	ErrModelUnavailable = fmt.Errorf("model unavailable: %w", domain.ErrUnavailable)
	ErrFeatureMismatch  = fmt.Errorf("feature mismatch: %w", domain.ErrBadRequest)
)
