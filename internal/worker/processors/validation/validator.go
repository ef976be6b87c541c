package validation

import (
	"fmt"

	"storefront/internal/logger"

	"github.com/go-playground/validator/v10"
)

type Validator struct {
	logger   *logger.Logger
	validate *validator.Validate
}

func New(logger *logger.Logger) *Validator {
	return &Validator{
		logger:   logger,
		validate: validator.New(),
	}
}

// ValidateEvent checks the struct tags of a decoded event.
func (v *Validator) ValidateEvent(event interface{}) error {
	if err := v.validate.Struct(event); err != nil {
		v.logger.Debug("Rejected event %+v: %v", event, err)
		return fmt.Errorf("invalid event: %w", err)
	}
	return nil
}
