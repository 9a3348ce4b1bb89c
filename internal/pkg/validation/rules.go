package validation

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/aboadu/classtrack/internal/pkg/sessioncode"
)

// sessionCodeRule validates that a field carries a well-formed session code,
// tolerating lowercase and surrounding whitespace from hand entry.
func sessionCodeRule(fl validator.FieldLevel) bool {
	return sessioncode.Valid(sessioncode.Normalize(fl.Field().String()))
}

// RegisterCustomValidators installs application-specific rules on gin's
// binding validator. Called once during bootstrap.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("sessioncode", sessionCodeRule)
}
