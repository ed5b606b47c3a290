package validator

import (
	"github.com/go-playground/validator/v10"
)

// One validator for the whole process: struct metadata is cached per
// instance, and custom rules registered here reach every service.
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Get returns the process-wide validator instance
func Get() *validator.Validate {
	return validate
}
