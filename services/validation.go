// services/validation.go
package services

import "github.com/go-playground/validator/v10"

// validate checks the tagged request structs at the HTTP boundary before any
// payload enters business logic.
var validate = validator.New()
