// Package validation validates structs through `validate` struct tags using
// go-playground/validator and reports failures as *errors.AppError values
// with code INVALID_INPUT.
//
//	type Config struct {
//	    Name string `mapstructure:"name" validate:"required"`
//	}
//	err := validation.Validate(cfg)
package validation
