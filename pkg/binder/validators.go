package binder

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/shishobooks/folio/pkg/models"
)

var hexColorRE = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// styleKindValidator accepts an empty value so it can be combined with
// omitempty on patch payloads.
func styleKindValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.IsValidHighlightStyle(value)
}

// cssColorValidator accepts hex colors only. They end up inside a script call
// in the rendered page, so nothing else gets through.
func cssColorValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || hexColorRE.MatchString(value)
}
