// Package validation holds the custom validator tags used by request bindings
package validation

import (
	"github.com/go-playground/validator/v10"
)

// Tag names usable in `binding:"..."` struct tags
const (
	TagGroupRole   = "grouprole"
	TagDeleteScope = "deletescope"
)

// Allowed values per tag
var (
	GroupRoles   = []string{"admin", "member"}
	DeleteScopes = []string{"self", "everyone"}
)

func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		for _, a := range allowed {
			if v == a {
				return true
			}
		}
		return false
	}
}

// Rules maps every custom tag to its check
var Rules = map[string]validator.Func{
	TagGroupRole:   oneOf(GroupRoles),
	TagDeleteScope: oneOf(DeleteScopes),
}

// Register installs Rules on v
func Register(v *validator.Validate) error {
	for tag, fn := range Rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}
