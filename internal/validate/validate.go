package validate

// This package adds struct and field validation as a thin wrapper around the go-playground/validator package.
//
// e.g. internal/storage/storage.go
//   type Lookup struct {
// 		 ...
//       ID          string `json:"id" validate:"required,uuid4"`
//       CharacterID string `json:"character_id" validate:"character_id"`
//   }
//
// The character_id alias is registered once on the shared instance.

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

// CharacterIDTag validates a character ID: 1-20 ASCII digits.
const CharacterIDTag = "character_id"

const characterIDRules = "required,number,max=20"

// validatorInstance is a shared validator for the application.
// It is initialized once and reused to avoid repeated allocations.
//
//nolint:gochecknoglobals // Shared validator singleton.
var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

// get returns a process-wide singleton of the validator.
func get() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New(validator.WithRequiredStructEnabled())
		validatorInst.RegisterAlias(CharacterIDTag, characterIDRules)
	})
	return validatorInst
}

// Struct validates a struct using the shared validator instance.
func Struct(v any) error {
	return get().Struct(v)
}

// Var validates a single variable against the provided tag constraints.
func Var(field any, tag string) error {
	return get().Var(field, tag)
}

// CharacterID reports whether id is an acceptable character ID.
func CharacterID(id string) error {
	return Var(id, CharacterIDTag)
}
