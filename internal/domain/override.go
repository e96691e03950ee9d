package domain

import "github.com/google/uuid"

// OverrideKind classifies a nullable page override column.
type OverrideKind int

const (
	// OverrideInherit defers to the parent page or the site default.
	OverrideInherit OverrideKind = iota
	// OverrideNone explicitly disables the region and stops inheritance.
	OverrideNone
	// OverrideSpecific selects a concrete record.
	OverrideSpecific
)

// Inherit returns the override value that defers to ancestors.
func Inherit() *uuid.UUID { return nil }

// None returns the override value that disables a region.
func None() *uuid.UUID {
	id := uuid.Nil
	return &id
}

// Specific returns an override selecting id.
func Specific(id uuid.UUID) *uuid.UUID {
	return &id
}

// ClassifyOverride reports how an override value is interpreted.
func ClassifyOverride(value *uuid.UUID) OverrideKind {
	switch {
	case value == nil:
		return OverrideInherit
	case *value == uuid.Nil:
		return OverrideNone
	default:
		return OverrideSpecific
	}
}
