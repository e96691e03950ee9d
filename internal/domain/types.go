package domain

import (
	"fmt"
	"strings"
)

// Position is the page region a menu is rendered in.
type Position string

const (
	PositionTop   Position = "top"
	PositionLeft  Position = "left"
	PositionRight Position = "right"
)

// Positions lists every menu position in render order.
func Positions() []Position {
	return []Position{PositionTop, PositionLeft, PositionRight}
}

// Valid reports whether p is a known position.
func (p Position) Valid() bool {
	switch p {
	case PositionTop, PositionLeft, PositionRight:
		return true
	default:
		return false
	}
}

func (p Position) String() string { return string(p) }

// ParsePosition normalises value into a Position. Blank input maps to top.
func ParsePosition(value string) (Position, error) {
	trimmed := Position(strings.ToLower(strings.TrimSpace(value)))
	if trimmed == "" {
		return PositionTop, nil
	}
	if !trimmed.Valid() {
		return "", fmt.Errorf("domain: unknown menu position %q", value)
	}
	return trimmed, nil
}

// ContainerKind names the record types that own a widget tree.
type ContainerKind string

const (
	ContainerPage   ContainerKind = "page"
	ContainerMenu   ContainerKind = "menu"
	ContainerFooter ContainerKind = "footer"
)

// ParseContainerKind maps value onto a ContainerKind.
func ParseContainerKind(value string) (ContainerKind, error) {
	switch kind := ContainerKind(strings.ToLower(strings.TrimSpace(value))); kind {
	case ContainerPage, ContainerMenu, ContainerFooter:
		return kind, nil
	default:
		return "", fmt.Errorf("domain: unknown container kind %q", value)
	}
}
