package contentcmd

import (
	"context"
	"encoding/json"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/commands"
	"github.com/goliatone/go-sitebuilder/internal/footers"
	"github.com/goliatone/go-sitebuilder/internal/menus"
	"github.com/goliatone/go-sitebuilder/internal/pages"
	"github.com/goliatone/go-sitebuilder/internal/widgets"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

const saveContainerContentMessageType = "sitebuilder.content.save"

// ErrContainerUnavailable is returned when no service is wired for the
// requested container kind.
var ErrContainerUnavailable = errors.New("content command: container service not configured")

// ContainerKind names the record that owns a widget tree.
type ContainerKind string

const (
	KindPage   ContainerKind = "page"
	KindMenu   ContainerKind = "menu"
	KindFooter ContainerKind = "footer"
)

// SaveContainerContentCommand replaces the widget tree of a page, menu or
// footer. Omitted Styles keep the stored style blob.
type SaveContainerContentCommand struct {
	Kind        ContainerKind   `json:"kind"`
	ContainerID uuid.UUID       `json:"container_id"`
	Content     json.RawMessage `json:"content"`
	Styles      json.RawMessage `json:"styles,omitempty"`
	Strict      *bool           `json:"strict,omitempty"`
	Actor       uuid.UUID       `json:"actor,omitempty"`
}

// Type implements command.Message.
func (SaveContainerContentCommand) Type() string { return saveContainerContentMessageType }

// Validate checks the addressing fields. The document itself is validated by
// the owning service.
func (m SaveContainerContentCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Kind, validation.Required, validation.In(KindPage, KindMenu, KindFooter)),
		validation.Field(&m.ContainerID, validation.By(func(any) error {
			if m.ContainerID == uuid.Nil {
				return validation.NewError("content.save.container_id_required", "container_id is required")
			}
			return nil
		})),
		validation.Field(&m.Content, validation.Required),
	)
}

// PageContent saves page trees.
type PageContent interface {
	SaveContent(ctx context.Context, input pages.SaveContentInput) (*pages.SaveContentResult, error)
}

// MenuContent saves menu trees.
type MenuContent interface {
	SaveContent(ctx context.Context, input menus.SaveContentInput) (*menus.SaveContentResult, error)
}

// FooterContent saves footer trees.
type FooterContent interface {
	SaveContent(ctx context.Context, input footers.SaveContentInput) (*footers.SaveContentResult, error)
}

// Savers groups the container services. A nil member rejects its kind.
type Savers struct {
	Pages   PageContent
	Menus   MenuContent
	Footers FooterContent
}

// SaveOutcome reports a stored document and the attribute issues tolerated
// in non-strict mode.
type SaveOutcome struct {
	Kind        ContainerKind
	ContainerID uuid.UUID
	Issues      widgets.ValidationErrors
}

// SaveContainerContentHandler routes content saves to the owning service.
type SaveContainerContentHandler struct {
	inner *commands.Handler[SaveContainerContentCommand]
}

// NewSaveContainerContentHandler constructs the handler. onSaved is optional.
func NewSaveContainerContentHandler(savers Savers, logger interfaces.Logger, onSaved func(SaveOutcome), opts ...commands.HandlerOption[SaveContainerContentCommand]) *SaveContainerContentHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg SaveContainerContentCommand) error {
		issues, err := save(ctx, savers, msg)
		if err != nil {
			return err
		}
		if len(issues) > 0 {
			baseLogger.Warn("content.command.issues",
				"kind", msg.Kind,
				"container_id", msg.ContainerID,
				"issues", len(issues),
			)
		}
		if onSaved != nil {
			onSaved(SaveOutcome{Kind: msg.Kind, ContainerID: msg.ContainerID, Issues: issues})
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[SaveContainerContentCommand]{
		commands.WithLogger[SaveContainerContentCommand](baseLogger),
		commands.WithOperation[SaveContainerContentCommand]("content.save"),
		commands.WithMessageFields(func(msg SaveContainerContentCommand) map[string]any {
			return map[string]any{
				"kind":         msg.Kind,
				"container_id": msg.ContainerID,
				"bytes":        len(msg.Content),
			}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SaveContainerContentHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SaveContainerContentCommand].
func (h *SaveContainerContentHandler) Execute(ctx context.Context, msg SaveContainerContentCommand) error {
	return h.inner.Execute(ctx, msg)
}

func save(ctx context.Context, savers Savers, msg SaveContainerContentCommand) (widgets.ValidationErrors, error) {
	content := []byte(msg.Content)
	var styles []byte
	if len(msg.Styles) > 0 {
		styles = []byte(msg.Styles)
	}

	switch msg.Kind {
	case KindPage:
		if savers.Pages == nil {
			return nil, ErrContainerUnavailable
		}
		result, err := savers.Pages.SaveContent(ctx, pages.SaveContentInput{
			PageID: msg.ContainerID, Content: content, Styles: styles, Strict: msg.Strict, Actor: msg.Actor,
		})
		if err != nil {
			return nil, err
		}
		return result.Issues, nil
	case KindMenu:
		if savers.Menus == nil {
			return nil, ErrContainerUnavailable
		}
		result, err := savers.Menus.SaveContent(ctx, menus.SaveContentInput{
			MenuID: msg.ContainerID, Content: content, Styles: styles, Strict: msg.Strict, Actor: msg.Actor,
		})
		if err != nil {
			return nil, err
		}
		return result.Issues, nil
	case KindFooter:
		if savers.Footers == nil {
			return nil, ErrContainerUnavailable
		}
		result, err := savers.Footers.SaveContent(ctx, footers.SaveContentInput{
			FooterID: msg.ContainerID, Content: content, Styles: styles, Strict: msg.Strict, Actor: msg.Actor,
		})
		if err != nil {
			return nil, err
		}
		return result.Issues, nil
	}
	return nil, ErrContainerUnavailable
}
