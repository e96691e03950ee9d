package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-sitebuilder/internal/widgets"
)

const (
	codeValidation       = "COMMAND_VALIDATION_FAILED"
	codeCanceled         = "COMMAND_CONTEXT_CANCELED"
	codeTimeout          = "COMMAND_CONTEXT_TIMEOUT"
	codeContext          = "COMMAND_CONTEXT_ERROR"
	codeExecution        = "COMMAND_EXECUTION_FAILED"
	codeContentMalformed = "CONTENT_MALFORMED"
	codeContentInvalid   = "CONTENT_INVALID"
)

// errorRule pairs a sentinel with the wrapper applied when err matches it.
type errorRule struct {
	target error
	wrap   func(error) error
}

func invalid(message, code string) func(error) error {
	return func(err error) error {
		return goerrors.Wrap(err, goerrors.CategoryValidation, message).WithTextCode(code)
	}
}

func failed(message, code string) func(error) error {
	return func(err error) error {
		return goerrors.Wrap(err, goerrors.CategoryCommand, message).WithTextCode(code)
	}
}

var contextRules = []errorRule{
	{context.Canceled, failed("command execution cancelled", codeCanceled)},
	{context.DeadlineExceeded, failed("command execution deadline exceeded", codeTimeout)},
}

// Rejected documents are validation failures, not failed writes.
var executeRules = append([]errorRule{
	{widgets.ErrMalformedTree, invalid("container content is malformed", codeContentMalformed)},
	{widgets.ErrAttributeValidation, invalid("container content failed validation", codeContentInvalid)},
}, contextRules...)

var (
	wrapValidation = invalid("command validation failed", codeValidation)
	wrapContext    = failed("command context error", codeContext)
	wrapExecution  = failed("command execution failed", codeExecution)
)

func classify(err error, rules []errorRule, fallback func(error) error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			return rule.wrap(err)
		}
	}
	return fallback(err)
}

func wrapValidationError(err error) error {
	return classify(err, nil, wrapValidation)
}

func wrapContextError(err error) error {
	return classify(err, contextRules, wrapContext)
}

func wrapExecuteError(err error) error {
	return classify(err, executeRules, wrapExecution)
}
