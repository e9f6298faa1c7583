package compmeta

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinel errors for component operations.
var (
	ErrDefinition   = errors.New("compmeta: component definition error")
	ErrUnknownEvent = errors.New("compmeta: unknown event")
)

// Definition rules reported in DefinitionError.Rule.
const (
	RuleName          = "name"
	RuleMissingEvents = "missing-events"
	RuleEventType     = "event-type"
)

// DefinitionError is returned by Define when a class declaration is
// invalid. The class is never constructed.
type DefinitionError struct {
	Class string
	Rule  string
	Msg   string
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("compmeta: %s: %s", e.Class, e.Msg)
}

// Is makes errors.Is(err, ErrDefinition) match any DefinitionError.
func (e *DefinitionError) Is(target error) bool {
	return target == ErrDefinition
}

// IsDefinitionError checks if err is or wraps a DefinitionError.
func IsDefinitionError(err error) bool {
	return errors.Is(err, ErrDefinition)
}

// IsUnknownEvent checks if err is an unknown-event error.
func IsUnknownEvent(err error) bool {
	return errors.Is(err, ErrUnknownEvent)
}

func definitionError(class, rule, hint, format string, args ...any) error {
	err := error(&DefinitionError{Class: class, Rule: rule, Msg: fmt.Sprintf(format, args...)})
	if hint != "" {
		err = errors.WithHint(err, hint)
	}
	return err
}
