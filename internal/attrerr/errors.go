// Package attrerr defines the error taxonomy shared by the attribute store,
// the dependency graph and the step library.
//
// Every condition is reported with a *Error carrying one of the sentinel
// kinds below. Callers match kinds with errors.Is and inspect details with
// errors.As:
//
//	var aerr *attrerr.Error
//	if errors.As(err, &aerr) && errors.Is(err, attrerr.ErrParentNotSet) {
//	    log.Printf("%s is blocked by %s", aerr.Attribute, aerr.Parent)
//	}
package attrerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAttributeReserved is returned when describe uses a reserved name.
	ErrAttributeReserved = errors.New("attribute name is reserved")
	// ErrAttributeNotExist is returned for names with no graph presence at all.
	ErrAttributeNotExist = errors.New("attribute does not exist")
	// ErrAttributeNotDescribed is returned for dependency placeholders that have no definition.
	ErrAttributeNotDescribed = errors.New("attribute is not described")
	// ErrAttributeNotSet is returned for declared attributes that hold no value yet.
	ErrAttributeNotSet = errors.New("attribute is not set")
	// ErrParentNotSet is returned when a required dependency holds no value.
	ErrParentNotSet = errors.New("parent attribute is not set")
	// ErrParentNotDescribed is returned when a required dependency has no definition.
	ErrParentNotDescribed = errors.New("parent attribute is not described")
	// ErrLoopDependency is returned when a change would make the dependency graph cyclic.
	ErrLoopDependency = errors.New("loop dependency")
	// ErrInvalidValue is returned by validation steps that reject a value.
	ErrInvalidValue = errors.New("invalid value")
)

// parents mirrors the kind hierarchy: a blocked parent is also a failed
// lookup of the same kind.
var parents = map[error]error{
	ErrParentNotSet:       ErrAttributeNotSet,
	ErrParentNotDescribed: ErrAttributeNotDescribed,
}

// Error is the concrete error type returned across the module.
type Error struct {
	// Kind is one of the Err* sentinels.
	Kind error
	// Attribute is the attribute the failing operation addressed.
	Attribute string
	// Parent names the blocking dependency for ErrParentNotSet and ErrParentNotDescribed.
	Parent string
	// Cycle lists the attributes left unordered by a failed cycle check.
	Cycle []string
	// Reason is a human readable detail, mostly set by validators.
	Reason string
	// Cause is an optional underlying error.
	Cause error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.Error())
	switch {
	case e.Parent != "":
		fmt.Fprintf(&sb, ": %q required by %q", e.Parent, e.Attribute)
	case e.Attribute != "":
		fmt.Fprintf(&sb, ": %q", e.Attribute)
	}
	if len(e.Cycle) > 0 {
		fmt.Fprintf(&sb, " among [%s]", strings.Join(e.Cycle, ", "))
	}
	if e.Reason != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Reason)
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Is reports whether target is the error's kind or the parent of that kind.
func (e *Error) Is(target error) bool {
	if target == e.Kind {
		return true
	}
	parent, ok := parents[e.Kind]
	return ok && target == parent
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Reserved reports a describe that collides with a reserved name.
func Reserved(name string) *Error {
	return &Error{Kind: ErrAttributeReserved, Attribute: name}
}

// NotExist reports a name that is not a key of the store.
func NotExist(name string) *Error {
	return &Error{Kind: ErrAttributeNotExist, Attribute: name}
}

// NotDescribed reports a placeholder name read or assigned directly.
func NotDescribed(name string) *Error {
	return &Error{Kind: ErrAttributeNotDescribed, Attribute: name}
}

// NotSet reports a declared attribute without a value.
func NotSet(name string) *Error {
	return &Error{Kind: ErrAttributeNotSet, Attribute: name}
}

// ParentNotSet reports that attribute could not be computed because parent holds no value.
func ParentNotSet(attribute, parent string) *Error {
	return &Error{Kind: ErrParentNotSet, Attribute: attribute, Parent: parent}
}

// ParentNotDescribed reports that attribute depends on a name that has no definition.
func ParentNotDescribed(attribute, parent string) *Error {
	return &Error{Kind: ErrParentNotDescribed, Attribute: attribute, Parent: parent}
}

// Loop reports the attributes a cycle check could not order.
func Loop(attribute string, cycle []string) *Error {
	return &Error{Kind: ErrLoopDependency, Attribute: attribute, Cycle: cycle}
}

// Invalid reports a value rejected by a validation step.
func Invalid(reason string) *Error {
	return &Error{Kind: ErrInvalidValue, Reason: reason}
}

// Invalidf is Invalid with a format string.
func Invalidf(format string, args ...any) *Error {
	return Invalid(fmt.Sprintf(format, args...))
}

// KindName returns a short, stable identifier for err's kind, suitable for
// metric labels and API payloads. Errors outside the taxonomy map to "internal".
func KindName(err error) string {
	var aerr *Error
	if !errors.As(err, &aerr) {
		return "internal"
	}
	switch aerr.Kind {
	case ErrAttributeReserved:
		return "AttributeReserved"
	case ErrAttributeNotExist:
		return "AttributeNotExist"
	case ErrAttributeNotDescribed:
		return "AttributeNotDescribed"
	case ErrAttributeNotSet:
		return "AttributeNotSet"
	case ErrParentNotSet:
		return "ParentNotSet"
	case ErrParentNotDescribed:
		return "ParentNotDescribed"
	case ErrLoopDependency:
		return "LoopDependency"
	case ErrInvalidValue:
		return "InvalidValue"
	default:
		return "internal"
	}
}
