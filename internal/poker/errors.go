package poker

import "fmt"

// Kind classifies a failure the way the room actor and wire codec need
// to: to decide whether it is reported to one player (roomError) or
// logged and ignored.
type Kind int

const (
	// KindProtocol: the inbound message was malformed (bad JSON shape,
	// unknown message type).
	KindProtocol Kind = iota
	// KindLookup: a referenced room, player or seat does not exist.
	KindLookup
	// KindPrecondition: the operation was well-formed but the current
	// state does not allow it (e.g. acting with no hand in progress).
	KindPrecondition
	// KindRules: the operation violates a poker rule (bet under minimum
	// raise, acting out of turn).
	KindRules
	// KindTransport: the underlying connection failed.
	KindTransport
	// KindInternal: an invariant was violated; this indicates a bug.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindProtocol:
		return "protocol"
	case KindLookup:
		return "lookup"
	case KindPrecondition:
		return "precondition"
	case KindRules:
		return "rules"
	case KindTransport:
		return "transport"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is the error type returned by table, hand and room operations.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newErr(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

func ProtocolError(format string, args ...any) *Error     { return newErr(KindProtocol, format, args...) }
func LookupError(format string, args ...any) *Error       { return newErr(KindLookup, format, args...) }
func PreconditionError(format string, args ...any) *Error { return newErr(KindPrecondition, format, args...) }
func RulesError(format string, args ...any) *Error        { return newErr(KindRules, format, args...) }
func TransportError(format string, args ...any) *Error    { return newErr(KindTransport, format, args...) }
func InternalError(format string, args ...any) *Error     { return newErr(KindInternal, format, args...) }

// KindOf extracts the Kind from err, defaulting to KindInternal for any
// error that was not produced by this package.
func KindOf(err error) Kind {
	if pe, ok := err.(*Error); ok {
		return pe.Kind
	}
	return KindInternal
}
