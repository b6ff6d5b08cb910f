package domain

import "errors"

var (
	ErrValidation          = errors.New("validation")
	ErrInvalidBasket       = errors.New("invalid basket")
	ErrGuestDetailsMissing = errors.New("guest details missing")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrFeatureLimit        = errors.New("feature limit exceeded")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrNotFound            = errors.New("not found")
	ErrDuplicate           = errors.New("duplicate")
)

// Error carries a message that is safe to show to the client verbatim.
// errors.Is matches it against its Kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func Errorf(kind error, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

var (
	ErrEmptyBasket = Errorf(ErrInvalidBasket, "Order items are required.")

	ErrUnknownItems = Errorf(ErrInvalidBasket, "One or more items are invalid.")

	ErrNegativePrice = Errorf(ErrInvalidBasket, "One or more items have an invalid price.")

	ErrInvalidGovernorate = Errorf(ErrInvalidBasket, "Please select a valid delivery area.")

	ErrMalformedOrder = Errorf(ErrInvalidBasket, "Invalid order request.")

	ErrMissingGuest = Errorf(ErrGuestDetailsMissing, "Guest email and name are required.")

	ErrFeatureLimitExceeded = Errorf(ErrFeatureLimit, "You can only feature 7 items.")
)

// Message returns the client-facing text of err, or fallback when err carries none.
func Message(err error, fallback string) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Msg
	}
	return fallback
}
