package domain

import (
	"errors"
	"regexp"
	"strings"

	"github.com/rivo/uniseg"
)

// Validation errors returned by the Parse* constructors.
var (
	ErrInvalidName  = errors.New("invalid subscriber name")
	ErrInvalidEmail = errors.New("invalid subscriber email")
)

// maxNameGraphemes bounds the display length of a subscriber name. Counted
// in grapheme clusters so multi-byte characters count once.
const maxNameGraphemes = 256

// forbiddenNameChars are rejected to keep names safe to embed in SQL logs,
// headers and HTML without escaping surprises.
const forbiddenNameChars = `/()"<>\{}`

// SubscriberName is a validated subscriber display name. The zero value is
// invalid; obtain one via ParseSubscriberName.
type SubscriberName struct {
	value string
}

// ParseSubscriberName validates a raw name. It fails when the trimmed input
// is empty, the input exceeds 256 graphemes, or it contains any of
// / ( ) " < > \ { }.
func ParseSubscriberName(raw string) (SubscriberName, error) {
	if strings.TrimSpace(raw) == "" {
		return SubscriberName{}, ErrInvalidName
	}
	if uniseg.GraphemeClusterCount(raw) > maxNameGraphemes {
		return SubscriberName{}, ErrInvalidName
	}
	if strings.ContainsAny(raw, forbiddenNameChars) {
		return SubscriberName{}, ErrInvalidName
	}
	return SubscriberName{value: raw}, nil
}

// String returns the validated name unchanged.
func (n SubscriberName) String() string { return n.value }

// emailRegex matches local-part@domain with at least one dotted domain
// label. Syntactic check only; no DNS or mailbox verification.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// SubscriberEmail is a syntactically valid email address. The zero value is
// invalid; obtain one via ParseSubscriberEmail.
type SubscriberEmail struct {
	value string
}

// ParseSubscriberEmail validates raw against standard email-address syntax.
func ParseSubscriberEmail(raw string) (SubscriberEmail, error) {
	if !emailRegex.MatchString(raw) {
		return SubscriberEmail{}, ErrInvalidEmail
	}
	return SubscriberEmail{value: raw}, nil
}

// String returns the validated address unchanged.
func (e SubscriberEmail) String() string { return e.value }

// NewSubscriber is a validated, not-yet-persisted intent to subscribe. It
// can only be built from inputs that both parsed successfully.
type NewSubscriber struct {
	Name  SubscriberName
	Email SubscriberEmail
}

// ParseNewSubscriber validates both fields of a raw submission. Either
// failure aborts; a NewSubscriber is never built from partially valid data.
func ParseNewSubscriber(rawName, rawEmail string) (NewSubscriber, error) {
	name, err := ParseSubscriberName(rawName)
	if err != nil {
		return NewSubscriber{}, err
	}
	email, err := ParseSubscriberEmail(rawEmail)
	if err != nil {
		return NewSubscriber{}, err
	}
	return NewSubscriber{Name: name, Email: email}, nil
}
