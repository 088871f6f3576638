package whois_parsers

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrUnexpectedResponse is wrapped when a reply matches none of the shapes a
// parser knows for a property.
var ErrUnexpectedResponse = errors.New("unexpected response")

// ParserNotFoundError is returned when no parser is registered for a host.
type ParserNotFoundError struct {
	Host string
}

func (e *ParserNotFoundError) Error() string {
	return fmt.Sprintf("unable to find a parser for the server %q", e.Host)
}

// UnsupportedPropertyError is returned when a property outside the parser's
// capability set is requested.
type UnsupportedPropertyError struct {
	Property Property
	Parser   string
}

func (e *UnsupportedPropertyError) Error() string {
	return fmt.Sprintf("property %s is not supported for the server %s", e.Property, e.Parser)
}

// IsUnsupported reports whether err is an UnsupportedPropertyError.
func IsUnsupported(err error) bool {
	var u *UnsupportedPropertyError
	return errors.As(err, &u)
}
