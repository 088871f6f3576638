// Package whois_response holds the ordered replies collected for one lookup
// and exposes their normalized properties.
package whois_response

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/KincaidYang/whoisresolver/structs"
	"github.com/KincaidYang/whoisresolver/whois_parsers"
	"github.com/pkg/errors"
)

// ErrEmptyResponse is returned when a response is built without parts.
var ErrEmptyResponse = errors.New("response has no parts")

// Response is the immutable, ordered list of replies of one lookup.
type Response struct {
	parts    []structs.Part
	registry *whois_parsers.Registry

	contentOnce sync.Once
	content     string

	parserOnce sync.Once
	parser     *whois_parsers.Parser
	parserErr  error
}

// New builds a response resolving its parser in whois_parsers.Default.
func New(parts []structs.Part) (*Response, error) {
	return NewWithRegistry(parts, whois_parsers.Default)
}

// NewWithRegistry builds a response resolving its parser in registry.
func NewWithRegistry(parts []structs.Part, registry *whois_parsers.Registry) (*Response, error) {
	if len(parts) == 0 {
		return nil, ErrEmptyResponse
	}
	return &Response{
		parts:    append([]structs.Part(nil), parts...),
		registry: registry,
	}, nil
}

// Parts returns a copy of the parts in query order.
func (r *Response) Parts() []structs.Part {
	return append([]structs.Part(nil), r.parts...)
}

// Host returns the host of the last part, the most specific source.
func (r *Response) Host() string {
	return r.parts[len(r.parts)-1].Host
}

// Content returns the text of every part joined by a newline.
func (r *Response) Content() string {
	r.contentOnce.Do(func() {
		bodies := make([]string, len(r.parts))
		for i, p := range r.parts {
			bodies[i] = p.Body
		}
		r.content = strings.Join(bodies, "\n")
	})
	return r.content
}

func (r *Response) String() string { return r.Content() }

// Match returns the leftmost match of re in the content and its groups.
func (r *Response) Match(re *regexp.Regexp) []string {
	return re.FindStringSubmatch(r.Content())
}

// Matches reports whether re matches the content.
func (r *Response) Matches(re *regexp.Regexp) bool {
	return re.MatchString(r.Content())
}

// FirstCapture returns the first group of the first match of re, passed
// through each of fns. ok is false when re does not match.
func (r *Response) FirstCapture(re *regexp.Regexp, fns ...func(string) string) (string, bool) {
	m := r.Match(re)
	if len(m) < 2 {
		return "", false
	}
	v := m[1]
	for _, fn := range fns {
		v = fn(v)
	}
	return v, true
}

// Equal reports whether r and other are the same response or have the same
// content. No normalization is applied.
func (r *Response) Equal(other *Response) bool {
	if r == other {
		return true
	}
	if r == nil || other == nil {
		return false
	}
	return r.Content() == other.Content()
}

// Unchanged reports whether r and other are equal or their parsers consider
// them equivalent. Parser resolution errors count as changed.
func (r *Response) Unchanged(other *Response) bool {
	if r.Equal(other) {
		return true
	}
	if r == nil || other == nil {
		return false
	}
	a, err := r.Parser()
	if err != nil {
		return false
	}
	b, err := other.Parser()
	if err != nil {
		return false
	}
	return a.Unchanged(b)
}

// Changed is the negation of Unchanged.
func (r *Response) Changed(other *Response) bool {
	return !r.Unchanged(other)
}

// Parser returns the parser registered for the host of the last part. It is
// created on first use and kept for the life of the response.
func (r *Response) Parser() (*whois_parsers.Parser, error) {
	r.parserOnce.Do(func() {
		factory, err := r.registry.Resolve(r.Host())
		if err != nil {
			r.parserErr = err
			return
		}
		r.parser = factory(r)
	})
	return r.parser, r.parserErr
}

// Property returns the value of prop.
func (r *Response) Property(prop whois_parsers.Property) (any, error) {
	p, err := r.Parser()
	if err != nil {
		return nil, err
	}
	return p.Get(prop)
}

// Supports reports whether the parser of r supports prop.
func (r *Response) Supports(prop whois_parsers.Property) (bool, error) {
	p, err := r.Parser()
	if err != nil {
		return false, err
	}
	return p.Supports(prop), nil
}

func (r *Response) Domain() (string, error) {
	p, err := r.Parser()
	if err != nil {
		return "", err
	}
	return p.Domain()
}

func (r *Response) DomainID() (string, error) {
	p, err := r.Parser()
	if err != nil {
		return "", err
	}
	return p.DomainID()
}

func (r *Response) Status() (structs.Status, error) {
	p, err := r.Parser()
	if err != nil {
		return "", err
	}
	return p.Status()
}

func (r *Response) Available() (bool, error) {
	p, err := r.Parser()
	if err != nil {
		return false, err
	}
	return p.Available()
}

func (r *Response) Registered() (bool, error) {
	p, err := r.Parser()
	if err != nil {
		return false, err
	}
	return p.Registered()
}

func (r *Response) CreatedOn() (*time.Time, error) {
	p, err := r.Parser()
	if err != nil {
		return nil, err
	}
	return p.CreatedOn()
}

func (r *Response) UpdatedOn() (*time.Time, error) {
	p, err := r.Parser()
	if err != nil {
		return nil, err
	}
	return p.UpdatedOn()
}

func (r *Response) ExpiresOn() (*time.Time, error) {
	p, err := r.Parser()
	if err != nil {
		return nil, err
	}
	return p.ExpiresOn()
}

func (r *Response) Registrar() (*structs.Registrar, error) {
	p, err := r.Parser()
	if err != nil {
		return nil, err
	}
	return p.Registrar()
}

func (r *Response) RegistrantContact() (*structs.Contact, error) {
	p, err := r.Parser()
	if err != nil {
		return nil, err
	}
	return p.RegistrantContact()
}

func (r *Response) AdminContact() (*structs.Contact, error) {
	p, err := r.Parser()
	if err != nil {
		return nil, err
	}
	return p.AdminContact()
}

func (r *Response) TechnicalContact() (*structs.Contact, error) {
	p, err := r.Parser()
	if err != nil {
		return nil, err
	}
	return p.TechnicalContact()
}

func (r *Response) Nameservers() ([]structs.Nameserver, error) {
	p, err := r.Parser()
	if err != nil {
		return nil, err
	}
	return p.Nameservers()
}

func (r *Response) Disclaimer() (string, error) {
	p, err := r.Parser()
	if err != nil {
		return "", err
	}
	return p.Disclaimer()
}

func (r *Response) ReferralWhois() (string, error) {
	p, err := r.Parser()
	if err != nil {
		return "", err
	}
	return p.ReferralWhois()
}

func (r *Response) ReferralURL() (string, error) {
	p, err := r.Parser()
	if err != nil {
		return "", err
	}
	return p.ReferralURL()
}
