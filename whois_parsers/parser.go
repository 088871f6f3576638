// Package whois_parsers turns the raw text of a WHOIS reply into normalized
// properties. Each source registers a Definition describing which properties
// it supports and how to extract them.
package whois_parsers

import (
	"reflect"
	"sync"
	"time"

	"github.com/KincaidYang/whoisresolver/structs"
	"github.com/pkg/errors"
)

// Property is the name of a normalized property.
type Property string

const (
	PropDomain            Property = "domain"
	PropDomainID          Property = "domain_id"
	PropStatus            Property = "status"
	PropAvailable         Property = "available?"
	PropRegistered        Property = "registered?"
	PropCreatedOn         Property = "created_on"
	PropUpdatedOn         Property = "updated_on"
	PropExpiresOn         Property = "expires_on"
	PropRegistrar         Property = "registrar"
	PropRegistrantContact Property = "registrant_contact"
	PropAdminContact      Property = "admin_contact"
	PropTechnicalContact  Property = "technical_contact"
	PropNameservers       Property = "nameservers"
	PropDisclaimer        Property = "disclaimer"
	PropReferralWhois     Property = "referral_whois"
	PropReferralURL       Property = "referral_url"
)

// Capabilities is the fixed catalogue of properties a parser may support.
var Capabilities = []Property{
	PropDisclaimer,
	PropDomain,
	PropDomainID,
	PropReferralWhois,
	PropReferralURL,
	PropStatus,
	PropAvailable,
	PropRegistered,
	PropCreatedOn,
	PropUpdatedOn,
	PropExpiresOn,
	PropRegistrar,
	PropRegistrantContact,
	PropAdminContact,
	PropTechnicalContact,
	PropNameservers,
}

// ParseProperty returns the property named s.
func ParseProperty(s string) (Property, bool) {
	for _, p := range Capabilities {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// Source is the response a parser is bound to.
type Source interface {
	Content() string
	Parts() []structs.Part
}

// Extractor computes one property. A nil value with a nil error means the
// source supports the property but has no data for it.
type Extractor func(p *Parser) (any, error)

// Definition describes one source format.
type Definition struct {
	Name       string
	Properties map[Property]Extractor
	// Volatile properties are ignored by the default Unchanged check.
	Volatile []Property
	// Unchanged replaces the default equivalence check when set.
	Unchanged func(a, b *Parser) bool
}

type cacheEntry struct {
	once  sync.Once
	value any
	err   error
}

// Parser extracts properties from a Source. Every property is computed at
// most once per parser.
type Parser struct {
	def    *Definition
	source Source

	mu    sync.Mutex
	cache map[Property]*cacheEntry
}

// New binds def to source.
func New(def *Definition, source Source) *Parser {
	return &Parser{
		def:    def,
		source: source,
		cache:  make(map[Property]*cacheEntry),
	}
}

// Name returns the definition name.
func (p *Parser) Name() string { return p.def.Name }

// Content returns the full text of the bound response.
func (p *Parser) Content() string { return p.source.Content() }

// Parts returns the parts of the bound response.
func (p *Parser) Parts() []structs.Part { return p.source.Parts() }

// LastPart returns the text of the last reply, the most specific one.
func (p *Parser) LastPart() string {
	parts := p.source.Parts()
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1].Body
}

// Supports reports whether prop is in the capability set of the parser.
// available? and registered? are supported whenever status is.
func (p *Parser) Supports(prop Property) bool {
	if prop == PropAvailable || prop == PropRegistered {
		prop = PropStatus
	}
	_, ok := p.def.Properties[prop]
	return ok
}

// Supported lists the supported properties in capability order.
func (p *Parser) Supported() []Property {
	var out []Property
	for _, prop := range Capabilities {
		if p.Supports(prop) {
			out = append(out, prop)
		}
	}
	return out
}

// Get returns the value of prop, computing it on first use.
func (p *Parser) Get(prop Property) (any, error) {
	switch prop {
	case PropAvailable:
		return p.Available()
	case PropRegistered:
		return p.Registered()
	}

	extract, ok := p.def.Properties[prop]
	if !ok {
		return nil, &UnsupportedPropertyError{Property: prop, Parser: p.def.Name}
	}

	p.mu.Lock()
	e, ok := p.cache[prop]
	if !ok {
		e = &cacheEntry{}
		p.cache[prop] = e
	}
	p.mu.Unlock()

	// The lock is not held here so extractors may read other properties.
	e.once.Do(func() {
		e.value, e.err = extract(p)
	})
	return e.value, e.err
}

func get[T any](p *Parser, prop Property) (T, error) {
	var zero T
	v, err := p.Get(prop)
	if err != nil || v == nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, errors.Wrapf(ErrUnexpectedResponse, "%s: property %s has type %T", p.def.Name, prop, v)
	}
	return t, nil
}

func (p *Parser) Domain() (string, error)     { return get[string](p, PropDomain) }
func (p *Parser) DomainID() (string, error)   { return get[string](p, PropDomainID) }
func (p *Parser) Disclaimer() (string, error) { return get[string](p, PropDisclaimer) }

func (p *Parser) ReferralWhois() (string, error) { return get[string](p, PropReferralWhois) }
func (p *Parser) ReferralURL() (string, error)   { return get[string](p, PropReferralURL) }

func (p *Parser) Status() (structs.Status, error) { return get[structs.Status](p, PropStatus) }

// Available is derived from status.
func (p *Parser) Available() (bool, error) {
	s, err := p.Status()
	if err != nil {
		return false, err
	}
	return s == structs.StatusAvailable, nil
}

// Registered is the complement of Available.
func (p *Parser) Registered() (bool, error) {
	available, err := p.Available()
	if err != nil {
		return false, err
	}
	return !available, nil
}

func (p *Parser) CreatedOn() (*time.Time, error) { return get[*time.Time](p, PropCreatedOn) }
func (p *Parser) UpdatedOn() (*time.Time, error) { return get[*time.Time](p, PropUpdatedOn) }
func (p *Parser) ExpiresOn() (*time.Time, error) { return get[*time.Time](p, PropExpiresOn) }

func (p *Parser) Registrar() (*structs.Registrar, error) {
	return get[*structs.Registrar](p, PropRegistrar)
}

func (p *Parser) RegistrantContact() (*structs.Contact, error) {
	return get[*structs.Contact](p, PropRegistrantContact)
}

func (p *Parser) AdminContact() (*structs.Contact, error) {
	return get[*structs.Contact](p, PropAdminContact)
}

func (p *Parser) TechnicalContact() (*structs.Contact, error) {
	return get[*structs.Contact](p, PropTechnicalContact)
}

func (p *Parser) Nameservers() ([]structs.Nameserver, error) {
	return get[[]structs.Nameserver](p, PropNameservers)
}

// Unchanged reports whether p and other describe the same registration.
// Parsers of different definitions are never equivalent. Without a custom
// check, every supported property that is not volatile must be equal.
func (p *Parser) Unchanged(other *Parser) bool {
	if other == nil || p.def != other.def {
		return false
	}
	if p == other {
		return true
	}
	if p.def.Unchanged != nil {
		return p.def.Unchanged(p, other)
	}

	volatile := make(map[Property]bool, len(p.def.Volatile))
	for _, prop := range p.def.Volatile {
		volatile[prop] = true
	}
	for prop := range p.def.Properties {
		if volatile[prop] {
			continue
		}
		a, errA := p.Get(prop)
		b, errB := other.Get(prop)
		if errA != nil || errB != nil {
			if errA == nil || errB == nil || errA.Error() != errB.Error() {
				return false
			}
			continue
		}
		if !equalValues(a, b) {
			return false
		}
	}
	return true
}

func equalValues(a, b any) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}
	ta, okA := a.(*time.Time)
	tb, okB := b.(*time.Time)
	if okA && okB {
		return ta.Equal(*tb)
	}
	return reflect.DeepEqual(a, b)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map:
		return rv.IsNil()
	}
	return false
}
