package whois_parsers

import (
	"sort"
	"strings"
	"unicode"
)

// Factory creates a parser bound to a source.
type Factory func(Source) *Parser

// Registry maps WHOIS hosts to parser factories. Registration must happen
// before the registry is shared, lookups are then safe for concurrent use.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Default holds every built-in parser.
var Default = NewRegistry()

// HostKey normalizes a host name into a registry key: segments split on any
// non alphanumeric rune, title cased and joined by "_".
// "whois.verisign-grs.com" becomes "Whois_Verisign_Grs_Com".
func HostKey(host string) string {
	segments := strings.FieldsFunc(strings.ToLower(host), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for i, s := range segments {
		r := []rune(s)
		r[0] = unicode.ToUpper(r[0])
		segments[i] = string(r)
	}
	return strings.Join(segments, "_")
}

// Register binds host to factory, replacing any previous binding.
func (r *Registry) Register(host string, factory Factory) {
	r.factories[HostKey(host)] = factory
}

// RegisterDefinition binds every host to parsers of def.
func (r *Registry) RegisterDefinition(def *Definition, hosts ...string) {
	for _, host := range hosts {
		r.Register(host, func(src Source) *Parser { return New(def, src) })
	}
}

// Resolve returns the factory registered for host.
func (r *Registry) Resolve(host string) (Factory, error) {
	f, ok := r.factories[HostKey(host)]
	if !ok {
		return nil, &ParserNotFoundError{Host: host}
	}
	return f, nil
}

// Keys lists the registered host keys, sorted.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.factories))
	for k := range r.factories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
