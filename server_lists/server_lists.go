// Package server_lists maps a lookup key to the adapter that knows how to
// query its source.
package server_lists

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"

	"github.com/KincaidYang/whoisresolver/whois_adapters"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Kind is the class of a lookup key.
type Kind string

const (
	KindTLD    Kind = "tld"
	KindIPv4   Kind = "ipv4"
	KindIPv6   Kind = "ipv6"
	KindASN    Kind = "asn"
	KindHandle Kind = "handle" // registry object handle such as "GOOGLE-ARIN"
)

// Adapter names accepted in definitions.
const (
	AdapterStandard  = "standard"
	AdapterFormatted = "formatted"
	AdapterVerisign  = "verisign"
	AdapterReferral  = "referral"
	AdapterWeb       = "web"
	AdapterNone      = "none"
)

// ServerNotFoundError is returned when no definition matches a key.
type ServerNotFoundError struct {
	Kind Kind
	Key  string
}

func (e *ServerNotFoundError) Error() string {
	return fmt.Sprintf("no WHOIS server known for %s %s", e.Kind, e.Key)
}

// Definition binds a match rule to an adapter. Match is a TLD suffix, a CIDR
// prefix, an ASN range "first-last" or a handle suffix ("-ARIN") depending on
// the list it belongs to.
type Definition struct {
	Match   string `yaml:"match"`
	Adapter string `yaml:"adapter"`
	Host    string `yaml:"host,omitempty"`
	Port    int    `yaml:"port,omitempty"`
	Format  string `yaml:"format,omitempty"`
	URL     string `yaml:"url,omitempty"`
}

// File is the on-disk layout of a server list.
type File struct {
	TLD             []Definition `yaml:"tld"`
	IPv4            []Definition `yaml:"ipv4"`
	IPv6            []Definition `yaml:"ipv6"`
	ASN             []Definition `yaml:"asn"`
	Handle          []Definition `yaml:"handle"`
	Fallback        *Definition  `yaml:"fallback,omitempty"`
	DisableFallback bool         `yaml:"disableFallback,omitempty"`
}

type ipDefinition struct {
	prefix netip.Prefix
	def    Definition
}

type asnDefinition struct {
	first, last uint64
	def         Definition
}

// Table is an immutable, ready to query server list.
type Table struct {
	tld          map[string]Definition
	ipv4         []ipDefinition
	ipv6         []ipDefinition
	asn          []asnDefinition
	handle       map[string]Definition
	fallback     *Definition
	maxReferrals int
}

// Default returns the built-in table.
func Default() *Table {
	t, err := build(builtin)
	if err != nil {
		panic(err)
	}
	return t
}

// Load reads a YAML server list from path and merges it over the built-in
// table. Definitions with the same match replace built-in ones.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read server list")
	}
	return Parse(data)
}

// Parse is Load for in-memory YAML.
func Parse(data []byte) (*Table, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parse server list")
	}
	return build(merge(builtin, f))
}

// WithMaxReferrals returns a copy of t whose referral adapters follow at most
// n hops.
func (t *Table) WithMaxReferrals(n int) *Table {
	c := *t
	c.maxReferrals = n
	return &c
}

func merge(base, over File) File {
	out := File{
		TLD:      mergeList(base.TLD, over.TLD),
		IPv4:     mergeList(base.IPv4, over.IPv4),
		IPv6:     mergeList(base.IPv6, over.IPv6),
		ASN:      mergeList(base.ASN, over.ASN),
		Handle:   mergeList(base.Handle, over.Handle),
		Fallback: base.Fallback,
	}
	if over.Fallback != nil {
		out.Fallback = over.Fallback
	}
	if over.DisableFallback {
		out.Fallback = nil
	}
	return out
}

func mergeList(base, over []Definition) []Definition {
	out := make([]Definition, 0, len(base)+len(over))
	seen := make(map[string]bool, len(over))
	// overrides first so they win in prefix order as well
	for _, d := range over {
		seen[strings.ToLower(d.Match)] = true
		out = append(out, d)
	}
	for _, d := range base {
		if !seen[strings.ToLower(d.Match)] {
			out = append(out, d)
		}
	}
	return out
}

func build(f File) (*Table, error) {
	t := &Table{
		tld:      make(map[string]Definition, len(f.TLD)),
		handle:   make(map[string]Definition, len(f.Handle)),
		fallback: f.Fallback,
	}

	for _, d := range f.TLD {
		if err := validate(d); err != nil {
			return nil, err
		}
		t.tld[strings.ToLower(strings.Trim(d.Match, "."))] = d
	}
	for _, d := range append(append([]Definition{}, f.IPv4...), f.IPv6...) {
		if err := validate(d); err != nil {
			return nil, err
		}
		p, err := netip.ParsePrefix(d.Match)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid prefix %q", d.Match)
		}
		entry := ipDefinition{prefix: p.Masked(), def: d}
		if p.Addr().Is4() {
			t.ipv4 = append(t.ipv4, entry)
		} else {
			t.ipv6 = append(t.ipv6, entry)
		}
	}
	for _, d := range f.ASN {
		if err := validate(d); err != nil {
			return nil, err
		}
		first, last, err := parseRange(d.Match)
		if err != nil {
			return nil, err
		}
		t.asn = append(t.asn, asnDefinition{first: first, last: last, def: d})
	}
	for _, d := range f.Handle {
		if err := validate(d); err != nil {
			return nil, err
		}
		suffix := strings.ToUpper(strings.TrimSpace(d.Match))
		if !strings.HasPrefix(suffix, "-") || len(suffix) < 2 {
			return nil, errors.Errorf("invalid handle suffix %q", d.Match)
		}
		t.handle[suffix] = d
	}
	if t.fallback != nil {
		if err := validate(*t.fallback); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func validate(d Definition) error {
	switch d.Adapter {
	case AdapterStandard, AdapterFormatted, AdapterVerisign, AdapterReferral:
		if d.Host == "" {
			return errors.Errorf("definition %q: adapter %s needs a host", d.Match, d.Adapter)
		}
	case AdapterWeb:
		if d.URL == "" {
			return errors.Errorf("definition %q: adapter web needs a url", d.Match)
		}
	case AdapterNone:
	default:
		return errors.Errorf("definition %q: unknown adapter %q", d.Match, d.Adapter)
	}
	return nil
}

func parseRange(s string) (uint64, uint64, error) {
	lo, hi, found := strings.Cut(s, "-")
	if !found {
		hi = lo
	}
	first, err := strconv.ParseUint(strings.TrimSpace(lo), 10, 32)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "invalid ASN range %q", s)
	}
	last, err := strconv.ParseUint(strings.TrimSpace(hi), 10, 32)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "invalid ASN range %q", s)
	}
	if last < first {
		return 0, 0, errors.Errorf("invalid ASN range %q", s)
	}
	return first, last, nil
}

// Lookup returns the definition matching key. Domain keys match the longest
// TLD suffix, IPs the most specific prefix, ASNs ("AS123") the first range
// and handles the longest suffix.
func (t *Table) Lookup(kind Kind, key string) (Definition, error) {
	switch kind {
	case KindTLD:
		name := strings.ToLower(strings.TrimSuffix(key, "."))
		for {
			if d, ok := t.tld[name]; ok {
				return d, nil
			}
			i := strings.IndexByte(name, '.')
			if i < 0 {
				break
			}
			name = name[i+1:]
		}
	case KindIPv4, KindIPv6:
		addr, err := netip.ParseAddr(key)
		if err != nil {
			return Definition{}, errors.Wrapf(err, "invalid IP %q", key)
		}
		list := t.ipv4
		if kind == KindIPv6 {
			list = t.ipv6
		}
		best := -1
		for i, e := range list {
			if e.prefix.Contains(addr.Unmap()) && (best < 0 || e.prefix.Bits() > list[best].prefix.Bits()) {
				best = i
			}
		}
		if best >= 0 {
			return list[best].def, nil
		}
	case KindASN:
		n, err := strconv.ParseUint(strings.TrimPrefix(strings.ToUpper(key), "AS"), 10, 32)
		if err != nil {
			return Definition{}, errors.Wrapf(err, "invalid ASN %q", key)
		}
		for _, e := range t.asn {
			if n >= e.first && n <= e.last {
				return e.def, nil
			}
		}
	case KindHandle:
		handle := strings.ToUpper(key)
		best := ""
		for suffix := range t.handle {
			if strings.HasSuffix(handle, suffix) && len(suffix) > len(best) {
				best = suffix
			}
		}
		if best != "" {
			return t.handle[best], nil
		}
	}

	if t.fallback != nil {
		return *t.fallback, nil
	}
	return Definition{}, &ServerNotFoundError{Kind: kind, Key: key}
}

// Find returns the adapter for key.
func (t *Table) Find(kind Kind, key string) (whois_adapters.Adapter, error) {
	d, err := t.Lookup(kind, key)
	if err != nil {
		return nil, err
	}
	return d.build(t.maxReferrals), nil
}

func (d Definition) build(maxReferrals int) whois_adapters.Adapter {
	switch d.Adapter {
	case AdapterFormatted:
		return &whois_adapters.Formatted{Host: d.Host, Port: d.Port, Format: d.Format}
	case AdapterVerisign:
		return &whois_adapters.Verisign{Host: d.Host, Port: d.Port}
	case AdapterReferral:
		return &whois_adapters.Referral{Host: d.Host, Port: d.Port, MaxReferrals: maxReferrals}
	case AdapterWeb:
		return &whois_adapters.Web{URL: d.URL}
	case AdapterNone:
		return &whois_adapters.None{}
	default:
		return &whois_adapters.Standard{Host: d.Host, Port: d.Port}
	}
}
