// Package whois_adapters knows, per class of WHOIS source, how many queries a
// lookup takes and where each of them goes.
package whois_adapters

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/KincaidYang/whoisresolver/structs"
	"github.com/KincaidYang/whoisresolver/utils"
)

// DefaultPort is the well known WHOIS port.
const DefaultPort = 43

// Transport sends a single query line and returns the whole reply.
type Transport interface {
	Send(ctx context.Context, host string, port int, query string) (string, error)
}

// Adapter issues the queries needed to answer key and returns the replies in
// query order.
type Adapter interface {
	Request(ctx context.Context, t Transport, key string) ([]structs.Part, error)
	Name() string
}

// Standard sends the key as is to a single host.
type Standard struct {
	Host string
	Port int
}

func (a *Standard) Name() string { return "standard" }

func (a *Standard) Request(ctx context.Context, t Transport, key string) ([]structs.Part, error) {
	body, err := t.Send(ctx, a.Host, a.Port, key)
	if err != nil {
		return nil, err
	}
	return []structs.Part{{Body: body, Host: a.Host}}, nil
}

// Formatted sends a single query built from Format, e.g. "-T dn,ace %s".
type Formatted struct {
	Host   string
	Port   int
	Format string
}

func (a *Formatted) Name() string { return "formatted" }

func (a *Formatted) Request(ctx context.Context, t Transport, key string) ([]structs.Part, error) {
	query := key
	if a.Format != "" {
		query = fmt.Sprintf(a.Format, key)
	}
	body, err := t.Send(ctx, a.Host, a.Port, query)
	if err != nil {
		return nil, err
	}
	return []structs.Part{{Body: body, Host: a.Host}}, nil
}

var (
	verisignRegistered = regexp.MustCompile(`Domain Name:`)
	verisignReferral   = regexp.MustCompile(`(?i)Whois Server: (\S+)`)
)

// Verisign handles thin registries that split data between the registry and
// the sponsoring registrar. The registry is asked with "=key" so it answers
// itself, and its "Whois Server:" referral is followed once.
type Verisign struct {
	Host string
	Port int
}

func (a *Verisign) Name() string { return "verisign" }

func (a *Verisign) Request(ctx context.Context, t Transport, key string) ([]structs.Part, error) {
	body, err := t.Send(ctx, a.Host, a.Port, "="+key)
	if err != nil {
		return nil, err
	}
	parts := []structs.Part{{Body: body, Host: a.Host}}

	// A self referral is queried like any other, the duplicate reply is
	// absorbed by change detection.
	endpoint, ok := VerisignReferral(body)
	if !ok {
		return parts, nil
	}
	utils.Referrals.Inc()
	body, err = t.Send(ctx, endpoint, DefaultPort, key)
	if err != nil {
		return nil, err
	}
	return append(parts, structs.Part{Body: body, Host: endpoint}), nil
}

// VerisignReferral extracts the registrar host from a registry reply. It only
// reports a referral when the reply marks the name as registered.
func VerisignReferral(body string) (string, bool) {
	if !verisignRegistered.MatchString(body) {
		return "", false
	}
	m := verisignReferral.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// DefaultMaxReferrals bounds the hops followed by Referral.
const DefaultMaxReferrals = 3

var (
	referralHints = regexp.MustCompile(`(?mi)^\s*(?:refer|whois|registrar whois server):[ \t]*(\S+)`)
	referralURL   = regexp.MustCompile(`^(?i:https?://)([^/]+)/?$`)
)

// Referral follows a chain of referrals starting at a root server such as
// whois.iana.org. It stops when a reply carries no hint, when the hint names
// a host already queried, or after MaxReferrals hops.
type Referral struct {
	Host         string
	Port         int
	MaxReferrals int
}

func (a *Referral) Name() string { return "referral" }

func (a *Referral) Request(ctx context.Context, t Transport, key string) ([]structs.Part, error) {
	maxHops := a.MaxReferrals
	if maxHops <= 0 {
		maxHops = DefaultMaxReferrals
	}

	host, port := a.Host, a.Port
	visited := map[string]bool{}
	var parts []structs.Part
	for hop := 0; ; hop++ {
		body, err := t.Send(ctx, host, port, key)
		if err != nil {
			return nil, err
		}
		parts = append(parts, structs.Part{Body: body, Host: host})
		visited[strings.ToLower(host)] = true

		next, ok := NextReferral(body)
		if !ok || visited[next] || hop >= maxHops {
			return parts, nil
		}
		utils.Referrals.Inc()
		host, port = next, DefaultPort
	}
}

// NextReferral returns the first referral hint found in body, lowercased.
// Hints given as URLs are reduced to their host.
func NextReferral(body string) (string, bool) {
	m := referralHints.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	host := m[1]
	if u := referralURL.FindStringSubmatch(host); u != nil {
		host = u[1]
	}
	return strings.ToLower(host), true
}

// Web represents sources that only provide a web lookup form.
type Web struct {
	URL string
}

func (a *Web) Name() string { return "web" }

func (a *Web) Request(ctx context.Context, t Transport, key string) ([]structs.Part, error) {
	return nil, &WebInterfaceError{Key: key, URL: a.URL}
}

// None represents sources with no public lookup interface at all.
type None struct{}

func (a *None) Name() string { return "none" }

func (a *None) Request(ctx context.Context, t Transport, key string) ([]structs.Part, error) {
	return nil, &NoInterfaceError{Key: key}
}
