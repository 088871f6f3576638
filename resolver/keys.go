package resolver

import (
	"fmt"
	"net"
	"regexp"
	"strings"

	"github.com/KincaidYang/whoisresolver/server_lists"
	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

// InvalidKeyError is returned for keys that are neither an IP, an ASN, a
// handle nor a domain name.
type InvalidKeyError struct {
	Key string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid lookup key %q", e.Key)
}

// Key is a classified, normalized lookup key.
type Key struct {
	Kind  server_lists.Kind
	Value string
}

func (k Key) String() string { return string(k.Kind) + ":" + k.Value }

var (
	asnPattern    = regexp.MustCompile(`^(?:as|asn)?(\d+)$`)
	domainPattern = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]*[a-z0-9])?\.)+[a-z0-9][a-z0-9-]*[a-z0-9]$`)
	handlePattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)+$`)
)

// IsASN reports whether s is an AS number, with or without an "as"/"asn"
// prefix.
func IsASN(s string) bool {
	return asnPattern.MatchString(strings.ToLower(s))
}

// IsHandle reports whether s looks like a registry object handle, dash
// separated words without dots such as "GOOGLE-ARIN" or "HR123-FRNIC".
func IsHandle(s string) bool {
	return handlePattern.MatchString(strings.ToLower(s))
}

// IsDomain reports whether s is a syntactically valid ASCII domain name with
// at least two labels.
func IsDomain(s string) bool {
	if len(s) > 253 {
		return false
	}
	return domainPattern.MatchString(strings.ToLower(s))
}

// Classify normalizes raw and works out its kind. Domain names are converted
// to their ASCII form; with registrable set they are also reduced to the
// registrable domain ("www.example.co.uk" becomes "example.co.uk").
func Classify(raw string, registrable bool) (Key, error) {
	s := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(raw), "."))
	if s == "" {
		return Key{}, &InvalidKeyError{Key: raw}
	}

	if ip := net.ParseIP(s); ip != nil {
		if ip.To4() != nil {
			return Key{Kind: server_lists.KindIPv4, Value: ip.To4().String()}, nil
		}
		return Key{Kind: server_lists.KindIPv6, Value: ip.String()}, nil
	}

	if m := asnPattern.FindStringSubmatch(s); m != nil {
		n := strings.TrimLeft(m[1], "0")
		if n == "" {
			n = "0"
		}
		return Key{Kind: server_lists.KindASN, Value: "AS" + n}, nil
	}

	if IsHandle(s) {
		return Key{Kind: server_lists.KindHandle, Value: strings.ToUpper(s)}, nil
	}

	ascii, err := idna.Lookup.ToASCII(s)
	if err != nil || !IsDomain(ascii) {
		return Key{}, &InvalidKeyError{Key: raw}
	}
	if registrable {
		if etld1, err := publicsuffix.EffectiveTLDPlusOne(ascii); err == nil {
			ascii = etld1
		}
	}
	return Key{Kind: server_lists.KindTLD, Value: ascii}, nil
}
