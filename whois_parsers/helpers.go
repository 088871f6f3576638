package whois_parsers

import (
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/KincaidYang/whoisresolver/structs"
	"github.com/araddon/dateparse"
	"github.com/pkg/errors"
)

// field matches a "Key: value" line, the key compared case-insensitively.
// The first group holds the value without surrounding blanks.
func field(key string) *regexp.Regexp {
	return regexp.MustCompile(`(?mi)^[ \t]*` + regexp.QuoteMeta(key) + `[ \t]*:[ \t]*(.*?)[ \t\r]*$`)
}

// capture returns the first non-empty first group of re in text.
func capture(text string, re *regexp.Regexp) string {
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if v := strings.TrimSpace(m[1]); v != "" {
			return v
		}
	}
	return ""
}

// captureAll returns every non-empty first group of re in text.
func captureAll(text string, re *regexp.Regexp) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if v := strings.TrimSpace(m[1]); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseTime(s string, loc *time.Location) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := dateparse.ParseIn(s, loc)
	if err != nil {
		return nil, errors.Wrapf(err, "parse date %q", s)
	}
	t = t.UTC()
	return &t, nil
}

// buildNameservers normalizes "name [ip...]" entries: lowercase, no trailing
// dot, duplicates dropped, glue split by address family.
func buildNameservers(entries []string) []structs.Nameserver {
	var out []structs.Nameserver
	seen := map[string]bool{}
	for _, entry := range entries {
		fields := strings.FieldsFunc(entry, func(r rune) bool {
			return r == ' ' || r == '\t' || r == ','
		})
		if len(fields) == 0 {
			continue
		}
		ns := structs.Nameserver{Name: strings.TrimSuffix(strings.ToLower(fields[0]), ".")}
		if ns.Name == "" || seen[ns.Name] {
			continue
		}
		seen[ns.Name] = true
		for _, f := range fields[1:] {
			ip := net.ParseIP(f)
			switch {
			case ip == nil:
			case ip.To4() != nil:
				ns.IPv4 = f
			default:
				ns.IPv6 = f
			}
		}
		out = append(out, ns)
	}
	return out
}

// textFunc selects the text an extractor reads.
type textFunc func(p *Parser) string

var (
	fromContent  textFunc = (*Parser).Content
	fromLastPart textFunc = (*Parser).LastPart
)

func stringOf(from textFunc, re *regexp.Regexp) Extractor {
	return func(p *Parser) (any, error) {
		return capture(from(p), re), nil
	}
}

func lowerStringOf(from textFunc, re *regexp.Regexp) Extractor {
	return func(p *Parser) (any, error) {
		return strings.ToLower(capture(from(p), re)), nil
	}
}

func timeOf(from textFunc, re *regexp.Regexp, loc *time.Location) Extractor {
	return func(p *Parser) (any, error) {
		return parseTime(capture(from(p), re), loc)
	}
}

func nameserversOf(from textFunc, re *regexp.Regexp) Extractor {
	return func(p *Parser) (any, error) {
		return buildNameservers(captureAll(from(p), re)), nil
	}
}

// block returns the lines following the heading matched by re up to the
// first blank line, trimmed.
func block(text string, re *regexp.Regexp) []string {
	loc := re.FindStringIndex(text)
	if loc == nil {
		return nil
	}
	var out []string
	started := false
	for _, line := range strings.Split(text[loc[1]:], "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if started {
				break
			}
			continue
		}
		started = true
		out = append(out, line)
	}
	return out
}

// layoutTimeOf parses with a fixed layout, for formats dateparse reads
// ambiguously (day first numeric dates).
func layoutTimeOf(from textFunc, re *regexp.Regexp, layout string, loc *time.Location) Extractor {
	if loc == nil {
		loc = time.UTC
	}
	return func(p *Parser) (any, error) {
		s := capture(from(p), re)
		if s == "" {
			return (*time.Time)(nil), nil
		}
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			return nil, errors.Wrapf(err, "parse date %q", s)
		}
		t = t.UTC()
		return &t, nil
	}
}
