package whois_parsers

import (
	"regexp"
	"strings"
	"time"

	"github.com/KincaidYang/whoisresolver/structs"
)

var (
	denicDomain     = field("Domain")
	denicStatus     = field("Status")
	denicChanged    = field("Changed")
	denicNserver    = field("Nserver")
	denicNotFound   = regexp.MustCompile(`(?m)^% Object "[^"]*" not found in database`)
	denicDisclaimer = regexp.MustCompile(`(?s)% Terms and Conditions of Use\s*\n%\s*\n(.*?)\n\s*\n`)
)

// DenicDe parses whois.denic.de replies queried with "-T dn,ace".
var DenicDe = &Definition{
	Name: "whois.denic.de",
	Properties: map[Property]Extractor{
		PropDisclaimer:        denicDisclaimerOf,
		PropDomain:            stringOf(denicMain, denicDomain),
		PropStatus:            denicStatusOf,
		PropCreatedOn:         denicUnpublishedTime,
		PropUpdatedOn:         timeOf(denicMain, denicChanged, nil),
		PropExpiresOn:         denicUnpublishedTime,
		PropRegistrar:         denicRegistrarOf,
		PropRegistrantContact: denicContact("Holder"),
		PropAdminContact:      denicContact("Admin-C"),
		PropTechnicalContact:  denicContact("Tech-C"),
		PropNameservers:       nameserversOf(denicMain, denicNserver),
	},
}

// denicMain returns the domain block, before the first contact section.
func denicMain(p *Parser) string {
	content := p.Content()
	if i := strings.Index(content, "\n["); i >= 0 {
		return content[:i]
	}
	return content
}

func denicDisclaimerOf(p *Parser) (any, error) {
	m := denicDisclaimer.FindStringSubmatch(p.Content())
	if m == nil {
		return "", nil
	}
	var words []string
	for _, line := range strings.Split(m[1], "\n") {
		words = append(words, strings.Fields(strings.TrimPrefix(strings.TrimSpace(line), "%"))...)
	}
	return strings.Join(words, " "), nil
}

func denicStatusOf(p *Parser) (any, error) {
	main := denicMain(p)
	status := capture(main, denicStatus)
	switch strings.ToLower(status) {
	case "connect", "active":
		return structs.StatusRegistered, nil
	case "free":
		return structs.StatusAvailable, nil
	case "redemptionperiod":
		return structs.StatusRedemption, nil
	case "":
		if denicNotFound.MatchString(main) {
			return structs.StatusAvailable, nil
		}
		return structs.Status(""), nil
	default:
		return structs.Status(status), nil
	}
}

var denicContactKey = regexp.MustCompile(`^([A-Za-z-]+):[ \t]*(.*)$`)

// The registry publishes neither creation nor expiration dates.
func denicUnpublishedTime(p *Parser) (any, error) {
	return (*time.Time)(nil), nil
}

// The registrar is the zone contact of the domain.
func denicRegistrarOf(p *Parser) (any, error) {
	c := denicSection(p.Content(), "Zone-C")
	if c == nil {
		return (*structs.Registrar)(nil), nil
	}
	return &structs.Registrar{Name: c.Name, Organization: c.Organization}, nil
}

func denicContact(section string) Extractor {
	return func(p *Parser) (any, error) {
		return denicSection(p.Content(), section), nil
	}
}

func denicSection(content, section string) *structs.Contact {
	heading := "\n[" + section + "]"
	i := strings.Index(content, heading)
	if i < 0 {
		return nil
	}
	c := &structs.Contact{}
	var address []string
	for _, line := range strings.Split(content[i+len(heading):], "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if c.Name != "" || len(address) > 0 {
				break
			}
			continue
		}
		m := denicContactKey.FindStringSubmatch(line)
		if m == nil {
			break
		}
		value := strings.TrimSpace(m[2])
		switch strings.ToLower(m[1]) {
		case "name":
			c.Name = value
		case "organisation":
			c.Organization = value
		case "address":
			address = append(address, value)
		case "pcode":
			c.Zip = value
		case "city":
			c.City = value
		case "country":
			c.CountryCode = value
		case "phone":
			c.Phone = value
		case "fax":
			c.Fax = value
		case "email":
			c.Email = value
		}
	}
	c.Address = strings.Join(address, "\n")
	return c
}

func init() {
	Default.RegisterDefinition(DenicDe, "whois.denic.de")
}
