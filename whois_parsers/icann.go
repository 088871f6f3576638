package whois_parsers

import (
	"regexp"
	"strings"

	"github.com/KincaidYang/whoisresolver/structs"
)

var (
	icannDomain     = field("Domain Name")
	icannDomainID   = field("Registry Domain ID")
	icannWhois      = field("Registrar WHOIS Server")
	icannURL        = field("Registrar URL")
	icannUpdated    = field("Updated Date")
	icannCreated    = field("Creation Date")
	icannExpires    = regexp.MustCompile(`(?mi)^[ \t]*(?:Registry Expiry Date|Registrar Registration Expiration Date)[ \t]*:[ \t]*(.*?)[ \t\r]*$`)
	icannRegistrar  = field("Registrar")
	icannIANAID     = field("Registrar IANA ID")
	icannStatus     = field("Domain Status")
	icannNameServer = field("Name Server")
	icannNotFound   = regexp.MustCompile(`(?mi)^\s*(?:No match for|NOT FOUND|Domain not found|The queried object does not exist|No Data Found)`)
)

// Icann parses replies following the ICANN registration data format, used
// by many gTLD registrars and ccTLD registries alike. Only the last part is
// read: behind a thin registry it is the registrar's own reply.
var Icann = &Definition{
	Name: "icann",
	Properties: map[Property]Extractor{
		PropDomain:            lowerStringOf(fromLastPart, icannDomain),
		PropDomainID:          stringOf(fromLastPart, icannDomainID),
		PropReferralWhois:     stringOf(fromLastPart, icannWhois),
		PropReferralURL:       stringOf(fromLastPart, icannURL),
		PropStatus:            icannStatusOf,
		PropCreatedOn:         timeOf(fromLastPart, icannCreated, nil),
		PropUpdatedOn:         timeOf(fromLastPart, icannUpdated, nil),
		PropExpiresOn:         timeOf(fromLastPart, icannExpires, nil),
		PropRegistrar:         icannRegistrarOf,
		PropRegistrantContact: icannContact("Registrant"),
		PropAdminContact:      icannContact("Admin"),
		PropTechnicalContact:  icannContact("Tech"),
		PropNameservers:       nameserversOf(fromLastPart, icannNameServer),
	},
}

// A reply naming the domain without any registration data is a not found
// reply of registries that echo the query.
func icannStatusOf(p *Parser) (any, error) {
	content := p.LastPart()
	if icannNotFound.MatchString(content) {
		return structs.StatusAvailable, nil
	}
	if capture(content, icannDomain) == "" ||
		(capture(content, icannCreated) == "" && capture(content, icannDomainID) == "") {
		return structs.StatusAvailable, nil
	}
	return eppStatus(captureAll(content, icannStatus)), nil
}

func icannRegistrarOf(p *Parser) (any, error) {
	content := p.LastPart()
	name := capture(content, icannRegistrar)
	if name == "" {
		return (*structs.Registrar)(nil), nil
	}
	return &structs.Registrar{
		ID:   capture(content, icannIANAID),
		Name: name,
		URL:  capture(content, icannURL),
	}, nil
}

func icannContact(role string) Extractor {
	re := func(key string) *regexp.Regexp { return field(role + " " + key) }
	var (
		id      = re("ID")
		name    = re("Name")
		org     = re("Organization")
		street  = re("Street")
		city    = re("City")
		state   = re("State/Province")
		zip     = re("Postal Code")
		country = re("Country")
		phone   = re("Phone")
		fax     = re("Fax")
		email   = re("Email")
	)
	return func(p *Parser) (any, error) {
		content := p.LastPart()
		c := &structs.Contact{
			ID:           capture(content, id),
			Name:         capture(content, name),
			Organization: capture(content, org),
			Address:      strings.Join(captureAll(content, street), "\n"),
			City:         capture(content, city),
			State:        capture(content, state),
			Zip:          capture(content, zip),
			CountryCode:  capture(content, country),
			Phone:        capture(content, phone),
			Fax:          capture(content, fax),
			Email:        capture(content, email),
		}
		if *c == (structs.Contact{}) {
			return (*structs.Contact)(nil), nil
		}
		return c, nil
	}
}

func init() {
	Default.RegisterDefinition(Icann,
		"whois.nic.la",
		"whois.nic.so",
		"whois.nic.net.sb",
		"whois.markmonitor.com",
		"whois.godaddy.com",
	)
}
