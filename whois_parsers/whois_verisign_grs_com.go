package whois_parsers

import (
	"regexp"
	"strings"

	"github.com/KincaidYang/whoisresolver/structs"
)

var (
	verisignDomain     = field("Domain Name")
	verisignDomainID   = field("Registry Domain ID")
	verisignCreated    = field("Creation Date")
	verisignUpdated    = field("Updated Date")
	verisignExpires    = field("Registry Expiry Date")
	verisignRegistrar  = field("Registrar")
	verisignIANAID     = field("Registrar IANA ID")
	verisignNameServer = field("Name Server")
	verisignWhois      = field("Registrar WHOIS Server")
	verisignURL        = field("Registrar URL")
	verisignStatus     = field("Domain Status")
	verisignNoMatch    = regexp.MustCompile(`(?m)^No match for "`)
	verisignTerms      = regexp.MustCompile(`(?s)TERMS OF USE:(.*?)(?:\n\s*\n|\z)`)
)

// VerisignGrsCom parses the thin registry replies of whois.verisign-grs.com.
// Only the last part is read since a self referral repeats the registry
// reply.
var VerisignGrsCom = &Definition{
	Name: "whois.verisign-grs.com",
	Properties: map[Property]Extractor{
		PropDisclaimer:    verisignDisclaimer,
		PropDomain:        lowerStringOf(fromLastPart, verisignDomain),
		PropDomainID:      stringOf(fromLastPart, verisignDomainID),
		PropReferralWhois: stringOf(fromLastPart, verisignWhois),
		PropReferralURL:   stringOf(fromLastPart, verisignURL),
		PropStatus:        verisignStatusOf,
		PropCreatedOn:     timeOf(fromLastPart, verisignCreated, nil),
		PropUpdatedOn:     timeOf(fromLastPart, verisignUpdated, nil),
		PropExpiresOn:     timeOf(fromLastPart, verisignExpires, nil),
		PropRegistrar:     verisignRegistrarOf,
		PropNameservers:   nameserversOf(fromLastPart, verisignNameServer),
	},
	Volatile: []Property{PropDisclaimer},
}

func verisignDisclaimer(p *Parser) (any, error) {
	m := verisignTerms.FindStringSubmatch(p.LastPart())
	if m == nil {
		return "", nil
	}
	return strings.Join(strings.Fields(m[1]), " "), nil
}

func verisignStatusOf(p *Parser) (any, error) {
	text := p.LastPart()
	switch {
	case verisignNoMatch.MatchString(text):
		return structs.StatusAvailable, nil
	case capture(text, verisignDomain) == "":
		return structs.StatusAvailable, nil
	}
	return eppStatus(captureAll(text, verisignStatus)), nil
}

func verisignRegistrarOf(p *Parser) (any, error) {
	text := p.LastPart()
	name := capture(text, verisignRegistrar)
	if name == "" {
		return (*structs.Registrar)(nil), nil
	}
	return &structs.Registrar{
		ID:           capture(text, verisignIANAID),
		Name:         name,
		Organization: name,
		URL:          capture(text, verisignURL),
	}, nil
}

// eppStatus maps EPP status codes of a registered name to a Status.
func eppStatus(codes []string) structs.Status {
	for _, c := range codes {
		code := strings.ToLower(strings.Fields(c)[0])
		switch code {
		case "redemptionperiod", "pendingdelete", "pendingrestore":
			return structs.StatusRedemption
		}
	}
	return structs.StatusRegistered
}

func init() {
	Default.RegisterDefinition(VerisignGrsCom, "whois.verisign-grs.com", "ccwhois.verisign-grs.com", "tvwhois.verisign-grs.com")
}
