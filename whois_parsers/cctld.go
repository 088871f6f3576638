package whois_parsers

import (
	"regexp"
	"strings"
	"time"

	"github.com/KincaidYang/whoisresolver/structs"
)

// chinaStandardTime is the zone CNNIC and MONIC print their dates in.
var chinaStandardTime = time.FixedZone("CST", 8*3600)

// registrarNamed builds a registrar holding only a name.
func registrarNamed(re *regexp.Regexp) Extractor {
	return func(p *Parser) (any, error) {
		name := capture(p.Content(), re)
		if name == "" {
			return (*structs.Registrar)(nil), nil
		}
		return &structs.Registrar{Name: name}, nil
	}
}

// statusBy returns available when notFound matches, reserved when reserved
// matches, otherwise the EPP mapping of the codes captured by codes.
func statusBy(notFound, reserved, codes *regexp.Regexp) Extractor {
	return func(p *Parser) (any, error) {
		content := p.Content()
		switch {
		case notFound.MatchString(content):
			return structs.StatusAvailable, nil
		case reserved != nil && reserved.MatchString(content):
			return structs.StatusReserved, nil
		}
		if codes == nil {
			return structs.StatusRegistered, nil
		}
		return eppStatus(captureAll(content, codes)), nil
	}
}

// CNNIC (.cn)
var (
	cnDomain     = field("Domain Name")
	cnROID       = field("ROID")
	cnStatus     = field("Domain Status")
	cnRegistrant = field("Registrant")
	cnEmail      = field("Registrant Contact Email")
	cnRegistrar  = field("Sponsoring Registrar")
	cnNameServer = field("Name Server")
	// 注册时间和过期时间均为北京时间
	cnCreated  = field("Registration Time")
	cnExpires  = field("Expiration Time")
	cnNotFound = regexp.MustCompile(`(?m)^No matching record`)
	cnReserved = regexp.MustCompile(`(?i)can not be registered online`)
)

var CnnicCn = &Definition{
	Name: "whois.cnnic.cn",
	Properties: map[Property]Extractor{
		PropDomain:      lowerStringOf(fromContent, cnDomain),
		PropDomainID:    stringOf(fromContent, cnROID),
		PropStatus:      statusBy(cnNotFound, cnReserved, cnStatus),
		PropCreatedOn:   timeOf(fromContent, cnCreated, chinaStandardTime),
		PropExpiresOn:   timeOf(fromContent, cnExpires, chinaStandardTime),
		PropRegistrar:   registrarNamed(cnRegistrar),
		PropNameservers: nameserversOf(fromContent, cnNameServer),
		PropRegistrantContact: func(p *Parser) (any, error) {
			content := p.Content()
			c := &structs.Contact{Name: capture(content, cnRegistrant), Email: capture(content, cnEmail)}
			if *c == (structs.Contact{}) {
				return (*structs.Contact)(nil), nil
			}
			return c, nil
		},
	},
}

// HKIRC (.hk)
var (
	hkDomain      = field("Domain Name")
	hkStatus      = field("Domain Status")
	hkRegistrar   = field("Registrar Name")
	hkCreated     = field("Domain Name Commencement Date")
	hkExpires     = field("Expiry Date")
	hkNameServers = regexp.MustCompile(`Name Servers Information:`)
	hkNotFound    = regexp.MustCompile(`The domain has not been registered`)
)

var HkircHk = &Definition{
	Name: "whois.hkirc.hk",
	Properties: map[Property]Extractor{
		PropDomain:    lowerStringOf(fromContent, hkDomain),
		PropStatus:    statusBy(hkNotFound, nil, hkStatus),
		PropCreatedOn: layoutTimeOf(fromContent, hkCreated, "02-01-2006", nil),
		PropExpiresOn: layoutTimeOf(fromContent, hkExpires, "02-01-2006", nil),
		PropRegistrar: registrarNamed(hkRegistrar),
		PropNameservers: func(p *Parser) (any, error) {
			return buildNameservers(block(p.Content(), hkNameServers)), nil
		},
	},
}

// TWNIC (.tw)
var (
	twDomain      = field("Domain Name")
	twStatus      = field("Domain Status")
	twCreated     = regexp.MustCompile(`Record created on ([0-9]{4}-[0-9]{2}-[0-9]{2})`)
	twExpires     = regexp.MustCompile(`Record expires on ([0-9]{4}-[0-9]{2}-[0-9]{2})`)
	twRegistrar   = field("Registration Service Provider")
	twNameServers = regexp.MustCompile(`Domain servers in listed order:`)
	twNotFound    = regexp.MustCompile(`(?m)^\s*No Found`)
)

var TwnicNetTw = &Definition{
	Name: "whois.twnic.net.tw",
	Properties: map[Property]Extractor{
		PropDomain:    lowerStringOf(fromContent, twDomain),
		PropStatus:    statusBy(twNotFound, nil, twStatus),
		PropCreatedOn: timeOf(fromContent, twCreated, nil),
		PropExpiresOn: timeOf(fromContent, twExpires, nil),
		PropRegistrar: registrarNamed(twRegistrar),
		PropNameservers: func(p *Parser) (any, error) {
			return buildNameservers(block(p.Content(), twNameServers)), nil
		},
	},
}

// TCI (.ru, .su, .рф)
var (
	ruDomain     = field("domain")
	ruNserver    = field("nserver")
	ruState      = field("state")
	ruOrg        = field("org")
	ruPerson     = field("person")
	ruRegistrar  = field("registrar")
	ruCreated    = field("created")
	ruPaidTill   = field("paid-till")
	ruNotFound   = regexp.MustCompile(`No entries found for the selected source`)
	ruRegistered = regexp.MustCompile(`(?i)\bREGISTERED\b`)
)

var TcinetRu = &Definition{
	Name: "whois.tcinet.ru",
	Properties: map[Property]Extractor{
		PropDomain: lowerStringOf(fromContent, ruDomain),
		PropStatus: func(p *Parser) (any, error) {
			content := p.Content()
			if ruNotFound.MatchString(content) {
				return structs.StatusAvailable, nil
			}
			state := capture(content, ruState)
			if ruRegistered.MatchString(state) {
				return structs.StatusRegistered, nil
			}
			return structs.Status(strings.ToLower(state)), nil
		},
		PropCreatedOn:   timeOf(fromContent, ruCreated, nil),
		PropExpiresOn:   timeOf(fromContent, ruPaidTill, nil),
		PropRegistrar:   registrarNamed(ruRegistrar),
		PropNameservers: nameserversOf(fromContent, ruNserver),
		PropRegistrantContact: func(p *Parser) (any, error) {
			content := p.Content()
			c := &structs.Contact{Organization: capture(content, ruOrg), Name: capture(content, ruPerson)}
			if *c == (structs.Contact{}) {
				return (*structs.Contact)(nil), nil
			}
			return c, nil
		},
	},
}

// MONIC (.mo)
var (
	moDomain      = field("Domain name")
	moCreated     = regexp.MustCompile(`Record created on (.*)`)
	moExpires     = regexp.MustCompile(`Record expires on (.*)`)
	moNameServers = regexp.MustCompile(`Domain name servers:\s*\n\s*-+\n`)
	moNotFound    = regexp.MustCompile(`(?m)^No match for`)
)

var MonicMo = &Definition{
	Name: "whois.monic.mo",
	Properties: map[Property]Extractor{
		PropDomain:    lowerStringOf(fromContent, moDomain),
		PropStatus:    statusBy(moNotFound, nil, nil),
		PropCreatedOn: timeOf(fromContent, moCreated, chinaStandardTime),
		PropExpiresOn: timeOf(fromContent, moExpires, chinaStandardTime),
		PropNameservers: func(p *Parser) (any, error) {
			return buildNameservers(block(p.Content(), moNameServers)), nil
		},
	},
}

// SGNIC (.sg)
var (
	sgDomain      = field("Domain Name")
	sgCreated     = field("Creation Date")
	sgUpdated     = field("Modified Date")
	sgExpires     = field("Expiration Date")
	sgStatus      = field("Domain Status")
	sgRegistrar   = field("Registrar")
	sgNameServers = regexp.MustCompile(`(?m)^\s*Name Servers?:[ \t]*\r?\n`)
	sgNotFound    = regexp.MustCompile(`Domain Not Found`)
)

var SgnicSg = &Definition{
	Name: "whois.sgnic.sg",
	Properties: map[Property]Extractor{
		PropDomain:    lowerStringOf(fromContent, sgDomain),
		PropStatus:    statusBy(sgNotFound, nil, sgStatus),
		PropCreatedOn: layoutTimeOf(fromContent, sgCreated, "02-Jan-2006 15:04:05", nil),
		PropUpdatedOn: layoutTimeOf(fromContent, sgUpdated, "02-Jan-2006 15:04:05", nil),
		PropExpiresOn: layoutTimeOf(fromContent, sgExpires, "02-Jan-2006 15:04:05", nil),
		PropRegistrar: registrarNamed(sgRegistrar),
		PropNameservers: func(p *Parser) (any, error) {
			return buildNameservers(block(p.Content(), sgNameServers)), nil
		},
	},
}

func init() {
	Default.RegisterDefinition(CnnicCn, "whois.cnnic.cn")
	Default.RegisterDefinition(HkircHk, "whois.hkirc.hk")
	Default.RegisterDefinition(TwnicNetTw, "whois.twnic.net.tw")
	Default.RegisterDefinition(TcinetRu, "whois.tcinet.ru", "whois.ripn.net")
	Default.RegisterDefinition(MonicMo, "whois.monic.mo")
	Default.RegisterDefinition(SgnicSg, "whois.sgnic.sg")
}
