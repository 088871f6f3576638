package whois_parsers

import (
	"regexp"
	"strings"

	"github.com/KincaidYang/whoisresolver/structs"
	"github.com/pkg/errors"
)

var (
	nicIODomain    = field("Domain")
	nicIOStatus    = field("Status")
	nicIOAvailable = regexp.MustCompile(`(?m)^\s*(\S+) - Available\s*$`)
)

// NicIO parses whois.nic.io. The registry only publishes the name and its
// status.
var NicIO = &Definition{
	Name: "whois.nic.io",
	Properties: map[Property]Extractor{
		PropDomain: nicIODomainOf,
		PropStatus: nicIOStatusOf,
	},
}

// Available replies carry no Domain field, only "<name> - Available".
func nicIODomainOf(p *Parser) (any, error) {
	content := p.Content()
	if domain := capture(content, nicIODomain); domain != "" {
		return strings.ToLower(domain), nil
	}
	return strings.ToLower(capture(content, nicIOAvailable)), nil
}

func nicIOStatusOf(p *Parser) (any, error) {
	content := p.Content()
	if nicIOAvailable.MatchString(content) {
		return structs.StatusAvailable, nil
	}
	switch status := capture(content, nicIOStatus); strings.ToLower(status) {
	case "":
		return nil, errors.Wrap(ErrUnexpectedResponse, "whois.nic.io status")
	case "live":
		return structs.StatusRegistered, nil
	case "reserved":
		return structs.StatusReserved, nil
	default:
		return structs.Status(status), nil
	}
}

func init() {
	Default.RegisterDefinition(NicIO, "whois.nic.io")
}
