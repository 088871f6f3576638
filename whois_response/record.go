package whois_response

import (
	"time"

	"github.com/KincaidYang/whoisresolver/structs"
	"github.com/KincaidYang/whoisresolver/whois_parsers"
	"github.com/pkg/errors"
)

// Record collects every property the parser supports into a DomainRecord.
// Unsupported properties are left empty.
func (r *Response) Record() (*structs.DomainRecord, error) {
	p, err := r.Parser()
	if err != nil {
		return nil, err
	}

	rec := &structs.DomainRecord{Server: r.Host()}
	for _, prop := range p.Supported() {
		v, err := p.Get(prop)
		if err != nil {
			return nil, errors.Wrapf(err, "%s of %s", prop, r.Host())
		}
		assign(rec, prop, v)
	}
	return rec, nil
}

func assign(rec *structs.DomainRecord, prop whois_parsers.Property, v any) {
	switch v := v.(type) {
	case string:
		switch prop {
		case whois_parsers.PropDomain:
			rec.Domain = v
		case whois_parsers.PropDomainID:
			rec.DomainID = v
		case whois_parsers.PropDisclaimer:
			rec.Disclaimer = v
		case whois_parsers.PropReferralWhois:
			rec.ReferralWhois = v
		case whois_parsers.PropReferralURL:
			rec.ReferralURL = v
		}
	case structs.Status:
		rec.Status = v
	case bool:
		b := v
		if prop == whois_parsers.PropAvailable {
			rec.Available = &b
		} else {
			rec.Registered = &b
		}
	case *time.Time:
		switch prop {
		case whois_parsers.PropCreatedOn:
			rec.CreatedOn = v
		case whois_parsers.PropUpdatedOn:
			rec.UpdatedOn = v
		case whois_parsers.PropExpiresOn:
			rec.ExpiresOn = v
		}
	case *structs.Registrar:
		rec.Registrar = v
	case *structs.Contact:
		switch prop {
		case whois_parsers.PropRegistrantContact:
			rec.RegistrantContact = v
		case whois_parsers.PropAdminContact:
			rec.AdminContact = v
		case whois_parsers.PropTechnicalContact:
			rec.TechnicalContact = v
		}
	case []structs.Nameserver:
		rec.Nameservers = v
	}
}
