package structs

import "time"

// Status is the normalized registration status of a domain.
// Sources with a nonstandard vocabulary may return their raw value.
type Status string

const (
	StatusRegistered Status = "registered"
	StatusAvailable  Status = "available"
	StatusReserved   Status = "reserved"
	StatusRedemption Status = "redemption"
)

// IsKnown reports whether s is one of the normalized values rather than a raw fallback.
func (s Status) IsKnown() bool {
	switch s {
	case StatusRegistered, StatusAvailable, StatusReserved, StatusRedemption:
		return true
	}
	return false
}

// Registrar represents the sponsoring registrar of a domain.
type Registrar struct {
	ID           string `json:"id,omitempty"`           // ID is the registrar id, usually the IANA id.
	Name         string `json:"name,omitempty"`         // Name is the registrar name.
	Organization string `json:"organization,omitempty"` // Organization is the legal entity behind the registrar.
	URL          string `json:"url,omitempty"`          // URL is the registrar web site.
}

// Contact represents a registrant, administrative or technical contact.
type Contact struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name,omitempty"`
	Organization string `json:"organization,omitempty"`
	Address      string `json:"address,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	Zip          string `json:"zip,omitempty"`
	Country      string `json:"country,omitempty"`
	CountryCode  string `json:"countryCode,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Fax          string `json:"fax,omitempty"`
	Email        string `json:"email,omitempty"`
}

// Nameserver represents a delegated name server with optional glue.
type Nameserver struct {
	Name string `json:"name"`
	IPv4 string `json:"ipv4,omitempty"`
	IPv6 string `json:"ipv6,omitempty"`
}

// DomainRecord is the JSON view of every property a parser supports.
// Unsupported properties are left empty and omitted.
type DomainRecord struct {
	Domain            string       `json:"Domain Name,omitempty"`
	DomainID          string       `json:"Registry Domain ID,omitempty"`
	Status            Status       `json:"Status,omitempty"`
	Available         *bool        `json:"Available,omitempty"`
	Registered        *bool        `json:"Registered,omitempty"`
	CreatedOn         *time.Time   `json:"Creation Date,omitempty"`
	UpdatedOn         *time.Time   `json:"Updated Date,omitempty"`
	ExpiresOn         *time.Time   `json:"Registry Expiry Date,omitempty"`
	Registrar         *Registrar   `json:"Registrar,omitempty"`
	RegistrantContact *Contact     `json:"Registrant,omitempty"`
	AdminContact      *Contact     `json:"Admin,omitempty"`
	TechnicalContact  *Contact     `json:"Tech,omitempty"`
	Nameservers       []Nameserver `json:"Name Server,omitempty"`
	Disclaimer        string       `json:"Disclaimer,omitempty"`
	ReferralWhois     string       `json:"Referral Whois,omitempty"`
	ReferralURL       string       `json:"Referral URL,omitempty"`
	Server            string       `json:"Whois Server"`
}
