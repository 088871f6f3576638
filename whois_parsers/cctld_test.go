package whois_parsers

import (
	"testing"
	"time"

	"github.com/KincaidYang/whoisresolver/structs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCN(t *testing.T) {
	response := `Domain Name: example.cn
ROID: 20030310s10001s00013625-cn
Domain Status: ok
Registrant: Example Ltd
Registrant Contact Email: dns@example.cn
Sponsoring Registrar: Example Registrar
Name Server: ns1.example.com
Name Server: ns2.example.com
Registration Time: 2025-03-01 12:00:00
Expiration Time: 2026-03-01 12:00:00
DNSSEC: unsigned`

	p := parse(t, "whois.cnnic.cn", response)

	// Converted to UTC
	created, err := p.CreatedOn()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 4, 0, 0, 0, time.UTC), *created)

	expires, err := p.ExpiresOn()
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01T04:00:00Z", expires.Format(time.RFC3339))

	ns, err := p.Nameservers()
	require.NoError(t, err)
	assert.Equal(t, []structs.Nameserver{{Name: "ns1.example.com"}, {Name: "ns2.example.com"}}, ns)

	registrar, err := p.Registrar()
	require.NoError(t, err)
	assert.Equal(t, &structs.Registrar{Name: "Example Registrar"}, registrar)

	registrant, err := p.RegistrantContact()
	require.NoError(t, err)
	assert.Equal(t, &structs.Contact{Name: "Example Ltd", Email: "dns@example.cn"}, registrant)

	id, err := p.DomainID()
	require.NoError(t, err)
	assert.Equal(t, "20030310s10001s00013625-cn", id)

	status, err := p.Status()
	require.NoError(t, err)
	assert.Equal(t, structs.StatusRegistered, status)
}

func TestParseCNStatus(t *testing.T) {
	tests := map[string]structs.Status{
		"No matching record.": structs.StatusAvailable,
		"the Domain Name you apply can not be registered online. Please consult your Domain Name registrar": structs.StatusReserved,
		"Domain Name: example.cn\nDomain Status: pendingDelete\n":                                          structs.StatusRedemption,
	}
	for body, want := range tests {
		status, err := parse(t, "whois.cnnic.cn", body).Status()
		require.NoError(t, err)
		assert.Equal(t, want, status, body)
	}
}

func TestParseHK(t *testing.T) {
	response := `Domain Name:  EXAMPLE.HK
Domain Status: Active
DNSSEC: unsigned
Contract Version:   HKDNR latest version

Registrar Name: Hong Kong Domain Name Registration Company Limited
Registrar Contact Information: Email: enquiry@hkdnr.hk Hotline: +852 2319 1313

Domain Name Commencement Date: 17-01-2002
Expiry Date: 17-01-2026
Re-registration Status: Complete

Name Servers Information:

NS1.EXAMPLE.HK
NS2.EXAMPLE.HK

Status Information:
`
	p := parse(t, "whois.hkirc.hk", response)

	domain, err := p.Domain()
	require.NoError(t, err)
	assert.Equal(t, "example.hk", domain)

	created, err := p.CreatedOn()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2002, 1, 17, 0, 0, 0, 0, time.UTC), *created)

	ns, err := p.Nameservers()
	require.NoError(t, err)
	assert.Equal(t, []structs.Nameserver{{Name: "ns1.example.hk"}, {Name: "ns2.example.hk"}}, ns)

	registered, err := p.Registered()
	require.NoError(t, err)
	assert.True(t, registered)

	available, err := parse(t, "whois.hkirc.hk", "The domain has not been registered.").Available()
	require.NoError(t, err)
	assert.True(t, available)
}

func TestParseTW(t *testing.T) {
	response := `Domain Name: example.tw
   Domain Status: clientTransferProhibited
   Registrant:
      Example Co.

   Record expires on 2026-11-09 (YYYY-MM-DD)
   Record created on 1995-12-31 (YYYY-MM-DD)

   Domain servers in listed order:
      ns1.example.tw
      ns2.example.tw

Registration Service Provider: HiNet
`
	p := parse(t, "whois.twnic.net.tw", response)

	expires, err := p.ExpiresOn()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 11, 9, 0, 0, 0, 0, time.UTC), *expires)

	ns, err := p.Nameservers()
	require.NoError(t, err)
	assert.Equal(t, []structs.Nameserver{{Name: "ns1.example.tw"}, {Name: "ns2.example.tw"}}, ns)

	registrar, err := p.Registrar()
	require.NoError(t, err)
	assert.Equal(t, "HiNet", registrar.Name)

	available, err := parse(t, "whois.twnic.net.tw", "No Found").Available()
	require.NoError(t, err)
	assert.True(t, available)
}

func TestParseRU(t *testing.T) {
	response := `% TCI Whois Service. Terms of use:
% https://tcinet.ru/documents/whois_ru_rf.pdf (in Russian)

domain:        YANDEX.RU
nserver:       ns1.yandex.ru. 213.180.193.1, 2a02:6b8::1
nserver:       ns2.yandex.ru. 213.180.199.34
state:         REGISTERED, DELEGATED, VERIFIED
org:           YANDEX, LLC.
taxpayer-id:   7736207543
registrar:     RU-CENTER-RU
admin-contact: https://www.nic.ru/whois
created:       1997-09-23T09:45:07Z
paid-till:     2025-09-30T21:00:00Z
free-date:     2025-11-01
source:        TCI

Last updated on 2024-05-01T12:01:31Z
`
	for _, host := range []string{"whois.tcinet.ru", "whois.ripn.net"} {
		p := parse(t, host, response)

		domain, err := p.Domain()
		require.NoError(t, err)
		assert.Equal(t, "yandex.ru", domain)

		ns, err := p.Nameservers()
		require.NoError(t, err)
		assert.Equal(t, []structs.Nameserver{
			{Name: "ns1.yandex.ru", IPv4: "213.180.193.1", IPv6: "2a02:6b8::1"},
			{Name: "ns2.yandex.ru", IPv4: "213.180.199.34"},
		}, ns)

		status, err := p.Status()
		require.NoError(t, err)
		assert.Equal(t, structs.StatusRegistered, status)

		expires, err := p.ExpiresOn()
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 9, 30, 21, 0, 0, 0, time.UTC), *expires)

		registrant, err := p.RegistrantContact()
		require.NoError(t, err)
		assert.Equal(t, &structs.Contact{Organization: "YANDEX, LLC."}, registrant)
	}

	available, err := parse(t, "whois.tcinet.ru", "No entries found for the selected source(s).").Available()
	require.NoError(t, err)
	assert.True(t, available)
}

func TestParseMO(t *testing.T) {
	response := `Domain name: example.mo

Record created on 2001-06-29 10:35:20
Record expires on 2026-06-30 23:59:59

Domain name servers:
-------------------------------------------------
ns1.example.mo
ns2.example.mo
`
	p := parse(t, "whois.monic.mo", response)

	created, err := p.CreatedOn()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2001, 6, 29, 2, 35, 20, 0, time.UTC), *created)

	ns, err := p.Nameservers()
	require.NoError(t, err)
	assert.Equal(t, []structs.Nameserver{{Name: "ns1.example.mo"}, {Name: "ns2.example.mo"}}, ns)

	registered, err := p.Registered()
	require.NoError(t, err)
	assert.True(t, registered)

	_, err = p.Registrar()
	assert.True(t, IsUnsupported(err))
}

func TestParseSG(t *testing.T) {
	response := "Domain Name:                        EXAMPLE.SG\r\n" +
		"Creation Date:                      15-Jun-2001 00:00:00\r\n" +
		"Modified Date:                      14-May-2024 02:01:12\r\n" +
		"Expiration Date:                    15-Jun-2026 00:00:00\r\n" +
		"Domain Status:                      OK\r\n" +
		"Registrar:                          Vodien Internet Solutions Pte Ltd\r\n" +
		"DNSSEC:                             unsigned\r\n" +
		"Name Servers:\r\n" +
		"        NS1.EXAMPLE.SG\r\n" +
		"        NS2.EXAMPLE.SG\r\n" +
		"\r\n"

	p := parse(t, "whois.sgnic.sg", response)

	domain, err := p.Domain()
	require.NoError(t, err)
	assert.Equal(t, "example.sg", domain)

	updated, err := p.UpdatedOn()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 14, 2, 1, 12, 0, time.UTC), *updated)

	ns, err := p.Nameservers()
	require.NoError(t, err)
	assert.Equal(t, []structs.Nameserver{{Name: "ns1.example.sg"}, {Name: "ns2.example.sg"}}, ns)

	registrar, err := p.Registrar()
	require.NoError(t, err)
	assert.Equal(t, "Vodien Internet Solutions Pte Ltd", registrar.Name)

	available, err := parse(t, "whois.sgnic.sg", "Domain Not Found").Available()
	require.NoError(t, err)
	assert.True(t, available)
}
