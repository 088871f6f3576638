package whois_parsers

import (
	"testing"
	"time"

	"github.com/KincaidYang/whoisresolver/structs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIcannLA(t *testing.T) {
	p := parse(t, "whois.nic.la", fixture(t, "whois.nic.la", "status_registered.txt"))

	domain, err := p.Domain()
	require.NoError(t, err)
	assert.Equal(t, "nic.la", domain)

	registrar, err := p.Registrar()
	require.NoError(t, err)
	// the registry leaves the IANA id and URL empty
	assert.Equal(t, &structs.Registrar{Name: "TLD Registrar Solutions Ltd"}, registrar)

	created, err := p.CreatedOn()
	require.NoError(t, err)
	assert.True(t, created.Equal(time.Date(2000, 11, 20, 1, 0, 0, 0, time.UTC)))

	expires, err := p.ExpiresOn()
	require.NoError(t, err)
	assert.True(t, expires.Equal(time.Date(2026, 11, 20, 23, 59, 59, 0, time.UTC)))

	updated, err := p.UpdatedOn()
	require.NoError(t, err)
	assert.True(t, updated.Equal(time.Date(2016, 10, 17, 4, 13, 14, 0, time.UTC)))

	ns, err := p.Nameservers()
	require.NoError(t, err)
	require.Len(t, ns, 6)
	for i, want := range []string{
		"ns0.centralnic-dns.com",
		"ns1.centralnic-dns.com",
		"ns2.centralnic-dns.com",
		"ns3.centralnic-dns.com",
		"ns4.centralnic-dns.com",
		"ns5.centralnic-dns.com",
	} {
		assert.Equal(t, want, ns[i].Name)
	}

	status, err := p.Status()
	require.NoError(t, err)
	assert.Equal(t, structs.StatusRegistered, status)

	registrant, err := p.RegistrantContact()
	require.NoError(t, err)
	assert.Equal(t, &structs.Contact{Email: "https://whois.nic.la/contact/nic.la/registrant"}, registrant)

	url, err := p.ReferralURL()
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestIcannLADomainNotFound(t *testing.T) {
	p := parse(t, "whois.nic.la", fixture(t, "whois.nic.la", "status_available.txt"))

	available, err := p.Available()
	require.NoError(t, err)
	assert.True(t, available)

	created, err := p.CreatedOn()
	require.NoError(t, err)
	assert.Nil(t, created)

	id, err := p.DomainID()
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestIcannRegistrar(t *testing.T) {
	p := parse(t, "whois.markmonitor.com", fixture(t, "whois.markmonitor.com", "status_registered.txt"))

	registrar, err := p.Registrar()
	require.NoError(t, err)
	assert.Equal(t, &structs.Registrar{ID: "292", Name: "MarkMonitor, Inc.", URL: "http://www.markmonitor.com"}, registrar)

	registrant, err := p.RegistrantContact()
	require.NoError(t, err)
	assert.Equal(t, "Google LLC", registrant.Organization)
	assert.Equal(t, "CA", registrant.State)
	assert.Equal(t, "US", registrant.CountryCode)

	expires, err := p.ExpiresOn()
	require.NoError(t, err)
	require.NotNil(t, expires)
	assert.Equal(t, 2028, expires.Year())

	referral, err := p.ReferralWhois()
	require.NoError(t, err)
	assert.Equal(t, "whois.markmonitor.com", referral)

	admin, err := p.AdminContact()
	require.NoError(t, err)
	assert.Equal(t, &structs.Contact{Organization: "Google LLC", State: "CA", CountryCode: "US"}, admin)

	tech, err := p.TechnicalContact()
	require.NoError(t, err)
	assert.Equal(t, &structs.Contact{Organization: "Google LLC", State: "CA", CountryCode: "US"}, tech)
}

func TestIcannReadsRegistrarPart(t *testing.T) {
	registry := fixture(t, "whois.verisign-grs.com", "status_registered.txt")
	factory, err := Default.Resolve("whois.markmonitor.com")
	require.NoError(t, err)
	p := factory(testSource{
		{Body: registry, Host: "whois.verisign-grs.com"},
		{Body: fixture(t, "whois.markmonitor.com", "status_registered.txt"), Host: "whois.markmonitor.com"},
	})

	registrar, err := p.Registrar()
	require.NoError(t, err)
	assert.Equal(t, "MarkMonitor, Inc.", registrar.Name)

	expires, err := p.ExpiresOn()
	require.NoError(t, err)
	require.NotNil(t, expires)
	assert.Equal(t, 2028, expires.Year())

	updated, err := p.UpdatedOn()
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 2024, updated.Year())
	assert.Equal(t, time.August, updated.Month())

	domain, err := p.Domain()
	require.NoError(t, err)
	assert.Equal(t, "google.com", domain)
}

func TestIcannNotFoundReplies(t *testing.T) {
	for _, body := range []string{
		`No match for "EXAMPLE.SO".`,
		"NOT FOUND\n>>> Last update of WHOIS database: 2025-10-12T04:26:45Z <<<",
		"Domain not found.",
		"The queried object does not exist: DOMAIN NOT FOUND",
	} {
		p := parse(t, "whois.nic.so", body)
		available, err := p.Available()
		require.NoError(t, err)
		assert.True(t, available, body)
	}
}
