package whois_parsers

import (
	"testing"
	"time"

	"github.com/KincaidYang/whoisresolver/structs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerisignRegistered(t *testing.T) {
	p := parse(t, "whois.verisign-grs.com", fixture(t, "whois.verisign-grs.com", "status_registered.txt"))

	domain, err := p.Domain()
	require.NoError(t, err)
	assert.Equal(t, "google.com", domain)

	id, err := p.DomainID()
	require.NoError(t, err)
	assert.Equal(t, "2138514_DOMAIN_COM-VRSN", id)

	status, err := p.Status()
	require.NoError(t, err)
	assert.Equal(t, structs.StatusRegistered, status)

	created, err := p.CreatedOn()
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.True(t, created.Equal(time.Date(1997, 9, 15, 4, 0, 0, 0, time.UTC)))

	expires, err := p.ExpiresOn()
	require.NoError(t, err)
	assert.True(t, expires.Equal(time.Date(2028, 9, 14, 4, 0, 0, 0, time.UTC)))

	registrar, err := p.Registrar()
	require.NoError(t, err)
	assert.Equal(t, &structs.Registrar{
		ID:           "292",
		Name:         "MarkMonitor Inc.",
		Organization: "MarkMonitor Inc.",
		URL:          "http://www.markmonitor.com",
	}, registrar)

	referral, err := p.ReferralWhois()
	require.NoError(t, err)
	assert.Equal(t, "whois.markmonitor.com", referral)

	ns, err := p.Nameservers()
	require.NoError(t, err)
	assert.Equal(t, []structs.Nameserver{
		{Name: "ns1.google.com"}, {Name: "ns2.google.com"}, {Name: "ns3.google.com"}, {Name: "ns4.google.com"},
	}, ns)

	disclaimer, err := p.Disclaimer()
	require.NoError(t, err)
	assert.Equal(t, "You are not authorized to access or query our Whois database through the use of "+
		"electronic processes that are high-volume and automated except as reasonably necessary to "+
		"register domain names or modify existing registrations.", disclaimer)

	_, err = p.AdminContact()
	assert.True(t, IsUnsupported(err))
}

func TestVerisignAvailable(t *testing.T) {
	p := parse(t, "whois.verisign-grs.com", fixture(t, "whois.verisign-grs.com", "status_available.txt"))

	available, err := p.Available()
	require.NoError(t, err)
	assert.True(t, available)

	registrar, err := p.Registrar()
	require.NoError(t, err)
	assert.Nil(t, registrar)

	ns, err := p.Nameservers()
	require.NoError(t, err)
	assert.Empty(t, ns)
}

func TestVerisignReadsLastPart(t *testing.T) {
	body := fixture(t, "whois.verisign-grs.com", "status_registered.txt")
	p := New(VerisignGrsCom, testSource{
		{Body: body, Host: "whois.verisign-grs.com"},
		{Body: body, Host: "whois.verisign-grs.com"},
	})

	ns, err := p.Nameservers()
	require.NoError(t, err)
	assert.Len(t, ns, 4)
}

func TestVerisignRedemption(t *testing.T) {
	p := parse(t, "whois.verisign-grs.com", "Domain Name: EXAMPLE.COM\nRegistry Domain ID: 1_DOMAIN_COM-VRSN\n"+
		"Domain Status: redemptionPeriod https://icann.org/epp#redemptionPeriod\n")

	status, err := p.Status()
	require.NoError(t, err)
	assert.Equal(t, structs.StatusRedemption, status)

	registered, err := p.Registered()
	require.NoError(t, err)
	assert.True(t, registered)
}
