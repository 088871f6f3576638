package whois_response

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"
	"unsafe"

	"github.com/KincaidYang/whoisresolver/structs"
	"github.com/KincaidYang/whoisresolver/whois_parsers"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T, host, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "whois_parsers", "testdata", host, name))
	require.NoError(t, err)
	return string(data)
}

func mustNew(t *testing.T, parts ...structs.Part) *Response {
	t.Helper()
	r, err := New(parts)
	require.NoError(t, err)
	return r
}

func TestNewRequiresParts(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestContent(t *testing.T) {
	r := mustNew(t,
		structs.Part{Body: "registry reply", Host: "whois.verisign-grs.com"},
		structs.Part{Body: "registrar reply", Host: "whois.markmonitor.com"},
	)

	assert.Equal(t, "registry reply\nregistrar reply", r.Content())
	assert.Equal(t, r.Content(), r.String())
	assert.Equal(t, "whois.markmonitor.com", r.Host())

	// parts cannot be changed from the outside
	parts := r.Parts()
	parts[0].Body = "changed"
	assert.Equal(t, "registry reply\nregistrar reply", r.Content())
}

func TestContentComputedOnce(t *testing.T) {
	var runs int32
	counting := &whois_parsers.Definition{
		Name: "counting",
		Properties: map[whois_parsers.Property]whois_parsers.Extractor{
			whois_parsers.PropDomain: func(p *whois_parsers.Parser) (any, error) {
				atomic.AddInt32(&runs, 1)
				return p.Content(), nil
			},
		},
	}
	registry := whois_parsers.NewRegistry()
	registry.RegisterDefinition(counting, "whois.counting.test")

	r, err := NewWithRegistry([]structs.Part{{Body: "a", Host: "whois.counting.test"}}, registry)
	require.NoError(t, err)

	first := r.Content()
	for i := 0; i < 3; i++ {
		assert.Same(t, unsafe.StringData(first), unsafe.StringData(r.Content()))
		d, err := r.Domain()
		require.NoError(t, err)
		assert.Equal(t, "a", d)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&runs))

	p1, err := r.Parser()
	require.NoError(t, err)
	p2, err := r.Parser()
	require.NoError(t, err)
	assert.Same(t, p1, p2)
}

func TestEqual(t *testing.T) {
	a := mustNew(t, structs.Part{Body: "Domain Name: EXAMPLE.COM", Host: "whois.verisign-grs.com"})
	b := mustNew(t, structs.Part{Body: "Domain Name:", Host: "whois.verisign-grs.com"})
	c := mustNew(t, structs.Part{Body: "Domain Name: EXAMPLE.COM", Host: "whois.verisign-grs.com"})

	assert.True(t, a.Equal(a))
	assert.True(t, a.Equal(c))
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(nil))

	// content equality is structural: two parts can equal one part
	split := mustNew(t,
		structs.Part{Body: "Domain Name:", Host: "whois.verisign-grs.com"},
		structs.Part{Body: "EXAMPLE.COM", Host: "whois.verisign-grs.com"},
	)
	joined := mustNew(t, structs.Part{Body: "Domain Name:\nEXAMPLE.COM", Host: "whois.verisign-grs.com"})
	assert.True(t, split.Equal(joined))
}

func TestUnchangedIgnoresTimestamps(t *testing.T) {
	body := fixture(t, "whois.verisign-grs.com", "status_registered.txt")
	later := strings.Replace(body, "2024-05-01T12:00:00Z <<<", "2024-05-02T08:30:00Z <<<", 1)

	a := mustNew(t, structs.Part{Body: body, Host: "whois.verisign-grs.com"})
	b := mustNew(t, structs.Part{Body: later, Host: "whois.verisign-grs.com"})

	assert.False(t, a.Equal(b))
	assert.True(t, a.Unchanged(b))
	assert.False(t, a.Changed(b))
	assert.True(t, a.Unchanged(a))
}

func TestChanged(t *testing.T) {
	registered := mustNew(t, structs.Part{Body: fixture(t, "whois.nic.io", "status_registered.txt"), Host: "whois.nic.io"})
	available := mustNew(t, structs.Part{Body: fixture(t, "whois.nic.io", "status_available.txt"), Host: "whois.nic.io"})
	assert.True(t, registered.Changed(available))

	// same text from sources with different parsers
	other := mustNew(t, structs.Part{Body: registered.Content(), Host: "whois.denic.de"})
	assert.True(t, registered.Unchanged(other), "equal content is always unchanged")

	unknown := mustNew(t, structs.Part{Body: "x", Host: "whois.unknown.test"})
	assert.True(t, unknown.Changed(registered))
	assert.True(t, unknown.Unchanged(unknown))
}

func TestParserUsesLastPart(t *testing.T) {
	r := mustNew(t,
		structs.Part{Body: fixture(t, "whois.verisign-grs.com", "status_registered.txt"), Host: "whois.verisign-grs.com"},
		structs.Part{Body: fixture(t, "whois.markmonitor.com", "status_registered.txt"), Host: "whois.markmonitor.com"},
	)

	p, err := r.Parser()
	require.NoError(t, err)
	assert.Equal(t, "icann", p.Name())

	registrar, err := r.Registrar()
	require.NoError(t, err)
	assert.Equal(t, "MarkMonitor, Inc.", registrar.Name)
}

func TestNicIOScenario(t *testing.T) {
	r := mustNew(t, structs.Part{Body: fixture(t, "whois.nic.io", "status_registered.txt"), Host: "whois.nic.io"})

	status, err := r.Status()
	require.NoError(t, err)
	assert.Equal(t, structs.StatusRegistered, status)

	available, err := r.Available()
	require.NoError(t, err)
	assert.False(t, available)

	registered, err := r.Registered()
	require.NoError(t, err)
	assert.True(t, registered)

	domain, err := r.Domain()
	require.NoError(t, err)
	assert.Equal(t, "drop.io", domain)

	var unsupported *whois_parsers.UnsupportedPropertyError
	_, err = r.Disclaimer()
	assert.True(t, errors.As(err, &unsupported))
	_, err = r.DomainID()
	assert.True(t, errors.As(err, &unsupported))
	_, err = r.ReferralWhois()
	assert.True(t, errors.As(err, &unsupported))
	_, err = r.ReferralURL()
	assert.True(t, errors.As(err, &unsupported))
}

func TestUnknownHost(t *testing.T) {
	r := mustNew(t, structs.Part{Body: "whatever", Host: "whois.unknown.test"})

	_, err := r.Status()
	var notFound *whois_parsers.ParserNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "whois.unknown.test", notFound.Host)

	_, err = r.Record()
	assert.True(t, errors.As(err, &notFound))
}

func TestRecord(t *testing.T) {
	r := mustNew(t, structs.Part{Body: fixture(t, "whois.nic.io", "status_registered.txt"), Host: "whois.nic.io"})

	rec, err := r.Record()
	require.NoError(t, err)
	assert.Equal(t, "drop.io", rec.Domain)
	assert.Equal(t, structs.StatusRegistered, rec.Status)
	require.NotNil(t, rec.Available)
	assert.False(t, *rec.Available)
	require.NotNil(t, rec.Registered)
	assert.True(t, *rec.Registered)
	assert.Nil(t, rec.CreatedOn)
	assert.Empty(t, rec.Disclaimer)
	assert.Equal(t, "whois.nic.io", rec.Server)

	r = mustNew(t, structs.Part{Body: fixture(t, "whois.denic.de", "status_registered.txt"), Host: "whois.denic.de"})
	rec, err = r.Record()
	require.NoError(t, err)
	assert.Equal(t, "google.de", rec.Domain)
	require.NotNil(t, rec.TechnicalContact)
	assert.Equal(t, "dns-admin@google.com", rec.TechnicalContact.Email)
	assert.Len(t, rec.Nameservers, 4)
	assert.NotNil(t, rec.UpdatedOn)
	require.NotNil(t, rec.Registrar)
	assert.Equal(t, "MarkMonitor", rec.Registrar.Organization)
	assert.Nil(t, rec.CreatedOn)
	assert.Nil(t, rec.ExpiresOn)
}

func TestMatchHelpers(t *testing.T) {
	r := mustNew(t, structs.Part{Body: "Domain : drop.io\nStatus : Live", Host: "whois.nic.io"})

	assert.True(t, r.Matches(regexp.MustCompile(`Status : Live`)))
	assert.False(t, r.Matches(regexp.MustCompile(`Available`)))

	v, ok := r.FirstCapture(regexp.MustCompile(`Domain : (\S+)`), strings.ToUpper)
	assert.True(t, ok)
	assert.Equal(t, "DROP.IO", v)

	_, ok = r.FirstCapture(regexp.MustCompile(`Expiry : (\S+)`))
	assert.False(t, ok)

	assert.Equal(t, []string{"Status : Live", "Live"}, r.Match(regexp.MustCompile(`Status : (\w+)`)))
}
