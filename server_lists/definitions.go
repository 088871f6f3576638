package server_lists

// builtin lists the sources known without any configuration. The ccTLD hosts
// mirror the registries that have parsing rules.
var builtin = File{
	TLD: []Definition{
		{Match: "com", Adapter: AdapterVerisign, Host: "whois.verisign-grs.com"},
		{Match: "net", Adapter: AdapterVerisign, Host: "whois.verisign-grs.com"},
		{Match: "cc", Adapter: AdapterVerisign, Host: "ccwhois.verisign-grs.com"},
		{Match: "tv", Adapter: AdapterVerisign, Host: "tvwhois.verisign-grs.com"},
		{Match: "io", Adapter: AdapterStandard, Host: "whois.nic.io"},
		{Match: "de", Adapter: AdapterFormatted, Host: "whois.denic.de", Format: "-T dn,ace %s"},
		{Match: "cn", Adapter: AdapterStandard, Host: "whois.cnnic.cn"},
		{Match: "xn--fiqs8s", Adapter: AdapterStandard, Host: "whois.cnnic.cn"},
		{Match: "hk", Adapter: AdapterStandard, Host: "whois.hkirc.hk"},
		{Match: "tw", Adapter: AdapterStandard, Host: "whois.twnic.net.tw"},
		{Match: "ru", Adapter: AdapterStandard, Host: "whois.tcinet.ru"},
		{Match: "su", Adapter: AdapterStandard, Host: "whois.tcinet.ru"},
		{Match: "xn--p1ai", Adapter: AdapterStandard, Host: "whois.tcinet.ru"},
		{Match: "mo", Adapter: AdapterStandard, Host: "whois.monic.mo"},
		{Match: "sg", Adapter: AdapterStandard, Host: "whois.sgnic.sg"},
		{Match: "la", Adapter: AdapterStandard, Host: "whois.nic.la"},
		{Match: "so", Adapter: AdapterStandard, Host: "whois.nic.so"},
		{Match: "sb", Adapter: AdapterStandard, Host: "whois.nic.net.sb"},
		{Match: "org", Adapter: AdapterStandard, Host: "whois.publicinterestregistry.org"},
		{Match: "edu", Adapter: AdapterStandard, Host: "whois.educause.edu"},
		{Match: "gov", Adapter: AdapterStandard, Host: "whois.dotgov.gov"},
		{Match: "es", Adapter: AdapterWeb, URL: "https://www.nic.es/"},
		{Match: "vn", Adapter: AdapterWeb, URL: "https://www.vnnic.vn/en/whois-information"},
		{Match: "mil", Adapter: AdapterNone},
	},
	IPv4: []Definition{
		{Match: "0.0.0.0/0", Adapter: AdapterReferral, Host: "whois.iana.org"},
	},
	IPv6: []Definition{
		{Match: "::/0", Adapter: AdapterReferral, Host: "whois.iana.org"},
	},
	ASN: []Definition{
		{Match: "0-4294967295", Adapter: AdapterReferral, Host: "whois.iana.org"},
	},
	Handle: []Definition{
		{Match: "-ARIN", Adapter: AdapterStandard, Host: "whois.arin.net"},
		{Match: "-RIPE", Adapter: AdapterStandard, Host: "whois.ripe.net"},
		{Match: "-AP", Adapter: AdapterStandard, Host: "whois.apnic.net"},
		{Match: "-LACNIC", Adapter: AdapterStandard, Host: "whois.lacnic.net"},
		{Match: "-AFRINIC", Adapter: AdapterStandard, Host: "whois.afrinic.net"},
		{Match: "-FRNIC", Adapter: AdapterStandard, Host: "whois.nic.fr"},
	},
	Fallback: &Definition{Adapter: AdapterReferral, Host: "whois.iana.org"},
}
