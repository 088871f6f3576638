package whois_adapters

import "fmt"

// WebInterfaceError is returned for sources that only offer a web form.
type WebInterfaceError struct {
	Key string
	URL string
}

func (e *WebInterfaceError) Error() string {
	return fmt.Sprintf("no WHOIS server for %s, use the web interface at %s", e.Key, e.URL)
}

// NoInterfaceError is returned for sources without any public interface.
type NoInterfaceError struct {
	Key string
}

func (e *NoInterfaceError) Error() string {
	return fmt.Sprintf("no public WHOIS interface for %s", e.Key)
}
