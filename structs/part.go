package structs

// Part is one raw WHOIS reply together with the host that produced it.
type Part struct {
	Body string `json:"body"` // Body is the raw reply text, exactly as read from the socket.
	Host string `json:"host"` // Host is the WHOIS server that was queried.
}
