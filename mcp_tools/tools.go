// Package mcp_tools exposes WHOIS lookups as Model Context Protocol tools.
package mcp_tools

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/KincaidYang/whoisresolver/config"
	"github.com/KincaidYang/whoisresolver/resolver"
	"github.com/KincaidYang/whoisresolver/structs"
	"github.com/KincaidYang/whoisresolver/whois_parsers"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// LookupInput is the argument of whois_lookup.
type LookupInput struct {
	Key string `json:"key" jsonschema:"domain name, IP address or AS number to look up"`
	Raw bool   `json:"raw,omitempty" jsonschema:"include the raw replies of every server"`
}

// LookupOutput is the result of whois_lookup.
type LookupOutput struct {
	Key     string         `json:"key"`
	Hosts   []string       `json:"hosts"`
	Record  map[string]any `json:"record,omitempty"`
	Content string         `json:"content,omitempty"`
	Parts   []structs.Part `json:"parts,omitempty"`
}

// ChangedInput is the argument of whois_changed.
type ChangedInput struct {
	Key   string         `json:"key" jsonschema:"domain name, IP address or AS number to look up"`
	Parts []structs.Part `json:"parts" jsonschema:"replies stored by an earlier whois_lookup with raw set"`
}

// ChangedOutput is the result of whois_changed.
type ChangedOutput struct {
	Changed bool `json:"changed"`
	Equal   bool `json:"equal"`
}

type tools struct {
	resolver *resolver.Resolver
	log      *zap.SugaredLogger
}

// NewServer builds an MCP server with the whois_lookup and whois_changed tools.
func NewServer(res *resolver.Resolver, logger *zap.Logger) *mcp.Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &tools{resolver: res, log: logger.Sugar().Named("mcp")}

	server := mcp.NewServer(&mcp.Implementation{Name: "whoisresolver", Version: config.Version}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "whois_lookup",
		Description: "Query the WHOIS servers responsible for a domain, IP address or AS number and return the normalized record.",
	}, t.lookup)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "whois_changed",
		Description: "Query a key again and report whether the reply differs from previously stored parts. Timestamps and disclaimers are ignored.",
	}, t.changed)
	return server
}

// HTTPHandler serves server over the streamable HTTP transport.
func HTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}

// RunStdio serves server on stdin/stdout until ctx is done or the client leaves.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

func (t *tools) lookup(ctx context.Context, req *mcp.CallToolRequest, in LookupInput) (*mcp.CallToolResult, LookupOutput, error) {
	resp, err := t.resolver.Lookup(ctx, in.Key)
	if err != nil {
		t.log.Debugf("whois_lookup %s failed: %v", in.Key, err)
		return nil, LookupOutput{}, err
	}

	parts := resp.Parts()
	out := LookupOutput{Key: in.Key, Hosts: make([]string, len(parts))}
	for i, p := range parts {
		out.Hosts[i] = p.Host
	}
	if in.Raw {
		out.Content = resp.Content()
		out.Parts = parts
	}

	record, err := resp.Record()
	var notFound *whois_parsers.ParserNotFoundError
	switch {
	case errors.As(err, &notFound):
		// no parsing rules, the text is all there is
		out.Content = resp.Content()
		return nil, out, nil
	case err != nil:
		return nil, LookupOutput{}, err
	}

	out.Record, err = toMap(record)
	if err != nil {
		return nil, LookupOutput{}, err
	}
	return nil, out, nil
}

func (t *tools) changed(ctx context.Context, req *mcp.CallToolRequest, in ChangedInput) (*mcp.CallToolResult, ChangedOutput, error) {
	if len(in.Parts) == 0 {
		return nil, ChangedOutput{}, errors.New("parts must not be empty")
	}
	cmp, err := t.resolver.Changed(ctx, in.Key, in.Parts)
	if err != nil {
		t.log.Debugf("whois_changed %s failed: %v", in.Key, err)
		return nil, ChangedOutput{}, err
	}
	return nil, ChangedOutput{Changed: cmp.Changed, Equal: cmp.Equal}, nil
}

// toMap re-encodes v so that timestamps reach the client as strings.
func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encode record")
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "decode record")
	}
	return m, nil
}
