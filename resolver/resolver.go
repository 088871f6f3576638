// Package resolver turns a lookup key into the ordered replies of the WHOIS
// sources responsible for it.
package resolver

import (
	"context"
	"time"

	"github.com/KincaidYang/whoisresolver/server_lists"
	"github.com/KincaidYang/whoisresolver/structs"
	"github.com/KincaidYang/whoisresolver/utils"
	"github.com/KincaidYang/whoisresolver/whois_adapters"
	"github.com/KincaidYang/whoisresolver/whois_parsers"
	"github.com/KincaidYang/whoisresolver/whois_response"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Options configures a Resolver. Transport is required.
type Options struct {
	Transport whois_adapters.Transport
	// Servers defaults to server_lists.Default().
	Servers *server_lists.Table
	// Registry defaults to whois_parsers.Default.
	Registry *whois_parsers.Registry
	// Cache is optional; CacheTTL must be positive for entries to be stored.
	Cache    utils.Cache
	CacheTTL time.Duration
	// RegistrableDomain reduces host names to their registrable domain.
	RegistrableDomain bool
	// QueryTimeout bounds a shared query once detached from its callers.
	// Zero leaves it to the transport's per-query timeout.
	QueryTimeout time.Duration
	Logger       *zap.Logger
}

// Resolver selects the adapter for a key and drives it. A Resolver is safe
// for concurrent use, concurrent lookups of the same key share one query.
type Resolver struct {
	transport   whois_adapters.Transport
	servers     *server_lists.Table
	registry    *whois_parsers.Registry
	cache       utils.Cache
	ttl         time.Duration
	registrable bool
	timeout     time.Duration
	log         *zap.SugaredLogger
	group       singleflight.Group
}

// New creates a Resolver.
func New(opts Options) (*Resolver, error) {
	if opts.Transport == nil {
		return nil, errors.New("resolver: transport is required")
	}
	if opts.Servers == nil {
		opts.Servers = server_lists.Default()
	}
	if opts.Registry == nil {
		opts.Registry = whois_parsers.Default
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Resolver{
		transport:   opts.Transport,
		servers:     opts.Servers,
		registry:    opts.Registry,
		cache:       opts.Cache,
		ttl:         opts.CacheTTL,
		registrable: opts.RegistrableDomain,
		timeout:     opts.QueryTimeout,
		log:         opts.Logger.Sugar().Named("resolver"),
	}, nil
}

// Classify normalizes raw the way lookups do.
func (r *Resolver) Classify(raw string) (Key, error) {
	return Classify(raw, r.registrable)
}

// LookupParts returns the raw replies for raw, from the cache when possible.
func (r *Resolver) LookupParts(ctx context.Context, raw string) ([]structs.Part, error) {
	key, err := r.Classify(raw)
	if err != nil {
		return nil, err
	}
	return r.lookupParts(ctx, key, true)
}

// Lookup returns the response for raw.
func (r *Resolver) Lookup(ctx context.Context, raw string) (*whois_response.Response, error) {
	key, err := r.Classify(raw)
	if err != nil {
		return nil, err
	}
	parts, err := r.lookupParts(ctx, key, true)
	if err != nil {
		return nil, err
	}
	return whois_response.NewWithRegistry(parts, r.registry)
}

// Comparison is the outcome of Changed.
type Comparison struct {
	// Changed is true unless the responses are equal or equivalent.
	Changed bool
	// Equal is true when both responses have the same text.
	Equal   bool
	Current *whois_response.Response
}

// Changed queries raw again, bypassing the cache, and compares the reply with
// previously stored parts.
func (r *Resolver) Changed(ctx context.Context, raw string, previous []structs.Part) (*Comparison, error) {
	prev, err := whois_response.NewWithRegistry(previous, r.registry)
	if err != nil {
		return nil, errors.Wrap(err, "previous response")
	}
	key, err := r.Classify(raw)
	if err != nil {
		return nil, err
	}
	parts, err := r.lookupParts(ctx, key, false)
	if err != nil {
		return nil, err
	}
	current, err := whois_response.NewWithRegistry(parts, r.registry)
	if err != nil {
		return nil, err
	}
	return &Comparison{
		Changed: current.Changed(prev),
		Equal:   current.Equal(prev),
		Current: current,
	}, nil
}

func (r *Resolver) lookupParts(ctx context.Context, key Key, useCache bool) ([]structs.Part, error) {
	if useCache && r.cache != nil {
		parts, found, err := utils.GetPartsFromCache(ctx, r.cache, key.Value)
		if err != nil {
			r.log.Warnf("Cache read failed for %s: %v", key, err)
		} else if found {
			r.log.Debugf("Serving %s from cache", key)
			utils.Lookups.WithLabelValues("cache", "ok").Inc()
			return parts, nil
		}
	}

	// The query outlives any single caller: a caller giving up must not
	// fail the others waiting on the same key.
	ch := r.group.DoChan(key.String(), func() (any, error) {
		qctx := context.WithoutCancel(ctx)
		if r.timeout > 0 {
			var cancel context.CancelFunc
			qctx, cancel = context.WithTimeout(qctx, r.timeout)
			defer cancel()
		}
		return r.query(qctx, key)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			r.log.Debugf("Shared in-flight lookup of %s", key)
		}
		parts := res.Val.([]structs.Part)
		return append([]structs.Part(nil), parts...), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *Resolver) query(ctx context.Context, key Key) ([]structs.Part, error) {
	adapter, err := r.servers.Find(key.Kind, key.Value)
	if err != nil {
		utils.Lookups.WithLabelValues("none", "not_found").Inc()
		return nil, err
	}

	parts, err := adapter.Request(ctx, r.transport, key.Value)
	if err != nil {
		utils.Lookups.WithLabelValues(adapter.Name(), "error").Inc()
		return nil, err
	}
	utils.Lookups.WithLabelValues(adapter.Name(), "ok").Inc()

	if len(parts) > 1 {
		hosts := make([]string, len(parts))
		for i, p := range parts {
			hosts[i] = p.Host
		}
		r.log.Debugf("Followed referrals for %s: %v", key, hosts)
	}

	if r.cache != nil && r.ttl > 0 {
		if err := utils.SetPartsToCache(ctx, r.cache, key.Value, parts, r.ttl); err != nil {
			r.log.Warnf("Cache write failed for %s: %v", key, err)
		}
	}
	return parts, nil
}
