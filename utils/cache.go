package utils

import (
	"context"
	"encoding/json"
	"time"

	"github.com/KincaidYang/whoisresolver/structs"
	"github.com/pkg/errors"
)

// CacheKeyPrefix prefixes every key written by the resolver.
const CacheKeyPrefix = "whois:"

// CacheResult represents the result of a cache operation
type CacheResult struct {
	Data  string
	Found bool
}

// GetPartsFromCache loads the raw reply parts stored for key.
// A miss is not an error.
func GetPartsFromCache(ctx context.Context, cache Cache, key string) ([]structs.Part, bool, error) {
	result, err := cache.Get(ctx, CacheKeyPrefix+key)
	if err != nil {
		return nil, false, err
	}
	if !result.Found {
		return nil, false, nil
	}

	var parts []structs.Part
	if err := json.Unmarshal([]byte(result.Data), &parts); err != nil {
		return nil, false, errors.Wrapf(err, "decode cached parts for %s", key)
	}
	if len(parts) == 0 {
		return nil, false, nil
	}
	return parts, true, nil
}

// SetPartsToCache stores the raw reply parts for key with expiration.
func SetPartsToCache(ctx context.Context, cache Cache, key string, parts []structs.Part, expiration time.Duration) error {
	data, err := json.Marshal(parts)
	if err != nil {
		return errors.Wrap(err, "failed to marshal parts for caching")
	}
	return cache.Set(ctx, CacheKeyPrefix+key, string(data), expiration)
}
