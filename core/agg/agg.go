// Package agg fetches the dataset behind each pipeline, going through the dataset cache when one is configured.
package agg

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/flowdash/internal/contract"
	"github.com/huangsam/flowdash/schema"
)

// currentCacheVersion defines the version of the cached dataset schema
const currentCacheVersion = 1

// CachedFetchDataset returns the customer's dataset, served from the dataset cache when fresh.
func CachedFetchDataset(ctx context.Context, cfg *contract.Config, src contract.DataSource, mgr contract.CacheManager) (*schema.Dataset, error) {
	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetDatasetStore()
	}
	if store == nil {
		// Fallback to a direct fetch
		return fetchDataset(ctx, cfg, src)
	}

	key := generateCacheKey(cfg, src)

	if result := checkCacheHit(store, key, cfg.CacheTTL); result != nil {
		return result, nil
	}

	return computeAndStore(ctx, cfg, src, store, key)
}

// fetchDataset asks the source for the dataset and fills in the customer when the source omits it.
func fetchDataset(ctx context.Context, cfg *contract.Config, src contract.DataSource) (*schema.Dataset, error) {
	ds, err := src.FetchDataset(ctx, cfg.Customer)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset from %s: %w", src.Describe(), err)
	}
	if ds.Customer == "" {
		ds.Customer = cfg.Customer
	}
	return ds, nil
}

// checkCacheHit attempts to retrieve and validate a cached dataset
func checkCacheHit(store contract.CacheStore, key string, ttl time.Duration) *schema.Dataset {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	if version != currentCacheVersion {
		return nil
	}
	if ttl > 0 && time.Since(time.Unix(ts, 0)) > ttl {
		return nil // Stale
	}

	var result schema.Dataset
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	return &result
}

// computeAndStore fetches the dataset and stores it in cache
func computeAndStore(ctx context.Context, cfg *contract.Config, src contract.DataSource, store contract.CacheStore, key string) (*schema.Dataset, error) {
	result, err := fetchDataset(ctx, cfg, src)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(result)
	if err == nil {
		err = store.Set(key, data, currentCacheVersion, time.Now().Unix())
	}
	if err != nil {
		contract.LogWarn("Failed to cache dataset", err)
	}

	return result, nil
}

// generateCacheKey creates a unique key from the source and the customer
func generateCacheKey(cfg *contract.Config, src contract.DataSource) string {
	key := fmt.Sprintf("%s:%s", src.Describe(), cfg.Customer)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
