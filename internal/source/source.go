// Package source provides the data sources that feed datasets into the pipelines.
package source

import (
	"fmt"
	"os"

	"github.com/huangsam/flowdash/internal/contract"
	"github.com/huangsam/flowdash/schema"
)

// New builds the data source selected by cfg.
func New(cfg *contract.Config) (contract.DataSource, error) {
	switch cfg.Source {
	case schema.FileSource:
		return NewFileSource(cfg.DatasetFile), nil
	case schema.GraphQLSource:
		query := DefaultQuery
		if cfg.QueryFile != "" {
			b, err := os.ReadFile(cfg.QueryFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read query file: %w", err)
			}
			query = string(b)
		}
		return NewGraphQLSource(cfg.Endpoint, cfg.Token, query, cfg.Timeout)
	default:
		return nil, fmt.Errorf("unsupported source %q", cfg.Source)
	}
}
