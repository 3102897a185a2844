package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/flowdash/internal/contract"
	"github.com/huangsam/flowdash/schema"
	"gopkg.in/yaml.v3"
)

// FileSource reads a dataset exported to a JSON or YAML file.
type FileSource struct {
	path string
}

var _ contract.DataSource = &FileSource{} // Compile-time check

// NewFileSource creates a source backed by the file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Describe implements the DataSource interface.
func (s *FileSource) Describe() string {
	return "file:" + s.path
}

// FetchDataset implements the DataSource interface.
// A customer mismatch with the file's own customer is an error; an empty
// customer accepts whatever the file holds.
func (s *FileSource) FetchDataset(ctx context.Context, customer string) (*schema.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}

	var ds schema.Dataset
	switch ext := strings.ToLower(filepath.Ext(s.path)); ext {
	case ".json":
		err = json.Unmarshal(b, &ds)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &ds)
	default:
		return nil, fmt.Errorf("unsupported dataset file extension %q. must be .json, .yaml, .yml", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode dataset file %s: %w", s.path, err)
	}

	if customer != "" && ds.Customer != "" && ds.Customer != customer {
		return nil, fmt.Errorf("dataset file %s belongs to customer %q, not %q", s.path, ds.Customer, customer)
	}
	if ds.Customer == "" {
		ds.Customer = customer
	}
	return &ds, nil
}
