package source

import (
	"context"

	"github.com/huangsam/flowdash/internal/contract"
	"github.com/huangsam/flowdash/schema"
	"github.com/stretchr/testify/mock"
)

// MockDataSource is a mock implementation of contract.DataSource for testing.
type MockDataSource struct {
	mock.Mock
}

var _ contract.DataSource = &MockDataSource{} // Compile-time check

// FetchDataset implements the DataSource interface.
func (m *MockDataSource) FetchDataset(ctx context.Context, customer string) (*schema.Dataset, error) {
	args := m.Called(ctx, customer)
	ds, _ := args.Get(0).(*schema.Dataset)
	return ds, args.Error(1)
}

// Describe implements the DataSource interface.
func (m *MockDataSource) Describe() string {
	args := m.Called()
	return args.String(0)
}
