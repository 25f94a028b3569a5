package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/county-roi/internal/model"
)

type mockCountySource struct{ mock.Mock }

func (m *mockCountySource) FetchCounties(ctx context.Context) ([]model.CountyRecord, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]model.CountyRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockBoundarySource struct{ mock.Mock }

func (m *mockBoundarySource) LoadCounties(ctx context.Context) ([]model.CountyGeometry, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]model.CountyGeometry), args.Error(1)
	}
	return nil, args.Error(1)
}
