package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docsearch/internal/model"
	"docsearch/internal/search"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Add(ctx context.Context, doc *model.Document) bool {
	args := m.Called(ctx, doc)
	return args.Bool(0)
}

func (m *MockGateway) Update(ctx context.Context, id string, fields map[string]any) bool {
	args := m.Called(ctx, id, fields)
	return args.Bool(0)
}

func (m *MockGateway) Delete(ctx context.Context, id string) bool {
	args := m.Called(ctx, id)
	return args.Bool(0)
}

func (m *MockGateway) Search(ctx context.Context, query string, filters model.SearchFilters) *search.Result {
	args := m.Called(ctx, query, filters)
	return args.Get(0).(*search.Result)
}

func (m *MockGateway) Health(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockGateway) Configure(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockGateway) SyncAll(ctx context.Context, docs []*model.Document) bool {
	args := m.Called(ctx, docs)
	return args.Bool(0)
}
