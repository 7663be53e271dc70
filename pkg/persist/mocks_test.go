package persist_test

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockStore is a plain persist.Store double.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Load(ctx context.Context, id int) (OrderState, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(OrderState), args.Error(1)
}

func (m *MockStore) Save(ctx context.Context, id int, state OrderState) error {
	args := m.Called(ctx, id, state)
	return args.Error(0)
}

// MockConditionalStore adds SaveIf.
type MockConditionalStore struct {
	MockStore
}

func (m *MockConditionalStore) SaveIf(ctx context.Context, id int, expected, next OrderState) error {
	args := m.Called(ctx, id, expected, next)
	return args.Error(0)
}
