package game

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// --- CurrencyLedger ---

type MockCurrencyLedger struct {
	mock.Mock
}

func (m *MockCurrencyLedger) Credit(ctx context.Context, username string, amount int) (int, error) {
	args := m.Called(ctx, username, amount)
	return args.Int(0), args.Error(1)
}

func (m *MockCurrencyLedger) Balance(ctx context.Context, username string) (int, error) {
	args := m.Called(ctx, username)
	return args.Int(0), args.Error(1)
}

// --- PeriodicTickerChannelCreator ---

type MockPeriodicTickerChannelCreator struct {
	mock.Mock
}

func (m *MockPeriodicTickerChannelCreator) Create(duration time.Duration) <-chan time.Time {
	args := m.Called(duration)
	return args.Get(0).(chan time.Time)
}
