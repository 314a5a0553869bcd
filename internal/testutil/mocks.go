package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Roma7-7-7/flashcards-api/internal/dal"
)

// MockWordPairsRepository is a mock for dal.WordPairsRepository
type MockWordPairsRepository struct {
	mock.Mock
}

func (m *MockWordPairsRepository) CreateWordPair(ctx context.Context, wp dal.WordPair) (*dal.WordPair, error) {
	args := m.Called(ctx, wp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dal.WordPair), args.Error(1)
}

func (m *MockWordPairsRepository) FindDueWordPairs(ctx context.Context, userID string, now time.Time) ([]dal.WordPair, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dal.WordPair), args.Error(1)
}

func (m *MockWordPairsRepository) CountDueWordPairs(ctx context.Context, userID string, now time.Time) (int, error) {
	args := m.Called(ctx, userID, now)
	return args.Int(0), args.Error(1)
}

func (m *MockWordPairsRepository) FindWordPairs(ctx context.Context, userID string, filter dal.WordPairsFilter) ([]dal.WordPair, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dal.WordPair), args.Error(1)
}

func (m *MockWordPairsRepository) CountWordPairs(ctx context.Context, userID string, filter dal.WordPairsFilter) (int, error) {
	args := m.Called(ctx, userID, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockWordPairsRepository) FindWordPair(ctx context.Context, userID, id string) (*dal.WordPair, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dal.WordPair), args.Error(1)
}

func (m *MockWordPairsRepository) UpdateWordPair(ctx context.Context, userID, id string, patch dal.WordPairPatch) (*dal.WordPair, error) {
	args := m.Called(ctx, userID, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dal.WordPair), args.Error(1)
}

func (m *MockWordPairsRepository) WordPairExists(ctx context.Context, userID, sourceWord string) (bool, error) {
	args := m.Called(ctx, userID, sourceWord)
	return args.Bool(0), args.Error(1)
}
