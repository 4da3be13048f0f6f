// Package mocks provides a testify mock of the PlanRepository port for
// usecase tests.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"adplan/internal/core/domain"
)

// PlanRepository is a mock implementation of port.PlanRepository.
type PlanRepository struct {
	mock.Mock
}

func (m *PlanRepository) GetCampaignForVersion(ctx context.Context, versionID string) (*domain.Campaign, error) {
	args := m.Called(ctx, versionID)
	c, _ := args.Get(0).(*domain.Campaign)
	return c, args.Error(1)
}

func (m *PlanRepository) GetTactic(ctx context.Context, id string) (*domain.Tactic, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*domain.Tactic)
	return t, args.Error(1)
}

func (m *PlanRepository) SaveTactic(ctx context.Context, t *domain.Tactic) error {
	return m.Called(ctx, t).Error(0)
}

func (m *PlanRepository) DeleteTactic(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *PlanRepository) ListTactics(ctx context.Context, versionID string) ([]domain.Tactic, error) {
	args := m.Called(ctx, versionID)
	t, _ := args.Get(0).([]domain.Tactic)
	return t, args.Error(1)
}

func (m *PlanRepository) ReorderTactics(ctx context.Context, sectionID string, orderedIDs []string) error {
	return m.Called(ctx, sectionID, orderedIDs).Error(0)
}

func (m *PlanRepository) GetPlacement(ctx context.Context, id string) (*domain.Placement, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*domain.Placement)
	return p, args.Error(1)
}

func (m *PlanRepository) GetCreative(ctx context.Context, id string) (*domain.Creative, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*domain.Creative)
	return c, args.Error(1)
}

func (m *PlanRepository) ListPlacements(ctx context.Context, tacticID string) ([]domain.Placement, error) {
	args := m.Called(ctx, tacticID)
	p, _ := args.Get(0).([]domain.Placement)
	return p, args.Error(1)
}

func (m *PlanRepository) ListCreatives(ctx context.Context, placementID string) ([]domain.Creative, error) {
	args := m.Called(ctx, placementID)
	c, _ := args.Get(0).([]domain.Creative)
	return c, args.Error(1)
}

func (m *PlanRepository) ListSnapshots(ctx context.Context, typ domain.EntityType, entityID string) ([]domain.TagSnapshot, error) {
	args := m.Called(ctx, typ, entityID)
	s, _ := args.Get(0).([]domain.TagSnapshot)
	return s, args.Error(1)
}

func (m *PlanRepository) AppendSnapshot(ctx context.Context, typ domain.EntityType, entityID string, fields map[string]any) (int, error) {
	args := m.Called(ctx, typ, entityID, fields)
	return args.Int(0), args.Error(1)
}

func (m *PlanRepository) ListFees(ctx context.Context, clientID string) ([]domain.FeeWithOptions, error) {
	args := m.Called(ctx, clientID)
	f, _ := args.Get(0).([]domain.FeeWithOptions)
	return f, args.Error(1)
}

func (m *PlanRepository) ListBuckets(ctx context.Context, versionID string) ([]domain.Bucket, error) {
	args := m.Called(ctx, versionID)
	b, _ := args.Get(0).([]domain.Bucket)
	return b, args.Error(1)
}

func (m *PlanRepository) SaveBucket(ctx context.Context, b *domain.Bucket) error {
	return m.Called(ctx, b).Error(0)
}

func (m *PlanRepository) DeleteBucket(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *PlanRepository) ListExchangeRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx)
	e, _ := args.Get(0).([]domain.ExchangeRate)
	return e, args.Error(1)
}

func (m *PlanRepository) ListPartners(ctx context.Context) ([]domain.Partner, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).([]domain.Partner)
	return p, args.Error(1)
}
