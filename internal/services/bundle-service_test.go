package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"supportdesk/internal/dto"
	"supportdesk/internal/entities"
	"supportdesk/pkg/constants"
	apperrors "supportdesk/pkg/errors"
	"supportdesk/pkg/eventbus"
	"supportdesk/pkg/utils"
)

func newBundleFixture(t *testing.T) (BundleServiceInterface, *fakeBundleRepo) {
	t.Helper()
	companyID := int64(1)
	customer := &entities.User{ID: 10, Name: "Jo Customer", Email: "jo@acme.example", Role: constants.RoleCustomer, CompanyID: &companyID}
	orphan := &entities.User{ID: 11, Name: "No Company", Email: "solo@example.com", Role: constants.RoleCustomer}

	bundleRepo := newFakeBundleRepo()
	companyRepo := newFakeCompanyRepo(&entities.Company{ID: companyID, Name: "Acme", TicketLimit: 5})
	userRepo := newFakeUserRepo(customer, orphan)
	svc := NewBundleService(bundleRepo, companyRepo, userRepo, eventbus.New(zap.NewNop()), []int{3, 5, 10}, zap.NewNop())
	return svc, bundleRepo
}

func TestPurchase_CurrentMonthManualBundle(t *testing.T) {
	svc, bundleRepo := newBundleFixture(t)

	resp, err := svc.Purchase(context.Background(), 10, dto.PurchaseBundleDTO{AdditionalTickets: 5})
	require.NoError(t, err)

	assert.Equal(t, "Acme", resp.Company)
	assert.Equal(t, utils.MonthKey(time.Now()), resp.Month)
	assert.Equal(t, 5, resp.AdditionalTickets)
	assert.Equal(t, constants.BundleSourceManual, resp.Source)
	require.NotNil(t, resp.AddedBy)
	assert.Equal(t, "Jo Customer", *resp.AddedBy)
	require.Len(t, bundleRepo.inserted, 1)
}

func TestPurchase_RequiresCompany(t *testing.T) {
	svc, bundleRepo := newBundleFixture(t)

	_, err := svc.Purchase(context.Background(), 11, dto.PurchaseBundleDTO{AdditionalTickets: 3})
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 400, httpErr.Code)
	assert.Empty(t, bundleRepo.inserted)
}

func TestPurchase_RejectsUnknownSize(t *testing.T) {
	svc, bundleRepo := newBundleFixture(t)

	_, err := svc.Purchase(context.Background(), 10, dto.PurchaseBundleDTO{AdditionalTickets: 7})
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 400, httpErr.Code)
	assert.Empty(t, bundleRepo.inserted)
}

func TestAdd_AnyCompanyAndMonth(t *testing.T) {
	svc, bundleRepo := newBundleFixture(t)

	resp, err := svc.Add(context.Background(), "Max Admin", dto.AddBundleDTO{
		CompanyID:         1,
		Month:             "2026-11",
		AdditionalTickets: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, "2026-11", resp.Month)
	assert.Equal(t, 10, resp.AdditionalTickets)
	require.NotNil(t, resp.AddedBy)
	assert.Equal(t, "Max Admin", *resp.AddedBy)
	require.Len(t, bundleRepo.inserted, 1)
}

func TestAdd_UnknownCompany(t *testing.T) {
	svc, _ := newBundleFixture(t)

	_, err := svc.Add(context.Background(), "Max Admin", dto.AddBundleDTO{
		CompanyID:         99,
		Month:             "2026-11",
		AdditionalTickets: 10,
	})
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 400, httpErr.Code)
}
