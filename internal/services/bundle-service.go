package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"supportdesk/internal/dto"
	"supportdesk/internal/entities"
	"supportdesk/internal/events"
	"supportdesk/internal/repositories"
	"supportdesk/pkg/constants"
	apperrors "supportdesk/pkg/errors"
	"supportdesk/pkg/eventbus"
	"supportdesk/pkg/utils"
)

type BundleServiceInterface interface {
	// Purchase adds a bundle for the calling customer's company in the
	// current billing month.
	Purchase(ctx context.Context, customerID int64, payload dto.PurchaseBundleDTO) (*dto.BundleResponseDTO, error)
	// Add is the admin path: any company, any billing month.
	Add(ctx context.Context, adminName string, payload dto.AddBundleDTO) (*dto.BundleResponseDTO, error)
	ListByCompany(ctx context.Context, companyID int64) ([]dto.BundleResponseDTO, error)
}

type bundleService struct {
	bundleRepo  repositories.BundleRepositoryInterface
	companyRepo repositories.CompanyRepositoryInterface
	userRepo    repositories.UserRepositoryInterface
	bus         *eventbus.Bus
	sizes       []int
	logger      *zap.Logger
}

func NewBundleService(
	bundleRepo repositories.BundleRepositoryInterface,
	companyRepo repositories.CompanyRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	bus *eventbus.Bus,
	sizes []int,
	logger *zap.Logger,
) BundleServiceInterface {
	return &bundleService{
		bundleRepo:  bundleRepo,
		companyRepo: companyRepo,
		userRepo:    userRepo,
		bus:         bus,
		sizes:       sizes,
		logger:      logger,
	}
}

// sizeAllowed checks the requested ticket count against the configured
// bundle sizes. Admin grants bypass this.
func (s *bundleService) sizeAllowed(n int) bool {
	for _, size := range s.sizes {
		if n == size {
			return true
		}
	}
	return false
}

func (s *bundleService) Purchase(ctx context.Context, customerID int64, payload dto.PurchaseBundleDTO) (*dto.BundleResponseDTO, error) {
	if !s.sizeAllowed(payload.AdditionalTickets) {
		return nil, apperrors.BadRequest("unsupported bundle size")
	}
	customer, err := s.userRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer.CompanyID == nil {
		return nil, apperrors.BadRequest("customer is not linked to a company")
	}
	company, err := s.companyRepo.FindByID(ctx, *customer.CompanyID)
	if err != nil {
		return nil, err
	}

	bundle := &entities.Bundle{
		CompanyID:         company.ID,
		Month:             utils.MonthKey(time.Now()),
		AdditionalTickets: payload.AdditionalTickets,
		Source:            constants.BundleSourceManual,
		AddedBy:           &customer.Name,
	}
	if _, err := s.bundleRepo.Insert(ctx, bundle); err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.BundlePurchasedEvent{Bundle: bundle, Company: company, Purchaser: customer})
	s.logger.Info("bundle purchased",
		zap.String("company", company.Name),
		zap.Int("tickets", payload.AdditionalTickets),
		zap.String("month", bundle.Month))
	return toBundleDTO(bundle, company.Name), nil
}

func (s *bundleService) Add(ctx context.Context, adminName string, payload dto.AddBundleDTO) (*dto.BundleResponseDTO, error) {
	company, err := s.companyRepo.FindByID(ctx, payload.CompanyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.BadRequest("unknown company")
		}
		return nil, err
	}

	bundle := &entities.Bundle{
		CompanyID:         company.ID,
		Month:             payload.Month,
		AdditionalTickets: payload.AdditionalTickets,
		Source:            constants.BundleSourceManual,
		AddedBy:           &adminName,
	}
	if _, err := s.bundleRepo.Insert(ctx, bundle); err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.BundlePurchasedEvent{Bundle: bundle, Company: company})
	s.logger.Info("bundle granted",
		zap.String("company", company.Name),
		zap.String("admin", adminName),
		zap.Int("tickets", payload.AdditionalTickets),
		zap.String("month", payload.Month))
	return toBundleDTO(bundle, company.Name), nil
}

func (s *bundleService) ListByCompany(ctx context.Context, companyID int64) ([]dto.BundleResponseDTO, error) {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	bundles, err := s.bundleRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BundleResponseDTO, 0, len(bundles))
	for i := range bundles {
		out = append(out, *toBundleDTO(&bundles[i], company.Name))
	}
	return out, nil
}

func toBundleDTO(b *entities.Bundle, companyName string) *dto.BundleResponseDTO {
	return &dto.BundleResponseDTO{
		ID:                b.ID,
		Company:           companyName,
		Month:             b.Month,
		AdditionalTickets: b.AdditionalTickets,
		Source:            b.Source,
		AddedBy:           b.AddedBy,
		CreatedAt:         b.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
