package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"supportdesk/internal/dto"
	"supportdesk/internal/entities"
	"supportdesk/internal/repositories"
	"supportdesk/pkg/constants"
	apperrors "supportdesk/pkg/errors"
)

type CompanyServiceInterface interface {
	Register(ctx context.Context, payload dto.RegisterCompanyDTO) (*dto.CompanyResponseDTO, error)
	List(ctx context.Context) ([]dto.CompanyResponseDTO, error)
	ListByAccountManager(ctx context.Context, managerID int64) ([]dto.CompanyResponseDTO, error)
	// Details backs the account manager drill-down: company record,
	// customers, quota standing, ticket counts and bundle history.
	Details(ctx context.Context, managerID int64, companyName string) (*dto.CompanyDetailsDTO, error)
}

type companyService struct {
	companyRepo  repositories.CompanyRepositoryInterface
	userRepo     repositories.UserRepositoryInterface
	ticketRepo   repositories.TicketRepositoryInterface
	bundleRepo   repositories.BundleRepositoryInterface
	quotaService QuotaServiceInterface
	logger       *zap.Logger
}

func NewCompanyService(
	companyRepo repositories.CompanyRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	ticketRepo repositories.TicketRepositoryInterface,
	bundleRepo repositories.BundleRepositoryInterface,
	quotaService QuotaServiceInterface,
	logger *zap.Logger,
) CompanyServiceInterface {
	return &companyService{
		companyRepo:  companyRepo,
		userRepo:     userRepo,
		ticketRepo:   ticketRepo,
		bundleRepo:   bundleRepo,
		quotaService: quotaService,
		logger:       logger,
	}
}

func (s *companyService) Register(ctx context.Context, payload dto.RegisterCompanyDTO) (*dto.CompanyResponseDTO, error) {
	if _, err := s.companyRepo.FindByName(ctx, payload.Name); err == nil {
		return nil, apperrors.Conflict("company already registered")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	supportType, err := s.companyRepo.FindSupportTypeByName(ctx, payload.SupportType)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.BadRequest("unknown support type")
		}
		return nil, err
	}

	if payload.AccountManagerID != nil {
		manager, err := s.userRepo.FindByID(ctx, *payload.AccountManagerID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.BadRequest("unknown account manager")
			}
			return nil, err
		}
		if manager.Role != constants.RoleAccountManager {
			return nil, apperrors.BadRequest("assignee is not an account manager")
		}
	}

	company := &entities.Company{
		Name:             payload.Name,
		SupportTypeID:    supportType.ID,
		Location:         payload.Location,
		ContactPerson:    payload.ContactPerson,
		ContactMobile:    payload.ContactMobile,
		AccountManagerID: payload.AccountManagerID,
	}
	id, err := s.companyRepo.Create(ctx, company)
	if err != nil {
		return nil, err
	}

	created, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("company registered", zap.String("company", created.Name), zap.String("supportType", created.SupportTypeName))
	return toCompanyDTO(created), nil
}

func (s *companyService) List(ctx context.Context) ([]dto.CompanyResponseDTO, error) {
	companies, err := s.companyRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toCompanyDTOs(companies), nil
}

func (s *companyService) ListByAccountManager(ctx context.Context, managerID int64) ([]dto.CompanyResponseDTO, error) {
	companies, err := s.companyRepo.ListByAccountManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	return toCompanyDTOs(companies), nil
}

func (s *companyService) Details(ctx context.Context, managerID int64, companyName string) (*dto.CompanyDetailsDTO, error) {
	company, err := s.companyRepo.FindByName(ctx, companyName)
	if err != nil {
		return nil, err
	}
	if company.AccountManagerID == nil || *company.AccountManagerID != managerID {
		return nil, apperrors.NewHttpError(403, "company is managed by someone else", apperrors.ErrForbidden, nil)
	}

	customers, err := s.userRepo.ListByCompany(ctx, company.ID)
	if err != nil {
		return nil, err
	}
	quota, err := s.quotaService.Status(ctx, company)
	if err != nil {
		return nil, err
	}
	counts, err := s.ticketRepo.CountByStatusForCompany(ctx, company.ID)
	if err != nil {
		return nil, err
	}
	bundles, err := s.bundleRepo.ListByCompany(ctx, company.ID)
	if err != nil {
		return nil, err
	}

	details := &dto.CompanyDetailsDTO{
		Company: *toCompanyDTO(company),
		Quota:   *quota,
		Tickets: dto.TicketSummaryDTO{
			Pending: counts[constants.StatusPending],
			Ongoing: counts[constants.StatusOngoing],
			Closed:  counts[constants.StatusClosed],
		},
	}
	details.Tickets.Total = details.Tickets.Pending + details.Tickets.Ongoing + details.Tickets.Closed

	details.Customers = make([]dto.ShortUserDTO, 0, len(customers))
	for _, c := range customers {
		details.Customers = append(details.Customers, dto.ShortUserDTO{
			ID:     c.ID,
			Name:   c.Name,
			Email:  c.Email,
			Mobile: c.Mobile,
		})
	}

	// Purchased history only: carry rows are bookkeeping, not purchases.
	details.Bundles = make([]dto.BundleResponseDTO, 0, len(bundles))
	for i := range bundles {
		if bundles[i].Source != constants.BundleSourceManual {
			continue
		}
		details.Bundles = append(details.Bundles, *toBundleDTO(&bundles[i], company.Name))
	}
	return details, nil
}

func toCompanyDTO(c *entities.Company) *dto.CompanyResponseDTO {
	return &dto.CompanyResponseDTO{
		ID:             c.ID,
		Name:           c.Name,
		SupportType:    c.SupportTypeName,
		TicketLimit:    c.TicketLimit,
		Location:       c.Location,
		ContactPerson:  c.ContactPerson,
		ContactMobile:  c.ContactMobile,
		AccountManager: c.AccountManagerName,
	}
}

func toCompanyDTOs(companies []entities.Company) []dto.CompanyResponseDTO {
	out := make([]dto.CompanyResponseDTO, 0, len(companies))
	for i := range companies {
		out = append(out, *toCompanyDTO(&companies[i]))
	}
	return out
}
