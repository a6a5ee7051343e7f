package services

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"supportdesk/internal/dto"
	"supportdesk/internal/entities"
	"supportdesk/internal/repositories"
	"supportdesk/pkg/constants"
	apperrors "supportdesk/pkg/errors"
	"supportdesk/pkg/utils"
)

// QuotaServiceInterface guards the monthly service request allowance of
// a company: base limit plus purchased bundles plus carried-over
// remainder, with a single grace request per month.
type QuotaServiceInterface interface {
	Status(ctx context.Context, company *entities.Company) (*dto.QuotaStatusDTO, error)
	// Authorize checks whether the company may raise one more service
	// request right now. When the quota is reached it returns 409 with
	// allow_override until the grace request is burned, then 403 with
	// show_add_bundle_prompt.
	Authorize(ctx context.Context, company *entities.Company, override bool) error
}

type quotaService struct {
	ticketRepo repositories.TicketRepositoryInterface
	bundleRepo repositories.BundleRepositoryInterface
	logger     *zap.Logger
	now        func() time.Time
}

func NewQuotaService(
	ticketRepo repositories.TicketRepositoryInterface,
	bundleRepo repositories.BundleRepositoryInterface,
	logger *zap.Logger,
) QuotaServiceInterface {
	return &quotaService{
		ticketRepo: ticketRepo,
		bundleRepo: bundleRepo,
		logger:     logger,
		now:        time.Now,
	}
}

type quotaSnapshot struct {
	month       string
	used        int
	baseLimit   int
	bundleExtra int
	carryExtra  int
	usedExtra   bool
}

func (q quotaSnapshot) allowed() int {
	allowed := q.baseLimit + q.bundleExtra + q.carryExtra
	if q.usedExtra {
		allowed++
	}
	return allowed
}

func (s *quotaService) Status(ctx context.Context, company *entities.Company) (*dto.QuotaStatusDTO, error) {
	snap, err := s.snapshot(ctx, company)
	if err != nil {
		return nil, err
	}

	allowed := snap.allowed()
	remaining := allowed - snap.used
	if remaining < 0 {
		remaining = 0
	}
	return &dto.QuotaStatusDTO{
		Month:       snap.month,
		Used:        snap.used,
		Allowed:     allowed,
		BaseLimit:   snap.baseLimit,
		BundleExtra: snap.bundleExtra,
		CarryExtra:  snap.carryExtra,
		UsedExtra:   snap.usedExtra,
		Remaining:   remaining,
	}, nil
}

func (s *quotaService) Authorize(ctx context.Context, company *entities.Company, override bool) error {
	snap, err := s.snapshot(ctx, company)
	if err != nil {
		return err
	}

	if snap.used < snap.allowed() {
		return nil
	}

	if snap.usedExtra {
		return apperrors.NewHttpError(http.StatusForbidden,
			"Monthly service request quota exhausted", nil,
			map[string]interface{}{"show_add_bundle_prompt": true})
	}

	if !override {
		return apperrors.NewHttpError(http.StatusConflict,
			"Monthly service request quota reached", nil,
			map[string]interface{}{
				"warning":        "You have used all service requests for this month. You may raise one additional request.",
				"allow_override": true,
			})
	}

	if err := s.bundleRepo.InsertOverride(ctx, company.ID, snap.month); err != nil {
		return err
	}
	s.logger.Info("grace service request consumed",
		zap.String("company", company.Name), zap.String("month", snap.month))
	return nil
}

func (s *quotaService) snapshot(ctx context.Context, company *entities.Company) (quotaSnapshot, error) {
	now := s.now()
	month := utils.MonthKey(now)

	if err := s.ensureCarryForward(ctx, company, now); err != nil {
		return quotaSnapshot{}, err
	}

	from := utils.FirstOfMonth(now)
	to := from.AddDate(0, 1, 0)

	used, err := s.ticketRepo.CountServiceRequests(ctx, company.ID, from, to)
	if err != nil {
		return quotaSnapshot{}, err
	}
	manual, err := s.bundleRepo.SumBySource(ctx, company.ID, month, constants.BundleSourceManual)
	if err != nil {
		return quotaSnapshot{}, err
	}
	carry, err := s.bundleRepo.SumBySource(ctx, company.ID, month, constants.BundleSourceCarry)
	if err != nil {
		return quotaSnapshot{}, err
	}
	usedExtra, err := s.bundleRepo.HasOverride(ctx, company.ID, month)
	if err != nil {
		return quotaSnapshot{}, err
	}

	return quotaSnapshot{
		month:       month,
		used:        used,
		baseLimit:   company.TicketLimit,
		bundleExtra: manual,
		carryExtra:  carry,
		usedExtra:   usedExtra,
	}, nil
}

// ensureCarryForward materializes the carry bundle for the current
// month from the previous month's unused manual bundles. Carry bundles
// themselves never roll over, so an unused remainder survives exactly
// one month.
func (s *quotaService) ensureCarryForward(ctx context.Context, company *entities.Company, now time.Time) error {
	month := utils.MonthKey(now)

	has, err := s.bundleRepo.HasCarry(ctx, company.ID, month)
	if err != nil || has {
		return err
	}

	prevMonth := utils.PreviousMonthKey(now)
	prevManual, err := s.bundleRepo.SumBySource(ctx, company.ID, prevMonth, constants.BundleSourceManual)
	if err != nil {
		return err
	}
	if prevManual == 0 {
		return nil
	}

	prevFrom := utils.FirstOfMonth(now).AddDate(0, -1, 0)
	prevTo := utils.FirstOfMonth(now)
	prevUsed, err := s.ticketRepo.CountServiceRequests(ctx, company.ID, prevFrom, prevTo)
	if err != nil {
		return err
	}
	prevOverride, err := s.bundleRepo.HasOverride(ctx, company.ID, prevMonth)
	if err != nil {
		return err
	}

	grace := 0
	if prevOverride {
		grace = 1
	}
	overflow := prevUsed - company.TicketLimit - grace
	if overflow < 0 {
		overflow = 0
	}
	remainder := prevManual - overflow
	if remainder <= 0 {
		return nil
	}

	addedBy := "system"
	bundle := &entities.Bundle{
		CompanyID:         company.ID,
		Month:             month,
		AdditionalTickets: remainder,
		Source:            constants.BundleSourceCarry,
		AddedBy:           &addedBy,
	}
	if _, err := s.bundleRepo.Insert(ctx, bundle); err != nil {
		return err
	}
	s.logger.Info("carried forward unused bundle tickets",
		zap.String("company", company.Name), zap.String("month", month), zap.Int("tickets", remainder))
	return nil
}
