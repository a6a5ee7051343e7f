package services

import (
	"context"

	"go.uber.org/zap"

	"supportdesk/internal/dto"
	"supportdesk/internal/repositories"
	"supportdesk/pkg/constants"
)

type DashboardServiceInterface interface {
	Summary(ctx context.Context) (*dto.DashboardSummaryDTO, error)
}

type dashboardService struct {
	dashboardRepo repositories.DashboardRepositoryInterface
	logger        *zap.Logger
}

func NewDashboardService(dashboardRepo repositories.DashboardRepositoryInterface, logger *zap.Logger) DashboardServiceInterface {
	return &dashboardService{dashboardRepo: dashboardRepo, logger: logger}
}

func (s *dashboardService) Summary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	statusCounts, err := s.dashboardRepo.GetStatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	byPriority, err := s.dashboardRepo.GetCountByPriority(ctx)
	if err != nil {
		return nil, err
	}
	byType, err := s.dashboardRepo.GetCountByType(ctx)
	if err != nil {
		return nil, err
	}
	byCompany, err := s.dashboardRepo.GetCountByCompany(ctx)
	if err != nil {
		return nil, err
	}
	closedPerMonth, err := s.dashboardRepo.GetClosedPerMonth(ctx)
	if err != nil {
		return nil, err
	}
	engineerStats, err := s.dashboardRepo.GetEngineerStats(ctx)
	if err != nil {
		return nil, err
	}
	avgMinutes, err := s.dashboardRepo.GetAvgResolutionMinutes(ctx)
	if err != nil {
		return nil, err
	}

	summary := &dto.DashboardSummaryDTO{
		Pending:              statusCounts[constants.StatusPending],
		Ongoing:              statusCounts[constants.StatusOngoing],
		Closed:               statusCounts[constants.StatusClosed],
		ByPriority:           byPriority,
		ByType:               byType,
		ByCompany:            byCompany,
		ClosedPerMonth:       closedPerMonth,
		EngineerStats:        engineerStats,
		AvgResolutionMinutes: avgMinutes,
	}
	summary.Total = summary.Pending + summary.Ongoing + summary.Closed
	return summary, nil
}
