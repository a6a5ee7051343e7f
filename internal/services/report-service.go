package services

import (
	"context"
	"io"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"supportdesk/internal/dto"
	"supportdesk/internal/entities"
	"supportdesk/internal/repositories"
	"supportdesk/pkg/utils"
)

type ReportServiceInterface interface {
	// WriteXLSX streams a ticket report workbook into w.
	WriteXLSX(ctx context.Context, filter dto.ReportFilterDTO, w io.Writer) error
}

type reportService struct {
	reportRepo repositories.ReportRepositoryInterface
	logger     *zap.Logger
}

func NewReportService(reportRepo repositories.ReportRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &reportService{reportRepo: reportRepo, logger: logger}
}

var reportHeaders = []string{
	"Ticket ID", "Subject", "Type", "Priority", "Status",
	"Requester", "Requester Email", "Company", "Engineer",
	"Created", "Closed", "Duration (minutes)",
}

func (s *reportService) WriteXLSX(ctx context.Context, filter dto.ReportFilterDTO, w io.Writer) error {
	tickets, err := s.reportRepo.ListForExport(ctx, filter)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	sheet := "Tickets"
	f.SetSheetName("Sheet1", sheet)
	_ = f.SetSheetRow(sheet, "A1", &reportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	_ = f.SetCellStyle(sheet, "A1", "L1", style)

	for i := range tickets {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := reportRow(&tickets[i])
		_ = f.SetSheetRow(sheet, cell, &row)
	}

	_ = f.SetColWidth(sheet, "B", "B", 40)
	_ = f.SetColWidth(sheet, "F", "I", 25)
	_ = f.SetColWidth(sheet, "J", "K", 20)

	s.logger.Info("ticket report exported", zap.Int("rows", len(tickets)))
	return f.Write(w)
}

func reportRow(t *entities.Ticket) []interface{} {
	const dateFmt = "2006-01-02 15:04"

	var created, closed string
	if t.CreatedAt != nil {
		created = t.CreatedAt.Format(dateFmt)
	}
	if t.ClosedAt != nil {
		closed = t.ClosedAt.Format(dateFmt)
	}

	company, engineer := "", ""
	if t.RequesterCompany != nil {
		company = *t.RequesterCompany
	}
	if t.EngineerName != nil {
		engineer = *t.EngineerName
	}

	var duration interface{}
	if t.Duration != nil {
		duration = *t.Duration
	}

	return []interface{}{
		utils.FormatTicketID(t.ID), t.Subject, t.Type, t.Priority, t.Status,
		t.RequesterName, t.RequesterEmail, company, engineer,
		created, closed, duration,
	}
}
