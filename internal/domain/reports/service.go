package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

type StoreAPI interface {
	BalanceRows(ctx context.Context, companyID string, year int) ([]BalanceRow, error)
	RequestRows(ctx context.Context, companyID string, year int) ([]RequestRow, error)
}

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

func (s *Service) Balances(ctx context.Context, companyID string, year int) ([]BalanceRow, error) {
	return s.Store.BalanceRows(ctx, companyID, year)
}

func (s *Service) Usage(ctx context.Context, companyID string, year int) ([]RequestRow, error) {
	return s.Store.RequestRows(ctx, companyID, year)
}

// BalancePDF renders the balance report in memory; callers stream the bytes.
func (s *Service) BalancePDF(ctx context.Context, companyID string, year int) ([]byte, error) {
	rows, err := s.Store.BalanceRows(ctx, companyID, year)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, fmt.Sprintf("Leave Balance Report %d", year))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 10)
	headers := []string{"Employee", "Leave Type", "Total", "Carried", "Used", "Pending", "Available"}
	widths := []float64{70, 50, 25, 25, 25, 25, 25}
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, r := range rows {
		pdf.CellFormat(widths[0], 7, r.EmployeeName, "1", 0, "", false, 0, "")
		pdf.CellFormat(widths[1], 7, r.LeaveTypeName, "1", 0, "", false, 0, "")
		pdf.CellFormat(widths[2], 7, strconv.Itoa(r.TotalDays), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, strconv.Itoa(r.CarriedDays), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 7, strconv.Itoa(r.UsedDays), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 7, strconv.Itoa(r.PendingDays), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[6], 7, strconv.Itoa(r.AvailableDays), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Service) RequestsCSV(ctx context.Context, companyID string, year int) ([]byte, error) {
	rows, err := s.Store.RequestRows(ctx, companyID, year)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"request_id", "employee", "leave_type", "start_date", "end_date", "days", "status", "submitted_at"}); err != nil {
		return nil, err
	}
	for _, r := range rows {
		record := []string{
			r.RequestID,
			r.EmployeeName,
			r.LeaveTypeName,
			r.StartDate.Format("2006-01-02"),
			r.EndDate.Format("2006-01-02"),
			strconv.Itoa(r.DaysRequested),
			r.Status,
			r.SubmittedAt.Format("2006-01-02 15:04:05"),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
