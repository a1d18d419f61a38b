package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"
)

type fakeStore struct {
	balances []BalanceRow
	requests []RequestRow
}

func (f *fakeStore) BalanceRows(context.Context, string, int) ([]BalanceRow, error) {
	return f.balances, nil
}

func (f *fakeStore) RequestRows(context.Context, string, int) ([]RequestRow, error) {
	return f.requests, nil
}

func TestBalancePDFProducesDocument(t *testing.T) {
	svc := NewService(&fakeStore{balances: []BalanceRow{
		{EmployeeName: "Ada Smith", LeaveTypeName: "Annual Leave", Year: 2025, TotalDays: 20, UsedDays: 5, PendingDays: 2, CarriedDays: 3, AvailableDays: 16},
	}})

	out, err := svc.BalancePDF(context.Background(), "company-1", 2025)
	if err != nil {
		t.Fatalf("balance pdf: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output does not look like a PDF, got prefix %q", out[:min(8, len(out))])
	}
}

func TestRequestsCSVRoundTrips(t *testing.T) {
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	svc := NewService(&fakeStore{requests: []RequestRow{
		{RequestID: "req-1", EmployeeName: "Ada Smith", LeaveTypeName: "Annual Leave",
			StartDate: start, EndDate: start.AddDate(0, 0, 2), DaysRequested: 3,
			Status: "approved", SubmittedAt: start.Add(-48 * time.Hour)},
	}})

	out, err := svc.RequestsCSV(context.Background(), "company-1", 2025)
	if err != nil {
		t.Fatalf("requests csv: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want header plus one row", len(records))
	}
	if records[1][3] != "2025-03-10" || records[1][5] != "3" {
		t.Fatalf("row = %v", records[1])
	}
}
