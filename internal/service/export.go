package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"dhoni/internal/store"
)

const exportSheet = "Fishing Trips"

var exportHeaders = []string{
	"Date",
	"Trip Type",
	"Crew Members",
	"Fuel Expense (MVR)",
	"Food Expense (MVR)",
	"Other Expenses (MVR)",
	"Total Expenses (MVR)",
	"Total Catch (kg)",
	"Total Sales (MVR)",
	"Profit (MVR)",
	"Owner Share %",
	"Owner Profit (MVR)",
	"Profit per Crew (MVR)",
}

// ExportService produces the trip-history spreadsheet.
type ExportService struct {
	trips *TripService
	log   zerolog.Logger
}

// NewExportService creates a new ExportService.
func NewExportService(trips *TripService, log zerolog.Logger) *ExportService {
	return &ExportService{
		trips: trips,
		log:   log.With().Str("component", "export_service").Logger(),
	}
}

// ExportTrips renders the session's trips as an xlsx workbook and
// returns the file bytes plus a dated filename.
func (s *ExportService) ExportTrips(ctx context.Context, sess store.Session) ([]byte, string, error) {
	trips, err := s.trips.GetAllTrips(ctx, sess)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, "", err
	}

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, "", err
		}

		name, _ := excelize.ColumnNumberToName(col + 1)
		width := float64(len(header))
		if width < 15 {
			width = 15
		}
		if err := f.SetColWidth(exportSheet, name, name, width); err != nil {
			return nil, "", err
		}
	}

	for i, trip := range trips {
		row := []any{
			trip.Date,
			string(trip.TripType),
			strings.Join(trip.Crew, ", "),
			trip.Expenses.Fuel,
			trip.Expenses.Food,
			trip.Expenses.Other,
			trip.Expenses.Total(),
			trip.TotalCatch,
			trip.TotalSales,
			trip.Profit,
			trip.OwnerSharePercent,
			trip.OwnerProfit,
			trip.ProfitPerCrew,
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, "", err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("fishing-trips-%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
