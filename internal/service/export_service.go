package service

import (
	"context"
	"fmt"
	"time"

	"github.com/anderswb/laundry-room-api/internal/models"
	appErrors "github.com/anderswb/laundry-room-api/pkg/errors"
	"github.com/anderswb/laundry-room-api/pkg/export"
)

type exportBookingLister interface {
	ListRange(ctx context.Context, from, to time.Time) ([]models.BookingDetail, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportService renders a week of bookings as a downloadable table.
type ExportService struct {
	bookings exportBookingLister
	csv      csvRenderer
	pdf      pdfRenderer
}

// NewExportService constructs an ExportService.
func NewExportService(bookings exportBookingLister, csv csvRenderer, pdf pdfRenderer) *ExportService {
	return &ExportService{bookings: bookings, csv: csv, pdf: pdf}
}

// WeekCSV renders the 7-day booking table starting at start as CSV.
func (s *ExportService) WeekCSV(ctx context.Context, start time.Time) ([]byte, error) {
	dataset, _, err := s.buildDataset(ctx, start)
	if err != nil {
		return nil, err
	}
	data, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
	}
	return data, nil
}

// WeekPDF renders the 7-day booking table starting at start as PDF.
func (s *ExportService) WeekPDF(ctx context.Context, start time.Time) ([]byte, error) {
	dataset, title, err := s.buildDataset(ctx, start)
	if err != nil {
		return nil, err
	}
	data, err := s.pdf.Render(dataset, title)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
	}
	return data, nil
}

func (s *ExportService) buildDataset(ctx context.Context, start time.Time) (export.Dataset, string, error) {
	from := startOfDay(start)
	to := from.AddDate(0, 0, 7)
	bookings, err := s.bookings.ListRange(ctx, from, to)
	if err != nil {
		return export.Dataset{}, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bookings for export")
	}

	dataset := export.Dataset{
		Headers: []string{"Date", "Start", "End", "Booked By", "Email"},
		Rows:    make([]map[string]string, 0, len(bookings)),
	}
	for _, booking := range bookings {
		row := map[string]string{
			"Date":      booking.Date.Format(dateLayout),
			"Start":     booking.StartTime,
			"End":       booking.EndTime,
			"Booked By": booking.UserID,
			"Email":     "",
		}
		if booking.UserName != nil {
			row["Booked By"] = *booking.UserName
		}
		if booking.UserEmail != nil {
			row["Email"] = *booking.UserEmail
		}
		dataset.Rows = append(dataset.Rows, row)
	}

	title := fmt.Sprintf("Laundry bookings week of %s", from.Format(dateLayout))
	return dataset, title, nil
}
