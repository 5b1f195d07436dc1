package service

import (
	"context"
	"strings"
	"time"

	"github.com/anushST/landset-nasa/internal/domain"
)

// DefaultSatellites is the satellite set used when the caller does not
// name one.
var DefaultSatellites = []string{"Landsat-8", "Landsat-9"}

// AcquisitionReader is the read side of the acquisition store.
type AcquisitionReader interface {
	QueryPlan(ctx context.Context, satellites []string, path, row string, after time.Time) ([]domain.Acquisition, error)
	QueryByDay(ctx context.Context, day time.Time) ([]domain.Acquisition, error)
}

// AcquisitionService exposes the acquisition log to the API layer.
type AcquisitionService struct {
	reader AcquisitionReader
	now    func() time.Time
}

func NewAcquisitionService(reader AcquisitionReader) *AcquisitionService {
	return &AcquisitionService{reader: reader, now: time.Now}
}

// PlanForAreas returns upcoming acquisitions for a satellite set over
// one or more WRS cells given as "PATH|ROW" strings, strictly after
// the given instant. A zero after defaults to now; an empty satellite
// set defaults to DefaultSatellites.
func (s *AcquisitionService) PlanForAreas(ctx context.Context, satellites []string, areas []string, after time.Time) ([]domain.Acquisition, error) {
	if len(satellites) == 0 {
		satellites = DefaultSatellites
	}
	if after.IsZero() {
		after = s.now().UTC()
	}

	var acquisitions []domain.Acquisition
	for _, area := range areas {
		path, row, err := splitArea(area)
		if err != nil {
			return nil, err
		}

		rows, err := s.reader.QueryPlan(ctx, satellites, path, row, after)
		if err != nil {
			return nil, err
		}
		acquisitions = append(acquisitions, rows...)
	}
	return acquisitions, nil
}

// ByDay returns every acquisition on one "YYYY-MM-DD" calendar day.
func (s *AcquisitionService) ByDay(ctx context.Context, date string) ([]domain.Acquisition, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation,
			"date must be given as YYYY-MM-DD", err)
	}
	return s.reader.QueryByDay(ctx, day)
}

func splitArea(area string) (path, row string, err error) {
	parts := strings.Split(area, "|")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", domain.ErrInvalidPathRow
	}
	return parts[0], parts[1], nil
}
