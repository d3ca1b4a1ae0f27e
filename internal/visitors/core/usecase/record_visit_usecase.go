package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"visitor-metrics-service/internal/visitors/core/domain"
	"visitor-metrics-service/internal/visitors/core/ports"
)

var (
	ErrInvalidVisit  = errors.New("invalid visit")
	ErrFutureTime    = errors.New("timestamp cannot be in the future")
	ErrVisitorBanned = errors.New("visitor is banned")
)

// VisitRecorder observes visit outcomes: "created", "duplicate" or "banned".
type VisitRecorder interface {
	VisitRecorded(outcome string)
}

type RecordVisitUseCase struct {
	repo     ports.VisitorRepositoryPort
	clock    ports.Clock
	recorder VisitRecorder
}

func NewRecordVisitUseCase(repo ports.VisitorRepositoryPort, clock ports.Clock) *RecordVisitUseCase {
	return &RecordVisitUseCase{repo: repo, clock: clock}
}

func (uc *RecordVisitUseCase) WithRecorder(r VisitRecorder) *RecordVisitUseCase {
	uc.recorder = r
	return uc
}

type RecordVisitInput struct {
	IPAddress string
	Path      string
	Referer   string
	UserAgent string
	Browser   string
	OS        string
	City      string
	Country   string
	Timestamp int64 // unix second, 0 -> now
}

func (uc *RecordVisitUseCase) Execute(ctx context.Context, in RecordVisitInput) (bool, error) {
	in = normalizeVisit(in)
	now := uc.clock.Now()
	if err := validateInput(in, now); err != nil {
		return false, err
	}

	visitor, err := uc.repo.FindByIP(ctx, in.IPAddress)
	if err != nil {
		return false, err
	}
	if visitor != nil && visitor.Banned {
		uc.record("banned")
		return false, ErrVisitorBanned
	}

	visitedAt := now.UTC()
	if in.Timestamp != 0 {
		visitedAt = time.Unix(in.Timestamp, 0).UTC()
	}

	// a fresh id is only used when the IP has no visitor row yet
	visitorID := uuid.New()
	if visitor != nil {
		visitorID = visitor.ID
	}

	v := &domain.Visit{
		VisitorID: visitorID,
		IPAddress: in.IPAddress,
		Path:      in.Path,
		Referer:   in.Referer,
		UserAgent: in.UserAgent,
		Browser:   in.Browser,
		OS:        in.OS,
		City:      in.City,
		Country:   in.Country,
		VisitedAt: visitedAt,
		DedupeKey: buildDedupeKey(in, visitedAt),
	}

	created, err := uc.repo.RecordVisit(ctx, v)
	if err != nil {
		return false, err
	}

	if created {
		uc.record("created")
	} else {
		uc.record("duplicate")
	}
	return created, nil
}

func buildDedupeKey(in RecordVisitInput, t time.Time) string {
	// ip + path + unix_timestamp
	return fmt.Sprintf("%s|%s|%d", in.IPAddress, in.Path, t.Unix())
}

type BulkRecordVisitsInput struct {
	Visits []RecordVisitInput
}

type BulkRecordVisitsResult struct {
	Created    int
	Duplicates int
	Banned     int
}

// BulkRecordVisits validates every visit before storing any of them. Visits
// from banned visitors are counted and skipped.
func (uc *RecordVisitUseCase) BulkRecordVisits(ctx context.Context, in BulkRecordVisitsInput) (BulkRecordVisitsResult, error) {
	var res BulkRecordVisitsResult

	now := uc.clock.Now()
	for _, v := range in.Visits {
		if err := validateInput(normalizeVisit(v), now); err != nil {
			return res, err
		}
	}

	for _, v := range in.Visits {
		ok, err := uc.Execute(ctx, v)
		if errors.Is(err, ErrVisitorBanned) {
			res.Banned++
			continue
		}
		if err != nil {
			return res, err
		}
		if ok {
			res.Created++
		} else {
			res.Duplicates++
		}
	}

	return res, nil
}

func validateInput(in RecordVisitInput, now time.Time) error {
	if err := checkVisitFields(in); err != nil {
		return err
	}
	if in.Timestamp > now.Unix() {
		return ErrFutureTime
	}
	return nil
}

func (uc *RecordVisitUseCase) record(outcome string) {
	if uc.recorder != nil {
		uc.recorder.VisitRecorded(outcome)
	}
}
