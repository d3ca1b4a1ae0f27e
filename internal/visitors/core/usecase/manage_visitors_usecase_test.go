package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"visitor-metrics-service/internal/visitors/core/domain"
	"visitor-metrics-service/internal/visitors/core/ports"
	"visitor-metrics-service/internal/visitors/core/usecase"
)

// ------------------------------------------------------------
// BAN / UNBAN
// ------------------------------------------------------------

func TestBan_Success(t *testing.T) {
	var gotBanned bool
	var gotReason string
	var gotAt time.Time

	repo := &fakeVisitorRepo{
		SetBannedFn: func(ctx context.Context, ip string, banned bool, reason string, at time.Time) (*domain.Visitor, error) {
			gotBanned, gotReason, gotAt = banned, reason, at
			return &domain.Visitor{ID: uuid.New(), IPAddress: ip, Banned: banned, BanReason: reason, BannedAt: &at}, nil
		},
	}
	uc := usecase.NewManageVisitorsUseCase(repo, fixedClock{fixedNow})

	v, err := uc.Ban(context.Background(), "198.51.100.4", "  spam  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !gotBanned {
		t.Fatalf("expected banned=true")
	}
	if gotReason != "spam" {
		t.Fatalf("expected trimmed reason, got %q", gotReason)
	}
	if !gotAt.Equal(fixedNow) {
		t.Fatalf("expected ban time=now, got %s", gotAt)
	}
	if !v.Banned {
		t.Fatalf("expected returned visitor to be banned")
	}
}

func TestBan_UsesCanonicalIP(t *testing.T) {
	var gotIPs []string
	repo := &fakeVisitorRepo{
		SetBannedFn: func(ctx context.Context, ip string, banned bool, reason string, at time.Time) (*domain.Visitor, error) {
			gotIPs = append(gotIPs, ip)
			return &domain.Visitor{ID: uuid.New(), IPAddress: ip, Banned: banned}, nil
		},
	}
	uc := usecase.NewManageVisitorsUseCase(repo, fixedClock{fixedNow})

	if _, err := uc.Ban(context.Background(), "::ffff:203.0.113.7", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uc.Unban(context.Background(), "2001:DB8::0:1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotIPs[0] != "203.0.113.7" {
		t.Fatalf("expected canonical ipv4 for ban, got %q", gotIPs[0])
	}
	if gotIPs[1] != "2001:db8::1" {
		t.Fatalf("expected canonical ipv6 for unban, got %q", gotIPs[1])
	}
}

func TestUnban_Success(t *testing.T) {
	repo := &fakeVisitorRepo{
		SetBannedFn: func(ctx context.Context, ip string, banned bool, reason string, at time.Time) (*domain.Visitor, error) {
			if banned {
				t.Fatalf("expected banned=false")
			}
			return &domain.Visitor{IPAddress: ip}, nil
		},
	}
	uc := usecase.NewManageVisitorsUseCase(repo, fixedClock{fixedNow})

	v, err := uc.Unban(context.Background(), "198.51.100.4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Banned {
		t.Fatalf("expected visitor to be unbanned")
	}
}

func TestBan_Errors(t *testing.T) {
	tests := []struct {
		name string
		ip   string
		repo *fakeVisitorRepo
		want error
	}{
		{"invalid_ip", "nope", &fakeVisitorRepo{}, usecase.ErrInvalidIP},
		{"empty_ip", "", &fakeVisitorRepo{}, usecase.ErrInvalidIP},
		{"unknown_visitor", "198.51.100.4", &fakeVisitorRepo{}, usecase.ErrVisitorNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := usecase.NewManageVisitorsUseCase(tt.repo, fixedClock{fixedNow})

			if _, err := uc.Ban(context.Background(), tt.ip, "x"); !errors.Is(err, tt.want) {
				t.Fatalf("ban: expected %v, got %v", tt.want, err)
			}
			if _, err := uc.Unban(context.Background(), tt.ip); !errors.Is(err, tt.want) {
				t.Fatalf("unban: expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestBan_RepositoryError(t *testing.T) {
	repo := &fakeVisitorRepo{
		SetBannedFn: func(ctx context.Context, ip string, banned bool, reason string, at time.Time) (*domain.Visitor, error) {
			return nil, errors.New("db failure")
		},
	}
	uc := usecase.NewManageVisitorsUseCase(repo, fixedClock{fixedNow})

	_, err := uc.Ban(context.Background(), "198.51.100.4", "")
	if err == nil || err.Error() != "db failure" {
		t.Fatalf("expected db failure, got %v", err)
	}
}

// ------------------------------------------------------------
// LIST
// ------------------------------------------------------------

func TestList_NormalizesPaging(t *testing.T) {
	tests := []struct {
		in        usecase.ListVisitorsInput
		wantLimit int
		wantOff   int
	}{
		{usecase.ListVisitorsInput{}, 50, 0},
		{usecase.ListVisitorsInput{Limit: 10, Offset: 20}, 10, 20},
		{usecase.ListVisitorsInput{Limit: 10000, Offset: -3}, 500, 0},
	}

	for _, tt := range tests {
		var got ports.ListFilter
		repo := &fakeVisitorRepo{
			ListFn: func(ctx context.Context, f ports.ListFilter) ([]domain.Visitor, error) {
				got = f
				return nil, nil
			},
		}
		uc := usecase.NewManageVisitorsUseCase(repo, fixedClock{fixedNow})

		if _, err := uc.List(context.Background(), tt.in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Limit != tt.wantLimit || got.Offset != tt.wantOff {
			t.Fatalf("input %+v: expected limit=%d offset=%d, got %+v", tt.in, tt.wantLimit, tt.wantOff, got)
		}
	}
}

func TestList_BannedOnlyIsPassedThrough(t *testing.T) {
	repo := &fakeVisitorRepo{
		ListFn: func(ctx context.Context, f ports.ListFilter) ([]domain.Visitor, error) {
			if !f.BannedOnly {
				t.Fatalf("expected BannedOnly=true")
			}
			return []domain.Visitor{{IPAddress: "198.51.100.4", Banned: true}}, nil
		},
	}
	uc := usecase.NewManageVisitorsUseCase(repo, fixedClock{fixedNow})

	out, err := uc.List(context.Background(), usecase.ListVisitorsInput{BannedOnly: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 visitor, got %d", len(out))
	}
}
