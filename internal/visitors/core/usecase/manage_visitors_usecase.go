package usecase

import (
	"context"
	"errors"
	"strings"

	"visitor-metrics-service/internal/visitors/core/domain"
	"visitor-metrics-service/internal/visitors/core/ports"

	zlog "github.com/rs/zerolog/log"
)

var (
	ErrInvalidIP       = errors.New("invalid ip address")
	ErrVisitorNotFound = errors.New("visitor not found")
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

type ManageVisitorsUseCase struct {
	repo  ports.VisitorRepositoryPort
	clock ports.Clock
}

func NewManageVisitorsUseCase(repo ports.VisitorRepositoryPort, clock ports.Clock) *ManageVisitorsUseCase {
	return &ManageVisitorsUseCase{repo: repo, clock: clock}
}

func (uc *ManageVisitorsUseCase) Ban(ctx context.Context, ip, reason string) (*domain.Visitor, error) {
	ip, ok := canonicalIP(ip)
	if !ok {
		return nil, ErrInvalidIP
	}

	v, err := uc.repo.SetBanned(ctx, ip, true, strings.TrimSpace(reason), uc.clock.Now().UTC())
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrVisitorNotFound
	}

	zlog.Info().Str("ip", ip).Str("reason", v.BanReason).Msg("visitor banned")
	return v, nil
}

func (uc *ManageVisitorsUseCase) Unban(ctx context.Context, ip string) (*domain.Visitor, error) {
	ip, ok := canonicalIP(ip)
	if !ok {
		return nil, ErrInvalidIP
	}

	v, err := uc.repo.SetBanned(ctx, ip, false, "", uc.clock.Now().UTC())
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrVisitorNotFound
	}

	zlog.Info().Str("ip", ip).Msg("visitor unbanned")
	return v, nil
}

type ListVisitorsInput struct {
	BannedOnly bool
	Limit      int
	Offset     int
}

func (uc *ManageVisitorsUseCase) List(ctx context.Context, in ListVisitorsInput) ([]domain.Visitor, error) {
	f := ports.ListFilter{
		BannedOnly: in.BannedOnly,
		Limit:      in.Limit,
		Offset:     in.Offset,
	}
	switch {
	case f.Limit <= 0:
		f.Limit = defaultListLimit
	case f.Limit > maxListLimit:
		f.Limit = maxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	return uc.repo.ListVisitors(ctx, f)
}
