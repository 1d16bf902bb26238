package services

import (
	"context"
	"log/slog"
	"strings"

	"canteen_manager/internal/access"
	"canteen_manager/internal/apperr"
	"canteen_manager/internal/models"
	"canteen_manager/internal/repository"
)

type CanteenInput struct {
	Name         string `json:"name"`
	Location     string `json:"location"`
	Description  string `json:"description"`
	OpeningHours string `json:"opening_hours"`
}

type CanteenService interface {
	ListCanteens(ctx context.Context, actor *access.Actor) ([]models.Canteen, error)
	GetCanteen(ctx context.Context, actor *access.Actor, id uint) (*models.Canteen, error)
	CreateCanteen(ctx context.Context, actor *access.Actor, in CanteenInput) (*models.Canteen, error)
	UpdateCanteen(ctx context.Context, actor *access.Actor, id uint, in CanteenInput) (*models.Canteen, error)
	DeleteCanteen(ctx context.Context, actor *access.Actor, id uint) error
}

type canteenService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewCanteenService(store repository.Store, logger *slog.Logger) CanteenService {
	if logger == nil {
		logger = slog.Default()
	}
	return &canteenService{store: store, logger: logger}
}

func (s *canteenService) ListCanteens(ctx context.Context, actor *access.Actor) ([]models.Canteen, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthenticated
	}
	return s.store.Canteens().List(ctx)
}

func (s *canteenService) GetCanteen(ctx context.Context, actor *access.Actor, id uint) (*models.Canteen, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthenticated
	}
	return s.store.Canteens().GetByID(ctx, id)
}

func (in CanteenInput) apply(c *models.Canteen) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return apperr.Validation("canteen name is required")
	}
	c.Name = name
	c.Location = strings.TrimSpace(in.Location)
	c.Description = in.Description
	c.OpeningHours = strings.TrimSpace(in.OpeningHours)
	return nil
}

func (s *canteenService) CreateCanteen(ctx context.Context, actor *access.Actor, in CanteenInput) (*models.Canteen, error) {
	if err := access.Authorize(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	c := &models.Canteen{}
	if err := in.apply(c); err != nil {
		return nil, err
	}
	if err := s.store.Canteens().Create(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("canteen created", "canteen_id", c.ID, "name", c.Name)
	return c, nil
}

func (s *canteenService) UpdateCanteen(ctx context.Context, actor *access.Actor, id uint, in CanteenInput) (*models.Canteen, error) {
	if err := access.Authorize(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	c, err := s.store.Canteens().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(c); err != nil {
		return nil, err
	}
	if err := s.store.Canteens().Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *canteenService) DeleteCanteen(ctx context.Context, actor *access.Actor, id uint) error {
	if err := access.Authorize(actor, models.RoleAdmin); err != nil {
		return err
	}
	if err := s.store.Canteens().Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("canteen deleted", "canteen_id", id)
	return nil
}
