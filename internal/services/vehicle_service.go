package services

import (
	"context"
	"fmt"
	"time"

	"garagepro/internal/common"
	"garagepro/internal/models"
	"garagepro/internal/repositories"
)

type VehicleServiceInterface interface {
	CreateVehicle(ctx context.Context, data models.CreateVehicleData) (*models.Vehicle, error)
	GetVehicle(ctx context.Context, id string) (*models.Vehicle, error)
	// ListVehicles lists every vehicle, or only those of customerID when it is not empty.
	ListVehicles(ctx context.Context, customerID string) ([]*models.Vehicle, error)
	UpdateVehicle(ctx context.Context, id string, data models.UpdateVehicleData) (*models.Vehicle, error)
	DeleteVehicle(ctx context.Context, id string) (bool, error)
}

type vehicleService struct {
	vehicleRepo  repositories.VehicleRepository
	customerRepo repositories.CustomerRepository
	now          func() time.Time
}

func NewVehicleService(vehicleRepo repositories.VehicleRepository, customerRepo repositories.CustomerRepository) VehicleServiceInterface {
	return &vehicleService{
		vehicleRepo:  vehicleRepo,
		customerRepo: customerRepo,
		now:          time.Now,
	}
}

func (s *vehicleService) CreateVehicle(ctx context.Context, data models.CreateVehicleData) (*models.Vehicle, error) {
	if err := validate.Validate(data); err != nil {
		return nil, err
	}
	if _, err := s.customerRepo.GetByID(ctx, data.CustomerID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	vehicle := &models.Vehicle{
		ID:           common.NewID(common.VehicleIDPrefix, now),
		CustomerID:   data.CustomerID,
		Make:         data.Make,
		Model:        data.Model,
		Year:         data.Year,
		LicensePlate: data.LicensePlate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}
	return vehicle, nil
}

func (s *vehicleService) GetVehicle(ctx context.Context, id string) (*models.Vehicle, error) {
	return s.vehicleRepo.GetByID(ctx, id)
}

func (s *vehicleService) ListVehicles(ctx context.Context, customerID string) ([]*models.Vehicle, error) {
	if customerID != "" {
		return s.vehicleRepo.ListByCustomer(ctx, customerID)
	}
	return s.vehicleRepo.List(ctx)
}

func (s *vehicleService) UpdateVehicle(ctx context.Context, id string, data models.UpdateVehicleData) (*models.Vehicle, error) {
	if err := validate.Validate(data); err != nil {
		return nil, err
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if data.CustomerID != nil && *data.CustomerID != vehicle.CustomerID {
		if _, err := s.customerRepo.GetByID(ctx, *data.CustomerID); err != nil {
			return nil, err
		}
	}
	data.Apply(vehicle)
	vehicle.UpdatedAt = s.now().UTC()

	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("failed to update vehicle: %w", err)
	}
	return vehicle, nil
}

func (s *vehicleService) DeleteVehicle(ctx context.Context, id string) (bool, error) {
	return s.vehicleRepo.Delete(ctx, id)
}
