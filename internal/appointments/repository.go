package appointments

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrAppointmentNotFound = errors.New("appointment not found")

type Repository interface {
	Create(ctx context.Context, appt *Appointment) error
	GetByID(ctx context.Context, id string) (*Appointment, error)
	ListByClient(ctx context.Context, clientID string) ([]Appointment, error)
	ListByNurse(ctx context.Context, nurseID string) ([]Appointment, error)
	ListAll(ctx context.Context) ([]Appointment, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, appt *Appointment) error {
	return r.db.WithContext(ctx).Create(appt).Error
}

func (r *repository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	var appt Appointment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&appt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return &appt, nil
}

func (r *repository) ListByClient(ctx context.Context, clientID string) ([]Appointment, error) {
	var appts []Appointment
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("scheduled_at desc").
		Find(&appts).Error
	return appts, err
}

func (r *repository) ListByNurse(ctx context.Context, nurseID string) ([]Appointment, error) {
	var appts []Appointment
	err := r.db.WithContext(ctx).
		Where("nurse_id = ?", nurseID).
		Order("scheduled_at desc").
		Find(&appts).Error
	return appts, err
}

func (r *repository) ListAll(ctx context.Context) ([]Appointment, error) {
	var appts []Appointment
	err := r.db.WithContext(ctx).Order("scheduled_at desc").Find(&appts).Error
	return appts, err
}

func (r *repository) UpdateStatus(ctx context.Context, id string, status Status) error {
	result := r.db.WithContext(ctx).Model(&Appointment{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}
