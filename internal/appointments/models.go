package appointments

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

type VisitType string

const (
	VisitTypeHome   VisitType = "HOME_VISIT"
	VisitTypeClinic VisitType = "CLINIC"
	VisitTypeVideo  VisitType = "VIDEO"
)

type Appointment struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	ClientID    uuid.UUID `json:"client_id" gorm:"type:uuid;not null;index"`
	NurseID     uuid.UUID `json:"nurse_id" gorm:"type:uuid;not null;index"`
	ScheduledAt time.Time `json:"scheduled_at" gorm:"not null;index"`
	DurationMin int       `json:"duration_min" gorm:"not null;default:30"`
	VisitType   VisitType `json:"visit_type" gorm:"not null;default:'HOME_VISIT'"`
	Status      Status    `json:"status" gorm:"not null;default:'SCHEDULED'"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
