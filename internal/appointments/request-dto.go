package appointments

import "time"

// BookRequest represents the booking request payload
type BookRequest struct {
	NurseID     string    `json:"nurseId" validate:"required,uuid4"`
	ScheduledAt time.Time `json:"scheduledAt" validate:"required"`
	DurationMin int       `json:"durationMin" validate:"omitempty,min=15,max=240"`
	VisitType   string    `json:"visitType" validate:"omitempty,oneof=HOME_VISIT CLINIC VIDEO"`
	Notes       string    `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateStatusRequest changes an appointment's status
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=SCHEDULED CONFIRMED COMPLETED CANCELLED"`
}
