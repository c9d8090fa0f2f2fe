package appointments

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"carebook/internal/shared/constants"
	"carebook/internal/users"
	"carebook/pkg/cache"
	"carebook/pkg/logger"
)

var (
	ErrNotOwner    = errors.New("appointment does not belong to user")
	ErrInvalidID   = errors.New("invalid id")
	ErrInvalidRole = errors.New("invalid role for operation")
)

type Service interface {
	Book(ctx context.Context, clientID string, req *BookRequest) (*Appointment, error)
	Get(ctx context.Context, id, userID, role string) (*Appointment, error)
	ListForUser(ctx context.Context, userID, role string) ([]Appointment, error)
	UpdateStatus(ctx context.Context, id, userID, role string, status Status) error
}

type service struct {
	repo  Repository
	cache cache.Service
	log   *logger.Logger
}

// NewService wires the appointment service. cache may be nil.
func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{
		repo:  repo,
		cache: cacheService,
		log:   logger.GetDefault(),
	}
}

func (s *service) Book(ctx context.Context, clientID string, req *BookRequest) (*Appointment, error) {
	cid, err := uuid.Parse(clientID)
	if err != nil {
		return nil, ErrInvalidID
	}
	nid, err := uuid.Parse(req.NurseID)
	if err != nil {
		return nil, ErrInvalidID
	}

	duration := req.DurationMin
	if duration == 0 {
		duration = 30
	}
	visitType := VisitType(req.VisitType)
	if visitType == "" {
		visitType = VisitTypeHome
	}

	appt := &Appointment{
		ClientID:    cid,
		NurseID:     nid,
		ScheduledAt: req.ScheduledAt,
		DurationMin: duration,
		VisitType:   visitType,
		Status:      StatusScheduled,
		Notes:       req.Notes,
	}

	if err := s.repo.Create(ctx, appt); err != nil {
		return nil, err
	}

	s.log.LogAppointmentBooked(ctx, appt.ID.String(), clientID)
	s.invalidateListCache(ctx, clientID, req.NurseID)

	return appt, nil
}

func (s *service) Get(ctx context.Context, id, userID, role string) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(appt, userID, role) {
		return nil, ErrNotOwner
	}
	return appt, nil
}

func (s *service) ListForUser(ctx context.Context, userID, role string) ([]Appointment, error) {
	var appts []Appointment

	fetch := func() (interface{}, error) {
		switch users.Role(role) {
		case users.RoleClient:
			return s.repo.ListByClient(ctx, userID)
		case users.RoleNurse:
			return s.repo.ListByNurse(ctx, userID)
		case users.RoleAdmin:
			return s.repo.ListAll(ctx)
		default:
			return nil, ErrInvalidRole
		}
	}

	if s.cache == nil {
		result, err := fetch()
		if err != nil {
			return nil, err
		}
		return result.([]Appointment), nil
	}

	err := s.cache.GetOrSet(ctx, constants.AppointmentListKey(userID), constants.TTLAppointmentList, fetch, &appts)
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (s *service) UpdateStatus(ctx context.Context, id, userID, role string, status Status) error {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canAccess(appt, userID, role) {
		return ErrNotOwner
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	if status == StatusCancelled {
		s.log.LogAppointmentCancelled(ctx, id, userID)
	}
	s.invalidateListCache(ctx, appt.ClientID.String(), appt.NurseID.String())
	return nil
}

func canAccess(appt *Appointment, userID, role string) bool {
	switch users.Role(role) {
	case users.RoleAdmin:
		return true
	case users.RoleNurse:
		return appt.NurseID.String() == userID
	default:
		return appt.ClientID.String() == userID
	}
}

func (s *service) invalidateListCache(ctx context.Context, userIDs ...string) {
	if s.cache == nil {
		return
	}
	for _, id := range userIDs {
		if err := s.cache.Delete(ctx, constants.AppointmentListKey(id)); err != nil {
			s.log.ErrorWithContext(ctx, "failed to invalidate appointment cache", err, map[string]interface{}{"user_id": id})
		}
	}
}
