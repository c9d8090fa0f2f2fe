package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	byID map[string]*Appointment
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{byID: make(map[string]*Appointment)}
}

func (r *fakeRepository) Create(_ context.Context, appt *Appointment) error {
	if appt.ID == uuid.Nil {
		appt.ID = uuid.New()
	}
	r.byID[appt.ID.String()] = appt
	return nil
}

func (r *fakeRepository) GetByID(_ context.Context, id string) (*Appointment, error) {
	appt, ok := r.byID[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return appt, nil
}

func (r *fakeRepository) ListByClient(_ context.Context, clientID string) ([]Appointment, error) {
	var out []Appointment
	for _, a := range r.byID {
		if a.ClientID.String() == clientID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeRepository) ListByNurse(_ context.Context, nurseID string) ([]Appointment, error) {
	var out []Appointment
	for _, a := range r.byID {
		if a.NurseID.String() == nurseID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeRepository) ListAll(_ context.Context) ([]Appointment, error) {
	var out []Appointment
	for _, a := range r.byID {
		out = append(out, *a)
	}
	return out, nil
}

func (r *fakeRepository) UpdateStatus(_ context.Context, id string, status Status) error {
	appt, ok := r.byID[id]
	if !ok {
		return ErrAppointmentNotFound
	}
	appt.Status = status
	return nil
}

func TestService_Book(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, nil)

	clientID := uuid.New()
	nurseID := uuid.New()

	t.Run("defaults applied", func(t *testing.T) {
		appt, err := svc.Book(context.Background(), clientID.String(), &BookRequest{
			NurseID:     nurseID.String(),
			ScheduledAt: time.Now().Add(48 * time.Hour),
		})
		require.NoError(t, err)
		assert.Equal(t, StatusScheduled, appt.Status)
		assert.Equal(t, VisitTypeHome, appt.VisitType)
		assert.Equal(t, 30, appt.DurationMin)
		assert.Equal(t, clientID, appt.ClientID)
	})

	t.Run("invalid nurse id", func(t *testing.T) {
		_, err := svc.Book(context.Background(), clientID.String(), &BookRequest{
			NurseID:     "not-a-uuid",
			ScheduledAt: time.Now(),
		})
		require.ErrorIs(t, err, ErrInvalidID)
	})

	t.Run("invalid client id", func(t *testing.T) {
		_, err := svc.Book(context.Background(), "not-a-uuid", &BookRequest{
			NurseID:     nurseID.String(),
			ScheduledAt: time.Now(),
		})
		require.ErrorIs(t, err, ErrInvalidID)
	})
}

func TestService_AccessControl(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, nil)

	clientID := uuid.New()
	nurseID := uuid.New()
	stranger := uuid.New()

	appt, err := svc.Book(context.Background(), clientID.String(), &BookRequest{
		NurseID:     nurseID.String(),
		ScheduledAt: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	id := appt.ID.String()

	tests := []struct {
		name    string
		userID  string
		role    string
		wantErr error
	}{
		{"owning client", clientID.String(), "CLIENT", nil},
		{"assigned nurse", nurseID.String(), "NURSE", nil},
		{"any admin", stranger.String(), "ADMIN", nil},
		{"other client", stranger.String(), "CLIENT", ErrNotOwner},
		{"other nurse", stranger.String(), "NURSE", ErrNotOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Get(context.Background(), id, tt.userID, tt.role)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}

	t.Run("unknown appointment", func(t *testing.T) {
		_, err := svc.Get(context.Background(), uuid.NewString(), clientID.String(), "CLIENT")
		require.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

func TestService_ListForUser(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, nil)

	clientA := uuid.New()
	clientB := uuid.New()
	nurse := uuid.New()

	for _, cid := range []uuid.UUID{clientA, clientA, clientB} {
		_, err := svc.Book(context.Background(), cid.String(), &BookRequest{
			NurseID:     nurse.String(),
			ScheduledAt: time.Now().Add(24 * time.Hour),
		})
		require.NoError(t, err)
	}

	tests := []struct {
		name   string
		userID string
		role   string
		want   int
	}{
		{"client sees own", clientA.String(), "CLIENT", 2},
		{"other client sees own", clientB.String(), "CLIENT", 1},
		{"nurse sees assigned", nurse.String(), "NURSE", 3},
		{"admin sees all", uuid.NewString(), "ADMIN", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appts, err := svc.ListForUser(context.Background(), tt.userID, tt.role)
			require.NoError(t, err)
			assert.Len(t, appts, tt.want)
		})
	}

	t.Run("unknown role", func(t *testing.T) {
		_, err := svc.ListForUser(context.Background(), clientA.String(), "superuser")
		require.ErrorIs(t, err, ErrInvalidRole)
	})
}

func TestService_UpdateStatus(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, nil)

	clientID := uuid.New()
	nurseID := uuid.New()

	appt, err := svc.Book(context.Background(), clientID.String(), &BookRequest{
		NurseID:     nurseID.String(),
		ScheduledAt: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	id := appt.ID.String()

	t.Run("client cancels own appointment", func(t *testing.T) {
		require.NoError(t, svc.UpdateStatus(context.Background(), id, clientID.String(), "CLIENT", StatusCancelled))
		got, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, got.Status)
	})

	t.Run("stranger cannot update", func(t *testing.T) {
		err := svc.UpdateStatus(context.Background(), id, uuid.NewString(), "CLIENT", StatusConfirmed)
		require.ErrorIs(t, err, ErrNotOwner)
	})
}
