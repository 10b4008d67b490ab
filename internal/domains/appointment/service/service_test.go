package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"caseclub/config"
	kafkaMocks "caseclub/infras/kafka/mocks"
	"caseclub/infras/otel/mocks"
	appointmentMocks "caseclub/internal/domains/appointment/mocks"
	"caseclub/internal/domains/appointment/model"
	"caseclub/internal/domains/appointment/model/dto"
	"caseclub/internal/domains/appointment/service"
	slotMocks "caseclub/internal/domains/slot/mocks"
	slotModel "caseclub/internal/domains/slot/model"
	cacheMocks "caseclub/shared/cache/mocks"
	"caseclub/shared/constant"
	gDto "caseclub/shared/dto"
	"caseclub/shared/failure"
	gModel "caseclub/shared/model"
	"caseclub/shared/timezone"
)

type serviceMocks struct {
	repo   *appointmentMocks.MockAppointment
	slots  *slotMocks.MockSlot
	cache  *cacheMocks.MockRedisCache
	broker *kafkaMocks.MockClient
}

func newService(t *testing.T) (service.Appointment, serviceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := serviceMocks{
		repo:   appointmentMocks.NewMockAppointment(ctrl),
		slots:  slotMocks.NewMockSlot(ctrl),
		cache:  cacheMocks.NewMockRedisCache(ctrl),
		broker: kafkaMocks.NewMockClient(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Kafka.Topics.SessionEvents = "session-events"

	svc := service.New(m.repo, m.slots, cfg, m.cache, mocks.NewOtel(), m.broker)

	return svc, m
}

func openSlot(owner string) slotModel.Slot {
	start := time.Now().Add(72 * time.Hour).UTC()

	return slotModel.Slot{
		ID:       "slot-1",
		UserID:   owner,
		StartAt:  start,
		EndAt:    start.Add(constant.SlotDurationMinutes * time.Minute),
		IsBooked: false,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  owner,
			ModifiedBy: owner,
		},
	}
}

func TestAppointmentService_Book(t *testing.T) {
	tests := []struct {
		name         string
		setupMock    func(m serviceMocks)
		wantErr      bool
		wantConflict bool
	}{
		{
			name: "successful booking",
			setupMock: func(m serviceMocks) {
				m.slots.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(openSlot("host-user"), nil)

				m.slots.EXPECT().
					Claim(gomock.Any(), "slot-1", "guest-user").
					Return(true, nil)

				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				m.broker.EXPECT().
					SendMessages(gomock.Any(), "session-events", gomock.Any()).
					Return(nil).
					AnyTimes()

				m.cache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "slot not found",
			setupMock: func(m serviceMocks) {
				m.slots.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(slotModel.Slot{}, nil)
			},
			wantErr: true,
		},
		{
			name: "booking own slot",
			setupMock: func(m serviceMocks) {
				m.slots.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(openSlot("guest-user"), nil)
			},
			wantErr: true,
		},
		{
			name: "slot already started",
			setupMock: func(m serviceMocks) {
				slot := openSlot("host-user")
				slot.StartAt = time.Now().Add(-time.Hour).UTC()

				m.slots.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(slot, nil)
			},
			wantErr: true,
		},
		{
			name: "slot claimed by someone else",
			setupMock: func(m serviceMocks) {
				m.slots.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(openSlot("host-user"), nil)

				m.slots.EXPECT().
					Claim(gomock.Any(), "slot-1", "guest-user").
					Return(false, nil)
			},
			wantErr:      true,
			wantConflict: true,
		},
		{
			name: "claim error",
			setupMock: func(m serviceMocks) {
				m.slots.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(openSlot("host-user"), nil)

				m.slots.EXPECT().
					Claim(gomock.Any(), "slot-1", "guest-user").
					Return(false, errors.New("database error"))
			},
			wantErr: true,
		},
		{
			// The claim already succeeded here, so the failure must surface
			// as a store error, never as a booking conflict.
			name: "insert failure after won claim is not a conflict",
			setupMock: func(m serviceMocks) {
				m.slots.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(openSlot("host-user"), nil)

				m.slots.EXPECT().
					Claim(gomock.Any(), "slot-1", "guest-user").
					Return(true, nil)

				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("insert error"))
			},
			wantErr:      true,
			wantConflict: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "guest-user")
			err := svc.Book(ctx, dto.BookAppointmentRequest{SlotID: "slot-1"})

			if !tt.wantErr {
				assert.NoError(t, err)

				return
			}

			assert.Error(t, err)
			assert.Equal(t, tt.wantConflict, failure.IsConflict(err))
		})
	}
}

func TestAppointmentService_Confirm(t *testing.T) {
	pending := model.Appointment{
		ID:      "appt-1",
		SlotID:  "slot-1",
		HostID:  "host-user",
		GuestID: "guest-user",
		Status:  constant.AppointmentStatusPending,
	}

	tests := []struct {
		name       string
		user       string
		setupMock  func(m serviceMocks)
		wantErr    bool
		wantStatus int
	}{
		{
			name: "host confirms pending appointment",
			user: "host-user",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pending, nil)

				m.repo.EXPECT().
					Transition(gomock.Any(), "appt-1", constant.AppointmentStatusConfirmed, []string{constant.AppointmentStatusPending}, "host-user").
					Return(true, nil)

				m.cache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "guest cannot confirm",
			user: "guest-user",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pending, nil)
			},
			wantErr:    true,
			wantStatus: http.StatusForbidden,
		},
		{
			// An outsider gets the same answer as a missing appointment.
			name: "outsider cannot tell the appointment exists",
			user: "someone-else",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pending, nil)
			},
			wantErr:    true,
			wantStatus: http.StatusNotFound,
		},
		{
			name: "appointment not found",
			user: "host-user",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Appointment{}, nil)
			},
			wantErr: true,
		},
		{
			name: "appointment no longer pending",
			user: "host-user",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pending, nil)

				m.repo.EXPECT().
					Transition(gomock.Any(), "appt-1", constant.AppointmentStatusConfirmed, []string{constant.AppointmentStatusPending}, "host-user").
					Return(false, nil)
			},
			wantErr: true,
		},
		{
			name: "transition error",
			user: "host-user",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pending, nil)

				m.repo.EXPECT().
					Transition(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(false, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, tt.user)
			err := svc.Confirm(ctx, "appt-1")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantStatus != 0 {
					assert.Equal(t, tt.wantStatus, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAppointmentService_Cancel(t *testing.T) {
	confirmed := model.Appointment{
		ID:      "appt-1",
		SlotID:  "slot-1",
		HostID:  "host-user",
		GuestID: "guest-user",
		Status:  constant.AppointmentStatusConfirmed,
	}

	tests := []struct {
		name       string
		user       string
		setupMock  func(m serviceMocks)
		wantErr    bool
		wantStatus int
	}{
		{
			name: "appointment not found",
			user: "guest-user",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Appointment{}, nil)
			},
			wantErr:    true,
			wantStatus: http.StatusNotFound,
		},
		{
			name: "outsider gets not found, not forbidden",
			user: "someone-else",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(confirmed, nil)
			},
			wantErr:    true,
			wantStatus: http.StatusNotFound,
		},
		{
			name: "begin transaction error",
			user: "guest-user",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(confirmed, nil)

				m.repo.EXPECT().
					BeginTx(gomock.Any()).
					Return(nil, errors.New("connection error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, tt.user)
			err := svc.Cancel(ctx, "appt-1")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantStatus != 0 {
					assert.Equal(t, tt.wantStatus, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// cancelTx hands the service a real transaction backed by sqlmock so the
// commit and rollback halves of cancellation are observable.
func cancelTx(t *testing.T) (*sqlx.Tx, sqlmock.Sqlmock) {
	t.Helper()

	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	dbMock.ExpectBegin()

	tx, err := sqlx.NewDb(db, "sqlmock").Beginx()
	assert.NoError(t, err)

	return tx, dbMock
}

func TestAppointmentService_CancelReleasesSlot(t *testing.T) {
	confirmed := model.Appointment{
		ID:      "appt-1",
		SlotID:  "slot-1",
		HostID:  "host-user",
		GuestID: "guest-user",
		Status:  constant.AppointmentStatusConfirmed,
	}

	svc, m := newService(t)

	tx, dbMock := cancelTx(t)
	dbMock.ExpectCommit()

	m.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(confirmed, nil)

	m.repo.EXPECT().
		BeginTx(gomock.Any()).
		Return(tx, nil)

	m.repo.EXPECT().
		TransitionTx(gomock.Any(), tx,
			"appt-1",
			constant.AppointmentStatusCancelled,
			[]string{constant.AppointmentStatusPending, constant.AppointmentStatusConfirmed},
			"guest-user",
		).
		Return(true, nil)

	m.slots.EXPECT().
		ReleaseTx(gomock.Any(), tx, "slot-1", "guest-user").
		Return(nil)

	m.broker.EXPECT().
		SendMessages(gomock.Any(), "session-events", gomock.Any()).
		Return(nil).
		AnyTimes()

	m.cache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "guest-user")
	err := svc.Cancel(ctx, "appt-1")

	assert.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestAppointmentService_CancelRollsBackWhenReleaseFails(t *testing.T) {
	confirmed := model.Appointment{
		ID:      "appt-1",
		SlotID:  "slot-1",
		HostID:  "host-user",
		GuestID: "guest-user",
		Status:  constant.AppointmentStatusConfirmed,
	}

	svc, m := newService(t)

	tx, dbMock := cancelTx(t)
	dbMock.ExpectRollback()

	m.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(confirmed, nil)

	m.repo.EXPECT().
		BeginTx(gomock.Any()).
		Return(tx, nil)

	m.repo.EXPECT().
		TransitionTx(gomock.Any(), tx, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(true, nil)

	m.slots.EXPECT().
		ReleaseTx(gomock.Any(), tx, "slot-1", "guest-user").
		Return(errors.New("release error"))

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "guest-user")
	err := svc.Cancel(ctx, "appt-1")

	assert.Error(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestAppointmentService_Get(t *testing.T) {
	appointment := model.Appointment{
		ID:      "appt-1",
		SlotID:  "slot-1",
		HostID:  "host-user",
		GuestID: "guest-user",
		Status:  constant.AppointmentStatusPending,
		StartAt: time.Now().Add(24 * time.Hour).UTC(),
		EndAt:   time.Now().Add(24*time.Hour + constant.SlotDurationMinutes*time.Minute).UTC(),
	}

	tests := []struct {
		name       string
		user       string
		setupMock  func(m serviceMocks)
		wantErr    bool
		wantStatus int
	}{
		{
			name: "guest reads own appointment",
			user: "guest-user",
			setupMock: func(m serviceMocks) {
				m.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(appointment, nil)

				m.cache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "outsider sees not found",
			user: "someone-else",
			setupMock: func(m serviceMocks) {
				m.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(appointment, nil)
			},
			wantErr:    true,
			wantStatus: http.StatusNotFound,
		},
		{
			name: "not found",
			user: "guest-user",
			setupMock: func(m serviceMocks) {
				m.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Appointment{}, nil)
			},
			wantErr:    true,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, tt.user)
			result, err := svc.Get(ctx, "appt-1", "")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantStatus != 0 {
					assert.Equal(t, tt.wantStatus, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "appt-1", result.ID)
			}
		})
	}
}

func TestAppointmentService_BookCarriesNotes(t *testing.T) {
	svc, m := newService(t)

	m.slots.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(openSlot("host-user"), nil)

	m.slots.EXPECT().
		Claim(gomock.Any(), "slot-1", "guest-user").
		Return(true, nil)

	var inserted model.Appointment

	m.repo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, appointment model.Appointment) error {
			inserted = appointment

			return nil
		})

	m.broker.EXPECT().
		SendMessages(gomock.Any(), "session-events", gomock.Any()).
		Return(nil).
		AnyTimes()

	m.cache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "guest-user")
	err := svc.Book(ctx, dto.BookAppointmentRequest{
		SlotID: "slot-1",
		Notes:  "let's run a profitability case",
	})

	assert.NoError(t, err)
	assert.Equal(t, "host-user", inserted.HostID)
	assert.Equal(t, "guest-user", inserted.GuestID)
	assert.Equal(t, "let's run a profitability case", inserted.Notes)
}

func TestAppointmentService_GetAllDefaultOrdering(t *testing.T) {
	svc, m := newService(t)

	m.cache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss")).
		Times(2)

	m.repo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(0, nil)

	var captured gDto.QueryParams

	m.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Appointment, error) {
			captured = params

			return []model.Appointment{}, nil
		})

	m.cache.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	_, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{}, "")

	assert.NoError(t, err)
	assert.Equal(t, model.TableName+"."+constant.FieldCreatedAt, captured.SortBy)
	assert.Equal(t, constant.DefaultValueSortDir, captured.SortDir)
}

func TestAppointmentService_GetAll(t *testing.T) {
	svc, m := newService(t)

	m.cache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss")).
		Times(2)

	m.repo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(2, nil)

	m.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Appointment{
			{ID: "appt-1", Status: constant.AppointmentStatusPending},
			{ID: "appt-2", Status: constant.AppointmentStatusConfirmed},
		}, nil)

	m.cache.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	result, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{}, "")

	assert.NoError(t, err)
	assert.Equal(t, 2, result.TotalData)
	assert.Len(t, result.Appointments, 2)
}
