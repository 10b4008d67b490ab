package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"caseclub/config"
	"caseclub/infras/otel/mocks"
	slotMocks "caseclub/internal/domains/slot/mocks"
	"caseclub/internal/domains/slot/model"
	"caseclub/internal/domains/slot/model/dto"
	"caseclub/internal/domains/slot/service"
	cacheMocks "caseclub/shared/cache/mocks"
	"caseclub/shared/constant"
	gDto "caseclub/shared/dto"
	"caseclub/shared/failure"
	gModel "caseclub/shared/model"
	"caseclub/shared/timezone"
)

func TestSlotService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := slotMocks.NewMockSlot(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	futureStart := time.Now().Add(48 * time.Hour).UTC().Format(constant.LocalTimeFormat)
	pastStart := time.Now().Add(-48 * time.Hour).UTC().Format(constant.LocalTimeFormat)

	tests := []struct {
		name      string
		req       dto.CreateSlotsRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful creation",
			req: dto.CreateSlotsRequest{
				StartTimes: []string{futureStart},
				Timezone:   "UTC",
			},
			setupMock: func() {
				mockRepo.EXPECT().
					InsertBulk(gomock.Any(), gomock.Any()).
					Return(nil)

				mockCache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			// Nothing to insert is not an error, and the repository is never
			// touched.
			name: "empty batch is a no-op",
			req: dto.CreateSlotsRequest{
				StartTimes: []string{},
				Timezone:   "UTC",
			},
			setupMock: func() {},
			wantErr:   false,
		},
		{
			name: "start time in the past",
			req: dto.CreateSlotsRequest{
				StartTimes: []string{pastStart},
				Timezone:   "UTC",
			},
			setupMock: func() {
				// Rejected before the repository is touched
			},
			wantErr: true,
		},
		{
			name: "malformed timezone",
			req: dto.CreateSlotsRequest{
				StartTimes: []string{futureStart},
				Timezone:   "Mars/Olympus_Mons",
			},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "repository error",
			req: dto.CreateSlotsRequest{
				StartTimes: []string{futureStart},
				Timezone:   "UTC",
			},
			setupMock: func() {
				mockRepo.EXPECT().
					InsertBulk(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := svc.Create(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSlotService_CreateNormalizesWallClock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := slotMocks.NewMockSlot(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	// Paris summer wall clock is UTC+2.
	localStart := time.Date(time.Now().Year()+1, 7, 14, 9, 0, 0, 0, time.UTC)

	var inserted []model.Slot

	mockRepo.EXPECT().
		InsertBulk(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, slots []model.Slot) error {
			inserted = slots

			return nil
		})

	mockCache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
	err := svc.Create(ctx, dto.CreateSlotsRequest{
		StartTimes: []string{localStart.Format(constant.LocalTimeFormat)},
		Timezone:   "Europe/Paris",
	})

	assert.NoError(t, err)
	assert.Len(t, inserted, 1)
	assert.Equal(t, localStart.Add(-2*time.Hour), inserted[0].StartAt)
	assert.Equal(t, constant.SlotDurationMinutes*time.Minute, inserted[0].EndAt.Sub(inserted[0].StartAt))
}

func TestSlotService_GetOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := slotMocks.NewMockSlot(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	tests := []struct {
		name      string
		zone      string
		setupMock func()
		wantErr   bool
		wantTotal int
	}{
		{
			name: "successful get open slots",
			zone: "UTC",
			setupMock: func() {
				mockRepo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(1, nil)

				slots := []model.Slot{
					{
						ID:       "slot-1",
						UserID:   "other-user",
						StartAt:  time.Now().Add(24 * time.Hour).UTC(),
						EndAt:    time.Now().Add(24*time.Hour + constant.SlotDurationMinutes*time.Minute).UTC(),
						IsBooked: false,
						Metadata: gModel.Metadata{
							CreatedAt:  timezone.Now(),
							ModifiedAt: timezone.Now(),
							CreatedBy:  "other-user",
							ModifiedBy: "other-user",
						},
					},
				}

				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(slots, nil)
			},
			wantErr:   false,
			wantTotal: 1,
		},
		{
			name:      "malformed timezone",
			zone:      "Not/AZone",
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "count error",
			zone: "",
			setupMock: func() {
				mockRepo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(0, errors.New("count error"))
			},
			wantErr: true,
		},
		{
			name: "get all error",
			zone: "",
			setupMock: func() {
				mockRepo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(1, nil)

				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("get all error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			result, err := svc.GetOpen(ctx, gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{}, tt.zone)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantTotal, result.TotalData)
			}
		})
	}
}

func TestSlotService_GetAllDefaultOrdering(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := slotMocks.NewMockSlot(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	mockCache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss")).
		Times(2)

	mockRepo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(0, nil)

	var captured gDto.QueryParams

	mockRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Slot, error) {
			captured = params

			return []model.Slot{}, nil
		})

	mockCache.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	_, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{}, "")

	assert.NoError(t, err)
	assert.Equal(t, model.FieldStartAt, captured.SortBy)
	assert.Equal(t, gDto.SortDirAsc, captured.SortDir)
}

func TestSlotService_GetOpenDefaultOrdering(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := slotMocks.NewMockSlot(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, &config.Config{}, mockCache, mockOtel)

	mockRepo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(0, nil)

	var captured gDto.QueryParams

	mockRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Slot, error) {
			captured = params

			return []model.Slot{}, nil
		})

	_, err := svc.GetOpen(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{}, "")

	assert.NoError(t, err)
	assert.Equal(t, model.FieldStartAt, captured.SortBy)
	assert.Equal(t, gDto.SortDirAsc, captured.SortDir)
}

func TestSlotService_GetAllKeepsCallerOrdering(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := slotMocks.NewMockSlot(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	mockCache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss")).
		Times(2)

	mockRepo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(0, nil)

	var captured gDto.QueryParams

	mockRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Slot, error) {
			captured = params

			return []model.Slot{}, nil
		})

	mockCache.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	req := gDto.QueryParams{Page: 1, Limit: 10, SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirDesc}

	_, err := svc.GetAll(context.Background(), req, gDto.FilterGroup{}, "")

	assert.NoError(t, err)
	assert.Equal(t, constant.FieldCreatedAt, captured.SortBy)
	assert.Equal(t, gDto.SortDirDesc, captured.SortDir)
}

func TestSlotService_GetOpenExcludesOwnSlots(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := slotMocks.NewMockSlot(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	var captured gDto.FilterGroup

	mockRepo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
			captured = filter

			return 0, nil
		})

	mockRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Slot{}, nil)

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
	_, err := svc.GetOpen(ctx, gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{}, "")

	assert.NoError(t, err)

	where, args := captured.GetWhereClause()
	assert.Contains(t, where, model.FieldIsBooked)
	assert.Contains(t, where, model.FieldStartAt)
	assert.Equal(t, "test-user-id", args["open_user_id"])
}

func TestSlotService_GetOpenMergesHostFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := slotMocks.NewMockSlot(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, &config.Config{}, mockCache, mockOtel)

	var captured gDto.FilterGroup

	mockRepo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
			captured = filter

			return 0, nil
		})

	mockRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Slot{}, nil)

	hostFilter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldUserID,
				Operator: gDto.FilterOperatorEq,
				Value:    "host-1",
				Table:    model.TableName,
			},
		},
	}

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
	_, err := svc.GetOpen(ctx, gDto.QueryParams{Page: 1, Limit: 10}, hostFilter, "")

	assert.NoError(t, err)

	_, args := captured.GetWhereClause()
	assert.Equal(t, "host-1", args[model.FieldUserID])
	assert.Equal(t, "test-user-id", args["open_user_id"])
}

func TestSlotService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := slotMocks.NewMockSlot(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	slot := model.Slot{
		ID:       "slot-1",
		UserID:   "test-user-id",
		StartAt:  time.Now().Add(24 * time.Hour).UTC(),
		EndAt:    time.Now().Add(24*time.Hour + constant.SlotDurationMinutes*time.Minute).UTC(),
		IsBooked: false,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  "test-user-id",
			ModifiedBy: "test-user-id",
		},
	}

	tests := []struct {
		name      string
		id        string
		setupMock func()
		wantErr   bool
		wantID    string
	}{
		{
			name: "cache hit",
			id:   "slot-1",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
			wantID:  "",
		},
		{
			name: "cache miss, successful get from db",
			id:   "slot-1",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(slot, nil)

				mockCache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
			wantID:  "slot-1",
		},
		{
			name: "slot not found",
			id:   "nonexistent-id",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Slot{}, nil)
			},
			wantErr: true,
		},
		{
			name: "repository error",
			id:   "slot-1",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Slot{}, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.Background()
			result, err := svc.Get(ctx, tt.id, "")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				if tt.wantID != "" {
					assert.Equal(t, tt.wantID, result.ID)
				}
			}
		})
	}
}

func TestSlotService_GetRejectsMalformedZone(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := slotMocks.NewMockSlot(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, &config.Config{}, mockCache, mockOtel)

	_, err := svc.Get(context.Background(), "slot-1", "Atlantis/Lost_City")

	assert.ErrorIs(t, err, failure.InvalidTimezoneError)
}

func TestSlotService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := slotMocks.NewMockSlot(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	tests := []struct {
		name      string
		id        string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful deletion",
			id:   "slot-1",
			setupMock: func() {
				mockRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)

				mockCache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			// The delete filter is owner and open-state scoped; a row that
			// matches nothing is still a successful no-op.
			name: "foreign or booked slot is a silent no-op",
			id:   "someone-elses-slot",
			setupMock: func() {
				mockRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)

				mockCache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "delete error",
			id:   "slot-1",
			setupMock: func() {
				mockRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(errors.New("delete error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := svc.Delete(ctx, tt.id)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
