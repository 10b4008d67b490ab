package slot_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"caseclub/infras/otel/mocks"
	"caseclub/internal/domains/slot/model"
	"caseclub/internal/domains/slot/model/dto"
	"caseclub/internal/domains/slot/service"
	slotHandler "caseclub/internal/handlers/slot"
	"caseclub/shared/constant"
	gDto "caseclub/shared/dto"
)

// stubSlotService records the filters the handler builds. Unimplemented
// methods panic through the embedded nil interface if a test reaches them.
type stubSlotService struct {
	service.Slot

	allFilter  gDto.FilterGroup
	openFilter gDto.FilterGroup
}

func (s *stubSlotService) GetAll(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ string) (dto.GetSlotsResponse, error) {
	s.allFilter = filter

	return dto.GetSlotsResponse{}, nil
}

func (s *stubSlotService) GetOpen(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ string) (dto.GetSlotsResponse, error) {
	s.openFilter = filter

	return dto.GetSlotsResponse{}, nil
}

func memberRequest(t *testing.T, target string) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	ctx := context.WithValue(req.Context(), constant.ContextKeyUserID, "member-1")

	return req.WithContext(ctx)
}

func TestSlotHandler_GetMySlotsDefaultsToUnbooked(t *testing.T) {
	stub := &stubSlotService{}
	handler := slotHandler.New(stub, mocks.NewOtel())

	rec := httptest.NewRecorder()
	handler.GetMySlots(rec, memberRequest(t, "/v1/slots"))

	assert.Equal(t, http.StatusOK, rec.Code)

	_, args := stub.allFilter.GetWhereClause()
	assert.Equal(t, "member-1", args[model.FieldUserID])
	assert.Equal(t, false, args[model.FieldIsBooked])
}

func TestSlotHandler_GetMySlotsIncludeBooked(t *testing.T) {
	stub := &stubSlotService{}
	handler := slotHandler.New(stub, mocks.NewOtel())

	rec := httptest.NewRecorder()
	handler.GetMySlots(rec, memberRequest(t, "/v1/slots?include_booked=true"))

	assert.Equal(t, http.StatusOK, rec.Code)

	_, args := stub.allFilter.GetWhereClause()
	assert.Equal(t, "member-1", args[model.FieldUserID])
	assert.NotContains(t, args, model.FieldIsBooked)
}

func TestSlotHandler_GetOpenSlotsScopedToHost(t *testing.T) {
	stub := &stubSlotService{}
	handler := slotHandler.New(stub, mocks.NewOtel())

	rec := httptest.NewRecorder()
	handler.GetOpenSlots(rec, memberRequest(t, "/v1/slots/open?user_id=host-1"))

	assert.Equal(t, http.StatusOK, rec.Code)

	_, args := stub.openFilter.GetWhereClause()
	assert.Equal(t, "host-1", args[model.FieldUserID])
}

func TestSlotHandler_GetOpenSlotsUnscopedByDefault(t *testing.T) {
	stub := &stubSlotService{}
	handler := slotHandler.New(stub, mocks.NewOtel())

	rec := httptest.NewRecorder()
	handler.GetOpenSlots(rec, memberRequest(t, "/v1/slots/open"))

	assert.Equal(t, http.StatusOK, rec.Code)

	_, args := stub.openFilter.GetWhereClause()
	assert.NotContains(t, args, model.FieldUserID)
}
