package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"caseclub/infras/otel"
	"caseclub/infras/postgres"
	"caseclub/internal/domains/slot/model"
	"caseclub/shared/constant"
	gDto "caseclub/shared/dto"
	gRepo "caseclub/shared/repository"
	"caseclub/shared/timezone"

	"github.com/jmoiron/sqlx"
)

type Slot interface {
	Insert(ctx context.Context, model model.Slot) error
	InsertBulk(ctx context.Context, models []model.Slot) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Slot, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Slot, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	BeginTx(ctx context.Context) (*sqlx.Tx, error)
	Claim(ctx context.Context, slotID, bookedBy string) (bool, error)
	ReleaseTx(ctx context.Context, sqltx *sqlx.Tx, slotID, releasedBy string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Slot]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Slot {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Slot](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Claim flips is_booked for a slot only when it is still open, reporting
// whether this caller won the row. The guard lives in the WHERE clause of a
// single UPDATE, so two concurrent claims on the same slot cannot both see
// true.
func (repo *repositoryImpl) Claim(ctx context.Context, slotID, bookedBy string) (bool, error) {
	mod := map[string]any{
		model.FieldIsBooked:      true,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: bookedBy,
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Operator: gDto.FilterOperatorEq,
				Value:    slotID,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "claim_is_booked",
				Field:    model.FieldIsBooked,
				Operator: gDto.FilterOperatorEq,
				Value:    false,
				Table:    model.TableName,
			},
		},
	}

	affected, err := repo.UpdateAffected(ctx, mod, filter)
	if err != nil {
		return false, err //nolint:wrapcheck
	}

	return affected == 1, nil
}

// ReleaseTx reopens a claimed slot inside the caller's transaction so a
// cancellation and its release commit or roll back together.
func (repo *repositoryImpl) ReleaseTx(ctx context.Context, sqltx *sqlx.Tx, slotID, releasedBy string) error {
	mod := map[string]any{
		model.FieldIsBooked:      false,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: releasedBy,
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Operator: gDto.FilterOperatorEq,
				Value:    slotID,
				Table:    model.TableName,
			},
		},
	}

	return repo.UpdateTx(ctx, sqltx, mod, filter) //nolint:wrapcheck
}
