package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"caseclub/infras/otel"
	"caseclub/infras/postgres"
	"caseclub/internal/domains/appointment/model"
	"caseclub/shared/constant"
	gDto "caseclub/shared/dto"
	gRepo "caseclub/shared/repository"
	"caseclub/shared/timezone"

	"github.com/jmoiron/sqlx"
)

type Appointment interface {
	Insert(ctx context.Context, model model.Appointment) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Appointment, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Appointment, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	BeginTx(ctx context.Context) (*sqlx.Tx, error)
	Transition(ctx context.Context, id, toStatus string, fromStatuses []string, modifiedBy string) (bool, error)
	TransitionTx(ctx context.Context, sqltx *sqlx.Tx, id, toStatus string, fromStatuses []string, modifiedBy string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Appointment]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Appointment {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Appointment](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Transition moves an appointment to toStatus only while its current status
// is one of fromStatuses. The guard sits in the UPDATE's WHERE clause, so a
// transition raced by another writer reports false instead of overwriting.
func (repo *repositoryImpl) Transition(ctx context.Context, id, toStatus string, fromStatuses []string, modifiedBy string) (bool, error) {
	affected, err := repo.UpdateAffected(ctx, transitionMod(toStatus, modifiedBy), transitionFilter(id, fromStatuses))
	if err != nil {
		return false, err //nolint:wrapcheck
	}

	return affected == 1, nil
}

func (repo *repositoryImpl) TransitionTx(ctx context.Context, sqltx *sqlx.Tx, id, toStatus string, fromStatuses []string, modifiedBy string) (bool, error) {
	affected, err := repo.UpdateAffectedTx(ctx, sqltx, transitionMod(toStatus, modifiedBy), transitionFilter(id, fromStatuses))
	if err != nil {
		return false, err //nolint:wrapcheck
	}

	return affected == 1, nil
}

func transitionMod(toStatus, modifiedBy string) map[string]any {
	return map[string]any{
		model.FieldStatus:        toStatus,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: modifiedBy,
	}
}

func transitionFilter(id string, fromStatuses []string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Operator: gDto.FilterOperatorEq,
				Value:    id,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "from_status",
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorIn,
				Value:    fromStatuses,
				Table:    model.TableName,
			},
		},
	}
}
