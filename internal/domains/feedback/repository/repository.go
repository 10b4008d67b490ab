package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"caseclub/infras/otel"
	"caseclub/infras/postgres"
	"caseclub/internal/domains/feedback/model"
	"caseclub/shared/constant"
	gDto "caseclub/shared/dto"
	gRepo "caseclub/shared/repository"
	"caseclub/shared/timezone"
)

type Feedback interface {
	Insert(ctx context.Context, model model.Feedback) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Feedback, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Feedback, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	Review(ctx context.Context, id, toStatus, reviewedBy string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Feedback]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Feedback {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Feedback](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Review settles a pending feedback entry. The pending guard is part of the
// UPDATE, so a decision can be made exactly once.
func (repo *repositoryImpl) Review(ctx context.Context, id, toStatus, reviewedBy string) (bool, error) {
	mod := map[string]any{
		model.FieldStatus:        toStatus,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: reviewedBy,
	}

	filter := gDto.FilterGroup{
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
				Operator: gDto.FilterOperatorEq,
				Value:    constant.FeedbackStatusPending,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldRecipientID,
				Operator: gDto.FilterOperatorEq,
				Value:    reviewedBy,
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
