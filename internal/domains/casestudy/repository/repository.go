package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"caseclub/infras/otel"
	"caseclub/infras/postgres"
	"caseclub/internal/domains/casestudy/model"
	gDto "caseclub/shared/dto"
	gRepo "caseclub/shared/repository"
)

type CaseStudy interface {
	Insert(ctx context.Context, model model.CaseStudy) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.CaseStudy, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.CaseStudy, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.CaseStudy]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) CaseStudy {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.CaseStudy](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
