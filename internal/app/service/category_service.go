package service

import (
	"context"

	"github.com/gosimple/slug"

	"gamestore/internal/domain/model"
	"gamestore/internal/domain/repository"
)

type CategoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=50,categoryname"`
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.repo.List(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*model.Category, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, req CategoryRequest) (*model.Category, error) {
	category := &model.Category{Name: req.Name, Slug: slug.Make(req.Name), Games: []model.GameSummary{}}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id int64, req CategoryRequest) (*model.Category, error) {
	return s.repo.Update(ctx, id, req.Name, slug.Make(req.Name))
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *CategoryService) AddGame(ctx context.Context, categoryID, gameID int64) error {
	return s.repo.AddGame(ctx, categoryID, gameID)
}

func (s *CategoryService) RemoveGame(ctx context.Context, categoryID, gameID int64) error {
	return s.repo.RemoveGame(ctx, categoryID, gameID)
}
