package service

import (
	"context"

	"storekeeper/internal/domain"
	"storekeeper/internal/repository"
)

const solutionEntity = "solution"

// SolutionService manages solution records. Creation and update are separate
// operations told apart by id presence, checked here before the store is
// touched.
type SolutionService struct {
	repo repository.Repository[domain.Solution]
}

func NewSolutionService(repo repository.Repository[domain.Solution]) *SolutionService {
	return &SolutionService{repo: repo}
}

// Create inserts a new solution. A payload that already carries an id is
// rejected with key "idexists"; the caller must use Update instead.
func (s *SolutionService) Create(ctx context.Context, sol *domain.Solution) (*domain.Solution, error) {
	if sol.ID != 0 {
		return nil, &BadRequestError{
			Entity:  solutionEntity,
			Key:     KeyIDExists,
			Message: "a new solution cannot already have an id",
		}
	}
	if err := sol.Validate(); err != nil {
		return nil, invalid(solutionEntity, err)
	}
	if err := s.repo.Create(ctx, sol); err != nil {
		return nil, translateStoreError(solutionEntity, 0, err)
	}
	return sol, nil
}

// Update replaces an existing solution. A payload without an id is rejected
// with key "idnull".
func (s *SolutionService) Update(ctx context.Context, sol *domain.Solution) (*domain.Solution, error) {
	if sol.ID == 0 {
		return nil, &BadRequestError{
			Entity:  solutionEntity,
			Key:     KeyIDNull,
			Message: "an existing solution must have an id",
		}
	}
	if err := sol.Validate(); err != nil {
		return nil, invalid(solutionEntity, err)
	}
	if err := s.repo.Update(ctx, sol); err != nil {
		return nil, translateStoreError(solutionEntity, sol.ID, err)
	}
	return sol, nil
}

func (s *SolutionService) FindAll(ctx context.Context) ([]*domain.Solution, error) {
	return s.repo.GetAll(ctx)
}

func (s *SolutionService) FindOne(ctx context.Context, id int64) (*domain.Solution, error) {
	sol, err := s.repo.GetOne(ctx, id)
	if err != nil {
		return nil, translateStoreError(solutionEntity, id, err)
	}
	return sol, nil
}

// Delete removes a solution by id, reporting NotFoundError for an absent id.
// Idempotency, where wanted, is the caller's concern.
func (s *SolutionService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translateStoreError(solutionEntity, id, err)
	}
	return nil
}

// FindByBug lists the solutions recorded against a bug.
func (s *SolutionService) FindByBug(ctx context.Context, bugID int64) ([]*domain.Solution, error) {
	return s.repo.List(ctx, repository.NewQueryFilter("bug_id = ?", bugID))
}
