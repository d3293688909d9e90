package services

import (
	"context"

	"github.com/meeras/brigadier/internal/app/auth"
	"github.com/meeras/brigadier/internal/app/models"
	"github.com/meeras/brigadier/internal/app/models/dto"
	"github.com/meeras/brigadier/internal/pkg/apperrors"
	"github.com/meeras/brigadier/internal/pkg/helpers"
)

// BrigadeStore is the slice of the brigade repository the service needs.
type BrigadeStore interface {
	Create(ctx context.Context, brigade *models.Brigade) error
	GetByID(ctx context.Context, id string) (*models.Brigade, error)
	List(ctx context.Context, brigadeIDs []string, offset, limit int) ([]*models.Brigade, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateBrigadeRequest) error
	Deactivate(ctx context.Context, id string) error
	CountActiveStudents(ctx context.Context, brigadeID string) (int64, error)
}

// BrigadeLeadChecker verifies that a user can be assigned as leader.
type BrigadeLeadChecker interface {
	IsActiveLead(ctx context.Context, id string) (bool, error)
}

// BrigadeStudentLister loads the active students of a brigade.
type BrigadeStudentLister interface {
	List(ctx context.Context, filter *dto.StudentFilter, brigadeIDs []string, offset, limit int) ([]*models.Student, int64, error)
}

// BrigadeService handles brigade management.
type BrigadeService struct {
	brigades BrigadeStore
	leads    BrigadeLeadChecker
	students BrigadeStudentLister
}

// NewBrigadeService creates a new brigade service
func NewBrigadeService(brigades BrigadeStore, leads BrigadeLeadChecker, students BrigadeStudentLister) *BrigadeService {
	return &BrigadeService{
		brigades: brigades,
		leads:    leads,
		students: students,
	}
}

// ListBrigades lists active brigades visible to the scope
func (s *BrigadeService) ListBrigades(ctx context.Context, scope auth.Scope, page, limit int) (*dto.BrigadeListResponse, error) {
	offset, lim := helpers.CalculateOffsetLimit(page, limit)

	brigades, total, err := s.brigades.List(ctx, scopeBrigadeIDs(scope), int(offset), lim)
	if err != nil {
		return nil, err
	}

	return &dto.BrigadeListResponse{
		Brigades:   brigades,
		Pagination: helpers.NewPaginationInfo(total, page, lim),
	}, nil
}

// GetBrigade retrieves one brigade with its leader and active students
func (s *BrigadeService) GetBrigade(ctx context.Context, scope auth.Scope, id string) (*models.Brigade, error) {
	brigade, err := s.brigades.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.CanAccessBrigade(brigade.ID) {
		return nil, apperrors.ErrBrigadeOutsideScope
	}

	students, _, err := s.students.List(ctx,
		&dto.StudentFilter{BrigadeID: id}, nil, 0, helpers.MaxPageSize)
	if err != nil {
		return nil, err
	}
	brigade.Students = students

	return brigade, nil
}

func (s *BrigadeService) validateLeader(ctx context.Context, leaderID *string) error {
	if leaderID == nil || *leaderID == "" {
		return nil
	}
	ok, err := s.leads.IsActiveLead(ctx, *leaderID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrInvalidBrigadeLeader
	}
	return nil
}

// CreateBrigade creates a brigade, validating the leader assignment
func (s *BrigadeService) CreateBrigade(ctx context.Context, req *dto.CreateBrigadeRequest) (*models.Brigade, error) {
	if err := s.validateLeader(ctx, req.LeaderID); err != nil {
		return nil, err
	}

	brigade := &models.Brigade{
		Name:     req.Name,
		LeaderID: req.LeaderID,
	}
	if err := s.brigades.Create(ctx, brigade); err != nil {
		return nil, err
	}

	return s.brigades.GetByID(ctx, brigade.ID)
}

// UpdateBrigade applies a partial update
func (s *BrigadeService) UpdateBrigade(ctx context.Context, id string, req *dto.UpdateBrigadeRequest) (*models.Brigade, error) {
	if _, err := s.brigades.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if req.LeaderID != nil {
		if err := s.validateLeader(ctx, req.LeaderID); err != nil {
			return nil, err
		}
	}

	if err := s.brigades.Update(ctx, id, req); err != nil {
		return nil, err
	}

	return s.brigades.GetByID(ctx, id)
}

// DeleteBrigade soft deletes a brigade. Brigades still holding active
// students cannot be deleted.
func (s *BrigadeService) DeleteBrigade(ctx context.Context, id string) error {
	if _, err := s.brigades.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.brigades.CountActiveStudents(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.ErrBrigadeHasStudents
	}

	return s.brigades.Deactivate(ctx, id)
}
