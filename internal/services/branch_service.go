package services

import (
	"context"

	"go.uber.org/zap"

	"office-docflow/internal/authz"
	"office-docflow/internal/dto"
	"office-docflow/internal/entities"
	"office-docflow/internal/repositories"
)

type BranchServiceInterface interface {
	GetBranches(ctx context.Context, session authz.Session) ([]entities.BranchInfo, error)
	Me(session authz.Session) dto.SessionDTO
}

type BranchService struct {
	BaseService
	repo repositories.BranchRepositoryInterface
}

func NewBranchService(repo repositories.BranchRepositoryInterface, logger *zap.Logger) BranchServiceInterface {
	return &BranchService{BaseService: NewBaseService(nil, nil, logger), repo: repo}
}

// GetBranches - справочник для выпадающих списков. Если таблица ещё не заполнена,
// отдаются встроенные названия.
func (s *BranchService) GetBranches(ctx context.Context, session authz.Session) ([]entities.BranchInfo, error) {
	if err := s.CheckPermission(session, authz.BranchesView); err != nil {
		return nil, err
	}
	list, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, storeErr("GetBranches", "", err)
	}
	if len(list) == 0 {
		for _, code := range entities.AllBranches {
			list = append(list, entities.BranchInfo{Code: code, Name: entities.BranchNames[code]})
		}
	}
	return list, nil
}

// Me - кто я и какие панели мне показывать.
func (s *BranchService) Me(session authz.Session) dto.SessionDTO {
	return dto.SessionDTO{
		UserID:     session.UserID,
		Branch:     session.Branch.String(),
		BranchName: entities.BranchNames[session.Branch],
		Actions:    authz.Actions(session.Branch),
	}
}
