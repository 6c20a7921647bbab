package coderepo

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devportal-io/portal-api/app/domain/query"
	"github.com/devportal-io/portal-api/app/interfaces/http/responses"
	"github.com/devportal-io/portal-api/app/utils/idgen"
)

// RepositoryService provides business logic for managing code repositories.
type RepositoryService struct {
	repo RepositoryRepository
}

func NewService(repo RepositoryRepository) *RepositoryService {
	return &RepositoryService{
		repo: repo,
	}
}

func (s *RepositoryService) createPublicID() (string, error) {
	return idgen.GenerateSecureID("repo", 16)
}

// CreateRepositoryWithPublicID creates a new repository and assigns it a
// unique public ID before saving it.
func (s *RepositoryService) CreateRepositoryWithPublicID(ctx context.Context, r *Repository) (*Repository, error) {
	publicID, err := s.createPublicID()
	if err != nil {
		return nil, err
	}
	r.PublicID = publicID
	if r.Visibility == "" {
		r.Visibility = string(VisibilityPrivate)
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create repository: %w", err)
	}
	return r, nil
}

func (s *RepositoryService) UpdateRepository(ctx context.Context, r *Repository) (*Repository, error) {
	if r.ID == 0 {
		return nil, fmt.Errorf("cannot update repository with an ID of 0")
	}
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to update repository: %w", err)
	}
	return r, nil
}

func (s *RepositoryService) DeleteRepositoryByID(ctx context.Context, id uint) error {
	return s.repo.DeleteByID(ctx, id)
}

func (s *RepositoryService) FindRepositoryByID(ctx context.Context, id uint) (*Repository, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *RepositoryService) FindRepositoryByPublicID(ctx context.Context, publicID string) (*Repository, error) {
	return s.repo.FindByPublicID(ctx, publicID)
}

func (s *RepositoryService) Find(ctx context.Context, filter RepositoryFilter, pagination *query.Pagination) ([]*Repository, error) {
	return s.repo.FindByFilter(ctx, filter, pagination)
}

func (s *RepositoryService) CountRepositories(ctx context.Context, filter RepositoryFilter) (int64, error) {
	return s.repo.Count(ctx, filter)
}

type RepositoryContextKey string

const (
	RepositoryContextKeyPublicID RepositoryContextKey = "repo_public_id"
	RepositoryContextKeyEntity   RepositoryContextKey = "RepositoryContextKeyEntity"
)

func (s *RepositoryService) RepositoryMiddleware() gin.HandlerFunc {
	return func(reqCtx *gin.Context) {
		ctx := reqCtx.Request.Context()
		publicID := reqCtx.Param(string(RepositoryContextKeyPublicID))

		if publicID == "" {
			reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
				Code:  "8d0d41f5-8f75-4f4e-9a44-0c2b65cbdd01",
				Error: "missing repository public ID",
			})
			return
		}

		repoEntity, err := s.FindRepositoryByPublicID(ctx, publicID)
		if err != nil || repoEntity == nil {
			reqCtx.AbortWithStatusJSON(http.StatusNotFound, responses.ErrorResponse{
				Code:  "e43f5f36-6a40-4ab9-89bc-7917dbd48672",
				Error: "repository not found",
			})
			return
		}
		reqCtx.Set(string(RepositoryContextKeyEntity), repoEntity)
		reqCtx.Next()
	}
}

func (s *RepositoryService) GetRepositoryFromContext(reqCtx *gin.Context) (*Repository, bool) {
	v, ok := reqCtx.Get(string(RepositoryContextKeyEntity))
	if !ok {
		return nil, false
	}
	return v.(*Repository), true
}
