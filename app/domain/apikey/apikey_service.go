package apikey

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devportal-io/portal-api/app/domain/query"
	"github.com/devportal-io/portal-api/app/interfaces/http/requests"
	"github.com/devportal-io/portal-api/app/interfaces/http/responses"
	"github.com/devportal-io/portal-api/app/utils/idgen"
	"github.com/devportal-io/portal-api/config/environment_variables"
)

const ApikeyPrefix = "sk"

type ApikeyContextKey string

const (
	ApikeyContextKeyEntity ApikeyContextKey = "ApikeyContextKeyEntity"
)

type ApiKeyService struct {
	repo ApiKeyRepository
}

func NewService(repo ApiKeyRepository) *ApiKeyService {
	return &ApiKeyService{
		repo: repo,
	}
}

// GenerateKeyAndHash mints a fresh plaintext key and its storable hash. The
// plaintext is shown once and never persisted.
func (s *ApiKeyService) GenerateKeyAndHash(ctx context.Context, keyType ApikeyType) (string, string, error) {
	baseKey, err := idgen.GenerateSecureID(ApikeyPrefix, 24)
	if err != nil {
		return "", "", err
	}

	// Format as sk_<type>-<random> for identification
	key := fmt.Sprintf("%s-%s", keyType, baseKey)
	hash := s.HashKey(ctx, key)
	return key, hash, nil
}

func (s *ApiKeyService) generatePublicID() (string, error) {
	return idgen.GenerateSecureID("key", 16)
}

func (s *ApiKeyService) HashKey(ctx context.Context, key string) string {
	h := hmac.New(sha256.New, []byte(environment_variables.EnvironmentVariables.APIKEY_SECRET))
	h.Write([]byte(key))

	return hex.EncodeToString(h.Sum(nil))
}

func (s *ApiKeyService) CreateApiKey(ctx context.Context, apiKey *ApiKey) (*ApiKey, error) {
	publicId, err := s.generatePublicID()
	if err != nil {
		return nil, err
	}
	apiKey.PublicID = publicId
	apiKey.Enabled = true
	if err := s.repo.Create(ctx, apiKey); err != nil {
		return nil, err
	}
	return apiKey, nil
}

func (s *ApiKeyService) Delete(ctx context.Context, apiKey *ApiKey) error {
	return s.repo.DeleteByID(ctx, apiKey.ID)
}

func (s *ApiKeyService) FindByKeyHash(ctx context.Context, keyHash string) (*ApiKey, error) {
	return s.repo.FindByKeyHash(ctx, keyHash)
}

func (s *ApiKeyService) FindByKey(ctx context.Context, key string) (*ApiKey, error) {
	return s.repo.FindByKeyHash(ctx, s.HashKey(ctx, key))
}

func (s *ApiKeyService) Find(ctx context.Context, filter ApiKeyFilter, p *query.Pagination) ([]*ApiKey, error) {
	return s.repo.FindByFilter(ctx, filter, p)
}

func (s *ApiKeyService) Count(ctx context.Context, filter ApiKeyFilter) (int64, error) {
	return s.repo.Count(ctx, filter)
}

// AdminApiKeyMiddleware gates a route group behind admin-typed API keys.
func (s *ApiKeyService) AdminApiKeyMiddleware() gin.HandlerFunc {
	return func(reqCtx *gin.Context) {
		ctx := reqCtx.Request.Context()
		token, ok := requests.GetTokenFromBearer(reqCtx)
		if !ok {
			reqCtx.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{
				Code: "0c1cc7f2-bb6f-4b71-a1f8-0f1e26b0d7c4",
			})
			return
		}
		entity, err := s.FindByKey(ctx, token)
		if err != nil || entity == nil || !entity.Enabled || entity.ApikeyType != string(ApikeyTypeAdmin) {
			reqCtx.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{
				Code: "6e1fbbd1-21f1-4e6f-9bf6-dcb6fbd9aa01",
			})
			return
		}
		reqCtx.Set(string(ApikeyContextKeyEntity), entity)
		reqCtx.Next()
	}
}

func (s *ApiKeyService) GetApiKeyFromContext(reqCtx *gin.Context) (*ApiKey, bool) {
	v, ok := reqCtx.Get(string(ApikeyContextKeyEntity))
	if !ok {
		return nil, false
	}
	return v.(*ApiKey), true
}
