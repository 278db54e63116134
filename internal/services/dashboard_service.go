package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"office-docflow/internal/authz"
	"office-docflow/internal/dto"
	"office-docflow/internal/repositories"
)

const (
	DashboardCacheKey = "dashboard:counts"
	// Поколение кеша. Invalidate его меняет, и счётчики, посчитанные до сброса,
	// ложатся под старый ключ, который уже никто не читает.
	dashboardGenerationKey = DashboardCacheKey + ":gen"
	initialGeneration      = "0"
)

type DashboardServiceInterface interface {
	GetCounts(ctx context.Context, session authz.Session) (*dto.DashboardCountsDTO, error)
	Invalidate(ctx context.Context) error
}

// DashboardService - счётчики главной страницы. Пять запросов идут параллельно,
// результат кешируется до первой новой записи или до истечения TTL.
type DashboardService struct {
	BaseService
	repos *repositories.Registry
	cache repositories.CacheRepositoryInterface
	ttl   time.Duration
}

func NewDashboardService(repos *repositories.Registry, cache repositories.CacheRepositoryInterface, ttl time.Duration, logger *zap.Logger) DashboardServiceInterface {
	return &DashboardService{
		BaseService: NewBaseService(nil, nil, logger),
		repos:       repos,
		cache:       cache,
		ttl:         ttl,
	}
}

func (s *DashboardService) GetCounts(ctx context.Context, session authz.Session) (*dto.DashboardCountsDTO, error) {
	if err := s.CheckPermission(session, authz.DashboardView); err != nil {
		return nil, err
	}

	gen, cacheable := s.generation(ctx)
	if cacheable {
		if cached, ok := s.cacheGet(ctx, gen); ok {
			return cached, nil
		}
	}

	var counts dto.DashboardCountsDTO
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { counts.Letters, err = s.repos.Letters.Count(gctx); return })
	g.Go(func() (err error) { counts.Proposals, err = s.repos.Proposals.Count(gctx); return })
	g.Go(func() (err error) { counts.Procurements, err = s.repos.Procurements.Count(gctx); return })
	g.Go(func() (err error) { counts.Invoices, err = s.repos.Invoices.Count(gctx); return })
	g.Go(func() (err error) { counts.Assets, err = s.repos.Assets.Count(gctx); return })
	if err := g.Wait(); err != nil {
		return nil, storeErr("GetCounts", "", err)
	}

	if cacheable {
		s.cacheSet(ctx, gen, &counts)
	}
	return &counts, nil
}

// Invalidate сбрасывает закешированные счётчики.
func (s *DashboardService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Set(ctx, dashboardGenerationKey, uuid.NewString(), 0)
}

func dashboardCountsKey(gen string) string {
	return DashboardCacheKey + ":" + gen
}

// generation возвращает текущее поколение. Если кеш недоступен, счётчики не кешируются.
func (s *DashboardService) generation(ctx context.Context) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	gen, err := s.cache.Get(ctx, dashboardGenerationKey)
	switch {
	case err == nil:
		return gen, true
	case errors.Is(err, repositories.ErrCacheMiss):
		return initialGeneration, true
	default:
		s.logger.Warn("Кеш дашборда недоступен", zap.Error(err))
		return "", false
	}
}

// Ошибки кеша не должны ломать дашборд, поэтому только логируются.
func (s *DashboardService) cacheGet(ctx context.Context, gen string) (*dto.DashboardCountsDTO, bool) {
	raw, err := s.cache.Get(ctx, dashboardCountsKey(gen))
	if err != nil {
		if !errors.Is(err, repositories.ErrCacheMiss) {
			s.logger.Warn("Кеш дашборда недоступен", zap.Error(err))
		}
		return nil, false
	}
	var counts dto.DashboardCountsDTO
	if err := json.Unmarshal([]byte(raw), &counts); err != nil {
		s.logger.Warn("Повреждённое значение в кеше дашборда", zap.Error(err))
		return nil, false
	}
	s.logger.Debug("Счётчики дашборда получены из кеша")
	return &counts, true
}

func (s *DashboardService) cacheSet(ctx context.Context, gen string, counts *dto.DashboardCountsDTO) {
	serialized, err := json.Marshal(counts)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, dashboardCountsKey(gen), serialized, s.ttl); err != nil {
		s.logger.Warn("Не удалось записать кеш дашборда", zap.Error(err))
	}
}
