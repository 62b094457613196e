package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"todoservice/internal/core/domain"
	"todoservice/internal/core/port"
	tel "todoservice/internal/core/telemetry"
)

const todoListCacheKey = "todos:list"

type TodoService struct {
	repo      port.TodoRepository
	cache     port.CacheRepository
	cacheTTL  time.Duration
	telemetry port.Telemetry
	logger    *otelzap.Logger
}

// NewTodoService wires the store with an optional list cache. A nil cache
// disables caching.
func NewTodoService(repo port.TodoRepository, cache port.CacheRepository, cacheTTL time.Duration, telemetry port.Telemetry, logger *otelzap.Logger) *TodoService {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}

	return &TodoService{
		repo:      repo,
		cache:     cache,
		cacheTTL:  cacheTTL,
		telemetry: telemetry,
		logger:    logger,
	}
}

func (ts *TodoService) Create(ctx context.Context, title string) (domain.Todo, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "todo", "Create", nil)
	defer span.End()

	todo, err := ts.repo.Create(ctx, title)

	if err != nil {
		span.RecordError(err)
		return domain.Todo{}, err
	}

	ts.invalidateList(ctx)
	ts.telemetry.RecordBusinessEvent(ctx, "created", "todo", strconv.FormatInt(todo.ID, 10), map[string]interface{}{
		"title": todo.Title,
	})

	return todo, nil
}

func (ts *TodoService) List(ctx context.Context) ([]domain.Todo, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "todo", "List", nil)
	defer span.End()

	if todos, ok := ts.cachedList(ctx); ok {
		return todos, nil
	}

	todos, err := ts.repo.List(ctx)

	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	ts.storeList(ctx, todos)

	return todos, nil
}

func (ts *TodoService) Get(ctx context.Context, id int64) (domain.Todo, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "todo", "Get", map[string]interface{}{
		"todo.id": id,
	})
	defer span.End()

	todo, err := ts.repo.Get(ctx, id)

	if err != nil {
		span.RecordError(err)
		return domain.Todo{}, err
	}

	return todo, nil
}

func (ts *TodoService) Update(ctx context.Context, id int64, patch domain.TodoPatch) (domain.Todo, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "todo", "Update", map[string]interface{}{
		"todo.id": id,
	})
	defer span.End()

	todo, err := ts.repo.Update(ctx, id, patch)

	if err != nil {
		span.RecordError(err)
		return domain.Todo{}, err
	}

	if !patch.IsEmpty() {
		ts.invalidateList(ctx)
		ts.telemetry.RecordBusinessEvent(ctx, "updated", "todo", strconv.FormatInt(todo.ID, 10), patch.ToMap())
	}

	return todo, nil
}

func (ts *TodoService) Delete(ctx context.Context, id int64) error {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "todo", "Delete", map[string]interface{}{
		"todo.id": id,
	})
	defer span.End()

	if err := ts.repo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}

	ts.invalidateList(ctx)
	ts.telemetry.RecordBusinessEvent(ctx, "deleted", "todo", strconv.FormatInt(id, 10), nil)

	return nil
}

// Cache failures never fail a request; the store stays authoritative.
func (ts *TodoService) cachedList(ctx context.Context) ([]domain.Todo, bool) {
	if ts.cache == nil {
		return nil, false
	}

	payload, err := ts.cache.Get(ctx, todoListCacheKey)

	if err != nil {
		if !errors.Is(err, port.ErrCacheMiss) {
			ts.logger.Ctx(ctx).Warn("Todo list cache read failed", zap.Error(err))
		}

		ts.telemetry.RecordCacheLookup(ctx, todoListCacheKey, false)
		return nil, false
	}

	var todos []domain.Todo

	if err := json.Unmarshal(payload, &todos); err != nil {
		ts.logger.Ctx(ctx).Warn("Todo list cache entry is corrupt", zap.Error(err))
		ts.telemetry.RecordCacheLookup(ctx, todoListCacheKey, false)
		return nil, false
	}

	ts.telemetry.RecordCacheLookup(ctx, todoListCacheKey, true)

	return todos, true
}

func (ts *TodoService) storeList(ctx context.Context, todos []domain.Todo) {
	if ts.cache == nil {
		return
	}

	payload, err := json.Marshal(todos)

	if err != nil {
		return
	}

	if err := ts.cache.Set(ctx, todoListCacheKey, payload, ts.cacheTTL); err != nil {
		ts.logger.Ctx(ctx).Warn("Todo list cache write failed", zap.Error(err))
	}
}

func (ts *TodoService) invalidateList(ctx context.Context) {
	if ts.cache == nil {
		return
	}

	if err := ts.cache.Delete(ctx, todoListCacheKey); err != nil {
		ts.logger.Ctx(ctx).Warn("Todo list cache invalidation failed", zap.Error(err))
	}
}
