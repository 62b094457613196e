package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"todoservice/internal/adapter/database"
	"todoservice/internal/core/domain"
	"todoservice/internal/core/port"
	tel "todoservice/internal/core/telemetry"
)

var todoColumns = []string{"id", "title", "completed"}

type TodoRepository struct {
	db        *database.DB
	telemetry port.Telemetry
}

func NewTodoRepository(db *database.DB, telemetry port.Telemetry) port.TodoRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TodoRepository{
		db:        db,
		telemetry: telemetry,
	}
}

func (tr *TodoRepository) Create(ctx context.Context, title string) (domain.Todo, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "Create", "todo", map[string]interface{}{
		"db.system":    tr.db.Driver,
		"db.table":     "todos",
		"db.operation": "INSERT",
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := tr.db.QueryBuilder.Insert("todos").
		Columns("title", "completed").
		Values(title, false).
		Suffix("RETURNING id, title, completed").
		ToSql()

	if err != nil {
		return domain.Todo{}, tr.finish(ctx, span, "Create", startTime, storeError("build insert", err))
	}

	var todo domain.Todo

	if err := tr.db.GetContext(ctx, &todo, query, args...); err != nil {
		return domain.Todo{}, tr.finish(ctx, span, "Create", startTime, storeError("insert todo", err))
	}

	span.SetAttributes(map[string]interface{}{"todo.id": todo.ID})

	return todo, tr.finish(ctx, span, "Create", startTime, nil)
}

func (tr *TodoRepository) List(ctx context.Context) ([]domain.Todo, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "List", "todo", map[string]interface{}{
		"db.system":    tr.db.Driver,
		"db.table":     "todos",
		"db.operation": "SELECT",
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := tr.db.QueryBuilder.Select(todoColumns...).
		From("todos").
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, tr.finish(ctx, span, "List", startTime, storeError("build select", err))
	}

	todos := make([]domain.Todo, 0)

	if err := tr.db.SelectContext(ctx, &todos, query, args...); err != nil {
		return nil, tr.finish(ctx, span, "List", startTime, storeError("list todos", err))
	}

	span.SetAttributes(map[string]interface{}{"db.rows_returned": len(todos)})

	return todos, tr.finish(ctx, span, "List", startTime, nil)
}

func (tr *TodoRepository) Get(ctx context.Context, id int64) (domain.Todo, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "Get", "todo", map[string]interface{}{
		"db.system":    tr.db.Driver,
		"db.table":     "todos",
		"db.operation": "SELECT",
		"todo.id":      id,
	})
	defer span.End()

	startTime := time.Now()

	todo, err := getTodo(ctx, tr.db, tr.db.QueryBuilder, id)

	return todo, tr.finish(ctx, span, "Get", startTime, err)
}

// Update writes only the present fields in a single UPDATE ... RETURNING
// statement. Zero affected rows means the id does not exist.
func (tr *TodoRepository) Update(ctx context.Context, id int64, patch domain.TodoPatch) (domain.Todo, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "Update", "todo", map[string]interface{}{
		"db.system":           tr.db.Driver,
		"db.table":            "todos",
		"db.operation":        "UPDATE",
		"todo.id":             id,
		"update.fields_count": len(patch.Fields()),
	})
	defer span.End()

	startTime := time.Now()

	if patch.IsEmpty() {
		todo, err := getTodo(ctx, tr.db, tr.db.QueryBuilder, id)
		return todo, tr.finish(ctx, span, "Update", startTime, err)
	}

	query, args, err := tr.db.QueryBuilder.Update("todos").
		SetMap(patch.ToMap()).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, title, completed").
		ToSql()

	if err != nil {
		return domain.Todo{}, tr.finish(ctx, span, "Update", startTime, storeError("build update", err))
	}

	var todo domain.Todo

	if err := tr.db.GetContext(ctx, &todo, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Todo{}, tr.finish(ctx, span, "Update", startTime, domain.ErrTodoNotFound)
		}

		return domain.Todo{}, tr.finish(ctx, span, "Update", startTime, storeError("update todo", err))
	}

	return todo, tr.finish(ctx, span, "Update", startTime, nil)
}

func (tr *TodoRepository) Delete(ctx context.Context, id int64) error {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "Delete", "todo", map[string]interface{}{
		"db.system":    tr.db.Driver,
		"db.table":     "todos",
		"db.operation": "DELETE",
		"todo.id":      id,
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := tr.db.QueryBuilder.Delete("todos").
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return tr.finish(ctx, span, "Delete", startTime, storeError("build delete", err))
	}

	result, err := tr.db.ExecContext(ctx, query, args...)

	if err != nil {
		return tr.finish(ctx, span, "Delete", startTime, storeError("delete todo", err))
	}

	rowsAffected, err := result.RowsAffected()

	if err != nil {
		return tr.finish(ctx, span, "Delete", startTime, storeError("delete todo", err))
	}

	if rowsAffected == 0 {
		return tr.finish(ctx, span, "Delete", startTime, domain.ErrTodoNotFound)
	}

	return tr.finish(ctx, span, "Delete", startTime, nil)
}

func (tr *TodoRepository) finish(ctx context.Context, span port.Span, operation string, startTime time.Time, err error) error {
	span.SetAttributes(map[string]interface{}{
		"operation.duration_ns": time.Since(startTime).Nanoseconds(),
	})

	switch {
	case err == nil:
		span.SetStatus("ok", "")
	case errors.Is(err, domain.ErrTodoNotFound):
		span.SetStatus("ok", "not found")
	default:
		span.SetStatus("error", err.Error())
		span.RecordError(err)
	}

	tr.telemetry.RecordRepositoryOperation(ctx, operation, "todo", time.Since(startTime), err)

	return err
}

func getTodo(ctx context.Context, q sqlxQueryer, builder sq.StatementBuilderType, id int64) (domain.Todo, error) {
	query, args, err := builder.Select(todoColumns...).
		From("todos").
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.Todo{}, storeError("build select", err)
	}

	var todo domain.Todo

	if err := q.GetContext(ctx, &todo, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Todo{}, domain.ErrTodoNotFound
		}

		return domain.Todo{}, storeError("get todo", err)
	}

	return todo, nil
}

type sqlxQueryer interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

func storeError(operation string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStoreUnavailable, operation, err)
}
