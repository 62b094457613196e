package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"todoservice/internal/adapter/database"
	"todoservice/internal/core/domain"
	"todoservice/internal/core/port"
	tel "todoservice/internal/core/telemetry"
)

var userColumns = []string{"id", "username", "email", "encrypted_password", "created_at"}

const pgUniqueViolation = "23505"

type UserRepository struct {
	db        *database.DB
	telemetry port.Telemetry
}

func NewUserRepository(db *database.DB, telemetry port.Telemetry) port.UserRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &UserRepository{
		db:        db,
		telemetry: telemetry,
	}
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	ctx, span := ur.telemetry.StartRepositorySpan(ctx, "Create", "user", map[string]interface{}{
		"db.system":    ur.db.Driver,
		"db.table":     "users",
		"db.operation": "INSERT",
		"user.id":      user.ID.String(),
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := ur.db.QueryBuilder.Insert("users").
		Columns(userColumns...).
		Values(user.ID, user.Username, user.Email, user.EncryptedPassword, user.CreatedAt).
		ToSql()

	if err != nil {
		err = storeError("build insert", err)
		ur.record(ctx, span, "Create", startTime, err)
		return domain.User{}, err
	}

	if _, err := ur.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			err = domain.ErrUserAlreadyExists
		} else {
			err = storeError("insert user", err)
		}

		ur.record(ctx, span, "Create", startTime, err)
		return domain.User{}, err
	}

	ur.record(ctx, span, "Create", startTime, nil)

	return user, nil
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	ctx, span := ur.telemetry.StartRepositorySpan(ctx, "GetByEmail", "user", map[string]interface{}{
		"db.system":    ur.db.Driver,
		"db.table":     "users",
		"db.operation": "SELECT",
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := ur.db.QueryBuilder.Select(userColumns...).
		From("users").
		Where(sq.Eq{"email": email}).
		Limit(1).
		ToSql()

	if err != nil {
		err = storeError("build select", err)
		ur.record(ctx, span, "GetByEmail", startTime, err)
		return domain.User{}, err
	}

	var user domain.User

	if err := ur.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			ur.record(ctx, span, "GetByEmail", startTime, nil)
			return domain.User{}, domain.ErrUserNotFound
		}

		err = storeError("get user by email", err)
		ur.record(ctx, span, "GetByEmail", startTime, err)
		return domain.User{}, err
	}

	ur.record(ctx, span, "GetByEmail", startTime, nil)

	return user, nil
}

func (ur *UserRepository) record(ctx context.Context, span port.Span, operation string, startTime time.Time, err error) {
	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus("ok", "")
	}

	ur.telemetry.RecordRepositoryOperation(ctx, operation, "user", time.Since(startTime), err)
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error

	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	return false
}
