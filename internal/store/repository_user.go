package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"

	"github.com/zpasskit/zpass/internal/logger"
	"github.com/zpasskit/zpass/models"
)

// psql builds queries with PostgreSQL $N placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// userRepository is the PostgreSQL-backed implementation of
// [UserRepository].
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new account and its empty vault row in a single
// transaction, so a registered account can always pull (an empty blob at
// revision 0) without a separate bootstrap step.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrLoginAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.User{}, fmt.Errorf("begin create user tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := psql.Insert("users").
		Columns("login", "credential_hash", "encryption_salt").
		Values(user.Login, user.AuthCredential, user.EncryptionSalt).
		Suffix("RETURNING id, login, encryption_salt, created_at").
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("build create user query: %w", err)
	}

	row := tx.QueryRowContext(ctx, query, args...)
	if err = row.Scan(&user.UserID, &user.Login, &user.EncryptionSalt, &user.CreatedAt); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error inserting user")

		if postgresError(err) == pgerrcode.UniqueViolation {
			return models.User{}, ErrLoginAlreadyExists
		}
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	query, args, err = psql.Insert("vaults").
		Columns("user_id", "ciphertext", "revision").
		Values(user.UserID, "", 0).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("build create vault query: %w", err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error creating empty vault")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return models.User{}, fmt.Errorf("commit create user tx: %w", err)
	}

	user.AuthCredential = "" // hash never travels back out of the store
	return user, nil
}

// FindUserByLogin retrieves the account record for login, including the
// stored credential hash for comparison by the auth service.
func (r *userRepository) FindUserByLogin(ctx context.Context, login string) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.Select("id", "login", "credential_hash", "encryption_salt", "created_at").
		From("users").
		Where(sq.Eq{"login": login}).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("build find user query: %w", err)
	}

	var found models.User
	row := r.db.QueryRowContext(ctx, query, args...)
	if err = row.Scan(&found.UserID, &found.Login, &found.AuthCredential, &found.EncryptionSalt, &found.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", "*userRepository.FindUserByLogin").Msg("error scanning user")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return found, nil
}
