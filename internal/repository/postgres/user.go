package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"studyflow/internal/domain"
	"studyflow/internal/domain/models"
	"studyflow/internal/domain/repositories"
)

// PostgresUserRepository implements the UserRepository interface
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewUserRepository creates a new user repository
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// FindOrCreate upserts the user keyed by the external identity subject
// and makes sure a default settings row exists for them.
func (r *PostgresUserRepository) FindOrCreate(ctx context.Context, externalUID, email string) (*models.User, error) {
	q := GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`
		INSERT INTO %s (external_uid, email)
		VALUES ($1, $2)
		ON CONFLICT (external_uid) DO UPDATE SET
			email = EXCLUDED.email,
			updated_at = NOW()
		RETURNING id, external_uid, email, created_at
	`, r.tables.Users)

	var user models.User
	err := q.QueryRow(ctx, query, externalUID, email).Scan(
		&user.ID,
		&user.ExternalUID,
		&user.Email,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("find or create user: %w", err)
	}

	settingsQuery := fmt.Sprintf(`
		INSERT INTO %s (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`, r.tables.Settings)

	if _, err := q.Exec(ctx, settingsQuery, user.ID); err != nil {
		return nil, fmt.Errorf("ensure default settings: %w", err)
	}

	return &user, nil
}

// GetByExternalUID looks up an existing user record.
func (r *PostgresUserRepository) GetByExternalUID(ctx context.Context, externalUID string) (*models.User, error) {
	q := GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`
		SELECT id, external_uid, email, created_at
		FROM %s
		WHERE external_uid = $1
	`, r.tables.Users)

	var user models.User
	err := q.QueryRow(ctx, query, externalUID).Scan(
		&user.ID,
		&user.ExternalUID,
		&user.Email,
		&user.CreatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("user %s: %w", externalUID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}
