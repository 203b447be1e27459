package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/driftchat/driftchat-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

const userColumns = `id, full_name, email, password_hash, profile_pic, created_at, updated_at`

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.ProfilePic,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `
		INSERT INTO users (id, full_name, email, password_hash, profile_pic)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	saved, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID, user.FullName, user.Email, user.PasswordHash, user.ProfilePic,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.User{}, model.ErrConflict
		}
		return model.User{}, wrapStoreErr(err)
	}

	return saved, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return model.User{}, wrapStoreErr(err)
	}

	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return model.User{}, wrapStoreErr(err)
	}

	return u, nil
}

// GetAllExcept returns every user but the given one, for the contact
// sidebar.
func (r *UserRepository) GetAllExcept(ctx context.Context, id uuid.UUID) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id <> $1 ORDER BY full_name ASC`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, wrapStoreErr(err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapStoreErr(err)
	}

	return users, nil
}

func (r *UserRepository) UpdateProfilePic(ctx context.Context, id uuid.UUID, url string) (model.User, error) {
	query := `
		UPDATE users SET profile_pic = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRow(ctx, query, id, url))
	if err != nil {
		return model.User{}, wrapStoreErr(err)
	}

	return u, nil
}
