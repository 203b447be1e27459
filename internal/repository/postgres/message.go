package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/driftchat/driftchat-server/internal/model"
)

var _ model.MessageStore = (*MessageRepository)(nil)

type MessageRepository struct {
	db *Connection
}

func NewMessageRepository(db *Connection) *MessageRepository {
	return &MessageRepository{
		db: db,
	}
}

const messageColumns = `id, sender_id, receiver_id, text, image, deleted_for, deleted, edited, edited_at, created_at, updated_at`

func scanMessage(row pgx.Row) (model.Message, error) {
	var m model.Message
	err := row.Scan(
		&m.ID, &m.SenderID, &m.ReceiverID, &m.Text, &m.Image,
		&m.DeletedFor, &m.Deleted, &m.Edited, &m.EditedAt,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Message{}, model.ErrNotFound
		}
		return model.Message{}, err
	}
	return m, nil
}

func (r *MessageRepository) Create(ctx context.Context, message model.Message) (model.Message, error) {
	query := `
		INSERT INTO messages (id, sender_id, receiver_id, text, image)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + messageColumns

	saved, err := scanMessage(r.db.QueryRow(ctx, query,
		message.ID, message.SenderID, message.ReceiverID, message.Text, message.Image,
	))
	if err != nil {
		return model.Message{}, wrapStoreErr(err)
	}

	return saved, nil
}

func (r *MessageRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`

	m, err := scanMessage(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return model.Message{}, wrapStoreErr(err)
	}

	return m, nil
}

func (r *MessageRepository) GetBetween(ctx context.Context, userA, userB uuid.UUID) ([]model.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, userA, userB)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, wrapStoreErr(err)
		}
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapStoreErr(err)
	}

	return messages, nil
}

// UpdateText replaces the stored ciphertext and stamps the edit fields.
// Sender, receiver, timestamps and deletion state are never touched.
func (r *MessageRepository) UpdateText(ctx context.Context, id uuid.UUID, ciphertext string, editedAt time.Time) (model.Message, error) {
	query := `
		UPDATE messages
		SET text = $2, edited = TRUE, edited_at = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + messageColumns

	m, err := scanMessage(r.db.QueryRow(ctx, query, id, ciphertext, editedAt))
	if err != nil {
		return model.Message{}, wrapStoreErr(err)
	}

	return m, nil
}

// MarkDeletedFor adds userID to the deletion set and rederives the
// global deleted flag in the same statement. Re-adding an id already
// present keeps the set unchanged but still persists the derivation.
func (r *MessageRepository) MarkDeletedFor(ctx context.Context, id uuid.UUID, userID uuid.UUID) (model.Message, error) {
	query := `
		UPDATE messages
		SET deleted_for = CASE
				WHEN $2 = ANY (deleted_for) THEN deleted_for
				ELSE array_append(deleted_for, $2)
			END,
			deleted = sender_id = ANY (array_append(deleted_for, $2))
				AND receiver_id = ANY (array_append(deleted_for, $2)),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + messageColumns

	m, err := scanMessage(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		return model.Message{}, wrapStoreErr(err)
	}

	return m, nil
}
