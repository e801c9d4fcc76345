package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
	"github.com/jhoicas/PanelVentas-api/internal/domain/repository"
)

var _ repository.ConversationRepository = (*ConversationRepo)(nil)

const conversationColumns = `id, company_id, vendedor_id, channel, contact_name,
	contact_phone, status, estimated_amount, last_message_at, created_at, updated_at`

// ConversationRepo implementación del puerto ConversationRepository sobre
// PostgreSQL.
type ConversationRepo struct {
	db Querier
}

func NewConversationRepository(db Querier) *ConversationRepo {
	return &ConversationRepo{db: db}
}

func (r *ConversationRepo) Create(ctx context.Context, c *entity.Conversation) error {
	query := `
		INSERT INTO conversations (` + conversationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.Exec(ctx, query,
		c.ID, c.CompanyID, c.VendedorID, c.Channel, c.ContactName,
		c.ContactPhone, c.Status, c.EstimatedAmount, c.LastMessageAt,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert conversation: %w", err)
	}
	return nil
}

func (r *ConversationRepo) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	var c entity.Conversation
	err := r.db.QueryRow(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE id = $1`, id).Scan(
		&c.ID, &c.CompanyID, &c.VendedorID, &c.Channel, &c.ContactName,
		&c.ContactPhone, &c.Status, &c.EstimatedAmount, &c.LastMessageAt,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return &c, nil
}

// List intersecta con el alcance: UserIDs restringe por vendedor asignado.
func (r *ConversationRepo) List(ctx context.Context, scope repository.Scope, limit, offset int) ([]*entity.Conversation, error) {
	if scope.Nothing {
		return nil, nil
	}

	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE true`
	args := []any{}
	if !scope.All {
		if scope.CompanyID != "" {
			args = append(args, scope.CompanyID)
			query += fmt.Sprintf(" AND company_id = $%d", len(args))
		}
		if len(scope.UserIDs) > 0 {
			args = append(args, scope.UserIDs)
			query += fmt.Sprintf(" AND vendedor_id = ANY($%d)", len(args))
		}
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY last_message_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Conversation
	for rows.Next() {
		var c entity.Conversation
		if err := rows.Scan(
			&c.ID, &c.CompanyID, &c.VendedorID, &c.Channel, &c.ContactName,
			&c.ContactPhone, &c.Status, &c.EstimatedAmount, &c.LastMessageAt,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

func (r *ConversationRepo) Update(ctx context.Context, c *entity.Conversation) error {
	query := `
		UPDATE conversations
		SET vendedor_id = $2, status = $3, estimated_amount = $4,
		    last_message_at = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.db.Exec(ctx, query,
		c.ID, c.VendedorID, c.Status, c.EstimatedAmount, c.LastMessageAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update conversation: %w", err)
	}
	return nil
}
