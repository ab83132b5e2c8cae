package customernote

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/bindrop/BDR-RentalService/internal/domain"
	"github.com/bindrop/BDR-RentalService/pkg/dbmetrics"
	"github.com/bindrop/BDR-RentalService/pkg/psqlbuilder"
)

// Repository репозиторий заметок о клиентах
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория заметок
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает заметку о клиенте
func (r *Repository) Create(ctx context.Context, note *domain.CustomerNote) (*domain.CustomerNote, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("customer_notes").
		Columns("customer_id", "author_id", "note_text").
		Values(note.CustomerID, note.AuthorID, note.Text).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&note.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	note.CreatedAt = createdAt.Time

	return note, nil
}

// GetByCustomerID получает заметки о клиенте, новые первыми
func (r *Repository) GetByCustomerID(ctx context.Context, customerID int64) ([]*domain.CustomerNote, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"customer_id",
		"author_id",
		"note_text",
		"created_at",
	).
		From("customer_notes").
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("created_at DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	notes := make([]*domain.CustomerNote, 0)
	for rows.Next() {
		var note domain.CustomerNote
		var createdAt sql.NullTime
		if err := rows.Scan(&note.ID, &note.CustomerID, &note.AuthorID, &note.Text, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: GetByCustomerID - scan note: %v", ErrScanRow, err)
		}
		note.CreatedAt = createdAt.Time
		notes = append(notes, &note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - rows error: %v", ErrScanRow, err)
	}

	return notes, nil
}
