package store

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/maumlabs/anbu/internal/core"
	"github.com/maumlabs/anbu/internal/core/model"
)

// FamilyRepository reads the family aggregate owned by the membership
// service. The pipeline never writes families.
type FamilyRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewFamilyRepository(db *sql.DB, logger *zap.Logger) *FamilyRepository {
	return &FamilyRepository{db: db, logger: logger}
}

func (r *FamilyRepository) GetFamily(ctx context.Context, familyID string) (*model.Family, error) {
	query := `
		SELECT family_id, name, created_at
		FROM families
		WHERE family_id = $1
	`

	var f model.Family
	err := r.db.QueryRowContext(ctx, query, familyID).Scan(&f.ID, &f.Name, &f.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("family %s: %w", familyID, core.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	return &f, nil
}

// ListFamilyIDs returns every family id, for batch scheduling.
func (r *FamilyRepository) ListFamilyIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT family_id FROM families ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list families: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan family id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate families: %w", err)
	}
	return ids, nil
}
