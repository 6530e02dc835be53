package milestone

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) Create(ctx context.Context, m *Milestone) error {
	m.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO milestone (id, user_id, title, description, days_marker, achieved_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		m.ID, m.UserID, m.Title, m.Description, m.DaysMarker, m.AchievedAt)
	return err
}

func (r *repoPG) GetRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*Milestone, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, title, description, days_marker, achieved_at, created_at
		FROM milestone WHERE user_id = $1
		ORDER BY achieved_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Milestone
	for rows.Next() {
		var m Milestone
		if err := rows.Scan(&m.ID, &m.UserID, &m.Title, &m.Description,
			&m.DaysMarker, &m.AchievedAt, &m.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &m)
	}
	return items, rows.Err()
}
