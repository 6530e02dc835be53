package checkin

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const checkInCols = `id, user_id, check_in_date, mood, energy, stress, sleep,
	triggers, coping_strategies_used, reflection_completed, ai_interactions, created_at`

func (r *repoPG) scanCheckIn(row pgx.Row) (*CheckIn, error) {
	var c CheckIn
	var triggers []byte
	err := row.Scan(&c.ID, &c.UserID, &c.Date, &c.Mood, &c.Energy, &c.Stress, &c.Sleep,
		&triggers, &c.CopingStrategiesUsed, &c.ReflectionCompleted, &c.AIInteractions, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(triggers) > 0 {
		if err := json.Unmarshal(triggers, &c.Triggers); err != nil {
			return nil, fmt.Errorf("decode triggers: %w", err)
		}
	}
	return &c, nil
}

func (r *repoPG) Create(ctx context.Context, c *CheckIn) error {
	c.ID = uuid.New()
	triggers, err := json.Marshal(c.Triggers)
	if err != nil {
		return fmt.Errorf("encode triggers: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO check_in (id, user_id, check_in_date, mood, energy, stress, sleep,
			triggers, coping_strategies_used, reflection_completed, ai_interactions)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		c.ID, c.UserID, c.Date, c.Mood, c.Energy, c.Stress, c.Sleep,
		triggers, c.CopingStrategiesUsed, c.ReflectionCompleted, c.AIInteractions)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*CheckIn, error) {
	return r.scanCheckIn(r.pool.QueryRow(ctx,
		`SELECT `+checkInCols+` FROM check_in WHERE id = $1`, id))
}

func (r *repoPG) GetRecent(ctx context.Context, userID uuid.UUID, days int) ([]*CheckIn, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+checkInCols+` FROM check_in
		WHERE user_id = $1 AND check_in_date >= NOW() - ($2 || ' days')::interval
		ORDER BY check_in_date DESC`, userID, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*CheckIn
	for rows.Next() {
		c, err := r.scanCheckIn(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r *repoPG) GetAverageRatings(ctx context.Context, userID uuid.UUID, days int) (*AverageRatings, error) {
	var a AverageRatings
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(AVG(mood), 0), COALESCE(AVG(energy), 0),
		       COALESCE(AVG(stress), 0), COALESCE(AVG(sleep), 0)
		FROM check_in
		WHERE user_id = $1 AND check_in_date >= NOW() - ($2 || ' days')::interval`,
		userID, days).Scan(&a.Mood, &a.Energy, &a.Stress, &a.Sleep)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repoPG) GetStreak(ctx context.Context, userID uuid.UUID) (int, error) {
	// Count consecutive days back from today that have a check-in.
	var streak int
	err := r.pool.QueryRow(ctx, `
		WITH days AS (
			SELECT DISTINCT check_in_date::date AS d FROM check_in WHERE user_id = $1
		),
		numbered AS (
			SELECT d, ROW_NUMBER() OVER (ORDER BY d DESC) AS rn FROM days
		)
		SELECT COUNT(*) FROM numbered WHERE d = CURRENT_DATE - (rn - 1)::int`,
		userID).Scan(&streak)
	return streak, err
}

func (r *repoPG) IncrementAIInteractions(ctx context.Context, userID uuid.UUID, date time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE check_in SET ai_interactions = ai_interactions + 1
		WHERE user_id = $1 AND check_in_date::date = $2::date`,
		userID, date)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no check-in for user %s on %s", userID, date.Format("2006-01-02"))
	}
	return nil
}

func (r *repoPG) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*CheckIn, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM check_in WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+checkInCols+` FROM check_in WHERE user_id = $1
		ORDER BY check_in_date DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*CheckIn
	for rows.Next() {
		c, err := r.scanCheckIn(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}
