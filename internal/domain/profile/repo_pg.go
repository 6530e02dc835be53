package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const profileCols = `id, user_id, current_stage, days_since_last_setback, total_recovery_days,
	personal_triggers, coping_strategies, support_contacts, created_at, updated_at`

func (r *repoPG) scanProfile(row pgx.Row) (*RecoveryProfile, error) {
	var p RecoveryProfile
	err := row.Scan(&p.ID, &p.UserID, &p.CurrentStage, &p.DaysSinceLastSetback, &p.TotalRecoveryDays,
		&p.PersonalTriggers, &p.CopingStrategies, &p.SupportContacts, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoPG) Create(ctx context.Context, p *RecoveryProfile) error {
	p.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO recovery_profile (id, user_id, current_stage, days_since_last_setback,
			total_recovery_days, personal_triggers, coping_strategies, support_contacts)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		p.ID, p.UserID, p.CurrentStage, p.DaysSinceLastSetback,
		p.TotalRecoveryDays, p.PersonalTriggers, p.CopingStrategies, p.SupportContacts)
	return err
}

func (r *repoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*RecoveryProfile, error) {
	return r.scanProfile(r.pool.QueryRow(ctx,
		`SELECT `+profileCols+` FROM recovery_profile WHERE user_id = $1`, userID))
}

func (r *repoPG) Update(ctx context.Context, p *RecoveryProfile) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE recovery_profile SET current_stage=$2, days_since_last_setback=$3,
			total_recovery_days=$4, personal_triggers=$5, coping_strategies=$6,
			support_contacts=$7, updated_at=NOW()
		WHERE user_id = $1`,
		p.UserID, p.CurrentStage, p.DaysSinceLastSetback,
		p.TotalRecoveryDays, p.PersonalTriggers, p.CopingStrategies, p.SupportContacts)
	return err
}

func (r *repoPG) UpdateStage(ctx context.Context, userID uuid.UUID, stage string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE recovery_profile SET current_stage=$2, updated_at=NOW() WHERE user_id = $1`,
		userID, stage)
	return err
}

func (r *repoPG) Delete(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM recovery_profile WHERE user_id = $1`, userID)
	return err
}
