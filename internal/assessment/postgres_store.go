package assessment

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore persists assessments in PostgreSQL. The schema is managed by
// goose (see migrations/).
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed assessment store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Record(ctx context.Context, a *Assessment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO risk_assessments (id, overall_risk_score, risk_level, ml_risk, address_risk, gas_risk, evaluated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		a.ID,
		a.OverallRiskScore,
		string(a.RiskLevel),
		a.MLRisk,
		a.AddressRisk,
		a.GasRisk,
		a.EvaluatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record assessment: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]*Assessment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, overall_risk_score, risk_level, ml_risk, address_risk, gas_risk, evaluated_at
		FROM risk_assessments
		ORDER BY evaluated_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*Assessment
	for rows.Next() {
		var a Assessment
		var level string
		if err := rows.Scan(&a.ID, &a.OverallRiskScore, &level, &a.MLRisk, &a.AddressRisk, &a.GasRisk, &a.EvaluatedAt); err != nil {
			continue
		}
		a.RiskLevel = Level(level)
		result = append(result, &a)
	}
	return result, rows.Err()
}
