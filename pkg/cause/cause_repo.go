package cause

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lineboard/lineboard/pkg/shift"
	log "github.com/sirupsen/logrus"
)

type CauseRepo interface {
	Store(ctx context.Context, cause Cause) (int, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Cause, int, error)
	FindByID(ctx context.Context, id int) (*Cause, error)
	Update(ctx context.Context, cause Cause) (bool, error)
	StatsPerCause(ctx context.Context, s shift.Shift, from string, to string) ([]StatsRow, error)
}

type CauseRepoImpl struct {
	db *sql.DB
}

func NewCauseRepo(db *sql.DB) *CauseRepoImpl {
	return &CauseRepoImpl{db: db}
}

func (cr *CauseRepoImpl) Store(ctx context.Context, cause Cause) (int, error) {
	query := "INSERT INTO causes (name, description, affects_trs, is_active) VALUES (?, ?, ?, ?)"

	stmt, err := cr.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %v", err)
		log.Error(err)
		return 0, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		cause.Name,
		nullableString(cause.Description),
		boolToInt(cause.AffectsTrs),
		boolToInt(cause.IsActive),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, ErrCauseNameTaken
		}
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return 0, err
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		err := fmt.Errorf("could not retrieve last insert id: %w", err)
		log.Error(err)
		return 0, err
	}

	return int(lastInsertID), nil
}

func (cr *CauseRepoImpl) FindAll(ctx context.Context, filter ListFilter) ([]Cause, int, error) {
	where := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)

	if filter.Search != "" {
		where = append(where, "(name LIKE ? OR description LIKE ?)")
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}
	if filter.IsActive != nil {
		where = append(where, "is_active = ?")
		args = append(args, boolToInt(*filter.IsActive))
	}
	if filter.AffectsTrs != nil {
		where = append(where, "affects_trs = ?")
		args = append(args, boolToInt(*filter.AffectsTrs))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM causes" + whereClause
	if err := cr.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		err := fmt.Errorf("could not count causes: %w", err)
		log.Error(err)
		return nil, 0, err
	}

	query := "SELECT id, name, description, affects_trs, is_active FROM causes" +
		whereClause + " ORDER BY name ASC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := cr.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query causes: %w", err)
		log.Error(err)
		return nil, 0, err
	}
	defer rows.Close()

	var causes []Cause
	for rows.Next() {
		cause, err := scanCause(rows)
		if err != nil {
			err := fmt.Errorf("could not scan cause: %w", err)
			log.Error(err)
			return nil, 0, err
		}
		causes = append(causes, cause)
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, 0, err
	}

	return causes, total, nil
}

func (cr *CauseRepoImpl) FindByID(ctx context.Context, id int) (*Cause, error) {
	query := "SELECT id, name, description, affects_trs, is_active FROM causes WHERE id = ?"

	row := cr.db.QueryRowContext(ctx, query, id)
	cause, err := scanCause(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCauseNotFound
		}
		err := fmt.Errorf("could not scan cause: %w", err)
		log.Error(err)
		return nil, err
	}

	return &cause, nil
}

func (cr *CauseRepoImpl) Update(ctx context.Context, cause Cause) (bool, error) {
	query := "UPDATE causes SET name = ?, description = ?, affects_trs = ?, is_active = ? WHERE id = ?"

	stmt, err := cr.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %v", err)
		log.Error(err)
		return false, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		cause.Name,
		nullableString(cause.Description),
		boolToInt(cause.AffectsTrs),
		boolToInt(cause.IsActive),
		cause.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return false, ErrCauseNameTaken
		}
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return false, err
	}
	return rowsAffected == 1, nil
}

// StatsPerCause sums closed-stop downtime and counts stops per cause for the
// given shift and day range. Filters belong in the LEFT JOIN condition, not a
// WHERE clause, so causes without matching stops keep a zero row.
func (cr *CauseRepoImpl) StatsPerCause(ctx context.Context, s shift.Shift, from string, to string) ([]StatsRow, error) {
	joinParts := []string{"s.cause_id = c.id", "s.shift = ?"}
	args := []interface{}{int(s)}

	if from != "" {
		joinParts = append(joinParts, "s.day >= ?")
		args = append(args, from)
	}
	if to != "" {
		joinParts = append(joinParts, "s.day <= ?")
		args = append(args, to)
	}

	query := fmt.Sprintf(`
		SELECT c.id, c.name, c.affects_trs,
			   COALESCE(SUM(s.duration_seconds), 0) AS total_duration,
			   COUNT(s.id)
		FROM causes c
		LEFT JOIN stops s ON %s
		GROUP BY c.id, c.name, c.affects_trs
		ORDER BY total_duration DESC, c.name ASC`,
		strings.Join(joinParts, " AND "),
	)

	rows, err := cr.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query cause stats: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var stats []StatsRow
	for rows.Next() {
		var row StatsRow
		var affectsTrs int
		if err := rows.Scan(&row.CauseID, &row.Name, &affectsTrs, &row.TotalDurationSeconds, &row.StopCount); err != nil {
			err := fmt.Errorf("could not scan cause stats row: %w", err)
			log.Error(err)
			return nil, err
		}
		row.AffectsTrs = affectsTrs == 1
		stats = append(stats, row)
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCause(row rowScanner) (Cause, error) {
	var cause Cause
	var description sql.NullString
	var affectsTrs, isActive int
	if err := row.Scan(&cause.ID, &cause.Name, &description, &affectsTrs, &isActive); err != nil {
		return Cause{}, err
	}
	cause.Description = description.String
	cause.AffectsTrs = affectsTrs == 1
	cause.IsActive = isActive == 1
	return cause, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
