package stop

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lineboard/lineboard/pkg/cause"
	"github.com/lineboard/lineboard/pkg/shift"
	log "github.com/sirupsen/logrus"
)

type StopRepo interface {
	Store(ctx context.Context, stop Stop) (int, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Stop, int, error)
	FindByID(ctx context.Context, id int) (*Stop, error)
	Update(ctx context.Context, stop Stop) (bool, error)
	// FindForAnalytics returns stop intervals for one shift within the given
	// attribution-day range, joined with the cause TRS flag. Closed stops not
	// longer than microStopMax seconds are filtered out; open stops always
	// pass. microStopMax 0 disables the filter.
	FindForAnalytics(ctx context.Context, s shift.Shift, from, to string, microStopMax int) ([]AnalyticsRow, error)
}

type StopRepoImpl struct {
	db *sql.DB
}

func NewStopRepo(db *sql.DB) *StopRepoImpl {
	return &StopRepoImpl{db: db}
}

func (sr *StopRepoImpl) Store(ctx context.Context, stop Stop) (int, error) {
	query := `INSERT INTO stops (day, start_time, end_time, duration_seconds, shift, cause_id)
			  VALUES (?, ?, ?, ?, ?, ?)`

	stmt, err := sr.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %v", err)
		log.Error(err)
		return 0, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		stop.Day,
		stop.StartTime,
		nullableStringPtr(stop.EndTime),
		nullableIntPtr(stop.DurationSeconds),
		int(stop.Shift),
		stop.CauseID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return 0, ErrUnknownCause
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

func (sr *StopRepoImpl) FindAll(ctx context.Context, filter ListFilter) ([]Stop, int, error) {
	where := make([]string, 0, 4)
	args := make([]interface{}, 0, 6)

	if filter.CauseID != 0 {
		where = append(where, "s.cause_id = ?")
		args = append(args, filter.CauseID)
	}
	if filter.Shift != nil {
		where = append(where, "s.shift = ?")
		args = append(args, int(*filter.Shift))
	}
	if filter.From != "" {
		where = append(where, "s.day >= ?")
		args = append(args, filter.From)
	}
	if filter.To != "" {
		where = append(where, "s.day <= ?")
		args = append(args, filter.To)
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM stops s" + whereClause
	if err := sr.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		err := fmt.Errorf("could not count stops: %w", err)
		log.Error(err)
		return nil, 0, err
	}

	query := `SELECT s.id, s.day, s.start_time, s.end_time, s.duration_seconds, s.shift, s.cause_id,
					 c.id, c.name, c.description, c.affects_trs, c.is_active
			  FROM stops s
			  LEFT JOIN causes c ON c.id = s.cause_id` +
		whereClause + " ORDER BY s.id DESC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := sr.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query stops: %w", err)
		log.Error(err)
		return nil, 0, err
	}
	defer rows.Close()

	var stops []Stop
	for rows.Next() {
		stop, err := scanStop(rows)
		if err != nil {
			err := fmt.Errorf("could not scan stop: %w", err)
			log.Error(err)
			return nil, 0, err
		}
		stops = append(stops, stop)
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, 0, err
	}

	return stops, total, nil
}

func (sr *StopRepoImpl) FindByID(ctx context.Context, id int) (*Stop, error) {
	query := `SELECT s.id, s.day, s.start_time, s.end_time, s.duration_seconds, s.shift, s.cause_id,
					 c.id, c.name, c.description, c.affects_trs, c.is_active
			  FROM stops s
			  LEFT JOIN causes c ON c.id = s.cause_id
			  WHERE s.id = ?`

	row := sr.db.QueryRowContext(ctx, query, id)
	stop, err := scanStop(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStopNotFound
		}
		err := fmt.Errorf("could not scan stop: %w", err)
		log.Error(err)
		return nil, err
	}

	return &stop, nil
}

func (sr *StopRepoImpl) Update(ctx context.Context, stop Stop) (bool, error) {
	query := `UPDATE stops SET
				  day = ?,
				  start_time = ?,
				  end_time = ?,
				  duration_seconds = ?,
				  cause_id = ?
			  WHERE id = ?`

	stmt, err := sr.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %v", err)
		log.Error(err)
		return false, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		stop.Day,
		stop.StartTime,
		nullableStringPtr(stop.EndTime),
		nullableIntPtr(stop.DurationSeconds),
		stop.CauseID,
		stop.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return false, ErrUnknownCause
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

func (sr *StopRepoImpl) FindForAnalytics(ctx context.Context, s shift.Shift, from, to string, microStopMax int) ([]AnalyticsRow, error) {
	where := []string{"s.shift = ?"}
	args := []interface{}{int(s)}

	if microStopMax > 0 {
		where = append(where, "(s.end_time IS NULL OR s.duration_seconds > ?)")
		args = append(args, microStopMax)
	}
	if from != "" {
		where = append(where, "s.day >= ?")
		args = append(args, from)
	}
	if to != "" {
		where = append(where, "s.day <= ?")
		args = append(args, to)
	}

	query := `SELECT s.day, s.start_time, s.end_time, s.duration_seconds, COALESCE(c.affects_trs, 0)
			  FROM stops s
			  LEFT JOIN causes c ON c.id = s.cause_id
			  WHERE ` + strings.Join(where, " AND ") + `
			  ORDER BY s.day DESC, s.start_time ASC`

	rows, err := sr.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query stops for analytics: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var result []AnalyticsRow
	for rows.Next() {
		var row AnalyticsRow
		var endTime sql.NullString
		var duration sql.NullInt64
		var affectsTrs int
		if err := rows.Scan(&row.Day, &row.StartTime, &endTime, &duration, &affectsTrs); err != nil {
			err := fmt.Errorf("could not scan analytics row: %w", err)
			log.Error(err)
			return nil, err
		}
		if endTime.Valid {
			v := endTime.String
			row.EndTime = &v
		}
		if duration.Valid {
			v := int(duration.Int64)
			row.DurationSeconds = &v
		}
		row.AffectsTrs = affectsTrs == 1
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStop(row rowScanner) (Stop, error) {
	var stop Stop
	var endTime sql.NullString
	var duration sql.NullInt64
	var shiftNumber int
	var causeID sql.NullInt64
	var causeName, causeDescription sql.NullString
	var causeAffectsTrs, causeIsActive sql.NullInt64

	if err := row.Scan(
		&stop.ID,
		&stop.Day,
		&stop.StartTime,
		&endTime,
		&duration,
		&shiftNumber,
		&stop.CauseID,
		&causeID,
		&causeName,
		&causeDescription,
		&causeAffectsTrs,
		&causeIsActive,
	); err != nil {
		return Stop{}, err
	}

	if endTime.Valid {
		v := endTime.String
		stop.EndTime = &v
	}
	if duration.Valid {
		v := int(duration.Int64)
		stop.DurationSeconds = &v
	}
	stop.Shift = shift.Shift(shiftNumber)
	if causeID.Valid {
		stop.Cause = &cause.Cause{
			ID:          int(causeID.Int64),
			Name:        causeName.String,
			Description: causeDescription.String,
			AffectsTrs:  causeAffectsTrs.Int64 == 1,
			IsActive:    causeIsActive.Int64 == 1,
		}
	}
	return stop, nil
}

func nullableStringPtr(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func nullableIntPtr(n *int) interface{} {
	if n == nil {
		return nil
	}
	return *n
}
