package speed

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

type SpeedRepo interface {
	Store(ctx context.Context, entry Entry) (int, error)
	// FindPage returns a page of entries, newest first. Zero bounds are open.
	FindPage(ctx context.Context, from, to time.Time, page, limit int) ([]Entry, int, error)
	// FindRange returns all entries within the bounds ordered by recording time.
	FindRange(ctx context.Context, from, to time.Time) ([]Entry, error)
}

type SpeedRepoImpl struct {
	db *sql.DB
}

func NewSpeedRepo(db *sql.DB) *SpeedRepoImpl {
	return &SpeedRepoImpl{db: db}
}

func (sr *SpeedRepoImpl) Store(ctx context.Context, entry Entry) (int, error) {
	query := "INSERT INTO speed_entries (recorded_at, speed, note) VALUES (?, ?, ?)"

	stmt, err := sr.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %v", err)
		log.Error(err)
		return 0, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, entry.RecordedAt.Unix(), entry.Speed, nullableString(entry.Note))
	if err != nil {
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

func (sr *SpeedRepoImpl) FindPage(ctx context.Context, from, to time.Time, page, limit int) ([]Entry, int, error) {
	whereClause, args := rangeWhere(from, to)

	var total int
	countQuery := "SELECT COUNT(*) FROM speed_entries" + whereClause
	if err := sr.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		err := fmt.Errorf("could not count speed entries: %w", err)
		log.Error(err)
		return nil, 0, err
	}

	query := "SELECT id, recorded_at, speed, note FROM speed_entries" +
		whereClause + " ORDER BY id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, (page-1)*limit)

	entries, err := sr.queryEntries(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (sr *SpeedRepoImpl) FindRange(ctx context.Context, from, to time.Time) ([]Entry, error) {
	whereClause, args := rangeWhere(from, to)
	query := "SELECT id, recorded_at, speed, note FROM speed_entries" +
		whereClause + " ORDER BY recorded_at ASC"
	return sr.queryEntries(ctx, query, args...)
}

func (sr *SpeedRepoImpl) queryEntries(ctx context.Context, query string, args ...interface{}) ([]Entry, error) {
	rows, err := sr.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query speed entries: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var recordedAt int64
		var note sql.NullString
		if err := rows.Scan(&entry.ID, &recordedAt, &entry.Speed, &note); err != nil {
			err := fmt.Errorf("could not scan speed entry: %w", err)
			log.Error(err)
			return nil, err
		}
		entry.RecordedAt = time.Unix(recordedAt, 0)
		entry.Note = note.String
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	return entries, nil
}

func rangeWhere(from, to time.Time) (string, []interface{}) {
	where := make([]string, 0, 2)
	args := make([]interface{}, 0, 2)
	if !from.IsZero() {
		where = append(where, "recorded_at >= ?")
		args = append(args, from.Unix())
	}
	if !to.IsZero() {
		where = append(where, "recorded_at < ?")
		args = append(args, to.Unix())
	}
	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
