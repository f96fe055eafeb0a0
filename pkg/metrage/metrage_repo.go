package metrage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

type MetrageRepo interface {
	Store(ctx context.Context, entry Entry) (int, error)
	// FindPage returns a page of entries, newest first. Zero bounds are open.
	FindPage(ctx context.Context, from, to time.Time, page, limit int) ([]Entry, int, error)
	// FindRange returns all entries within the bounds ordered by recording time.
	FindRange(ctx context.Context, from, to time.Time) ([]Entry, error)
}

type MetrageRepoImpl struct {
	db *sql.DB
}

func NewMetrageRepo(db *sql.DB) *MetrageRepoImpl {
	return &MetrageRepoImpl{db: db}
}

func (mr *MetrageRepoImpl) Store(ctx context.Context, entry Entry) (int, error) {
	query := "INSERT INTO metrage_entries (recorded_at, meters, note) VALUES (?, ?, ?)"

	stmt, err := mr.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %v", err)
		log.Error(err)
		return 0, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, entry.RecordedAt.Unix(), entry.Meters, nullableString(entry.Note))
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

func (mr *MetrageRepoImpl) FindPage(ctx context.Context, from, to time.Time, page, limit int) ([]Entry, int, error) {
	whereClause, args := rangeWhere(from, to)

	var total int
	countQuery := "SELECT COUNT(*) FROM metrage_entries" + whereClause
	if err := mr.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		err := fmt.Errorf("could not count meterage entries: %w", err)
		log.Error(err)
		return nil, 0, err
	}

	query := "SELECT id, recorded_at, meters, note FROM metrage_entries" +
		whereClause + " ORDER BY id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, (page-1)*limit)

	entries, err := mr.queryEntries(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (mr *MetrageRepoImpl) FindRange(ctx context.Context, from, to time.Time) ([]Entry, error) {
	whereClause, args := rangeWhere(from, to)
	query := "SELECT id, recorded_at, meters, note FROM metrage_entries" +
		whereClause + " ORDER BY recorded_at ASC"
	return mr.queryEntries(ctx, query, args...)
}

func (mr *MetrageRepoImpl) queryEntries(ctx context.Context, query string, args ...interface{}) ([]Entry, error) {
	rows, err := mr.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query meterage entries: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var recordedAt int64
		var note sql.NullString
		if err := rows.Scan(&entry.ID, &recordedAt, &entry.Meters, &note); err != nil {
			err := fmt.Errorf("could not scan meterage entry: %w", err)
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
