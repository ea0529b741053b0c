package store

import (
	"context"
	"errors"
	"time"
)

// HabitLog is the outcome of one habit on one day. There is at most one per
// habit and date.
type HabitLog struct {
	ID           int64
	HabitID      int64
	Date         time.Time
	Completed    bool
	Skipped      bool
	Quantity     int
	PointsEarned int
	LoggedAt     time.Time
}

type DayPoints struct {
	Date   time.Time
	Points int
}

type CompletionStat struct {
	HabitID   int64
	HabitName string
	Completed int
	Days      int
}

// Rate is the share of logged days that were completed, 0 to 1.
func (c CompletionStat) Rate() float64 {
	if c.Days == 0 {
		return 0
	}

	return float64(c.Completed) / float64(c.Days)
}

// FormatDate renders the calendar date of t as stored in the database.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

func parseDate(value string) time.Time {
	parsed, err := time.ParseInLocation(DateFormat, value, time.Local)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

// LogCompletion records the outcome of a habit for a day, replacing any
// earlier record for the same habit and date.
func (s *Store) LogCompletion(ctx context.Context, entry HabitLog) error {
	const query = `
		INSERT INTO habit_logs (habit_id, date, completed, skipped, quantity, points_earned, logged_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (habit_id, date) DO UPDATE
		SET completed = excluded.completed,
		    skipped = excluded.skipped,
		    quantity = excluded.quantity,
		    points_earned = excluded.points_earned,
		    logged_at = excluded.logged_at`

	if _, err := s.db.ExecContext(ctx, query, entry.HabitID, FormatDate(entry.Date), boolInt(entry.Completed),
		boolInt(entry.Skipped), entry.Quantity, entry.PointsEarned); err != nil {
		return errors.Join(err, ErrQuery)
	}

	return nil
}

const logColumns = `id, habit_id, date, completed, skipped, quantity, points_earned, logged_at`

// Logs returns the logs of a habit between from and to inclusive, ordered by
// date. A zero from or to leaves that side open.
func (s *Store) Logs(ctx context.Context, habitID int64, from time.Time, to time.Time) ([]HabitLog, error) {
	query := "SELECT " + logColumns + " FROM habit_logs WHERE habit_id = ?"
	args := []any{habitID}

	if !from.IsZero() {
		query += " AND date >= ?"
		args = append(args, FormatDate(from))
	}

	if !to.IsZero() {
		query += " AND date <= ?"
		args = append(args, FormatDate(to))
	}

	query += " ORDER BY date"

	return s.queryLogs(ctx, query, args...)
}

// LogsOn returns every log of a single day ordered by habit.
func (s *Store) LogsOn(ctx context.Context, day time.Time) ([]HabitLog, error) {
	return s.queryLogs(ctx, "SELECT "+logColumns+" FROM habit_logs WHERE date = ? ORDER BY habit_id", FormatDate(day))
}

func (s *Store) queryLogs(ctx context.Context, query string, args ...any) ([]HabitLog, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Join(err, ErrQuery)
	}

	defer rows.Close()

	var logs []HabitLog

	for rows.Next() {
		var (
			entry    HabitLog
			date     string
			loggedAt string
		)

		if errScan := rows.Scan(&entry.ID, &entry.HabitID, &date, &entry.Completed, &entry.Skipped, &entry.Quantity,
			&entry.PointsEarned, &loggedAt); errScan != nil {
			return nil, errors.Join(errScan, ErrQuery)
		}

		entry.Date = parseDate(date)
		entry.LoggedAt = parseTimestamp(loggedAt)
		logs = append(logs, entry)
	}

	if errRows := rows.Err(); errRows != nil {
		return nil, errors.Join(errRows, ErrQuery)
	}

	return logs, nil
}

// PointsByDay sums the points earned per day between from and to inclusive.
// Days without logs are omitted.
func (s *Store) PointsByDay(ctx context.Context, from time.Time, to time.Time) ([]DayPoints, error) {
	const query = `
		SELECT date, SUM(points_earned)
		FROM habit_logs
		WHERE date >= ? AND date <= ?
		GROUP BY date
		ORDER BY date`

	rows, err := s.db.QueryContext(ctx, query, FormatDate(from), FormatDate(to))
	if err != nil {
		return nil, errors.Join(err, ErrQuery)
	}

	defer rows.Close()

	var days []DayPoints

	for rows.Next() {
		var (
			day  DayPoints
			date string
		)

		if errScan := rows.Scan(&date, &day.Points); errScan != nil {
			return nil, errors.Join(errScan, ErrQuery)
		}

		day.Date = parseDate(date)
		days = append(days, day)
	}

	if errRows := rows.Err(); errRows != nil {
		return nil, errors.Join(errRows, ErrQuery)
	}

	return days, nil
}

// CompletionStats counts, per habit with at least one log in the range, how
// many logged days were completed. Ordered by habit name.
func (s *Store) CompletionStats(ctx context.Context, from time.Time, to time.Time) ([]CompletionStat, error) {
	const query = `
		SELECT h.id, h.name, SUM(CASE WHEN l.completed = 1 THEN 1 ELSE 0 END), COUNT(l.id)
		FROM habits h
		JOIN habit_logs l ON l.habit_id = h.id
		WHERE l.date >= ? AND l.date <= ?
		GROUP BY h.id, h.name
		ORDER BY h.name`

	rows, err := s.db.QueryContext(ctx, query, FormatDate(from), FormatDate(to))
	if err != nil {
		return nil, errors.Join(err, ErrQuery)
	}

	defer rows.Close()

	var stats []CompletionStat

	for rows.Next() {
		var stat CompletionStat
		if errScan := rows.Scan(&stat.HabitID, &stat.HabitName, &stat.Completed, &stat.Days); errScan != nil {
			return nil, errors.Join(errScan, ErrQuery)
		}

		stats = append(stats, stat)
	}

	if errRows := rows.Err(); errRows != nil {
		return nil, errors.Join(errRows, ErrQuery)
	}

	return stats, nil
}
