package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DateFormat is the layout of every date column.
	DateFormat      = "2006-01-02"
	timestampFormat = "2006-01-02 15:04:05"
)

type Category string

const (
	Good Category = "good"
	Bad  Category = "bad"
)

type HabitType string

const (
	Binary      HabitType = "binary"
	Incremental HabitType = "incremental"
)

type Period string

const (
	Day  Period = "day"
	Week Period = "week"
)

var (
	errRecurrence = errors.New("invalid recurrence")
	errHabit      = errors.New("invalid habit")
)

// Recurrence is how often a habit is due: Count times per Period.
type Recurrence struct {
	Count  int
	Period Period
}

var Daily = Recurrence{Count: 1, Period: Day}

func (r Recurrence) String() string {
	return strconv.Itoa(r.Count) + "/" + string(r.Period)
}

// ParseRecurrence reads the "<n>/<period>" form. The bare words daily and
// weekly written by older versions are accepted too.
func ParseRecurrence(value string) (Recurrence, error) {
	switch strings.TrimSpace(value) {
	case "", "daily":
		return Daily, nil
	case "weekly":
		return Recurrence{Count: 1, Period: Week}, nil
	}

	countText, periodText, found := strings.Cut(value, "/")
	if !found {
		return Recurrence{}, fmt.Errorf("%w: %q", errRecurrence, value)
	}

	count, err := strconv.Atoi(countText)
	if err != nil || count < 1 {
		return Recurrence{}, fmt.Errorf("%w: %q", errRecurrence, value)
	}

	period := Period(periodText)
	if period != Day && period != Week {
		return Recurrence{}, fmt.Errorf("%w: %q", errRecurrence, value)
	}

	return Recurrence{Count: count, Period: period}, nil
}

type Habit struct {
	ID        int64
	Name      string
	Type      HabitType
	PointsPer int
	Category  Category
	// TargetTime is an optional "HH:MM" the habit should be done by.
	TargetTime  string
	GracePeriod int
	Recurrence  Recurrence
	Active      bool
	Reminder    bool
	CreatedAt   time.Time
}

func (h Habit) validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("%w: name is empty", errHabit)
	}

	if h.Category != Good && h.Category != Bad {
		return fmt.Errorf("%w: category %q", errHabit, h.Category)
	}

	if h.Type != Binary && h.Type != Incremental {
		return fmt.Errorf("%w: type %q", errHabit, h.Type)
	}

	return nil
}

// CreateHabit inserts a new habit and returns its id.
func (s *Store) CreateHabit(ctx context.Context, habit Habit) (int64, error) {
	if err := habit.validate(); err != nil {
		return 0, err
	}

	const query = `
		INSERT INTO habits (name, type, points_per, category, target_time, grace_period, recurrence, active, reminder)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := s.db.ExecContext(ctx, query, habit.Name, string(habit.Type), habit.PointsPer, string(habit.Category),
		nullString(habit.TargetTime), habit.GracePeriod, habit.Recurrence.String(), boolInt(habit.Active),
		boolInt(habit.Reminder))
	if err != nil {
		return 0, errors.Join(err, ErrQuery)
	}

	habitID, errID := result.LastInsertId()
	if errID != nil {
		return 0, errors.Join(errID, ErrQuery)
	}

	return habitID, nil
}

func (s *Store) UpdateHabit(ctx context.Context, habit Habit) error {
	if err := habit.validate(); err != nil {
		return err
	}

	const query = `
		UPDATE habits
		SET name = ?, type = ?, points_per = ?, category = ?, target_time = ?, grace_period = ?,
		    recurrence = ?, active = ?, reminder = ?
		WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, habit.Name, string(habit.Type), habit.PointsPer, string(habit.Category),
		nullString(habit.TargetTime), habit.GracePeriod, habit.Recurrence.String(), boolInt(habit.Active),
		boolInt(habit.Reminder), habit.ID)
	if err != nil {
		return errors.Join(err, ErrQuery)
	}

	return expectRow(result)
}

// DeleteHabit removes the habit along with its logs.
func (s *Store) DeleteHabit(ctx context.Context, habitID int64) error {
	transaction, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Join(err, ErrQuery)
	}

	defer func() { _ = transaction.Rollback() }()

	if _, errLogs := transaction.ExecContext(ctx, "DELETE FROM habit_logs WHERE habit_id = ?", habitID); errLogs != nil {
		return errors.Join(errLogs, ErrQuery)
	}

	result, errHabit := transaction.ExecContext(ctx, "DELETE FROM habits WHERE id = ?", habitID)
	if errHabit != nil {
		return errors.Join(errHabit, ErrQuery)
	}

	if errRow := expectRow(result); errRow != nil {
		return errRow
	}

	if errCommit := transaction.Commit(); errCommit != nil {
		return errors.Join(errCommit, ErrQuery)
	}

	return nil
}

const habitColumns = `id, name, type, points_per, category, target_time, grace_period, recurrence, active, reminder, created_at`

// Habits lists habits in creation order.
func (s *Store) Habits(ctx context.Context, activeOnly bool) ([]Habit, error) {
	query := "SELECT " + habitColumns + " FROM habits"
	if activeOnly {
		query += " WHERE active = 1"
	}

	query += " ORDER BY created_at, id"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Join(err, ErrQuery)
	}

	defer rows.Close()

	var habits []Habit

	for rows.Next() {
		habit, errScan := scanHabit(rows)
		if errScan != nil {
			return nil, errScan
		}

		habits = append(habits, habit)
	}

	if errRows := rows.Err(); errRows != nil {
		return nil, errors.Join(errRows, ErrQuery)
	}

	return habits, nil
}

func (s *Store) Habit(ctx context.Context, habitID int64) (Habit, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+habitColumns+" FROM habits WHERE id = ?", habitID)

	habit, err := scanHabit(row)
	if err != nil {
		return Habit{}, err
	}

	return habit, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(row scanner) (Habit, error) {
	var (
		habit      Habit
		targetTime sql.NullString
		recurrence string
		createdAt  string
	)

	if err := row.Scan(&habit.ID, &habit.Name, &habit.Type, &habit.PointsPer, &habit.Category, &targetTime,
		&habit.GracePeriod, &recurrence, &habit.Active, &habit.Reminder, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Habit{}, ErrNotFound
		}

		return Habit{}, errors.Join(err, ErrQuery)
	}

	parsed, errRecur := ParseRecurrence(recurrence)
	if errRecur != nil {
		return Habit{}, errRecur
	}

	habit.Recurrence = parsed
	habit.TargetTime = targetTime.String
	habit.CreatedAt = parseTimestamp(createdAt)

	return habit, nil
}

func boolInt(value bool) int {
	if value {
		return 1
	}

	return 0
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func parseTimestamp(value string) time.Time {
	parsed, err := time.ParseInLocation(timestampFormat, value, time.UTC)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func expectRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Join(err, ErrQuery)
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
