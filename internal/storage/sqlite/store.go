package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"taskflow/internal/models"
	"taskflow/internal/storage"
)

// Store wraps access to the SQLite database and implements storage.Store.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open initializes a new SQLite store and runs the required migrations.
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("empty database path")
	}

	if logger == nil {
		logger = slog.Default()
	}

	if err := ensureDir(dbPath); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=ON", dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	s := &Store{db: conn, logger: logger}
	if err := s.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the database resources.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func ensureDir(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS categories (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            color TEXT NOT NULL DEFAULT '',
            icon TEXT NOT NULL DEFAULT 'Folder'
        );`,
		`CREATE TABLE IF NOT EXISTS tasks (
            id TEXT PRIMARY KEY,
            title TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            category_id TEXT,
            priority TEXT NOT NULL DEFAULT 'medium',
            status TEXT NOT NULL DEFAULT 'pending',
            due_date DATETIME,
            created_at DATETIME NOT NULL,
            completed_at DATETIME,
            ord INTEGER NOT NULL DEFAULT 0
        );`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_category ON tasks(category_id);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

const taskColumns = `id, title, description, category_id, priority, status, due_date, created_at, completed_at, ord`

// ListTasks retrieves all tasks in creation order.
func (s *Store) ListTasks(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, &storage.StorageError{Op: "list tasks", Err: err}
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, &storage.StorageError{Op: "scan task", Err: err}
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, &storage.StorageError{Op: "list tasks", Err: err}
	}
	return tasks, nil
}

// GetTask fetches a single task by id.
func (s *Store) GetTask(ctx context.Context, id string) (models.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Task{}, &storage.StorageError{Op: "get task", Err: err}
	}
	return t, nil
}

// CreateTask inserts a task, assigning its id.
func (s *Store) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	task.ID = uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Title, task.Description, nullString(task.CategoryID),
		string(task.Priority), string(task.Status), nullTime(task.DueDate),
		task.CreatedAt, nullTime(task.CompletedAt), task.Order)
	if err != nil {
		return models.Task{}, &storage.StorageError{Op: "insert task", Err: err}
	}
	return task, nil
}

// UpdateTask replaces the record identified by task.ID.
func (s *Store) UpdateTask(ctx context.Context, task models.Task) (models.Task, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, category_id = ?, priority = ?,
            status = ?, due_date = ?, created_at = ?, completed_at = ?, ord = ? WHERE id = ?`,
		task.Title, task.Description, nullString(task.CategoryID),
		string(task.Priority), string(task.Status), nullTime(task.DueDate),
		task.CreatedAt, nullTime(task.CompletedAt), task.Order, task.ID)
	if err != nil {
		return models.Task{}, &storage.StorageError{Op: "update task", Err: err}
	}
	if err := requireAffected(res); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// DeleteTask removes a task by id.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return &storage.StorageError{Op: "delete task", Err: err}
	}
	return requireAffected(res)
}

// ListCategories retrieves all categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, color, icon FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, &storage.StorageError{Op: "list categories", Err: err}
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.Icon); err != nil {
			return nil, &storage.StorageError{Op: "scan category", Err: err}
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &storage.StorageError{Op: "list categories", Err: err}
	}
	return categories, nil
}

// GetCategory fetches a single category by id.
func (s *Store) GetCategory(ctx context.Context, id string) (models.Category, error) {
	var c models.Category
	err := s.db.QueryRowContext(ctx, `SELECT id, name, color, icon FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Color, &c.Icon)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Category{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Category{}, &storage.StorageError{Op: "get category", Err: err}
	}
	return c, nil
}

// CreateCategory inserts a category, assigning its id.
func (s *Store) CreateCategory(ctx context.Context, category models.Category) (models.Category, error) {
	category.ID = uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, color, icon) VALUES (?, ?, ?, ?)`,
		category.ID, category.Name, category.Color, category.Icon)
	if err != nil {
		return models.Category{}, &storage.StorageError{Op: "insert category", Err: err}
	}
	return category, nil
}

// UpdateCategory replaces the record identified by category.ID.
func (s *Store) UpdateCategory(ctx context.Context, category models.Category) (models.Category, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, color = ?, icon = ? WHERE id = ?`,
		category.Name, category.Color, category.Icon, category.ID)
	if err != nil {
		return models.Category{}, &storage.StorageError{Op: "update category", Err: err}
	}
	if err := requireAffected(res); err != nil {
		return models.Category{}, err
	}
	return category, nil
}

// DeleteCategory removes a category by id. Referential checks run in the
// caller before this is reached.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return &storage.StorageError{Op: "delete category", Err: err}
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return &storage.StorageError{Op: "rows affected", Err: err}
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var (
		t           models.Task
		categoryID  sql.NullString
		priority    string
		status      string
		dueDate     sql.NullTime
		completedAt sql.NullTime
	)
	err := row.Scan(&t.ID, &t.Title, &t.Description, &categoryID, &priority,
		&status, &dueDate, &t.CreatedAt, &completedAt, &t.Order)
	if err != nil {
		return models.Task{}, err
	}
	if categoryID.Valid {
		t.CategoryID = &categoryID.String
	}
	t.Priority = models.Priority(priority)
	t.Status = models.Status(status)
	if dueDate.Valid {
		due := dueDate.Time
		t.DueDate = &due
	}
	if completedAt.Valid {
		completed := completedAt.Time
		t.CompletedAt = &completed
	}
	return t, nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}
