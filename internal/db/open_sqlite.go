package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mithrel/mriynyk/pkg/api"
)

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return s.db.BeginTx(ctx, nil)
}

// conn returns the transaction carried by ctx, or the database handle.
func (s *sqliteStore) conn(ctx context.Context) querier {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return s.db
}

// Messages
func (s *sqliteStore) SendMessage(ctx context.Context, m api.Message, max int) (api.Message, error) {
	m, err := prepareMessage(m)
	if err != nil {
		return api.Message{}, err
	}
	tx, err := s.BeginTx(ctx)
	if err != nil {
		return api.Message{}, err
	}
	defer tx.Rollback()
	ctx = WithTx(ctx, tx)

	q := s.conn(ctx)
	_, err = q.ExecContext(ctx,
		`INSERT INTO messages(id, student_id, topic, subject, output, digest, created_at) VALUES(?,?,?,?,?,?,?)`,
		m.ID, m.StudentID, m.Topic, m.Subject, m.Output, m.Digest, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return api.Message{}, ErrConflict
		}
		return api.Message{}, err
	}
	if err := s.insertQuiz(ctx, m.ID, m.Quiz); err != nil {
		return api.Message{}, err
	}
	// Trim the student's history; quiz rows follow via ON DELETE CASCADE.
	_, err = q.ExecContext(ctx, `
DELETE FROM messages
WHERE student_id = ? AND seq NOT IN (
  SELECT seq FROM messages WHERE student_id = ? ORDER BY seq DESC LIMIT ?
)`, m.StudentID, m.StudentID, capOr(max, DefaultMessagesPerStudent))
	if err != nil {
		return api.Message{}, err
	}
	if err := tx.Commit(); err != nil {
		return api.Message{}, err
	}
	return m, nil
}

func (s *sqliteStore) insertQuiz(ctx context.Context, messageID string, qs []api.QuizQuestion) error {
	q := s.conn(ctx)
	for i, qq := range qs {
		opts, err := json.Marshal(qq.Options)
		if err != nil {
			return err
		}
		if _, err := q.ExecContext(ctx,
			`INSERT INTO quiz_questions(message_id, position, text, options) VALUES(?,?,?,?)`,
			messageID, i, qq.Text, string(opts)); err != nil {
			return err
		}
	}
	return nil
}

func (s *sqliteStore) loadQuiz(ctx context.Context, messageID string) ([]api.QuizQuestion, error) {
	rows, err := s.conn(ctx).QueryContext(ctx,
		`SELECT text, options FROM quiz_questions WHERE message_id = ? ORDER BY position`, messageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []api.QuizQuestion
	for rows.Next() {
		var qq api.QuizQuestion
		var opts string
		if err := rows.Scan(&qq.Text, &opts); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(opts), &qq.Options)
		out = append(out, qq)
	}
	return out, rows.Err()
}

const messageColumns = `id, student_id, topic, subject, output, digest, created_at`

func scanMessage(sc interface{ Scan(...any) error }) (api.Message, error) {
	var m api.Message
	var ts time.Time
	if err := sc.Scan(&m.ID, &m.StudentID, &m.Topic, &m.Subject, &m.Output, &m.Digest, &ts); err != nil {
		return api.Message{}, err
	}
	m.CreatedAt = ts.UTC()
	return m, nil
}

func (s *sqliteStore) ListMessages(ctx context.Context, studentID string, limit int) ([]api.Message, error) {
	q := `SELECT ` + messageColumns + ` FROM messages WHERE student_id = ? ORDER BY seq DESC`
	args := []any{studentID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	var out []api.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()
	for i := range out {
		if out[i].Quiz, err = s.loadQuiz(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *sqliteStore) GetMessage(ctx context.Context, id string) (api.Message, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = ?`, id)
	m, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return api.Message{}, ErrNotFound
		}
		return api.Message{}, err
	}
	if m.Quiz, err = s.loadQuiz(ctx, m.ID); err != nil {
		return api.Message{}, err
	}
	return m, nil
}

func (s *sqliteStore) ListStudents(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT student_id FROM messages ORDER BY student_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Activity
func (s *sqliteStore) AddActivity(ctx context.Context, a api.Activity, max int) (api.Activity, error) {
	a = prepareActivity(a)
	tx, err := s.BeginTx(ctx)
	if err != nil {
		return api.Activity{}, err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO activity(id, title, subtitle, created_at) VALUES(?,?,?,?)`,
		a.ID, a.Title, a.Subtitle, a.CreatedAt); err != nil {
		return api.Activity{}, err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM activity WHERE seq NOT IN (SELECT seq FROM activity ORDER BY seq DESC LIMIT ?)`,
		capOr(max, DefaultActivityLimit)); err != nil {
		return api.Activity{}, err
	}
	if err := tx.Commit(); err != nil {
		return api.Activity{}, err
	}
	return a, nil
}

func (s *sqliteStore) ListActivity(ctx context.Context, limit int) ([]api.Activity, error) {
	q := `SELECT id, title, subtitle, created_at FROM activity ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []api.Activity
	for rows.Next() {
		var a api.Activity
		var ts time.Time
		if err := rows.Scan(&a.ID, &a.Title, &a.Subtitle, &ts); err != nil {
			return nil, err
		}
		a.CreatedAt = ts.UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *sqliteStore) ClearActivity(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM activity`)
	return err
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// openSQLite connects to a SQLite database using modernc.org/sqlite driver and ensures schema exists.
func openSQLite(ctx context.Context, dsn string) (*Store, io.Closer, error) {
	path := strings.TrimPrefix(dsn, "sqlite://")
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, err
	}
	dbh, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, err
	}
	// pragmas are per connection
	dbh.SetMaxOpenConns(1)
	// set WAL mode
	if _, err := dbh.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	// enforce foreign keys
	if _, err := dbh.ExecContext(ctx, `PRAGMA foreign_keys=ON;`); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	if err := migrate(ctx, dbh); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	s := &sqliteStore{db: dbh}
	st := &Store{Messages: s, Activity: s}
	return st, dbh, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS messages (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  student_id TEXT NOT NULL,
  topic TEXT NOT NULL,
  subject TEXT NOT NULL,
  output TEXT NOT NULL,
  digest TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_student_seq ON messages(student_id, seq DESC);
CREATE TABLE IF NOT EXISTS quiz_questions (
  message_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  text TEXT NOT NULL,
  options TEXT NOT NULL,
  PRIMARY KEY(message_id, position),
  FOREIGN KEY(message_id) REFERENCES messages(id) ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS activity (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  title TEXT NOT NULL,
  subtitle TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL
);
`)
	return err
}
