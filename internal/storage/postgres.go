package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/imadezze/Qualip/internal/audit"
	"github.com/imadezze/Qualip/internal/domain"
)

// ErrSessionBusy is returned by Open when another run holds the chat session.
var ErrSessionBusy = errors.New("chat session is used by another audit run")

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const schema = `
CREATE TABLE IF NOT EXISTS chat_sessions (
	id UUID PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS chat_messages (
	id BIGSERIAL PRIMARY KEY,
	chat_session_id UUID NOT NULL REFERENCES chat_sessions(id) ON DELETE CASCADE,
	run_id UUID NOT NULL,
	criterion_id INT NOT NULL,
	role TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (run_id, criterion_id, role)
);

CREATE INDEX IF NOT EXISTS chat_messages_session_idx ON chat_messages (chat_session_id, id);
`

type ChatMessage struct {
	ID            int64     `json:"id"`
	ChatSessionID uuid.UUID `json:"chat_session_id"`
	RunID         uuid.UUID `json:"run_id"`
	CriterionID   int       `json:"criterion_id"`
	Role          string    `json:"role"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
}

// ChatExchange is one criterion's prompt and answer, appended atomically.
type ChatExchange struct {
	ChatSessionID uuid.UUID
	RunID         uuid.UUID
	CriterionID   int
	Roles         []string
	Contents      []string
}

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate creates the chat tables when they are missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate chat schema: %w", err)
	}
	return nil
}

// Open pins a connection for the audit run, registers the chat session and
// takes a session-level advisory lock on it so two runs never share one
// conversation. Close releases both.
func (s *PostgresStore) Open(ctx context.Context, chatSessionID uuid.UUID) (audit.Session, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.ExecContext(ctx, `
		INSERT INTO chat_sessions (id)
		VALUES ($1)
		ON CONFLICT (id) DO UPDATE SET updated_at = NOW()
	`, chatSessionID); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("register chat session: %w", err)
	}

	var locked bool
	if err := conn.QueryRowContext(ctx,
		`SELECT pg_try_advisory_lock(hashtextextended($1, 0))`, chatSessionID.String(),
	).Scan(&locked); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("lock chat session: %w", err)
	}
	if !locked {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: %s", ErrSessionBusy, chatSessionID)
	}

	return &postgresSession{id: chatSessionID, conn: conn}, nil
}

type postgresSession struct {
	id   uuid.UUID
	conn *sql.Conn

	once sync.Once
	err  error
}

func (s *postgresSession) ChatSessionID() uuid.UUID { return s.id }

// Close runs on a fresh context: the run context is usually already cancelled
// when a stream is torn down.
func (s *postgresSession) Close() error {
	s.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_, unlockErr := s.conn.ExecContext(ctx, `SELECT pg_advisory_unlock(hashtextextended($1, 0))`, s.id.String())
		s.err = errors.Join(unlockErr, s.conn.Close())
	})
	return s.err
}

// AppendExchange stores the messages of one criterion round trip. Retried
// appends of the same run and criterion are ignored.
func (s *PostgresStore) AppendExchange(ctx context.Context, ex ChatExchange) error {
	if len(ex.Roles) != len(ex.Contents) {
		return fmt.Errorf("chat exchange has %d roles for %d contents", len(ex.Roles), len(ex.Contents))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO chat_sessions (id)
		VALUES ($1)
		ON CONFLICT (id) DO UPDATE SET updated_at = NOW()
	`, ex.ChatSessionID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO chat_messages (chat_session_id, run_id, criterion_id, role, content)
		SELECT $1, $2, $3, m.role, m.content
		FROM unnest($4::text[], $5::text[]) WITH ORDINALITY AS m(role, content, ord)
		ORDER BY m.ord
		ON CONFLICT (run_id, criterion_id, role) DO NOTHING
	`, ex.ChatSessionID, ex.RunID, ex.CriterionID, pq.Array(ex.Roles), pq.Array(ex.Contents))
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	return nil
}

func (s *PostgresStore) ListChatMessages(ctx context.Context, chatSessionID uuid.UUID) ([]ChatMessage, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM chat_sessions WHERE id = $1)`, chatSessionID,
	).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: chat session %s", domain.ErrNotFound, chatSessionID)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, chat_session_id, run_id, criterion_id, role, content, created_at
		FROM chat_messages
		WHERE chat_session_id = $1
		ORDER BY id ASC
	`, chatSessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]ChatMessage, 0)
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.ID, &m.ChatSessionID, &m.RunID, &m.CriterionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
