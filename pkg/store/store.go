// Package store persists the user directory and per-user chat history in
// SQLite. It is a thin collaborator: the chat pipeline only needs to know
// whether a username is enrolled and what the recent transcript looks like.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"go.mau.fi/util/dbutil"
)

const (
	DefaultMaxMessagesPerUser = 200
	DefaultMaxMessageChars    = 4000
)

// Config locates the database and bounds what gets kept per user.
type Config struct {
	Path               string `yaml:"path"`
	MaxMessagesPerUser int    `yaml:"max_messages_per_user"`
	MaxMessageChars    int    `yaml:"max_message_chars"`
}

func (c Config) WithDefaults() Config {
	if c.Path == "" {
		c.Path = "tutorbridge.db"
	}
	if c.MaxMessagesPerUser <= 0 {
		c.MaxMessagesPerUser = DefaultMaxMessagesPerUser
	}
	if c.MaxMessageChars <= 0 {
		c.MaxMessageChars = DefaultMaxMessageChars
	}
	return c
}

// Message is one persisted transcript entry. IDs are k-sortable, so insert
// order and lexical ID order agree.
type Message struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"created_at"`
}

type Store struct {
	db          *dbutil.Database
	maxMessages int
	maxChars    int
	log         zerolog.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	username   TEXT NOT NULL PRIMARY KEY,
	role       TEXT NOT NULL DEFAULT 'student',
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS messages (
	id         TEXT NOT NULL PRIMARY KEY,
	username   TEXT NOT NULL,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_username ON messages (username, id);
`

// Open opens (creating if needed) the SQLite database at cfg.Path and
// ensures the schema. Use ":memory:" for an ephemeral store.
func Open(ctx context.Context, cfg Config, log zerolog.Logger) (*Store, error) {
	cfg = cfg.WithDefaults()
	raw, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %s: %w", cfg.Path, err)
	}
	db, err := dbutil.NewWithDB(raw, "sqlite3")
	if err != nil {
		return nil, fmt.Errorf("wrap sqlite db: %w", err)
	}
	if _, err := db.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{
		db:          db,
		maxMessages: cfg.MaxMessagesPerUser,
		maxChars:    cfg.MaxMessageChars,
		log:         log.With().Str("component", "store").Logger(),
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertUser enrolls a username, updating its role if already present.
func (s *Store) UpsertUser(ctx context.Context, username, role string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username is empty")
	}
	if role == "" {
		role = "student"
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO users (username, role, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (username) DO UPDATE SET role=excluded.role`,
		username, role, time.Now().UnixMilli(),
	)
	return err
}

// IsKnownUser reports whether the username is enrolled.
func (s *Store) IsKnownUser(ctx context.Context, username string) (bool, error) {
	var role string
	row := s.db.QueryRow(ctx, `SELECT role FROM users WHERE username=$1`, username)
	if err := row.Scan(&role); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// AppendMessage persists one transcript entry for the user, clipping the
// content to the per-message cap and pruning the oldest entries beyond the
// per-user count cap. Returns the new message ID.
func (s *Store) AppendMessage(ctx context.Context, username, role, content string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", fmt.Errorf("username is empty")
	}
	if runes := []rune(content); len(runes) > s.maxChars {
		content = string(runes[:s.maxChars])
	}
	id := xid.New().String()
	_, err := s.db.Exec(ctx,
		`INSERT INTO messages (id, username, role, content, created_at) VALUES ($1, $2, $3, $4, $5)`,
		id, username, role, content, time.Now().UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("insert message: %w", err)
	}
	if err := s.pruneMessages(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("user", username).Msg("failed to prune old messages")
	}
	return id, nil
}

func (s *Store) pruneMessages(ctx context.Context, username string) error {
	_, err := s.db.Exec(ctx,
		`DELETE FROM messages WHERE username=$1 AND id NOT IN (
			SELECT id FROM messages WHERE username=$1 ORDER BY id DESC LIMIT $2
		)`,
		username, s.maxMessages,
	)
	return err
}

// History returns up to limit most recent messages for the user in
// chronological order. limit <= 0 means the per-user cap.
func (s *Store) History(ctx context.Context, username string, limit int) ([]Message, error) {
	if limit <= 0 || limit > s.maxMessages {
		limit = s.maxMessages
	}
	rows, err := s.db.Query(ctx,
		`SELECT id, role, content, created_at FROM (
			SELECT id, role, content, created_at FROM messages
			WHERE username=$1 ORDER BY id DESC LIMIT $2
		) ORDER BY id ASC`,
		username, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
