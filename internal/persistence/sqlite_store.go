package persistence

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// SQLiteStore is the durable session index. Analysis artifacts live on disk;
// the store holds one row per session so past runs can be listed without
// walking the analysis directory.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &SQLiteStore{db: db}
	if err := store.init(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
		return fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		return fmt.Errorf("set busy timeout: %w", err)
	}
	// Bootstrap schema_migrations table so we can track applied versions.
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		version := migrationVersion(entry.Name())
		if version <= 0 {
			continue
		}
		var exists int
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, version).Scan(&exists); err != nil {
			return fmt.Errorf("check migration %s: %w", entry.Name(), err)
		}
		if exists > 0 {
			continue
		}
		content, err := migrationFiles.ReadFile(filepath.Join("migrations", entry.Name()))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		if _, err := s.db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
		if _, err := s.db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			return fmt.Errorf("record migration %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// migrationVersion extracts the leading integer from a migration filename (e.g. "001_init.sql" → 1).
func migrationVersion(name string) int {
	for i, c := range name {
		if c < '0' || c > '9' {
			if i == 0 {
				return 0
			}
			n, _ := strconv.Atoi(name[:i])
			return n
		}
	}
	n, _ := strconv.Atoi(name)
	return n
}

func (s *SQLiteStore) RecordSession(ctx context.Context, rec SessionRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("session id is required")
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO sessions (
			id, kind, title, source_path, session_path, audio_status, audio_method,
			keyframe_count, placeholder, caption_chars, text_chars, image_based, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind=excluded.kind,
			title=excluded.title,
			source_path=excluded.source_path,
			session_path=excluded.session_path,
			audio_status=excluded.audio_status,
			audio_method=excluded.audio_method,
			keyframe_count=excluded.keyframe_count,
			placeholder=excluded.placeholder,
			caption_chars=excluded.caption_chars,
			text_chars=excluded.text_chars,
			image_based=excluded.image_based,
			created_at=excluded.created_at`,
		rec.ID,
		rec.Kind,
		rec.Title,
		rec.SourcePath,
		rec.SessionPath,
		rec.AudioStatus,
		rec.AudioMethod,
		rec.KeyframeCount,
		boolToInt(rec.Placeholder),
		rec.CaptionChars,
		rec.TextChars,
		boolToInt(rec.ImageBased),
		rec.CreatedAt.UTC(),
	)
	return err
}

func (s *SQLiteStore) GetSession(ctx context.Context, id string) (SessionRecord, bool, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, kind, title, source_path, session_path, audio_status, audio_method,
			keyframe_count, placeholder, caption_chars, text_chars, image_based, created_at
		 FROM sessions
		 WHERE id = ?`,
		id,
	)
	rec, err := scanSession(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return SessionRecord{}, false, nil
		}
		return SessionRecord{}, false, err
	}
	return rec, true, nil
}

func (s *SQLiteStore) ListSessions(ctx context.Context, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, kind, title, source_path, session_path, audio_status, audio_method,
			keyframe_count, placeholder, caption_chars, text_chars, image_based, created_at
		 FROM sessions
		 ORDER BY created_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ret := make([]SessionRecord, 0)
	for rows.Next() {
		rec, err := scanSession(rows.Scan)
		if err != nil {
			return nil, err
		}
		ret = append(ret, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *SQLiteStore) DeleteSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

func scanSession(scan func(dest ...any) error) (SessionRecord, error) {
	var rec SessionRecord
	var placeholder int
	var imageBased int
	if err := scan(
		&rec.ID,
		&rec.Kind,
		&rec.Title,
		&rec.SourcePath,
		&rec.SessionPath,
		&rec.AudioStatus,
		&rec.AudioMethod,
		&rec.KeyframeCount,
		&placeholder,
		&rec.CaptionChars,
		&rec.TextChars,
		&imageBased,
		&rec.CreatedAt,
	); err != nil {
		return SessionRecord{}, err
	}
	rec.Placeholder = placeholder == 1
	rec.ImageBased = imageBased == 1
	return rec, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
