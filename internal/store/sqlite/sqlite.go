package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/memvault/memory-vault/internal/model"
	"github.com/memvault/memory-vault/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    user_id            TEXT PRIMARY KEY,
    email              TEXT NOT NULL UNIQUE,
    display_name       TEXT,
    api_key            TEXT NOT NULL UNIQUE,
    claude_api_key     TEXT,
    openrouter_api_key TEXT,
    creation_time      TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS projects (
    project_id    TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL REFERENCES users(user_id),
    name          TEXT NOT NULL,
    description   TEXT,
    status        TEXT NOT NULL DEFAULT 'active',
    creation_time TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS memories (
    memory_id     TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL REFERENCES users(user_id),
    project_id    TEXT REFERENCES projects(project_id),
    content       TEXT NOT NULL,
    memory_type   TEXT NOT NULL,
    tags          TEXT NOT NULL DEFAULT '[]',
    is_global     INTEGER NOT NULL DEFAULT 0,
    creation_time TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_memories_user_recent ON memories(user_id, creation_time DESC);

CREATE TABLE IF NOT EXISTS prd_sections (
    section_id    TEXT PRIMARY KEY,
    project_id    TEXT NOT NULL REFERENCES projects(project_id),
    user_id       TEXT NOT NULL REFERENCES users(user_id),
    title         TEXT NOT NULL,
    content       TEXT NOT NULL,
    section_order INTEGER NOT NULL,
    section_type  TEXT NOT NULL DEFAULT 'other',
    file_name     TEXT NOT NULL,
    file_ref      TEXT NOT NULL,
    creation_time TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sections_project_order ON prd_sections(project_id, section_order);

CREATE TABLE IF NOT EXISTS conversations (
    turn_id       TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL REFERENCES users(user_id),
    project_id    TEXT REFERENCES projects(project_id),
    role          TEXT NOT NULL,
    content       TEXT NOT NULL,
    context_used  TEXT NOT NULL DEFAULT '{}',
    creation_time TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_conversations_user ON conversations(user_id, creation_time);
`

// New opens (or creates) a SQLite database file and bootstraps the schema.
func New(path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewWithDB(db)
}

// NewWithDB allows wiring with an existing connection (used by tests and the factory).
func NewWithDB(db *sql.DB) (store.Store, error) {
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite schema bootstrap: %w", err)
	}
	return &sqliteStore{db: db}, nil
}

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) Users() store.Users                 { return &users{db: s.db} }
func (s *sqliteStore) Projects() store.Projects           { return &projects{db: s.db} }
func (s *sqliteStore) Memories() store.Memories           { return &memories{db: s.db} }
func (s *sqliteStore) Sections() store.Sections           { return &sections{db: s.db} }
func (s *sqliteStore) Conversations() store.Conversations { return &conversations{db: s.db} }

// HealthPing implements store.HealthPinger.
func (s *sqliteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// --- Users ---

type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	id := m.UserID
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()
	_, err := u.db.ExecContext(ctx, `
        INSERT INTO users (user_id, email, display_name, api_key, creation_time)
        VALUES (?,?,?,?,?)
    `, id, m.Email, m.DisplayName, m.APIKey, now)
	if err != nil {
		return nil, err
	}
	out := *m
	out.UserID = id
	out.CreationTime = now
	return &out, nil
}

func (u *users) Get(ctx context.Context, userID string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, email, display_name, api_key, claude_api_key, openrouter_api_key, creation_time
        FROM users WHERE user_id=?
    `, userID)
	return scanUser(row)
}

func (u *users) GetByAPIKey(ctx context.Context, apiKey string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, email, display_name, api_key, claude_api_key, openrouter_api_key, creation_time
        FROM users WHERE api_key=?
    `, apiKey)
	return scanUser(row)
}

func (u *users) Credentials(ctx context.Context, userID string) (*model.Credentials, error) {
	var c model.Credentials
	row := u.db.QueryRowContext(ctx, `
        SELECT claude_api_key, openrouter_api_key FROM users WHERE user_id=?
    `, userID)
	if err := row.Scan(&c.ClaudeKey, &c.OpenRouterKey); err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (u *users) SetProviderKey(ctx context.Context, userID, provider, key string) error {
	var column string
	switch provider {
	case "claude":
		column = "claude_api_key"
	case "openrouter":
		column = "openrouter_api_key"
	default:
		return fmt.Errorf("%w: unknown provider %q", model.ErrValidation, provider)
	}
	res, err := u.db.ExecContext(ctx, `UPDATE users SET `+column+` = ? WHERE user_id = ?`, key, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (*model.User, error) {
	var out model.User
	if err := row.Scan(&out.UserID, &out.Email, &out.DisplayName, &out.APIKey,
		&out.ClaudeKey, &out.OpenRouterKey, &out.CreationTime); err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

// --- Projects ---

type projects struct{ db *sql.DB }

func (p *projects) Create(ctx context.Context, m *model.Project) (*model.Project, error) {
	id := m.ProjectID
	if id == "" {
		id = uuid.New().String()
	}
	status := m.Status
	if status == "" {
		status = "active"
	}
	now := time.Now().UTC()
	_, err := p.db.ExecContext(ctx, `
        INSERT INTO projects (project_id, user_id, name, description, status, creation_time)
        VALUES (?,?,?,?,?,?)
    `, id, m.UserID, m.Name, m.Description, status, now)
	if err != nil {
		return nil, err
	}
	out := *m
	out.ProjectID = id
	out.Status = status
	out.CreationTime = now
	return &out, nil
}

func (p *projects) GetByID(ctx context.Context, userID, projectID string) (*model.Project, error) {
	var out model.Project
	row := p.db.QueryRowContext(ctx, `
        SELECT project_id, user_id, name, description, status, creation_time
        FROM projects WHERE user_id=? AND project_id=?
    `, userID, projectID)
	if err := row.Scan(&out.ProjectID, &out.UserID, &out.Name, &out.Description, &out.Status, &out.CreationTime); err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (p *projects) List(ctx context.Context, userID string) ([]*model.Project, error) {
	rows, err := p.db.QueryContext(ctx, `
        SELECT project_id, user_id, name, description, status, creation_time
        FROM projects WHERE user_id=? ORDER BY creation_time DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []*model.Project
	for rows.Next() {
		var m model.Project
		if err := rows.Scan(&m.ProjectID, &m.UserID, &m.Name, &m.Description, &m.Status, &m.CreationTime); err != nil {
			return nil, err
		}
		res = append(res, &m)
	}
	return res, rows.Err()
}

// --- Memories ---

type memories struct{ db *sql.DB }

func (m *memories) Create(ctx context.Context, mem *model.Memory) (*model.Memory, error) {
	id := mem.MemoryID
	if id == "" {
		id = uuid.New().String()
	}
	tags := mem.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	_, err = m.db.ExecContext(ctx, `
        INSERT INTO memories (memory_id, user_id, project_id, content, memory_type, tags, is_global, creation_time)
        VALUES (?,?,?,?,?,?,?,?)
    `, id, mem.UserID, mem.ProjectID, mem.Content, mem.MemoryType, string(tagsJSON), mem.IsGlobal, now)
	if err != nil {
		return nil, err
	}
	out := *mem
	out.MemoryID = id
	out.Tags = tags
	out.CreationTime = now
	return &out, nil
}

const memoryColumns = `memory_id, user_id, project_id, content, memory_type, tags, is_global, creation_time`

func (m *memories) List(ctx context.Context, req model.ListMemoriesRequest) ([]*model.Memory, error) {
	q := `SELECT ` + memoryColumns + ` FROM memories WHERE user_id=?`
	args := []interface{}{req.UserID}
	if req.ProjectID != "" {
		q += ` AND project_id=?`
		args = append(args, req.ProjectID)
	}
	if req.MemoryType != "" {
		q += ` AND memory_type=?`
		args = append(args, req.MemoryType)
	}
	if req.Search != "" {
		q += ` AND LOWER(content) LIKE ?`
		args = append(args, "%"+strings.ToLower(req.Search)+"%")
	}
	q += ` ORDER BY creation_time DESC`

	rows, err := m.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanMemories(rows)
}

func (m *memories) ListRecent(ctx context.Context, userID, projectID string, limit int) ([]*model.Memory, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if projectID != "" {
		rows, err = m.db.QueryContext(ctx, `
            SELECT `+memoryColumns+` FROM memories
            WHERE user_id=? AND (is_global=1 OR project_id=?)
            ORDER BY creation_time DESC LIMIT ?
        `, userID, projectID, limit)
	} else {
		rows, err = m.db.QueryContext(ctx, `
            SELECT `+memoryColumns+` FROM memories
            WHERE user_id=? AND is_global=1
            ORDER BY creation_time DESC LIMIT ?
        `, userID, limit)
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanMemories(rows)
}

func (m *memories) Delete(ctx context.Context, userID, memoryID string) error {
	res, err := m.db.ExecContext(ctx, `DELETE FROM memories WHERE user_id=? AND memory_id=?`, userID, memoryID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func scanMemories(rows *sql.Rows) ([]*model.Memory, error) {
	var res []*model.Memory
	for rows.Next() {
		var (
			mem      model.Memory
			tagsJSON string
		)
		if err := rows.Scan(&mem.MemoryID, &mem.UserID, &mem.ProjectID, &mem.Content,
			&mem.MemoryType, &tagsJSON, &mem.IsGlobal, &mem.CreationTime); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(tagsJSON), &mem.Tags); err != nil {
			return nil, err
		}
		res = append(res, &mem)
	}
	return res, rows.Err()
}

// --- PRD sections ---

type sections struct{ db *sql.DB }

func (s *sections) CreateBatch(ctx context.Context, secs []*model.PRDSection) error {
	if len(secs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for _, sec := range secs {
		id := sec.SectionID
		if id == "" {
			id = uuid.New().String()
		}
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO prd_sections (section_id, project_id, user_id, title, content, section_order, section_type, file_name, file_ref, creation_time)
            VALUES (?,?,?,?,?,?,?,?,?,?)
        `, id, sec.ProjectID, sec.UserID, sec.Title, sec.Content, sec.SectionOrder, sec.SectionType, sec.FileName, sec.FileRef, now); err != nil {
			return err
		}
		sec.SectionID = id
		sec.CreationTime = now
	}
	return tx.Commit()
}

func (s *sections) ListByProject(ctx context.Context, userID, projectID string, limit int) ([]*model.PRDSection, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT section_id, project_id, user_id, title, content, section_order, section_type, file_name, file_ref, creation_time
        FROM prd_sections WHERE user_id=? AND project_id=?
        ORDER BY section_order ASC LIMIT ?
    `, userID, projectID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []*model.PRDSection
	for rows.Next() {
		var sec model.PRDSection
		if err := rows.Scan(&sec.SectionID, &sec.ProjectID, &sec.UserID, &sec.Title, &sec.Content,
			&sec.SectionOrder, &sec.SectionType, &sec.FileName, &sec.FileRef, &sec.CreationTime); err != nil {
			return nil, err
		}
		res = append(res, &sec)
	}
	return res, rows.Err()
}

// --- Conversations ---

type conversations struct{ db *sql.DB }

func (c *conversations) CreateBatch(ctx context.Context, turns []*model.ConversationTurn) error {
	if len(turns) == 0 {
		return nil
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for _, t := range turns {
		used, err := json.Marshal(t.ContextUsed)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO conversations (turn_id, user_id, project_id, role, content, context_used, creation_time)
            VALUES (?,?,?,?,?,?,?)
        `, t.TurnID, t.UserID, t.ProjectID, t.Role, t.Content, string(used), now); err != nil {
			return err
		}
		t.CreationTime = now
	}
	return tx.Commit()
}

func (c *conversations) List(ctx context.Context, userID, projectID string, limit int) ([]*model.ConversationTurn, error) {
	q := `
        SELECT turn_id, user_id, project_id, role, content, context_used, creation_time
        FROM conversations WHERE user_id=?`
	args := []interface{}{userID}
	if projectID != "" {
		q += ` AND project_id=?`
		args = append(args, projectID)
	}
	q += ` ORDER BY creation_time ASC, turn_id ASC LIMIT ?`
	args = append(args, limit)

	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []*model.ConversationTurn
	for rows.Next() {
		var (
			t    model.ConversationTurn
			used string
		)
		if err := rows.Scan(&t.TurnID, &t.UserID, &t.ProjectID, &t.Role, &t.Content, &used, &t.CreationTime); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(used), &t.ContextUsed); err != nil {
			return nil, err
		}
		res = append(res, &t)
	}
	return res, rows.Err()
}
