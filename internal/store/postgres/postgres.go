package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/memvault/memory-vault/internal/model"
	"github.com/memvault/memory-vault/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a native Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Users() store.Users                 { return &users{db: s.db} }
func (s *pgStore) Projects() store.Projects           { return &projects{db: s.db} }
func (s *pgStore) Memories() store.Memories           { return &memories{db: s.db} }
func (s *pgStore) Sections() store.Sections           { return &sections{db: s.db} }
func (s *pgStore) Conversations() store.Conversations { return &conversations{db: s.db} }

// HealthPing implements store.HealthPinger for the Postgres-backed store.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Bootstrap performs a connectivity check to ensure Postgres is reachable.
// Schema setup is handled by migrations (see migrations/postgres).
func Bootstrap(ctx context.Context, dsn string) error {
	if dsn == "" {
		return nil
	}
	db, err := Open(dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return db.PingContext(ctx)
}

// --- Users ---

type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	id := m.UserID
	if id == "" {
		id = uuid.New().String()
	}
	var created time.Time
	row := u.db.QueryRowContext(ctx, `
        INSERT INTO users (user_id, email, display_name, api_key)
        VALUES ($1,$2,$3,$4)
        RETURNING creation_time
    `, id, m.Email, m.DisplayName, m.APIKey)
	if err := row.Scan(&created); err != nil {
		return nil, err
	}
	out := *m
	out.UserID = id
	out.CreationTime = created
	return &out, nil
}

func (u *users) Get(ctx context.Context, userID string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, email, display_name, api_key, claude_api_key, openrouter_api_key, creation_time
        FROM users WHERE user_id=$1
    `, userID)
	return scanUser(row)
}

func (u *users) GetByAPIKey(ctx context.Context, apiKey string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, email, display_name, api_key, claude_api_key, openrouter_api_key, creation_time
        FROM users WHERE api_key=$1
    `, apiKey)
	return scanUser(row)
}

func (u *users) Credentials(ctx context.Context, userID string) (*model.Credentials, error) {
	var c model.Credentials
	row := u.db.QueryRowContext(ctx, `
        SELECT claude_api_key, openrouter_api_key FROM users WHERE user_id=$1
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
	res, err := u.db.ExecContext(ctx, `UPDATE users SET `+column+` = $1 WHERE user_id = $2`, key, userID)
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
	var created time.Time
	row := p.db.QueryRowContext(ctx, `
        INSERT INTO projects (project_id, user_id, name, description, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING creation_time
    `, id, m.UserID, m.Name, m.Description, status)
	if err := row.Scan(&created); err != nil {
		return nil, err
	}
	out := *m
	out.ProjectID = id
	out.Status = status
	out.CreationTime = created
	return &out, nil
}

func (p *projects) GetByID(ctx context.Context, userID, projectID string) (*model.Project, error) {
	var out model.Project
	row := p.db.QueryRowContext(ctx, `
        SELECT project_id, user_id, name, description, status, creation_time
        FROM projects WHERE user_id=$1 AND project_id=$2
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
        FROM projects WHERE user_id=$1 ORDER BY creation_time DESC
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

const memoryColumns = `memory_id, user_id, project_id, content, memory_type, tags, is_global, creation_time`

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
	var created time.Time
	row := m.db.QueryRowContext(ctx, `
        INSERT INTO memories (memory_id, user_id, project_id, content, memory_type, tags, is_global)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING creation_time
    `, id, mem.UserID, mem.ProjectID, mem.Content, mem.MemoryType, string(tagsJSON), mem.IsGlobal)
	if err := row.Scan(&created); err != nil {
		return nil, err
	}
	out := *mem
	out.MemoryID = id
	out.Tags = tags
	out.CreationTime = created
	return &out, nil
}

func (m *memories) List(ctx context.Context, req model.ListMemoriesRequest) ([]*model.Memory, error) {
	q := `SELECT ` + memoryColumns + ` FROM memories WHERE user_id=$1`
	args := []interface{}{req.UserID}
	if req.ProjectID != "" {
		args = append(args, req.ProjectID)
		q += fmt.Sprintf(` AND project_id=$%d`, len(args))
	}
	if req.MemoryType != "" {
		args = append(args, req.MemoryType)
		q += fmt.Sprintf(` AND memory_type=$%d`, len(args))
	}
	if req.Search != "" {
		args = append(args, "%"+strings.ToLower(req.Search)+"%")
		q += fmt.Sprintf(` AND content ILIKE $%d`, len(args))
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
            WHERE user_id=$1 AND (is_global OR project_id=$2)
            ORDER BY creation_time DESC LIMIT $3
        `, userID, projectID, limit)
	} else {
		rows, err = m.db.QueryContext(ctx, `
            SELECT `+memoryColumns+` FROM memories
            WHERE user_id=$1 AND is_global
            ORDER BY creation_time DESC LIMIT $2
        `, userID, limit)
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanMemories(rows)
}

func (m *memories) Delete(ctx context.Context, userID, memoryID string) error {
	res, err := m.db.ExecContext(ctx, `DELETE FROM memories WHERE user_id=$1 AND memory_id=$2`, userID, memoryID)
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
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, sec := range secs {
		id := sec.SectionID
		if id == "" {
			id = uuid.New().String()
		}
		var created time.Time
		row := tx.QueryRowContext(ctx, `
            INSERT INTO prd_sections (section_id, project_id, user_id, title, content, section_order, section_type, file_name, file_ref)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
            RETURNING creation_time
        `, id, sec.ProjectID, sec.UserID, sec.Title, sec.Content, sec.SectionOrder, sec.SectionType, sec.FileName, sec.FileRef)
		if err := row.Scan(&created); err != nil {
			return err
		}
		sec.SectionID = id
		sec.CreationTime = created
	}
	return tx.Commit()
}

func (s *sections) ListByProject(ctx context.Context, userID, projectID string, limit int) ([]*model.PRDSection, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT section_id, project_id, user_id, title, content, section_order, section_type, file_name, file_ref, creation_time
        FROM prd_sections WHERE user_id=$1 AND project_id=$2
        ORDER BY section_order ASC LIMIT $3
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
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range turns {
		used, err := json.Marshal(t.ContextUsed)
		if err != nil {
			return err
		}
		var created time.Time
		row := tx.QueryRowContext(ctx, `
            INSERT INTO conversations (turn_id, user_id, project_id, role, content, context_used)
            VALUES ($1,$2,$3,$4,$5,$6)
            RETURNING creation_time
        `, t.TurnID, t.UserID, t.ProjectID, t.Role, t.Content, string(used))
		if err := row.Scan(&created); err != nil {
			return err
		}
		t.CreationTime = created
	}
	return tx.Commit()
}

func (c *conversations) List(ctx context.Context, userID, projectID string, limit int) ([]*model.ConversationTurn, error) {
	q := `
        SELECT turn_id, user_id, project_id, role, content, context_used, creation_time
        FROM conversations WHERE user_id=$1`
	args := []interface{}{userID}
	if projectID != "" {
		args = append(args, projectID)
		q += fmt.Sprintf(` AND project_id=$%d`, len(args))
	}
	args = append(args, limit)
	q += fmt.Sprintf(` ORDER BY creation_time ASC, turn_id ASC LIMIT $%d`, len(args))

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
