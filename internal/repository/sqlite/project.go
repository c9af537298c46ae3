package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sakif/stemless/internal/apperror"
	"github.com/sakif/stemless/internal/model"
	"github.com/sakif/stemless/internal/repository"
)

var (
	_ repository.ProjectRepository = (*ProjectStore)(nil)
	_ repository.CommentRepository = (*CommentStore)(nil)
)

// ProjectStore persists project records. Collaborator lists are stored
// as JSON text — they are opaque uuid lists, never queried by element.
type ProjectStore struct {
	conn *sql.DB
}

func (s *ProjectStore) Create(ctx context.Context, project *model.Project) error {
	project.UUID = uuid.NewString()
	project.UpdatedAt = time.Now().UnixMilli()
	if project.Name == "" {
		project.Name = "New project"
	}
	if project.Users == nil {
		project.Users = []string{}
	}

	users, err := json.Marshal(project.Users)
	if err != nil {
		return fmt.Errorf("sqlite: encoding project users: %w", err)
	}

	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO projects (uuid, name, daw_name, version, owner, users, cover_art, is_finished, private, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		project.UUID,
		project.Name,
		project.DAWName,
		project.Version,
		project.Owner,
		string(users),
		project.CoverArt,
		project.IsFinished,
		project.Private,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting project %q: %w", project.Name, err)
	}
	return nil
}

func (s *ProjectStore) GetByUUID(ctx context.Context, id string) (*model.Project, error) {
	return s.getBy(ctx, `uuid`, id)
}

func (s *ProjectStore) GetByName(ctx context.Context, name string) (*model.Project, error) {
	return s.getBy(ctx, `name`, name)
}

// getBy is shared by the two lookups; column is one of the two literals
// above, never caller input.
func (s *ProjectStore) getBy(ctx context.Context, column, value string) (*model.Project, error) {
	var (
		p     model.Project
		users string
	)
	err := s.conn.QueryRowContext(ctx,
		`SELECT uuid, name, daw_name, version, owner, users, cover_art, is_finished, private, updated_at
		 FROM projects WHERE `+column+` = ?`, value,
	).Scan(
		&p.UUID,
		&p.Name,
		&p.DAWName,
		&p.Version,
		&p.Owner,
		&users,
		&p.CoverArt,
		&p.IsFinished,
		&p.Private,
		&p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("project", value)
		}
		return nil, fmt.Errorf("sqlite: finding project by %s: %w", column, err)
	}

	if err := json.Unmarshal([]byte(users), &p.Users); err != nil {
		return nil, fmt.Errorf("sqlite: decoding project users: %w", err)
	}
	return &p, nil
}

// CommentStore persists comment records.
type CommentStore struct {
	conn *sql.DB
}

func (s *CommentStore) Create(ctx context.Context, comment *model.Comment) error {
	now := time.Now().UnixMilli()
	comment.UUID = uuid.NewString()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO comments (uuid, content, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		comment.UUID,
		comment.Content,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting comment: %w", err)
	}
	return nil
}

func (s *CommentStore) GetByUUID(ctx context.Context, id string) (*model.Comment, error) {
	var c model.Comment
	err := s.conn.QueryRowContext(ctx,
		`SELECT uuid, content, created_at, updated_at FROM comments WHERE uuid = ?`, id,
	).Scan(&c.UUID, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("comment", id)
		}
		return nil, fmt.Errorf("sqlite: finding comment %s: %w", id, err)
	}
	return &c, nil
}
