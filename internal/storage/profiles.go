package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkalra/profiled/internal/profile"
)

const profileColumns = "id, name, email, education, skills, projects, work, links"

// ReplaceAll deletes every stored profile and inserts p in a single
// transaction. The store holds at most one live profile at a time;
// create-requests replace rather than accumulate.
func (s *Store) ReplaceAll(ctx context.Context, p profile.Profile) error {
	enc, err := encodeProfile(p)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning replace transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM profiles"); err != nil {
		return fmt.Errorf("clearing profiles: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO profiles (id, name, email, education, skills, projects, work, links, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Email, p.Education, enc.skills, enc.projects, enc.work, enc.links, now, now,
	); err != nil {
		return fmt.Errorf("inserting profile: %w", err)
	}

	return tx.Commit()
}

// UpdateProfile replaces the stored record with id p.ID. Returns
// ErrNotFound when no such profile exists.
func (s *Store) UpdateProfile(ctx context.Context, p profile.Profile) error {
	enc, err := encodeProfile(p)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `
		UPDATE profiles
		SET name = ?, email = ?, education = ?, skills = ?, projects = ?, work = ?, links = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.Email, p.Education, enc.skills, enc.projects, enc.work, enc.links, now, p.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProfile removes the profile with the given id. Returns
// ErrNotFound when it does not exist.
func (s *Store) DeleteProfile(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM profiles WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// FindFirst returns the oldest stored profile, or ErrNotFound when the
// store is empty.
func (s *Store) FindFirst(ctx context.Context) (profile.Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+profileColumns+`
		FROM profiles ORDER BY created_at ASC LIMIT 1`)
	p, err := scanProfile(row.Scan)
	if err == sql.ErrNoRows {
		return profile.Profile{}, ErrNotFound
	}
	if err != nil {
		return profile.Profile{}, err
	}
	return p, nil
}

// FindAll returns every stored profile in insertion order.
func (s *Store) FindAll(ctx context.Context) ([]profile.Profile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+profileColumns+`
		FROM profiles ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []profile.Profile
	for rows.Next() {
		p, err := scanProfile(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

type encodedProfile struct {
	skills   string
	projects string
	work     string
	links    string
}

func encodeProfile(p profile.Profile) (encodedProfile, error) {
	var enc encodedProfile
	var err error
	if enc.skills, err = encodeJSON("skills", p.Skills); err != nil {
		return enc, err
	}
	if enc.projects, err = encodeJSON("projects", p.Projects); err != nil {
		return enc, err
	}
	if enc.work, err = encodeJSON("work", p.Work); err != nil {
		return enc, err
	}
	if enc.links, err = encodeJSON("links", p.Links); err != nil {
		return enc, err
	}
	return enc, nil
}

func encodeJSON(field string, v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshalling %s: %w", field, err)
	}
	return string(b), nil
}

// scanProfile reads one profiles row. Collection columns holding
// malformed JSON are logged and treated as empty rather than failing
// the whole read.
func scanProfile(scan func(dest ...any) error) (profile.Profile, error) {
	var p profile.Profile
	var skills, projects, work, links string
	if err := scan(&p.ID, &p.Name, &p.Email, &p.Education, &skills, &projects, &work, &links); err != nil {
		return profile.Profile{}, err
	}

	decodeColumn(p.ID, "skills", skills, &p.Skills)
	decodeColumn(p.ID, "projects", projects, &p.Projects)
	decodeColumn(p.ID, "work", work, &p.Work)
	decodeColumn(p.ID, "links", links, &p.Links)

	// Absent or null collections read back as empty, never nil.
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Projects == nil {
		p.Projects = []profile.Project{}
	}
	for i := range p.Projects {
		if p.Projects[i].PSkills == nil {
			p.Projects[i].PSkills = []string{}
		}
	}
	if p.Work == nil {
		p.Work = []profile.WorkExperience{}
	}

	return p, nil
}

func decodeColumn(id, field, raw string, target any) {
	if raw == "" {
		return
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		slog.Warn("malformed profile column, treating as empty", "profile_id", id, "column", field, "error", err)
	}
}
