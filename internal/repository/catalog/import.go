package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kailas-cloud/opsmap/internal/db"
	"github.com/kailas-cloud/opsmap/internal/db/gormdb"
	"github.com/kailas-cloud/opsmap/internal/domain"
)

// ImportStats counts the rows written by one import.
type ImportStats struct {
	Processes int `json:"processes"`
	Roles     int `json:"roles"`
	Systems   int `json:"systems"`
	Actions   int `json:"actions"`
}

// Import creates or updates the fixture's entities for orgID in one
// transaction. Entities are matched by slug, actions by (process, sequence);
// actions of an imported process that the fixture no longer lists are removed.
func (r *Repo) Import(ctx context.Context, orgID string, f *Fixture) (ImportStats, error) {
	if strings.TrimSpace(orgID) == "" {
		return ImportStats{}, fmt.Errorf("%w: org is required", domain.ErrInvalidRequest)
	}

	var stats ImportStats
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		im := importer{tx: tx, orgID: orgID}

		roles := make(map[string]string, len(f.Roles))
		for i, spec := range f.Roles {
			desc, err := encodeDescription(spec.Description)
			if err != nil {
				return err
			}
			m := gormdb.Role{OrgID: orgID, Name: strings.TrimSpace(spec.Name), Initials: spec.Initials, Description: desc}
			if m.ID, m.Slug, err = im.identify("roles", i, m.Name, spec.Slug, roles); err != nil {
				return err
			}
			if err := im.save(&m, "roles", "name", "initials", "description"); err != nil {
				return err
			}
			stats.Roles++
		}

		systems := make(map[string]string, len(f.Systems))
		for i, spec := range f.Systems {
			desc, err := encodeDescription(spec.Description)
			if err != nil {
				return err
			}
			m := gormdb.System{OrgID: orgID, Name: strings.TrimSpace(spec.Name), Description: desc}
			if m.ID, m.Slug, err = im.identify("systems", i, m.Name, spec.Slug, systems); err != nil {
				return err
			}
			if err := im.save(&m, "systems", "name", "description"); err != nil {
				return err
			}
			stats.Systems++
		}

		processes := make(map[string]string, len(f.Processes))
		for i, spec := range f.Processes {
			desc, err := encodeDescription(spec.Description)
			if err != nil {
				return err
			}
			m := gormdb.Process{OrgID: orgID, Name: strings.TrimSpace(spec.Name), Description: desc}
			if m.ID, m.Slug, err = im.identify("processes", i, m.Name, spec.Slug, processes); err != nil {
				return err
			}
			if err := im.save(&m, "processes", "name", "description"); err != nil {
				return err
			}
			stats.Processes++

			n, err := im.replaceActions(m.ID, spec.Actions, roles, systems)
			if err != nil {
				return fmt.Errorf("process %q: %w", m.Slug, err)
			}
			stats.Actions += n
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			return ImportStats{}, err
		}
		return ImportStats{}, &db.Error{Op: db.OpUpsert, Err: err}
	}
	return stats, nil
}

type importer struct {
	tx    *gorm.DB
	orgID string
}

// identify resolves the slug of a named entity and the id it is stored
// under, minting a new id for unseen slugs. seen maps slug to id.
func (im importer) identify(table string, pos int, name, rawSlug string, seen map[string]string) (string, string, error) {
	if name == "" {
		return "", "", fmt.Errorf("%w: %s[%d]: name is required", domain.ErrInvalidRequest, table, pos)
	}

	s := strings.TrimSpace(rawSlug)
	if s == "" {
		s = slug.Make(name)
	}
	if !slug.IsSlug(s) {
		return "", "", fmt.Errorf("%w: %s[%d]: invalid slug %q", domain.ErrInvalidRequest, table, pos, s)
	}
	if _, dup := seen[s]; dup {
		return "", "", fmt.Errorf("%w: %s: duplicate slug %q", domain.ErrInvalidRequest, table, s)
	}

	id, err := im.idBySlug(table, s)
	if err != nil {
		return "", "", err
	}
	if id == "" {
		id = uuid.NewString()
	}
	seen[s] = id
	return id, s, nil
}

// save inserts model or updates the given columns when its id exists.
func (im importer) save(model any, table string, columns ...string) error {
	err := im.tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(append(columns, "updated_at")),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("upsert %s: %w", table, err)
	}
	return nil
}

func (im importer) idBySlug(table, s string) (string, error) {
	var ids []string
	err := im.tx.Table(table).
		Where("org_id = ? AND slug = ?", im.orgID, s).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return "", fmt.Errorf("lookup %s %q: %w", table, s, err)
	}
	if len(ids) == 0 {
		return "", nil
	}
	return ids[0], nil
}

func (im importer) replaceActions(
	processID string, specs []ActionSpec, roles, systems map[string]string,
) (int, error) {
	var existing []gormdb.Action
	if err := im.tx.Where("org_id = ? AND process_id = ?", im.orgID, processID).Find(&existing).Error; err != nil {
		return 0, fmt.Errorf("load actions: %w", err)
	}
	bySeq := make(map[int]string, len(existing))
	for _, a := range existing {
		bySeq[a.Sequence] = a.ID
	}

	kept := make([]string, 0, len(specs))
	seqs := make(map[int]struct{}, len(specs))
	for i, spec := range specs {
		seq := spec.Sequence
		if seq <= 0 {
			seq = i + 1
		}
		if _, dup := seqs[seq]; dup {
			return 0, fmt.Errorf("%w: duplicate action sequence %d", domain.ErrInvalidRequest, seq)
		}
		seqs[seq] = struct{}{}

		roleID, err := im.reference("roles", spec.Role, roles)
		if err != nil {
			return 0, err
		}
		systemID, err := im.reference("systems", spec.System, systems)
		if err != nil {
			return 0, err
		}
		desc, err := encodeDescription(spec.Description)
		if err != nil {
			return 0, err
		}

		id := bySeq[seq]
		if id == "" {
			id = uuid.NewString()
		}
		title := strings.TrimSpace(spec.Title)
		if title == "" {
			title = fmt.Sprintf("Action %d", seq)
		}

		a := gormdb.Action{
			ID:          id,
			OrgID:       im.orgID,
			ProcessID:   processID,
			RoleID:      roleID,
			SystemID:    systemID,
			Sequence:    seq,
			Title:       title,
			Description: desc,
		}
		err = im.save(&a, "actions", "role_id", "system_id", "title", "description")
		if err != nil {
			return 0, fmt.Errorf("action %d: %w", seq, err)
		}
		kept = append(kept, id)
	}

	stale := im.tx.Where("org_id = ? AND process_id = ?", im.orgID, processID)
	if len(kept) > 0 {
		stale = stale.Where("id NOT IN ?", kept)
	}
	if err := stale.Delete(&gormdb.Action{}).Error; err != nil {
		return 0, fmt.Errorf("delete stale actions: %w", err)
	}
	return len(kept), nil
}

// reference resolves a role or system slug, first against this import and
// then against rows already stored for the org.
func (im importer) reference(table, ref string, seen map[string]string) (string, error) {
	ref = strings.TrimSpace(ref)
	kind := strings.TrimSuffix(table, "s")
	if ref == "" {
		return "", fmt.Errorf("%w: every action needs a %s", domain.ErrInvalidRequest, kind)
	}
	if id, ok := seen[ref]; ok {
		return id, nil
	}
	id, err := im.idBySlug(table, ref)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("%w: unknown %s slug %q", domain.ErrInvalidRequest, kind, ref)
	}
	return id, nil
}
