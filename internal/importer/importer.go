// Package importer reconciles registered template sources against the
// store. Every markdown file in a source becomes one deck template named
// after the file; cards inside the file are matched to existing template
// cards by content fingerprint, so re-running an import inserts only what is
// new and removes what has vanished from the source.
package importer

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lldeck/lldeck/internal/domain"
	"github.com/lldeck/lldeck/internal/fingerprint"
	"github.com/lldeck/lldeck/internal/gitsource"
	"github.com/lldeck/lldeck/internal/parser"
	"github.com/lldeck/lldeck/internal/storage"
)

// Source kinds.
const (
	KindLocal = "local"
	KindGit   = "git"
)

// DetectKind classifies a source path as a git URL or a local directory.
func DetectKind(path string) string {
	if strings.HasSuffix(path, ".git") || strings.HasPrefix(path, "git@") ||
		strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "http://") {
		return KindGit
	}
	return KindLocal
}

// Importer drives source reconciliation. Imported templates are owned by the
// configured owner profile and created public, ready to instantiate.
type Importer struct {
	db       *storage.DB
	owner    uuid.UUID
	reposDir string
	now      func() time.Time
	log      *slog.Logger
}

// New returns an importer. reposDir holds local mirrors of git sources. A
// nil clock falls back to time.Now; a nil logger discards events.
func New(db *storage.DB, owner uuid.UUID, reposDir string, clock func() time.Time, log *slog.Logger) *Importer {
	if clock == nil {
		clock = time.Now
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Importer{db: db, owner: owner, reposDir: reposDir, now: clock, log: log}
}

// Run reconciles every registered source. Per-source failures are logged and
// skipped so one broken source cannot block the rest.
func (im *Importer) Run() error {
	sources, err := im.db.Sources()
	if err != nil {
		return fmt.Errorf("failed to get sources: %w", err)
	}
	if len(sources) == 0 {
		im.log.Info("no sources configured")
		return nil
	}

	if err := os.MkdirAll(im.reposDir, 0o755); err != nil {
		return fmt.Errorf("failed to create repos directory: %w", err)
	}

	for _, source := range sources {
		im.log.Info("importing source", "id", source.ID, "kind", source.Kind, "path", source.Path)

		root := source.Path
		if source.Kind == KindGit {
			localPath, err := gitLocalPath(im.reposDir, source.Path)
			if err != nil {
				im.log.Error("bad git source url", "url", source.Path, "error", err)
				continue
			}
			if err := gitsource.Sync(source.Path, localPath, im.log); err != nil {
				im.log.Error("git sync failed", "url", source.Path, "error", err)
				continue
			}
			root = localPath
		}

		if err := im.reconcile(source, root); err != nil {
			im.log.Error("source import failed", "id", source.ID, "error", err)
			continue
		}
		if err := im.db.TouchSource(source.ID, im.now()); err != nil {
			return err
		}
	}
	return nil
}

// reconcile walks the source tree and syncs one template per markdown file.
func (im *Importer) reconcile(source storage.Source, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		cards, err := parser.ParseFile(path)
		if err != nil {
			im.log.Error("parse failed", "file", path, "error", err)
			return nil
		}
		if len(cards) == 0 {
			return nil
		}
		name := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
		return im.syncTemplate(source, name, cards)
	})
}

// syncTemplate creates or updates the template named after a source file:
// new fingerprints are inserted, fingerprints missing from the file are
// deleted, everything else is untouched.
func (im *Importer) syncTemplate(source storage.Source, name string, cards []parser.Card) error {
	templateID, err := im.db.SourceTemplate(source.ID, name)
	if err != nil {
		return err
	}
	if templateID == uuid.Nil {
		t := domain.DeckTemplate{
			ID:        uuid.New(),
			CreatorID: im.owner,
			Name:      name,
			Public:    true,
			Created:   im.now(),
		}
		if err := im.db.InsertTemplate(t); err != nil {
			return err
		}
		if err := im.db.BindTemplateSource(t.ID, source.ID); err != nil {
			return err
		}
		templateID = t.ID
	}

	wanted := make(map[string]bool, len(cards))
	added := 0
	for _, c := range cards {
		fp := fingerprint.Card(c.Word, c.HelperText, c.Definition, c.Examples)
		wanted[fp] = true
		inserted, err := im.db.InsertTemplateCard(domain.CardTemplate{
			ID:          uuid.New(),
			TemplateID:  templateID,
			Name:        c.Word,
			Word:        c.Word,
			HelperText:  c.HelperText,
			Definition:  c.Definition,
			Examples:    c.Examples,
			Fingerprint: fp,
		})
		if err != nil {
			return err
		}
		if inserted {
			added++
		}
	}

	existing, err := im.db.TemplateCards(templateID)
	if err != nil {
		return err
	}
	removed := 0
	for _, c := range existing {
		if !wanted[c.Fingerprint] {
			if err := im.db.DeleteTemplateCard(templateID, c.Fingerprint); err != nil {
				return err
			}
			removed++
		}
	}

	im.log.Info("template synced", "template", name, "cards", len(cards), "added", added, "removed", removed)
	return nil
}

// gitLocalPath maps a git URL to a stable directory under reposDir.
func gitLocalPath(reposDir, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("cannot determine local path for %q", rawURL)
	}
	dir := strings.TrimSuffix(strings.TrimPrefix(u.Path, "/"), ".git")
	dir = strings.ReplaceAll(dir, "/", "-")
	return filepath.Join(reposDir, u.Host+"-"+dir), nil
}
