package importer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lldeck/lldeck/internal/domain"
	"github.com/lldeck/lldeck/internal/storage"
)

var testNow = time.Date(2026, time.August, 29, 10, 0, 0, 0, time.UTC)

func TestDetectKind(t *testing.T) {
	testCases := []struct {
		path     string
		expected string
	}{
		{"/srv/decks", KindLocal},
		{"decks", KindLocal},
		{"https://example.com/decks.git", KindGit},
		{"http://example.com/decks", KindGit},
		{"git@example.com:me/decks.git", KindGit},
		{"/srv/mirror.git", KindGit},
	}
	for _, tc := range testCases {
		if got := DetectKind(tc.path); got != tc.expected {
			t.Errorf("DetectKind(%q) = %q, expected %q", tc.path, got, tc.expected)
		}
	}
}

func TestGitLocalPath(t *testing.T) {
	path, err := gitLocalPath("repos", "https://example.com/me/decks.git")
	if err != nil {
		t.Fatalf("Failed to compute local path: %v", err)
	}
	if path != filepath.Join("repos", "example.com-me-decks") {
		t.Errorf("Unexpected local path %q", path)
	}

	if _, err := gitLocalPath("repos", "not a url"); err == nil {
		t.Error("Expected an error for an unparseable url")
	}
}

func writeDeckFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write deck file: %v", err)
	}
}

func TestRunLocalSource(t *testing.T) {
	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	owner := domain.Profile{ID: uuid.New(), Name: "importer"}
	if err := db.InsertProfile(owner); err != nil {
		t.Fatalf("Failed to insert profile: %v", err)
	}

	dir := t.TempDir()
	writeDeckFile(t, dir, "animals.md", `W: gato
D: cat
---
W: perro
D: dog
---
`)
	writeDeckFile(t, dir, "notes.txt", "not a deck file")

	sourceID, err := db.InsertSource(dir, KindLocal)
	if err != nil {
		t.Fatalf("Failed to insert source: %v", err)
	}

	im := New(db, owner.ID, t.TempDir(), func() time.Time { return testNow }, nil)
	if err := im.Run(); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	templateID, err := db.SourceTemplate(sourceID, "animals")
	if err != nil {
		t.Fatalf("Failed to look up template: %v", err)
	}
	if templateID == uuid.Nil {
		t.Fatal("Expected a template named after the file")
	}
	tpl, err := db.Template(templateID)
	if err != nil {
		t.Fatalf("Failed to get template: %v", err)
	}
	if !tpl.Public {
		t.Error("Expected imported templates to be public")
	}
	if tpl.CreatorID != owner.ID {
		t.Error("Expected the configured owner as creator")
	}
	if tpl.Cards != 2 {
		t.Fatalf("Expected 2 cards, but got %d", tpl.Cards)
	}

	t.Run("a second run is a no-op", func(t *testing.T) {
		if err := im.Run(); err != nil {
			t.Fatalf("Import failed: %v", err)
		}
		tpl, err := db.Template(templateID)
		if err != nil {
			t.Fatalf("Failed to get template: %v", err)
		}
		if tpl.Cards != 2 {
			t.Errorf("Expected the card count to stay at 2, but got %d", tpl.Cards)
		}
	})

	t.Run("edits are reconciled", func(t *testing.T) {
		// "perro" vanishes, "pez" appears.
		writeDeckFile(t, dir, "animals.md", `W: gato
D: cat
---
W: pez
D: fish
---
`)
		if err := im.Run(); err != nil {
			t.Fatalf("Import failed: %v", err)
		}
		cards, err := db.TemplateCards(templateID)
		if err != nil {
			t.Fatalf("Failed to list template cards: %v", err)
		}
		if len(cards) != 2 {
			t.Fatalf("Expected 2 cards after reconciliation, but got %d", len(cards))
		}
		words := map[string]bool{}
		for _, c := range cards {
			words[c.Word] = true
		}
		if !words["gato"] || !words["pez"] || words["perro"] {
			t.Errorf("Unexpected card set: %v", words)
		}
	})

	t.Run("the source records its import time", func(t *testing.T) {
		sources, err := db.Sources()
		if err != nil {
			t.Fatalf("Failed to list sources: %v", err)
		}
		if len(sources) != 1 || !sources[0].LastImported.Valid {
			t.Error("Expected the source to carry an import timestamp")
		}
	})
}
