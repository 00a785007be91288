package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/lldeck/lldeck/internal/config"
	"github.com/lldeck/lldeck/internal/domain"
	"github.com/lldeck/lldeck/internal/importer"
	"github.com/lldeck/lldeck/internal/srs"
	"github.com/lldeck/lldeck/internal/storage"
	"github.com/lldeck/lldeck/internal/web"
)

func main() {
	flags := config.Flags()
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		slog.Error("failed to parse flags", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	db, err := storage.Open(cfg.DB)
	if err != nil {
		log.Error("failed to open database", "db", cfg.DB, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database opened", "db", cfg.DB)

	owner, err := systemProfile(db, cfg.DefaultAim)
	if err != nil {
		log.Error("failed to ensure system profile", "error", err)
		os.Exit(1)
	}

	engine := srs.New(db, nil, log)
	im := importer.New(db, owner, cfg.ReposDir, nil, log)
	server := web.NewServer(db, engine, im, nil, log)

	log.Info("listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, server); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// systemProfileID is the fixed identity that owns imported templates.
var systemProfileID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// systemProfile makes sure the importer's owner profile exists.
func systemProfile(db *storage.DB, aim int) (uuid.UUID, error) {
	if _, err := db.Profile(systemProfileID); err == nil {
		return systemProfileID, nil
	}
	err := db.InsertProfile(domain.Profile{
		ID:   systemProfileID,
		Name: "lldeck",
		Aim:  aim,
	})
	if err != nil {
		return uuid.Nil, err
	}
	return systemProfileID, nil
}
