package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lldeck/lldeck/internal/domain"
)

// Stat outcome labels for deck_stat_cards rows.
const (
	outcomeLearned = "learned"
	outcomeFailed  = "failed"
)

// ensureStatsRow creates the (deck, day) stats row if it does not exist and
// returns its id. The UNIQUE(deck_id, day) constraint plus ON CONFLICT makes
// the get-or-create atomic under concurrent first events.
func (db *DB) ensureStatsRow(deckID uuid.UUID, day time.Time) (int64, error) {
	_, err := db.conn.Exec(`
		INSERT INTO deck_stats (deck_id, day) VALUES (?, ?)
		ON CONFLICT(deck_id, day) DO NOTHING
	`, deckID.String(), dayKey(day))
	if err != nil {
		return 0, fmt.Errorf("failed to ensure stats row for deck %s: %w", deckID, err)
	}

	var id int64
	err = db.conn.QueryRow(`
		SELECT id FROM deck_stats WHERE deck_id = ? AND day = ?
	`, deckID.String(), dayKey(day)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to read stats row for deck %s: %w", deckID, err)
	}
	return id, nil
}

// MarkLearned adds the card to the day's learned set.
func (db *DB) MarkLearned(deckID uuid.UUID, day time.Time, cardID uuid.UUID) error {
	return db.addStatCard(deckID, day, cardID, outcomeLearned)
}

// MarkFailed adds the card to the day's failed set.
func (db *DB) MarkFailed(deckID uuid.UUID, day time.Time, cardID uuid.UUID) error {
	return db.addStatCard(deckID, day, cardID, outcomeFailed)
}

func (db *DB) addStatCard(deckID uuid.UUID, day time.Time, cardID uuid.UUID, outcome string) error {
	statID, err := db.ensureStatsRow(deckID, day)
	if err != nil {
		return err
	}
	_, err = db.conn.Exec(`
		INSERT INTO deck_stat_cards (stat_id, card_id, outcome) VALUES (?, ?, ?)
		ON CONFLICT(stat_id, card_id, outcome) DO NOTHING
	`, statID, cardID.String(), outcome)
	if err != nil {
		return fmt.Errorf("failed to add %s card %s to stats: %w", outcome, cardID, err)
	}
	return nil
}

// AddStudyTime accumulates elapsed study seconds onto the day's stats row.
func (db *DB) AddStudyTime(deckID uuid.UUID, day time.Time, seconds int64) error {
	statID, err := db.ensureStatsRow(deckID, day)
	if err != nil {
		return err
	}
	_, err = db.conn.Exec(`
		UPDATE deck_stats SET seconds_gone = seconds_gone + ? WHERE id = ?
	`, seconds, statID)
	if err != nil {
		return fmt.Errorf("failed to add study time for deck %s: %w", deckID, err)
	}
	return nil
}

// DeckDailyStats returns the stats row for (deck, day). A day with no events
// yields an empty row, not an error.
func (db *DB) DeckDailyStats(deckID uuid.UUID, day time.Time) (domain.DailyStats, error) {
	stats := domain.DailyStats{DeckID: deckID, Day: domain.DayOf(day)}

	var statID int64
	err := db.conn.QueryRow(`
		SELECT id, seconds_gone FROM deck_stats WHERE deck_id = ? AND day = ?
	`, deckID.String(), dayKey(day)).Scan(&statID, &stats.SecondsGone)
	if errors.Is(err, sql.ErrNoRows) {
		return stats, nil
	}
	if err != nil {
		return domain.DailyStats{}, fmt.Errorf("failed to get stats for deck %s: %w", deckID, err)
	}

	rows, err := db.conn.Query(`
		SELECT card_id, outcome FROM deck_stat_cards WHERE stat_id = ? ORDER BY rowid
	`, statID)
	if err != nil {
		return domain.DailyStats{}, fmt.Errorf("failed to get stat cards for deck %s: %w", deckID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rawID   string
			outcome string
		)
		if err := rows.Scan(&rawID, &outcome); err != nil {
			return domain.DailyStats{}, fmt.Errorf("failed to scan stat card row: %w", err)
		}
		cardID, err := uuid.Parse(rawID)
		if err != nil {
			return domain.DailyStats{}, fmt.Errorf("failed to parse stat card id %q: %w", rawID, err)
		}
		switch outcome {
		case outcomeLearned:
			stats.Learned = append(stats.Learned, cardID)
		case outcomeFailed:
			stats.Failed = append(stats.Failed, cardID)
		}
	}
	return stats, rows.Err()
}
