package storage

const schema = `
-- User profiles. 'aim' is the daily target of newly learned cards.
CREATE TABLE IF NOT EXISTS profiles (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    aim INTEGER NOT NULL DEFAULT 0,
    about TEXT NOT NULL DEFAULT '',
    private INTEGER NOT NULL DEFAULT 1
);

-- Live decks, owned by a profile. Deleting a deck cascades to its cards,
-- success records and statistics.
CREATE TABLE IF NOT EXISTS decks (
    id TEXT PRIMARY KEY,
    profile_id TEXT NOT NULL,
    template_id TEXT,
    name TEXT NOT NULL,
    favorite INTEGER NOT NULL DEFAULT 0,
    created DATETIME NOT NULL,

    FOREIGN KEY(profile_id) REFERENCES profiles(id) ON DELETE CASCADE,
    FOREIGN KEY(template_id) REFERENCES templates(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS deck_tags (
    deck_id TEXT NOT NULL,
    tag TEXT NOT NULL,

    UNIQUE(deck_id, tag),
    FOREIGN KEY(deck_id) REFERENCES decks(id) ON DELETE CASCADE
);

-- Shareable deck templates. 'source_id' links templates produced by the
-- importer back to their markdown source.
CREATE TABLE IF NOT EXISTS templates (
    id TEXT PRIMARY KEY,
    creator_id TEXT NOT NULL,
    name TEXT NOT NULL,
    public INTEGER NOT NULL DEFAULT 0,
    downloads INTEGER NOT NULL DEFAULT 0,
    source_id INTEGER,
    created DATETIME NOT NULL,

    FOREIGN KEY(creator_id) REFERENCES profiles(id) ON DELETE CASCADE,
    FOREIGN KEY(source_id) REFERENCES sources(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS template_tags (
    template_id TEXT NOT NULL,
    tag TEXT NOT NULL,

    UNIQUE(template_id, tag),
    FOREIGN KEY(template_id) REFERENCES templates(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS template_shares (
    template_id TEXT NOT NULL,
    profile_id TEXT NOT NULL,

    UNIQUE(template_id, profile_id),
    FOREIGN KEY(template_id) REFERENCES templates(id) ON DELETE CASCADE,
    FOREIGN KEY(profile_id) REFERENCES profiles(id) ON DELETE CASCADE
);

-- Template cards carry content only; scheduling state begins at
-- instantiation. The fingerprint dedupes cards during imports.
CREATE TABLE IF NOT EXISTS template_cards (
    id TEXT PRIMARY KEY,
    template_id TEXT NOT NULL,
    name TEXT NOT NULL,
    word TEXT NOT NULL,
    helper_text TEXT NOT NULL DEFAULT '',
    definition TEXT NOT NULL DEFAULT '',
    examples TEXT NOT NULL DEFAULT '[]',
    fingerprint TEXT NOT NULL,

    UNIQUE(template_id, fingerprint),
    FOREIGN KEY(template_id) REFERENCES templates(id) ON DELETE CASCADE
);

-- Live cards with their scheduling state. 'day' columns are date-only.
CREATE TABLE IF NOT EXISTS cards (
    id TEXT PRIMARY KEY,
    deck_id TEXT NOT NULL,
    template_id TEXT,
    name TEXT NOT NULL,
    word TEXT NOT NULL DEFAULT '',
    helper_text TEXT NOT NULL DEFAULT '',
    definition TEXT NOT NULL DEFAULT '',
    examples TEXT NOT NULL DEFAULT '[]',
    state INTEGER NOT NULL DEFAULT 0, -- 0: idle, 1: viewed, 2: again, 3: good
    opened DATETIME,
    next_due DATETIME,
    k REAL NOT NULL DEFAULT 2.5,
    created DATETIME NOT NULL,

    FOREIGN KEY(deck_id) REFERENCES decks(id) ON DELETE CASCADE,
    FOREIGN KEY(template_id) REFERENCES template_cards(id) ON DELETE SET NULL
);

-- At most one success per card per calendar day; the UNIQUE constraint is
-- the correctness backstop for duplicate submissions.
CREATE TABLE IF NOT EXISTS success_records (
    card_id TEXT NOT NULL,
    day TEXT NOT NULL,

    UNIQUE(card_id, day),
    FOREIGN KEY(card_id) REFERENCES cards(id) ON DELETE CASCADE
);

-- One statistics row per (deck, day), created lazily on the first event.
CREATE TABLE IF NOT EXISTS deck_stats (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    deck_id TEXT NOT NULL,
    day TEXT NOT NULL,
    seconds_gone INTEGER NOT NULL DEFAULT 0,

    UNIQUE(deck_id, day),
    FOREIGN KEY(deck_id) REFERENCES decks(id) ON DELETE CASCADE
);

-- Learned/failed sets for a stats row. Set semantics via the UNIQUE
-- constraint: re-adding a card is ignored.
CREATE TABLE IF NOT EXISTS deck_stat_cards (
    stat_id INTEGER NOT NULL,
    card_id TEXT NOT NULL,
    outcome TEXT NOT NULL, -- 'learned' or 'failed'

    UNIQUE(stat_id, card_id, outcome),
    FOREIGN KEY(stat_id) REFERENCES deck_stats(id) ON DELETE CASCADE
);

-- Template sources: local directories or git repositories of markdown files.
CREATE TABLE IF NOT EXISTS sources (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    kind TEXT NOT NULL, -- 'local' or 'git'
    last_imported DATETIME
);
`
