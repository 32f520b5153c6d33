package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nexuscoach/nexuscoach/internal/domain"
	"github.com/nexuscoach/nexuscoach/internal/shared"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	writeMu sync.Mutex // serializes advice/feedback upserts to prevent SQLITE_BUSY
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS session_logs (
		session_id TEXT PRIMARY KEY,
		locale TEXT,
		state_json TEXT,
		history_json TEXT,
		feedback_json TEXT,
		ended_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS turns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		text TEXT NOT NULL,
		reply TEXT NOT NULL,
		intent TEXT,
		locale TEXT,
		context_json TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id, created_at);

	CREATE TABLE IF NOT EXISTS advice_bank (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		champion TEXT NOT NULL DEFAULT '',
		lane TEXT NOT NULL DEFAULT '',
		enemy TEXT NOT NULL DEFAULT '',
		intent TEXT NOT NULL DEFAULT '',
		game_phase TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		reply_text TEXT NOT NULL,
		positive_count INTEGER NOT NULL DEFAULT 0,
		negative_count INTEGER NOT NULL DEFAULT 0,
		score INTEGER NOT NULL DEFAULT 0,
		last_seen INTEGER NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_advice_unique
		ON advice_bank(champion, lane, enemy, intent, game_phase, status, reply_text);

	CREATE TABLE IF NOT EXISTS corrections (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		champion TEXT NOT NULL,
		ability TEXT NOT NULL DEFAULT '',
		topic TEXT NOT NULL DEFAULT '',
		wrong_info TEXT,
		correct_info TEXT NOT NULL,
		correct_info_norm TEXT NOT NULL,
		confidence INTEGER NOT NULL DEFAULT 1,
		source_session TEXT,
		updated_at INTEGER NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_corrections_unique
		ON corrections(champion, ability, topic, correct_info_norm);

	CREATE TABLE IF NOT EXISTS champions (
		hero_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		title TEXT,
		alias TEXT,
		roles_json TEXT,
		lanes_json TEXT,
		difficulty INTEGER,
		damage INTEGER,
		survivability INTEGER,
		utility INTEGER,
		stats_json TEXT,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS champion_abilities (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hero_id TEXT NOT NULL,
		champion_name TEXT,
		ability_key TEXT NOT NULL,
		ability_name TEXT,
		description TEXT,
		UNIQUE(hero_id, ability_key)
	);

	CREATE TABLE IF NOT EXISTS champion_winrates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hero_id TEXT NOT NULL,
		position TEXT NOT NULL,
		win_rate REAL,
		pick_rate REAL,
		ban_rate REAL,
		strength_tier INTEGER,
		stat_date TEXT NOT NULL,
		UNIQUE(hero_id, position, stat_date)
	);

	CREATE TABLE IF NOT EXISTS items (
		item_id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL,
		name_normalized TEXT,
		category TEXT,
		gold_cost INTEGER,
		stats_json TEXT,
		passive_desc TEXT,
		tags_json TEXT,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS matchup_tips (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		champion TEXT NOT NULL,
		enemy TEXT NOT NULL,
		lane TEXT NOT NULL DEFAULT '',
		difficulty INTEGER,
		tips_json TEXT,
		counter_items_json TEXT,
		power_spikes_json TEXT,
		score INTEGER NOT NULL DEFAULT 0,
		UNIQUE(champion, enemy, lane)
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// LogSessionEnd durably records an ended session and reinforces the
// advice bank when feedback is present.
func (s *SQLiteStore) LogSessionEnd(ctx context.Context, session *domain.Session, feedback *domain.Feedback) error {
	stateJSON, err := json.Marshal(session.State)
	if err != nil {
		return fmt.Errorf("marshal session state: %w", err)
	}
	historyJSON, err := json.Marshal(session.History)
	if err != nil {
		return fmt.Errorf("marshal session history: %w", err)
	}
	var feedbackJSON any
	if feedback != nil {
		raw, err := json.Marshal(feedback)
		if err != nil {
			return fmt.Errorf("marshal feedback: %w", err)
		}
		feedbackJSON = string(raw)
	}

	query := `
	INSERT INTO session_logs (session_id, locale, state_json, history_json, feedback_json, ended_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(session_id) DO UPDATE SET
		locale = excluded.locale,
		state_json = excluded.state_json,
		history_json = excluded.history_json,
		feedback_json = excluded.feedback_json,
		ended_at = excluded.ended_at`

	_, err = s.db.ExecContext(ctx, query,
		session.ID, session.Locale, string(stateJSON), string(historyJSON),
		feedbackJSON, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("log session end: %w", err)
	}

	if feedback != nil && feedback.Valid() {
		if err := s.reinforceAdvice(ctx, session, *feedback); err != nil {
			return fmt.Errorf("reinforce advice: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) reinforceAdvice(ctx context.Context, session *domain.Session, feedback domain.Feedback) error {
	positive, negative, score := 0, 0, -1
	if feedback.Rating == domain.RatingGood {
		positive, score = 1, 1
	} else {
		negative = 1
	}

	query := `
	INSERT INTO advice_bank
		(champion, lane, enemy, intent, game_phase, status, reply_text,
		 positive_count, negative_count, score, last_seen)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(champion, lane, enemy, intent, game_phase, status, reply_text) DO UPDATE SET
		positive_count = advice_bank.positive_count + excluded.positive_count,
		negative_count = advice_bank.negative_count + excluded.negative_count,
		score = advice_bank.score + excluded.score,
		last_seen = excluded.last_seen`

	for _, turn := range session.History {
		if turn.Reply == "" {
			continue
		}
		champion := firstNonEmpty(turn.Context.Champion, session.State.Champion)
		lane := firstNonEmpty(turn.Context.Lane, session.State.Lane)
		enemy := firstNonEmpty(turn.Context.Enemy, session.State.Enemy)
		phase := firstNonEmpty(turn.Context.GamePhase, session.State.GamePhase)
		status := firstNonEmpty(turn.Context.Status, session.State.Status)

		if err := s.upsertAdviceWithRetry(ctx, query,
			champion, lane, enemy, turn.Intent, phase, status, turn.Reply,
			positive, negative, score, time.Now().Unix(),
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) upsertAdviceWithRetry(ctx context.Context, query string, args ...any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	maxRetries := 3
	baseDelay := 100 * time.Millisecond
	var err error
	for i := 0; i < maxRetries; i++ {
		_, err = s.db.ExecContext(ctx, query, args...)
		if err == nil {
			return nil
		}
		if shared.IsSQLiteConflictError(err) && i < maxRetries-1 {
			delay := baseDelay * time.Duration(1<<i)
			slog.Debug("advice upsert hit busy database, retrying", "attempt", i+1, "delay", delay)
			time.Sleep(delay)
			continue
		}
		break
	}
	return fmt.Errorf("upsert advice: %w", err)
}

// SaveTurn appends one completed turn to the durable turn log.
func (s *SQLiteStore) SaveTurn(ctx context.Context, sessionID, locale string, turn domain.TurnRecord) error {
	contextJSON, err := json.Marshal(turn.Context)
	if err != nil {
		return fmt.Errorf("marshal turn context: %w", err)
	}
	query := `
	INSERT INTO turns (session_id, text, reply, intent, locale, context_json, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query,
		sessionID, turn.Text, turn.Reply, turn.Intent, locale,
		string(contextJSON), turn.Timestamp.Unix(),
	)
	if err != nil {
		return fmt.Errorf("save turn: %w", err)
	}
	return nil
}

// SessionTurns returns the logged turns for one session, oldest first.
func (s *SQLiteStore) SessionTurns(ctx context.Context, sessionID string, limit int) ([]StoredTurn, error) {
	query := `
	SELECT session_id, text, reply, intent, context_json, created_at
	FROM turns WHERE session_id = ?
	ORDER BY created_at ASC, id ASC
	LIMIT ?`
	return s.queryTurns(ctx, query, sessionID, limit)
}

// RecentTurns returns the most recently logged turns across sessions.
func (s *SQLiteStore) RecentTurns(ctx context.Context, limit int) ([]StoredTurn, error) {
	query := `
	SELECT session_id, text, reply, intent, context_json, created_at
	FROM turns
	ORDER BY created_at DESC, id DESC
	LIMIT ?`
	return s.queryTurns(ctx, query, limit)
}

func (s *SQLiteStore) queryTurns(ctx context.Context, query string, args ...any) ([]StoredTurn, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer closeRows(rows, "turns")

	var turns []StoredTurn
	for rows.Next() {
		var entry StoredTurn
		var contextJSON sql.NullString
		var createdAt int64
		if err := rows.Scan(
			&entry.SessionID, &entry.Turn.Text, &entry.Turn.Reply,
			&entry.Turn.Intent, &contextJSON, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan turn row: %w", err)
		}
		if contextJSON.Valid && contextJSON.String != "" {
			if err := json.Unmarshal([]byte(contextJSON.String), &entry.Turn.Context); err != nil {
				slog.Warn("failed to decode turn context", "session_id", entry.SessionID, "error", err)
			}
		}
		entry.Turn.Timestamp = time.Unix(createdAt, 0)
		turns = append(turns, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}
	return turns, nil
}

// QueryAdviceCandidates returns advice rows where at least one field of
// the composite key matches the current context, plus positively
// reinforced rows whose key fields never matched anything. Those generic
// rows carry their feedback score into ranking like any other candidate.
// Ordered by score before recency so the limit cannot cut an old
// high-score row ahead of a fresh unproven one.
func (s *SQLiteStore) QueryAdviceCandidates(ctx context.Context, state domain.GameState, intent string, limit int) ([]domain.AdviceRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
	SELECT champion, lane, enemy, intent, game_phase, status, reply_text,
	       positive_count, negative_count, score, last_seen
	FROM advice_bank
	WHERE (champion != '' AND champion = ?)
	   OR (lane != '' AND lane = ?)
	   OR (enemy != '' AND enemy = ?)
	   OR (intent != '' AND intent = ?)
	   OR (game_phase != '' AND game_phase = ?)
	   OR (status != '' AND status = ?)
	   OR score > 0
	ORDER BY score DESC, last_seen DESC
	LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query,
		state.Champion, state.Lane, state.Enemy, intent,
		state.GamePhase, state.Status, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query advice candidates: %w", err)
	}
	defer closeRows(rows, "advice candidates")

	var records []domain.AdviceRecord
	for rows.Next() {
		var record domain.AdviceRecord
		var lastSeen int64
		if err := rows.Scan(
			&record.Champion, &record.Lane, &record.Enemy, &record.Intent,
			&record.GamePhase, &record.Status, &record.ReplyText,
			&record.PositiveCount, &record.NegativeCount, &record.Score, &lastSeen,
		); err != nil {
			return nil, fmt.Errorf("scan advice row: %w", err)
		}
		record.LastSeen = time.Unix(lastSeen, 0)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate advice rows: %w", err)
	}
	return records, nil
}

// SaveCorrection stores a factual amendment, bumping confidence on
// duplicates of the same normalized correct_info.
func (s *SQLiteStore) SaveCorrection(ctx context.Context, correction domain.Correction) (bool, error) {
	if correction.Champion == "" || correction.CorrectInfo == "" {
		return false, nil
	}
	norm := normalizeCorrection(correction.CorrectInfo)

	query := `
	INSERT INTO corrections
		(champion, ability, topic, wrong_info, correct_info, correct_info_norm,
		 confidence, source_session, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)
	ON CONFLICT(champion, ability, topic, correct_info_norm) DO UPDATE SET
		confidence = corrections.confidence + 1,
		updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		correction.Champion, correction.Ability, correction.Topic,
		correction.WrongInfo, correction.CorrectInfo, norm,
		correction.SourceSession, time.Now().Unix(),
	)
	if err != nil {
		return false, fmt.Errorf("save correction: %w", err)
	}
	return true, nil
}

// Corrections returns amendments for a champion, most confident first.
func (s *SQLiteStore) Corrections(ctx context.Context, champion string, limit int) ([]domain.Correction, error) {
	if limit <= 0 {
		limit = 5
	}
	query := `
	SELECT champion, ability, topic, wrong_info, correct_info, confidence, updated_at
	FROM corrections
	WHERE LOWER(champion) = LOWER(?)
	ORDER BY confidence DESC, updated_at DESC
	LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, champion, limit)
	if err != nil {
		return nil, fmt.Errorf("query corrections: %w", err)
	}
	defer closeRows(rows, "corrections")

	var corrections []domain.Correction
	for rows.Next() {
		var c domain.Correction
		var wrongInfo sql.NullString
		var updatedAt int64
		if err := rows.Scan(&c.Champion, &c.Ability, &c.Topic, &wrongInfo,
			&c.CorrectInfo, &c.Confidence, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan correction row: %w", err)
		}
		c.WrongInfo = wrongInfo.String
		c.UpdatedAt = time.Unix(updatedAt, 0)
		corrections = append(corrections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate corrections: %w", err)
	}
	return corrections, nil
}

// ChampionInfo returns the reference record for a champion.
func (s *SQLiteStore) ChampionInfo(ctx context.Context, name string) (*domain.ChampionInfo, error) {
	query := `
	SELECT hero_id, name, title, roles_json, lanes_json,
	       difficulty, damage, survivability, utility, stats_json
	FROM champions
	WHERE LOWER(name) = LOWER(?) OR LOWER(alias) = LOWER(?)
	LIMIT 1`

	row := s.db.QueryRowContext(ctx, query, name, name)

	var info domain.ChampionInfo
	var title, rolesJSON, lanesJSON, statsJSON sql.NullString
	var difficulty, damage, survivability, utility sql.NullInt64
	err := row.Scan(&info.HeroID, &info.Name, &title, &rolesJSON, &lanesJSON,
		&difficulty, &damage, &survivability, &utility, &statsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan champion row: %w", err)
	}

	info.Title = title.String
	info.Difficulty = int(difficulty.Int64)
	// NULL scores stay nil so the analyzer can tell "unscored" from an
	// explicit zero.
	if damage.Valid {
		v := int(damage.Int64)
		info.Damage = &v
	}
	if survivability.Valid {
		v := int(survivability.Int64)
		info.Survivability = &v
	}
	info.Utility = int(utility.Int64)
	decodeJSONList(rolesJSON, &info.Roles, "champion roles")
	decodeJSONList(lanesJSON, &info.Lanes, "champion lanes")
	if statsJSON.Valid && statsJSON.String != "" {
		if err := json.Unmarshal([]byte(statsJSON.String), &info.Stats); err != nil {
			slog.Warn("failed to decode champion stats", "champion", info.Name, "error", err)
		}
	}
	return &info, nil
}

// ChampionAbilities returns abilities in passive/q/w/e/r order.
func (s *SQLiteStore) ChampionAbilities(ctx context.Context, name string) ([]domain.Ability, error) {
	heroID, err := s.heroID(ctx, name)
	if err != nil || heroID == "" {
		return nil, err
	}

	query := `
	SELECT ability_key, ability_name, description
	FROM champion_abilities
	WHERE hero_id = ?
	ORDER BY
		CASE ability_key
			WHEN 'passive' THEN 0
			WHEN 'q' THEN 1
			WHEN 'w' THEN 2
			WHEN 'e' THEN 3
			WHEN 'r' THEN 4
			ELSE 5
		END`

	rows, err := s.db.QueryContext(ctx, query, heroID)
	if err != nil {
		return nil, fmt.Errorf("query abilities: %w", err)
	}
	defer closeRows(rows, "abilities")

	var abilities []domain.Ability
	for rows.Next() {
		var a domain.Ability
		var abilityName, description sql.NullString
		if err := rows.Scan(&a.Key, &abilityName, &description); err != nil {
			return nil, fmt.Errorf("scan ability row: %w", err)
		}
		a.Name = abilityName.String
		a.Description = description.String
		abilities = append(abilities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate abilities: %w", err)
	}
	return abilities, nil
}

// ChampionWinrate returns the latest winrate snapshot for a champion.
func (s *SQLiteStore) ChampionWinrate(ctx context.Context, name, position string) (*domain.Winrate, error) {
	heroID, err := s.heroID(ctx, name)
	if err != nil || heroID == "" {
		return nil, err
	}

	var row *sql.Row
	if position != "" {
		query := `
		SELECT position, win_rate, pick_rate, ban_rate, strength_tier
		FROM champion_winrates
		WHERE hero_id = ? AND position = ?
		ORDER BY stat_date DESC
		LIMIT 1`
		row = s.db.QueryRowContext(ctx, query, heroID, position)
	} else {
		query := `
		SELECT position, win_rate, pick_rate, ban_rate, strength_tier
		FROM champion_winrates
		WHERE hero_id = ?
		ORDER BY pick_rate DESC, stat_date DESC
		LIMIT 1`
		row = s.db.QueryRowContext(ctx, query, heroID)
	}

	var wr domain.Winrate
	var winRate, pickRate, banRate sql.NullFloat64
	var tier sql.NullInt64
	err = row.Scan(&wr.Position, &winRate, &pickRate, &banRate, &tier)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan winrate row: %w", err)
	}

	// Rates are stored as fractions; surface them as percentages.
	wr.WinRate = winRate.Float64 * 100
	wr.PickRate = pickRate.Float64 * 100
	wr.BanRate = banRate.Float64 * 100
	wr.Tier = int(tier.Int64)
	return &wr, nil
}

// ItemInfo returns one item by exact, normalized, or fuzzy name.
func (s *SQLiteStore) ItemInfo(ctx context.Context, name string) (*domain.Item, error) {
	normalized := strings.ReplaceAll(strings.ReplaceAll(strings.ToLower(name), " ", "_"), "'", "")
	query := `
	SELECT name, category, gold_cost, stats_json, passive_desc, tags_json
	FROM items
	WHERE LOWER(name) = LOWER(?) OR name_normalized = ? OR name LIKE ?
	LIMIT 1`

	row := s.db.QueryRowContext(ctx, query, name, normalized, "%"+name+"%")
	item, err := scanItem(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan item row: %w", err)
	}
	return item, nil
}

// ItemsByCategory lists items in a category, most expensive first.
func (s *SQLiteStore) ItemsByCategory(ctx context.Context, category string, limit int) ([]domain.Item, error) {
	if limit <= 0 {
		limit = 5
	}
	query := `
	SELECT name, category, gold_cost, stats_json, passive_desc, tags_json
	FROM items
	WHERE category = ?
	ORDER BY gold_cost DESC
	LIMIT ?`
	return s.queryItems(ctx, query, category, limit)
}

// CounterItems lists items answering the composition filter flags.
func (s *SQLiteStore) CounterItems(ctx context.Context, filter domain.CounterItemFilter) ([]domain.Item, error) {
	var conditions []string
	var args []any

	if filter.NeedsAntiHeal {
		conditions = append(conditions, `tags_json LIKE '%"anti_heal"%'`)
	}
	if filter.NeedsArmorPen {
		conditions = append(conditions, `tags_json LIKE '%"armor_pen"%'`)
	}
	if filter.NeedsMagicResist {
		conditions = append(conditions, `CAST(json_extract(stats_json, '$.magic_resist') AS INTEGER) > 0`)
	}
	if filter.NeedsArmor {
		conditions = append(conditions, `CAST(json_extract(stats_json, '$.armor') AS INTEGER) > 0`)
	}
	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}

	where := "1=1"
	if len(conditions) > 0 {
		where = strings.Join(conditions, " OR ")
	}

	query := `
	SELECT name, category, gold_cost, stats_json, passive_desc, tags_json
	FROM items
	WHERE ` + where + `
	ORDER BY gold_cost DESC
	LIMIT 5`
	return s.queryItems(ctx, query, args...)
}

// MatchupTips returns curated guidance for a champion/enemy pairing.
func (s *SQLiteStore) MatchupTips(ctx context.Context, champion, enemy, lane string) (*domain.MatchupTips, error) {
	var row *sql.Row
	if lane != "" {
		query := `
		SELECT champion, enemy, lane, difficulty, tips_json, counter_items_json, power_spikes_json, score
		FROM matchup_tips
		WHERE LOWER(champion) = LOWER(?) AND LOWER(enemy) = LOWER(?) AND LOWER(lane) = LOWER(?)
		LIMIT 1`
		row = s.db.QueryRowContext(ctx, query, champion, enemy, lane)
	} else {
		query := `
		SELECT champion, enemy, lane, difficulty, tips_json, counter_items_json, power_spikes_json, score
		FROM matchup_tips
		WHERE LOWER(champion) = LOWER(?) AND LOWER(enemy) = LOWER(?)
		ORDER BY score DESC
		LIMIT 1`
		row = s.db.QueryRowContext(ctx, query, champion, enemy)
	}

	var tips domain.MatchupTips
	var difficulty sql.NullInt64
	var tipsJSON, counterJSON, spikesJSON sql.NullString
	err := row.Scan(&tips.Champion, &tips.Enemy, &tips.Lane, &difficulty,
		&tipsJSON, &counterJSON, &spikesJSON, &tips.Score)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan matchup tips row: %w", err)
	}

	tips.Difficulty = int(difficulty.Int64)
	decodeJSONList(tipsJSON, &tips.Tips, "matchup tips")
	decodeJSONList(counterJSON, &tips.CounterItems, "matchup counter items")
	decodeJSONList(spikesJSON, &tips.PowerSpikes, "matchup power spikes")
	return &tips, nil
}

func (s *SQLiteStore) heroID(ctx context.Context, name string) (string, error) {
	query := `
	SELECT hero_id FROM champions
	WHERE LOWER(name) = LOWER(?) OR LOWER(alias) = LOWER(?)
	LIMIT 1`
	var heroID string
	err := s.db.QueryRowContext(ctx, query, name, name).Scan(&heroID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup hero id: %w", err)
	}
	return heroID, nil
}

func (s *SQLiteStore) queryItems(ctx context.Context, query string, args ...any) ([]domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer closeRows(rows, "items")

	var items []domain.Item
	for rows.Next() {
		item, err := scanItem(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan item row: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

func scanItem(scan func(...any) error) (*domain.Item, error) {
	var item domain.Item
	var category, statsJSON, passive, tagsJSON sql.NullString
	var goldCost sql.NullInt64
	if err := scan(&item.Name, &category, &goldCost, &statsJSON, &passive, &tagsJSON); err != nil {
		return nil, err
	}
	item.Category = category.String
	item.GoldCost = int(goldCost.Int64)
	item.Passive = passive.String
	if statsJSON.Valid && statsJSON.String != "" {
		if err := json.Unmarshal([]byte(statsJSON.String), &item.Stats); err != nil {
			slog.Warn("failed to decode item stats", "item", item.Name, "error", err)
		}
	}
	decodeJSONList(tagsJSON, &item.Tags, "item tags")
	return &item, nil
}

func decodeJSONList(raw sql.NullString, target *[]string, what string) {
	if !raw.Valid || raw.String == "" {
		return
	}
	if err := json.Unmarshal([]byte(raw.String), target); err != nil {
		slog.Warn("failed to decode stored list", "field", what, "error", err)
	}
}

func closeRows(rows *sql.Rows, what string) {
	if err := rows.Close(); err != nil {
		slog.Warn("failed to close rows", "query", what, "error", err)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func normalizeCorrection(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
