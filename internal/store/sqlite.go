package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/xDerniexD/nuzlocke-tracker/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and migrates) the database at dsn.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			run_name TEXT NOT NULL,
			game TEXT NOT NULL,
			mode TEXT NOT NULL,
			archived INTEGER NOT NULL DEFAULT 0,
			invite_code TEXT NOT NULL DEFAULT '',
			editor_invite_code TEXT NOT NULL DEFAULT '',
			spectator_id TEXT NOT NULL DEFAULT '',
			dupes_clause INTEGER NOT NULL DEFAULT 1,
			shiny_clause INTEGER NOT NULL DEFAULT 1,
			custom_rules TEXT NOT NULL DEFAULT '',
			team TEXT NOT NULL DEFAULT '[]',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_invite ON runs(invite_code)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_spectator ON runs(spectator_id)`,
		`CREATE TABLE IF NOT EXISTS run_members (
			run_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			role TEXT NOT NULL,
			joined_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (run_id, user_id),
			FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_members_user ON run_members(user_id)`,
		`CREATE TABLE IF NOT EXISTS encounters (
			slot_id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			location_de TEXT NOT NULL,
			location_en TEXT NOT NULL,
			sequence REAL NOT NULL,
			level_cap INTEGER NOT NULL DEFAULT 0,
			badge_image TEXT NOT NULL DEFAULT '',
			p1_species TEXT NOT NULL DEFAULT '',
			p1_species_id INTEGER NOT NULL DEFAULT 0,
			p1_types TEXT NOT NULL DEFAULT '[]',
			p1_family_id INTEGER NOT NULL DEFAULT 0,
			p1_nickname TEXT NOT NULL DEFAULT '',
			p1_status TEXT NOT NULL DEFAULT '',
			p1_faint_cause TEXT NOT NULL DEFAULT '',
			p2_species TEXT NOT NULL DEFAULT '',
			p2_species_id INTEGER NOT NULL DEFAULT 0,
			p2_types TEXT NOT NULL DEFAULT '[]',
			p2_family_id INTEGER NOT NULL DEFAULT 0,
			p2_nickname TEXT NOT NULL DEFAULT '',
			p2_status TEXT NOT NULL DEFAULT '',
			p2_faint_cause TEXT NOT NULL DEFAULT '',
			FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_encounters_run ON encounters(run_id, sequence)`,
		`CREATE TABLE IF NOT EXISTS legendary_encounters (
			entry_id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			species_id INTEGER NOT NULL DEFAULT 0,
			species_name TEXT NOT NULL,
			player_id TEXT NOT NULL,
			method TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_legendary_run ON legendary_encounters(run_id, created_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func marshalStrings(v []string) string {
	if v == nil {
		v = []string{}
	}
	data, _ := json.Marshal(v)
	return string(data)
}

func unmarshalStrings(raw string) []string {
	if raw == "" {
		return nil
	}
	var v []string
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil
	}
	return v
}

// CreateRun inserts the run, its members and its full timeline in one
// transaction; a failed catalogue or insert leaves no partial run.
func (s *SQLiteStore) CreateRun(ctx context.Context, run *domain.Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, run_name, game, mode, archived, invite_code, editor_invite_code, spectator_id,
			dupes_clause, shiny_clause, custom_rules, team, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.RunName, run.Game, string(run.Mode), run.Archived,
		run.InviteCode, run.EditorInviteCode, run.SpectatorID,
		run.Rules.DupesClause, run.Rules.ShinyClause, run.Rules.CustomRules,
		marshalStrings(run.Team), run.CreatedAt, run.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, p := range run.Participants {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_members (run_id, user_id, role) VALUES (?, ?, ?)`,
			run.RunID, p, string(domain.RoleParticipant)); err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}
	for _, e := range run.Editors {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_members (run_id, user_id, role) VALUES (?, ?, ?)`,
			run.RunID, e, string(domain.RoleEditor)); err != nil {
			return fmt.Errorf("failed to insert editor: %w", err)
		}
	}

	for i := range run.Encounters {
		if err := insertEncounter(ctx, tx, run.RunID, &run.Encounters[i]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertEncounter(ctx context.Context, tx *sql.Tx, runID string, enc *domain.Encounter) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO encounters (slot_id, run_id, kind, location_de, location_en, sequence, level_cap, badge_image,
			p1_species, p1_species_id, p1_types, p1_family_id, p1_nickname, p1_status, p1_faint_cause,
			p2_species, p2_species_id, p2_types, p2_family_id, p2_nickname, p2_status, p2_faint_cause)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		enc.SlotID, runID, string(enc.Kind), enc.LocationDE, enc.LocationEN, enc.Sequence,
		enc.LevelCap, enc.BadgeImage,
		enc.P1.Species, enc.P1.SpeciesID, marshalStrings(enc.P1.Types), enc.P1.FamilyID,
		enc.P1.Nickname, string(enc.P1.Status), enc.P1.FaintCause,
		enc.P2.Species, enc.P2.SpeciesID, marshalStrings(enc.P2.Types), enc.P2.FamilyID,
		enc.P2.Nickname, string(enc.P2.Status), enc.P2.FaintCause)
	if err != nil {
		return fmt.Errorf("failed to insert encounter: %w", err)
	}
	return nil
}

func (s *SQLiteStore) getRunWhere(ctx context.Context, where string, arg interface{}) (*domain.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT run_id, run_name, game, mode, archived, invite_code, editor_invite_code, spectator_id,
			dupes_clause, shiny_clause, custom_rules, team, created_at, updated_at
		 FROM runs WHERE `+where, arg)

	var run domain.Run
	var mode, team string
	err := row.Scan(&run.RunID, &run.RunName, &run.Game, &mode, &run.Archived,
		&run.InviteCode, &run.EditorInviteCode, &run.SpectatorID,
		&run.Rules.DupesClause, &run.Rules.ShinyClause, &run.Rules.CustomRules,
		&team, &run.CreatedAt, &run.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	run.Mode = domain.Mode(mode)
	run.Team = unmarshalStrings(team)
	if run.Team == nil {
		run.Team = []string{}
	}

	if err := s.loadMembers(ctx, &run); err != nil {
		return nil, err
	}
	if err := s.loadEncounters(ctx, &run); err != nil {
		return nil, err
	}
	legendary, err := s.ListLegendary(ctx, run.RunID)
	if err != nil {
		return nil, err
	}
	run.Legendary = legendary
	return &run, nil
}

func (s *SQLiteStore) loadMembers(ctx context.Context, run *domain.Run) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, role FROM run_members WHERE run_id = ? ORDER BY joined_at ASC`, run.RunID)
	if err != nil {
		return fmt.Errorf("failed to load members: %w", err)
	}
	defer rows.Close()

	run.Participants = []string{}
	run.Editors = []string{}
	for rows.Next() {
		var userID, role string
		if err := rows.Scan(&userID, &role); err != nil {
			return fmt.Errorf("failed to scan member: %w", err)
		}
		if domain.Role(role) == domain.RoleParticipant {
			run.Participants = append(run.Participants, userID)
		} else {
			run.Editors = append(run.Editors, userID)
		}
	}
	return rows.Err()
}

func (s *SQLiteStore) loadEncounters(ctx context.Context, run *domain.Run) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT slot_id, kind, location_de, location_en, sequence, level_cap, badge_image,
			p1_species, p1_species_id, p1_types, p1_family_id, p1_nickname, p1_status, p1_faint_cause,
			p2_species, p2_species_id, p2_types, p2_family_id, p2_nickname, p2_status, p2_faint_cause
		 FROM encounters WHERE run_id = ? ORDER BY sequence ASC`, run.RunID)
	if err != nil {
		return fmt.Errorf("failed to load encounters: %w", err)
	}
	defer rows.Close()

	run.Encounters = []domain.Encounter{}
	for rows.Next() {
		var enc domain.Encounter
		var kind, s1, s2, t1, t2 string
		err := rows.Scan(&enc.SlotID, &kind, &enc.LocationDE, &enc.LocationEN, &enc.Sequence,
			&enc.LevelCap, &enc.BadgeImage,
			&enc.P1.Species, &enc.P1.SpeciesID, &t1, &enc.P1.FamilyID,
			&enc.P1.Nickname, &s1, &enc.P1.FaintCause,
			&enc.P2.Species, &enc.P2.SpeciesID, &t2, &enc.P2.FamilyID,
			&enc.P2.Nickname, &s2, &enc.P2.FaintCause)
		if err != nil {
			return fmt.Errorf("failed to scan encounter: %w", err)
		}
		enc.Kind = domain.Kind(kind)
		enc.P1.Status = domain.Status(s1)
		enc.P2.Status = domain.Status(s2)
		enc.P1.Types = unmarshalStrings(t1)
		enc.P2.Types = unmarshalStrings(t2)
		run.Encounters = append(run.Encounters, enc)
	}
	return rows.Err()
}

// GetRun returns the full run document, or nil if it does not exist.
func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*domain.Run, error) {
	return s.getRunWhere(ctx, "run_id = ?", runID)
}

func (s *SQLiteStore) GetRunByInviteCode(ctx context.Context, code string) (*domain.Run, error) {
	if code == "" {
		return nil, nil
	}
	return s.getRunWhere(ctx, "invite_code = ?", code)
}

func (s *SQLiteStore) GetRunByEditorInviteCode(ctx context.Context, code string) (*domain.Run, error) {
	if code == "" {
		return nil, nil
	}
	return s.getRunWhere(ctx, "editor_invite_code = ?", code)
}

func (s *SQLiteStore) GetRunBySpectatorID(ctx context.Context, spectatorID string) (*domain.Run, error) {
	if spectatorID == "" {
		return nil, nil
	}
	return s.getRunWhere(ctx, "spectator_id = ?", spectatorID)
}

// ListRunsForUser returns every run the user belongs to, as participant
// or editor.
func (s *SQLiteStore) ListRunsForUser(ctx context.Context, userID string) ([]domain.Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id FROM run_members WHERE user_id = ? ORDER BY joined_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	runs := []domain.Run{}
	for _, id := range ids {
		run, err := s.GetRun(ctx, id)
		if err != nil {
			return nil, err
		}
		if run != nil {
			runs = append(runs, *run)
		}
	}
	return runs, nil
}

func (s *SQLiteStore) DeleteRun(ctx context.Context, runID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return requireAffected(res)
}

func (s *SQLiteStore) AddMember(ctx context.Context, runID, userID string, role domain.Role) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO run_members (run_id, user_id, role) VALUES (?, ?, ?)`,
		runID, userID, string(role))
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return s.touch(ctx, runID)
}

func (s *SQLiteStore) RemoveMember(ctx context.Context, runID, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM run_members WHERE run_id = ? AND user_id = ?`, runID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return requireAffected(res)
}

func (s *SQLiteStore) ClearInviteCode(ctx context.Context, runID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET invite_code = '', updated_at = CURRENT_TIMESTAMP WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("failed to clear invite code: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SetEditorInviteCode(ctx context.Context, runID, code string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET editor_invite_code = ?, updated_at = CURRENT_TIMESTAMP WHERE run_id = ?`, code, runID)
	if err != nil {
		return fmt.Errorf("failed to set editor invite code: %w", err)
	}
	return requireAffected(res)
}

func (s *SQLiteStore) SetArchived(ctx context.Context, runID string, archived bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET archived = ?, updated_at = CURRENT_TIMESTAMP WHERE run_id = ?`, archived, runID)
	if err != nil {
		return fmt.Errorf("failed to set archived: %w", err)
	}
	return requireAffected(res)
}

// UpdateEncounter rewrites one slot row in full. The slot is the
// partial-update unit of the run document: racing writers to the same
// slot resolve last-write-wins.
func (s *SQLiteStore) UpdateEncounter(ctx context.Context, runID string, enc *domain.Encounter) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE encounters SET sequence = ?,
			p1_species = ?, p1_species_id = ?, p1_types = ?, p1_family_id = ?, p1_nickname = ?, p1_status = ?, p1_faint_cause = ?,
			p2_species = ?, p2_species_id = ?, p2_types = ?, p2_family_id = ?, p2_nickname = ?, p2_status = ?, p2_faint_cause = ?
		 WHERE slot_id = ? AND run_id = ?`,
		enc.Sequence,
		enc.P1.Species, enc.P1.SpeciesID, marshalStrings(enc.P1.Types), enc.P1.FamilyID,
		enc.P1.Nickname, string(enc.P1.Status), enc.P1.FaintCause,
		enc.P2.Species, enc.P2.SpeciesID, marshalStrings(enc.P2.Types), enc.P2.FamilyID,
		enc.P2.Nickname, string(enc.P2.Status), enc.P2.FaintCause,
		enc.SlotID, runID)
	if err != nil {
		return fmt.Errorf("failed to update encounter: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	return s.touch(ctx, runID)
}

// UpdateSequences applies new sequence values to the named slots only,
// in one transaction; everything else keeps its prior sequence.
func (s *SQLiteStore) UpdateSequences(ctx context.Context, runID string, seqs map[string]float64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	for slotID, seq := range seqs {
		if _, err := tx.ExecContext(ctx,
			`UPDATE encounters SET sequence = ? WHERE slot_id = ? AND run_id = ?`,
			seq, slotID, runID); err != nil {
			return fmt.Errorf("failed to update sequence: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE runs SET updated_at = CURRENT_TIMESTAMP WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("failed to touch run: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) UpdateTeam(ctx context.Context, runID string, team []string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET team = ?, updated_at = CURRENT_TIMESTAMP WHERE run_id = ?`,
		marshalStrings(team), runID)
	if err != nil {
		return fmt.Errorf("failed to update team: %w", err)
	}
	return requireAffected(res)
}

func (s *SQLiteStore) UpdateRules(ctx context.Context, runID string, rules domain.Rules) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET dupes_clause = ?, shiny_clause = ?, custom_rules = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE run_id = ?`,
		rules.DupesClause, rules.ShinyClause, rules.CustomRules, runID)
	if err != nil {
		return fmt.Errorf("failed to update rules: %w", err)
	}
	return requireAffected(res)
}

func (s *SQLiteStore) AddLegendary(ctx context.Context, runID string, entry *domain.LegendaryEncounter) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO legendary_encounters (entry_id, run_id, species_id, species_name, player_id, method, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.EntryID, runID, entry.SpeciesID, entry.SpeciesName, entry.PlayerID, entry.Method, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add legendary entry: %w", err)
	}
	return s.touch(ctx, runID)
}

func (s *SQLiteStore) RemoveLegendary(ctx context.Context, runID, entryID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM legendary_encounters WHERE run_id = ? AND entry_id = ?`, runID, entryID)
	if err != nil {
		return fmt.Errorf("failed to remove legendary entry: %w", err)
	}
	return requireAffected(res)
}

// RemoveLatestGenericLegendary deletes the newest species-less tally
// entry (species_id 0) for the player.
func (s *SQLiteStore) RemoveLatestGenericLegendary(ctx context.Context, runID, playerID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM legendary_encounters WHERE entry_id = (
			SELECT entry_id FROM legendary_encounters
			WHERE run_id = ? AND player_id = ? AND species_id = 0
			ORDER BY created_at DESC, entry_id DESC LIMIT 1
		)`, runID, playerID)
	if err != nil {
		return fmt.Errorf("failed to remove generic legendary entry: %w", err)
	}
	return requireAffected(res)
}

func (s *SQLiteStore) ListLegendary(ctx context.Context, runID string) ([]domain.LegendaryEncounter, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT entry_id, species_id, species_name, player_id, method, created_at
		 FROM legendary_encounters WHERE run_id = ? ORDER BY created_at ASC, entry_id ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list legendary entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.LegendaryEncounter{}
	for rows.Next() {
		var e domain.LegendaryEncounter
		if err := rows.Scan(&e.EntryID, &e.SpeciesID, &e.SpeciesName, &e.PlayerID, &e.Method, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan legendary entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) touch(ctx context.Context, runID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET updated_at = CURRENT_TIMESTAMP WHERE run_id = ?`, runID)
	return err
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
