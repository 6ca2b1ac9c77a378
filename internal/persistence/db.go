// Package persistence provides SQLite-based world state storage. Saves
// are full replaces inside one transaction; a load reconstructs the
// world and rebinds everything the JSON round trip cannot carry.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/living-world/internal/agents"
	"github.com/talgya/living-world/internal/chronicle"
	"github.com/talgya/living-world/internal/engine"
	"github.com/talgya/living-world/internal/goals"
	"github.com/talgya/living-world/internal/skills"
)

// DB wraps a SQLite connection for world state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS agents (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		alive INTEGER NOT NULL,
		agent_json TEXT NOT NULL,
		chronicle_json TEXT NOT NULL,
		goals_json TEXT NOT NULL,
		skills_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS economy (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		economy_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS partnerships (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		registry_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS buildings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		registry_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS legacies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		legacy_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		kind TEXT NOT NULL,
		description TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	CREATE INDEX IF NOT EXISTS idx_agents_alive ON agents(alive);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Save writes the whole world in one transaction, replacing the previous
// snapshot.
func (db *DB) Save(w *engine.World) error {
	slog.Info("saving world", "tick", w.Tick, "agents", len(w.Agents))

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"agents", "economy", "partnerships", "buildings", "legacies", "events"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	stmt, err := tx.Preparex(`INSERT INTO agents
		(id, name, alive, agent_json, chronicle_json, goals_json, skills_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range w.Agents {
		agentJSON, _ := json.Marshal(a)
		chronJSON, _ := json.Marshal(a.Chronicle)
		goalsJSON, _ := json.Marshal(a.Goals)
		skillsJSON, _ := json.Marshal(a.Skills)

		alive := 0
		if a.Alive {
			alive = 1
		}
		if _, err := stmt.Exec(a.ID, a.Name, alive,
			string(agentJSON), string(chronJSON), string(goalsJSON), string(skillsJSON)); err != nil {
			return fmt.Errorf("insert agent %d: %w", a.ID, err)
		}
	}

	if err := saveBlob(tx, "economy", "economy_json", w.Economy); err != nil {
		return err
	}
	if err := saveBlob(tx, "partnerships", "registry_json", w.Partnerships); err != nil {
		return err
	}
	if err := saveBlob(tx, "buildings", "registry_json", w.Buildings); err != nil {
		return err
	}

	for _, l := range w.Legacies {
		b, _ := json.Marshal(l)
		if _, err := tx.Exec("INSERT INTO legacies (legacy_json) VALUES (?)", string(b)); err != nil {
			return fmt.Errorf("insert legacy: %w", err)
		}
	}

	for _, ev := range w.Events {
		if _, err := tx.Exec("INSERT INTO events (tick, kind, description) VALUES (?, ?, ?)",
			ev.Tick, ev.Kind, ev.Description); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}

	if _, err := tx.Exec("INSERT OR REPLACE INTO world_meta (key, value) VALUES ('last_tick', ?)",
		fmt.Sprintf("%d", w.Tick)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("world saved")
	return nil
}

func saveBlob(tx *sqlx.Tx, table, col string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", table, err)
	}
	_, err = tx.Exec(fmt.Sprintf("INSERT INTO %s (id, %s) VALUES (1, ?)", table, col), string(b))
	if err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// Load restores a saved world into w, which must already carry its
// runtime wiring (field, spawner, decision engine, rng). Agents, the
// registries, legacies and the event log are replaced wholesale.
func (db *DB) Load(w *engine.World) error {
	var rows []struct {
		ID            uint64 `db:"id"`
		Name          string `db:"name"`
		Alive         int    `db:"alive"`
		AgentJSON     string `db:"agent_json"`
		ChronicleJSON string `db:"chronicle_json"`
		GoalsJSON     string `db:"goals_json"`
		SkillsJSON    string `db:"skills_json"`
	}
	if err := db.conn.Select(&rows, "SELECT * FROM agents ORDER BY id"); err != nil {
		return fmt.Errorf("load agents: %w", err)
	}

	w.Agents = nil
	for _, row := range rows {
		var a agents.Agent
		if err := json.Unmarshal([]byte(row.AgentJSON), &a); err != nil {
			return fmt.Errorf("decode agent %d: %w", row.ID, err)
		}

		var chron chronicle.Chronicle
		if err := json.Unmarshal([]byte(row.ChronicleJSON), &chron); err != nil {
			return fmt.Errorf("decode chronicle %d: %w", row.ID, err)
		}
		chron.Rehydrate()
		a.Chronicle = &chron

		var gt goals.Tracker
		if err := json.Unmarshal([]byte(row.GoalsJSON), &gt); err != nil {
			return fmt.Errorf("decode goals %d: %w", row.ID, err)
		}
		gt.Rebind(a.Chronicle)
		a.Goals = &gt

		var st skills.Tracker
		if err := json.Unmarshal([]byte(row.SkillsJSON), &st); err != nil {
			return fmt.Errorf("decode skills %d: %w", row.ID, err)
		}
		st.Rebind(a.Chronicle)
		a.Skills = &st

		w.Add(&a)
	}

	if err := loadBlob(db.conn, "economy", "economy_json", w.Economy); err != nil {
		return err
	}
	if err := loadBlob(db.conn, "partnerships", "registry_json", w.Partnerships); err != nil {
		return err
	}
	if err := loadBlob(db.conn, "buildings", "registry_json", w.Buildings); err != nil {
		return err
	}

	var legacyRows []string
	if err := db.conn.Select(&legacyRows, "SELECT legacy_json FROM legacies ORDER BY id"); err != nil {
		return fmt.Errorf("load legacies: %w", err)
	}
	w.Legacies = nil
	for _, lr := range legacyRows {
		var l agents.Legacy
		if err := json.Unmarshal([]byte(lr), &l); err != nil {
			return fmt.Errorf("decode legacy: %w", err)
		}
		w.Legacies = append(w.Legacies, l)
	}

	var evRows []engine.WorldEvent
	if err := db.conn.Select(&evRows, "SELECT tick, kind, description FROM events ORDER BY id"); err != nil {
		return fmt.Errorf("load events: %w", err)
	}
	w.Events = evRows

	var tickStr string
	if err := db.conn.Get(&tickStr, "SELECT value FROM world_meta WHERE key = 'last_tick'"); err == nil {
		fmt.Sscanf(tickStr, "%d", &w.Tick)
	}

	w.Rebuild()
	slog.Info("world loaded", "tick", w.Tick, "agents", len(w.Agents))
	return nil
}

func loadBlob(conn *sqlx.DB, table, col string, v any) error {
	var blob string
	err := conn.Get(&blob, fmt.Sprintf("SELECT %s FROM %s WHERE id = 1", col, table))
	if err != nil {
		// Empty table means a fresh world was saved before anything happened.
		return nil
	}
	if err := json.Unmarshal([]byte(blob), v); err != nil {
		return fmt.Errorf("decode %s: %w", table, err)
	}
	return nil
}

// HasSnapshot reports whether a previous save exists.
func (db *DB) HasSnapshot() bool {
	var n int
	if err := db.conn.Get(&n, "SELECT COUNT(*) FROM agents"); err != nil {
		return false
	}
	return n > 0
}
