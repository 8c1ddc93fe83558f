package omv

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const schema = `
-- Metadata
CREATE TABLE IF NOT EXISTS db_meta (
    key         TEXT PRIMARY KEY,
    value       TEXT NOT NULL
);

-- Source dimensions
CREATE TABLE IF NOT EXISTS sources (
    id          INTEGER PRIMARY KEY,
    key         TEXT NOT NULL UNIQUE,
    label       TEXT NOT NULL,
    file        TEXT
);

-- Suites
CREATE TABLE IF NOT EXISTS suites (
    id          INTEGER PRIMARY KEY,
    source_id   INTEGER NOT NULL REFERENCES sources(id),
    name        TEXT NOT NULL,
    UNIQUE(name, source_id)
);

-- Classes
CREATE TABLE IF NOT EXISTS classes (
    id              INTEGER PRIMARY KEY,
    name            TEXT NOT NULL,
    source_id       INTEGER NOT NULL REFERENCES sources(id),
    suite_id        INTEGER REFERENCES suites(id),
    is_enum         BOOLEAN NOT NULL DEFAULT 0,
    is_dynamic      BOOLEAN NOT NULL DEFAULT 0,
    description     TEXT,
    description_long TEXT,
    superclass_name TEXT,
    UNIQUE(name, source_id)
);

-- Properties
CREATE TABLE IF NOT EXISTS properties (
    id              INTEGER PRIMARY KEY,
    class_id        INTEGER NOT NULL REFERENCES classes(id),
    name            TEXT NOT NULL,
    description     TEXT,
    data_type       TEXT,
    data_type_ref   TEXT,
    is_array        BOOLEAN NOT NULL DEFAULT 0,
    is_readonly     BOOLEAN NOT NULL DEFAULT 0,
    element_type    TEXT NOT NULL DEFAULT 'instance',
    default_value   TEXT,
    min_value       TEXT,
    max_value       TEXT
);

-- Methods
CREATE TABLE IF NOT EXISTS methods (
    id              INTEGER PRIMARY KEY,
    class_id        INTEGER NOT NULL REFERENCES classes(id),
    name            TEXT NOT NULL,
    description     TEXT,
    return_type     TEXT,
    return_type_ref TEXT,
    return_is_array BOOLEAN NOT NULL DEFAULT 0,
    element_type    TEXT NOT NULL DEFAULT 'instance'
);

-- Parameters
CREATE TABLE IF NOT EXISTS parameters (
    id              INTEGER PRIMARY KEY,
    method_id       INTEGER NOT NULL REFERENCES methods(id),
    name            TEXT NOT NULL,
    description     TEXT,
    data_type       TEXT,
    data_type_ref   TEXT,
    is_array        BOOLEAN NOT NULL DEFAULT 0,
    is_optional     BOOLEAN NOT NULL DEFAULT 0,
    default_value   TEXT,
    sort_order      INTEGER NOT NULL
);

-- Full-text search
CREATE VIRTUAL TABLE IF NOT EXISTS dom_search USING fts5(
    entity_type,
    entity_name,
    parent_name,
    description,
    source
);

-- Indices
CREATE INDEX IF NOT EXISTS idx_properties_class ON properties(class_id);
CREATE INDEX IF NOT EXISTS idx_methods_class ON methods(class_id);
CREATE INDEX IF NOT EXISTS idx_parameters_method ON parameters(method_id);
CREATE INDEX IF NOT EXISTS idx_classes_suite ON classes(suite_id);
CREATE INDEX IF NOT EXISTS idx_classes_superclass ON classes(superclass_name);
CREATE INDEX IF NOT EXISTS idx_classes_source_name ON classes(source_id, name);
`

var sourceLabels = map[string]string{
	"dom":        "InDesign DOM",
	"javascript": "Core JavaScript",
	"scriptui":   "ScriptUI",
}

// BuildStats summarizes a completed database build.
type BuildStats struct {
	SourceCount    int    `json:"source_count"`
	ClassCount     int    `json:"class_count"`
	PropertyCount  int    `json:"property_count"`
	MethodCount    int    `json:"method_count"`
	ParameterCount int    `json:"parameter_count"`
	SuiteCount     int    `json:"suite_count"`
	FTSRows        int    `json:"fts_rows"`
	DBPath         string `json:"db_path"`
	BuildTimestamp string `json:"build_timestamp"`
}

type ftsRow struct {
	entityType  string
	entityName  string
	parentName  string
	description string
	source      string
}

// BuildDatabase recreates the reference database at dbPath from one or
// more parsed source payloads. Any existing file is removed first.
func BuildDatabase(payloads []*SourcePayload, dbPath string) (BuildStats, error) {
	if len(payloads) == 0 {
		return BuildStats{}, fmt.Errorf("omv: no source payloads to build from")
	}

	// The -wal and -shm sidecars carry pages from the previous build and
	// must go with the main file.
	for _, stale := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(stale); err != nil && !os.IsNotExist(err) {
			return BuildStats{}, fmt.Errorf("omv: removing stale database %s: %w", stale, err)
		}
	}

	conn, err := sqlite.OpenConn(dbPath, sqlite.OpenReadWrite|sqlite.OpenCreate|sqlite.OpenWAL)
	if err != nil {
		return BuildStats{}, fmt.Errorf("omv: opening %s: %w", dbPath, err)
	}
	defer conn.Close()

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	} {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return BuildStats{}, fmt.Errorf("omv: %s: %w", pragma, err)
		}
	}

	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return BuildStats{}, fmt.Errorf("omv: creating schema: %w", err)
	}

	stats, err := populate(conn, payloads, dbPath)
	if err != nil {
		return BuildStats{}, err
	}
	return stats, nil
}

func populate(conn *sqlite.Conn, payloads []*SourcePayload, dbPath string) (stats BuildStats, err error) {
	endFn, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return BuildStats{}, fmt.Errorf("omv: beginning transaction: %w", err)
	}
	defer endFn(&err)

	stats.DBPath = dbPath
	stats.SourceCount = len(payloads)
	stats.BuildTimestamp = time.Now().Format("2006-01-02T15:04:05")

	if err = insertMeta(conn, payloads, stats.BuildTimestamp); err != nil {
		return BuildStats{}, err
	}

	sourceIDs := map[string]int64{}
	for _, payload := range payloads {
		label := sourceLabels[payload.SourceKey]
		if label == "" {
			label = payload.SourceKey
		}
		err = sqlitex.Execute(conn,
			"INSERT INTO sources (key, label, file) VALUES (?, ?, ?)",
			&sqlitex.ExecOptions{Args: []any{payload.SourceKey, label, payload.SourceFile}})
		if err != nil {
			return BuildStats{}, fmt.Errorf("omv: inserting source %q: %w", payload.SourceKey, err)
		}
		sourceIDs[payload.SourceKey] = conn.LastInsertRowID()
	}

	suiteIDs := map[[2]string]int64{}
	for _, payload := range payloads {
		sourceID := sourceIDs[payload.SourceKey]
		for _, suiteName := range sortedKeys(payload.Suites) {
			err = sqlitex.Execute(conn,
				"INSERT INTO suites (source_id, name) VALUES (?, ?)",
				&sqlitex.ExecOptions{Args: []any{sourceID, suiteName}})
			if err != nil {
				return BuildStats{}, fmt.Errorf("omv: inserting suite %q: %w", suiteName, err)
			}
			suiteIDs[[2]string{payload.SourceKey, suiteName}] = conn.LastInsertRowID()
			stats.SuiteCount++
		}
	}

	var ftsRows []ftsRow
	for _, payload := range payloads {
		sourceID := sourceIDs[payload.SourceKey]
		for i := range payload.Classes {
			cls := &payload.Classes[i]
			rows, insErr := insertClass(conn, cls, sourceID, suiteIDs, &stats)
			if insErr != nil {
				err = insErr
				return BuildStats{}, err
			}
			ftsRows = append(ftsRows, rows...)
		}
	}

	for _, row := range ftsRows {
		err = sqlitex.Execute(conn,
			"INSERT INTO dom_search (entity_type, entity_name, parent_name, description, source) VALUES (?, ?, ?, ?, ?)",
			&sqlitex.ExecOptions{Args: []any{row.entityType, row.entityName, row.parentName, row.description, row.source}})
		if err != nil {
			return BuildStats{}, fmt.Errorf("omv: indexing %s %q: %w", row.entityType, row.entityName, err)
		}
	}
	stats.FTSRows = len(ftsRows)

	countMeta := map[string]int{
		"source_count":    stats.SourceCount,
		"class_count":     stats.ClassCount,
		"property_count":  stats.PropertyCount,
		"method_count":    stats.MethodCount,
		"parameter_count": stats.ParameterCount,
		"suite_count":     stats.SuiteCount,
	}
	for _, key := range sortedKeys(countMeta) {
		err = sqlitex.Execute(conn,
			"INSERT INTO db_meta (key, value) VALUES (?, ?)",
			&sqlitex.ExecOptions{Args: []any{key, strconv.Itoa(countMeta[key])}})
		if err != nil {
			return BuildStats{}, fmt.Errorf("omv: writing db_meta: %w", err)
		}
	}

	return stats, nil
}

func insertMeta(conn *sqlite.Conn, payloads []*SourcePayload, buildTS string) error {
	sourceFiles := make([]string, 0, len(payloads))
	sourceKeys := make([]string, 0, len(payloads))
	for _, p := range payloads {
		sourceFiles = append(sourceFiles, p.SourceFile)
		sourceKeys = append(sourceKeys, p.SourceKey)
	}
	filesJSON, err := json.Marshal(sourceFiles)
	if err != nil {
		return fmt.Errorf("omv: encoding source files: %w", err)
	}

	// Version and title come from the primary DOM source when present.
	domPayload := payloads[0]
	for _, p := range payloads {
		if p.SourceKey == "dom" {
			domPayload = p
			break
		}
	}

	meta := [][2]string{
		{"source_file", domPayload.SourceFile},
		{"source_files", string(filesJSON)},
		{"source_keys", strings.Join(sourceKeys, ",")},
		{"dom_version", domPayload.Version},
		{"dom_title", domPayload.Title},
		{"build_timestamp", buildTS},
		{"parser_version", ParserVersion},
	}
	for _, kv := range meta {
		err := sqlitex.Execute(conn,
			"INSERT INTO db_meta (key, value) VALUES (?, ?)",
			&sqlitex.ExecOptions{Args: []any{kv[0], kv[1]}})
		if err != nil {
			return fmt.Errorf("omv: writing db_meta[%s]: %w", kv[0], err)
		}
	}
	return nil
}

func insertClass(conn *sqlite.Conn, cls *Class, sourceID int64, suiteIDs map[[2]string]int64, stats *BuildStats) ([]ftsRow, error) {
	var suiteID any
	if id, ok := suiteIDs[[2]string{cls.SourceKey, cls.Suite}]; ok {
		suiteID = id
	}

	err := sqlitex.Execute(conn,
		`INSERT INTO classes
		 (name, source_id, suite_id, is_enum, is_dynamic, description, description_long, superclass_name)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{
			cls.Name, sourceID, suiteID, cls.IsEnum, cls.IsDynamic,
			cls.Description, cls.DescriptionLong, cls.SuperclassName,
		}})
	if err != nil {
		return nil, fmt.Errorf("omv: inserting class %q: %w", cls.Name, err)
	}
	classID := conn.LastInsertRowID()
	stats.ClassCount++

	entityType := "class"
	if cls.IsEnum {
		entityType = "enum"
	}
	rows := []ftsRow{{entityType, cls.Name, "", cls.Description, cls.SourceKey}}

	for _, prop := range cls.Properties {
		err := sqlitex.Execute(conn,
			`INSERT INTO properties
			 (class_id, name, description, data_type, data_type_ref, is_array,
			  is_readonly, element_type, default_value, min_value, max_value)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			&sqlitex.ExecOptions{Args: []any{
				classID, prop.Name, prop.Description, prop.DataType, prop.DataTypeRef,
				prop.IsArray, prop.IsReadonly, prop.ElementType,
				prop.DefaultValue, prop.MinValue, prop.MaxValue,
			}})
		if err != nil {
			return nil, fmt.Errorf("omv: inserting property %s.%s: %w", cls.Name, prop.Name, err)
		}
		stats.PropertyCount++
		rows = append(rows, ftsRow{"property", prop.Name, cls.Name, prop.Description, cls.SourceKey})
	}

	for _, meth := range cls.Methods {
		err := sqlitex.Execute(conn,
			`INSERT INTO methods
			 (class_id, name, description, return_type, return_type_ref, return_is_array, element_type)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			&sqlitex.ExecOptions{Args: []any{
				classID, meth.Name, meth.Description, meth.ReturnType,
				meth.ReturnTypeRef, meth.ReturnIsArray, meth.ElementType,
			}})
		if err != nil {
			return nil, fmt.Errorf("omv: inserting method %s.%s: %w", cls.Name, meth.Name, err)
		}
		methodID := conn.LastInsertRowID()
		stats.MethodCount++
		rows = append(rows, ftsRow{"method", meth.Name, cls.Name, meth.Description, cls.SourceKey})

		for _, param := range meth.Parameters {
			err := sqlitex.Execute(conn,
				`INSERT INTO parameters
				 (method_id, name, description, data_type, data_type_ref, is_array,
				  is_optional, default_value, sort_order)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				&sqlitex.ExecOptions{Args: []any{
					methodID, param.Name, param.Description, param.DataType, param.DataTypeRef,
					param.IsArray, param.IsOptional, param.DefaultValue, param.SortOrder,
				}})
			if err != nil {
				return nil, fmt.Errorf("omv: inserting parameter %s.%s(%s): %w", cls.Name, meth.Name, param.Name, err)
			}
			stats.ParameterCount++
			rows = append(rows, ftsRow{"parameter", param.Name, cls.Name, param.Description, cls.SourceKey})
		}
	}

	return rows, nil
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
