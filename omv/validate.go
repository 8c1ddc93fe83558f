package omv

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Validation is the outcome of checking a built database against its
// source payloads.
type Validation struct {
	Passed   bool
	Messages []string
}

func (v *Validation) ok(format string, args ...any) {
	v.Messages = append(v.Messages, "  OK: "+fmt.Sprintf(format, args...))
}

func (v *Validation) fail(format string, args ...any) {
	v.Messages = append(v.Messages, "FAIL: "+fmt.Sprintf(format, args...))
	v.Passed = false
}

// Validate cross-checks a built database against the parsed payloads it
// was built from: table counts, expected sources, the FTS row count,
// and provenance metadata.
func Validate(payloads []*SourcePayload, dbPath string, expectSources []string) (Validation, error) {
	v := Validation{Passed: true}

	if _, err := os.Stat(dbPath); err != nil {
		v.fail("database file does not exist")
		return v, nil
	}

	conn, err := sqlite.OpenConn(dbPath, sqlite.OpenReadOnly|sqlite.OpenWAL)
	if err != nil {
		return Validation{}, fmt.Errorf("omv: opening %s: %w", dbPath, err)
	}
	defer conn.Close()

	var expectedClasses, expectedSuites, expectedProps, expectedMethods, expectedParams int
	for _, payload := range payloads {
		expectedClasses += len(payload.Classes)
		expectedSuites += len(payload.Suites)
		for i := range payload.Classes {
			cls := &payload.Classes[i]
			expectedProps += len(cls.Properties)
			expectedMethods += len(cls.Methods)
			for _, m := range cls.Methods {
				expectedParams += len(m.Parameters)
			}
		}
	}

	countRows := func(table string) (int, error) {
		var n int
		err := sqlitex.Execute(conn, "SELECT COUNT(*) FROM "+table, &sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				n = stmt.ColumnInt(0)
				return nil
			},
		})
		if err != nil {
			return 0, fmt.Errorf("omv: counting %s: %w", table, err)
		}
		return n, nil
	}

	if len(payloads) > 0 {
		checks := []struct {
			table    string
			expected int
		}{
			{"classes", expectedClasses},
			{"suites", expectedSuites},
			{"properties", expectedProps},
			{"methods", expectedMethods},
			{"parameters", expectedParams},
		}
		for _, check := range checks {
			actual, err := countRows(check.table)
			if err != nil {
				return Validation{}, err
			}
			if actual != check.expected {
				v.fail("%s count mismatch: DB=%d, XML=%d", check.table, actual, check.expected)
			} else {
				v.ok("%s count = %d", check.table, actual)
			}
		}
	}

	if len(expectSources) > 0 {
		found := map[string]bool{}
		err := sqlitex.Execute(conn, "SELECT key FROM sources", &sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				found[stmt.ColumnText(0)] = true
				return nil
			},
		})
		if err != nil {
			return Validation{}, fmt.Errorf("omv: reading sources: %w", err)
		}

		var missing []string
		for _, key := range expectSources {
			if !found[key] {
				missing = append(missing, key)
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			v.fail("missing sources: %v", missing)
		} else {
			v.ok("sources present: %v", sortedKeys(found))
		}
	}

	if len(payloads) > 0 {
		ftsCount, err := countRows("dom_search")
		if err != nil {
			return Validation{}, err
		}
		expectedFTS := expectedClasses + expectedProps + expectedMethods + expectedParams
		if ftsCount == expectedFTS {
			v.ok("FTS index rows = %d", ftsCount)
		} else {
			v.fail("FTS index count mismatch: DB=%d, expected=%d", ftsCount, expectedFTS)
		}
	}

	metaKeys := []string{
		"source_file", "source_files", "source_keys",
		"dom_version", "dom_title", "build_timestamp", "parser_version",
	}
	for _, key := range metaKeys {
		var value string
		found := false
		err := sqlitex.Execute(conn, "SELECT value FROM db_meta WHERE key = ?", &sqlitex.ExecOptions{
			Args: []any{key},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				found = true
				value = stmt.ColumnText(0)
				return nil
			},
		})
		if err != nil {
			return Validation{}, fmt.Errorf("omv: reading db_meta[%s]: %w", key, err)
		}
		if found {
			v.ok("db_meta[%s] = %s", key, value)
		} else {
			v.fail("db_meta[%s] missing", key)
		}
	}

	return v, nil
}

// WriteValidation renders the validation report.
func WriteValidation(w io.Writer, v Validation) {
	sep := strings.Repeat("=", 55)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, "  Database Validation Report")
	fmt.Fprintln(w, sep)
	for _, msg := range v.Messages {
		fmt.Fprintf(w, "  %s\n", msg)
	}
	fmt.Fprintln(w, sep)
	if v.Passed {
		fmt.Fprintln(w, "  Structure validation: [OK] PASSED")
	} else {
		fmt.Fprintln(w, "  Structure validation: [FAIL] FAILED")
	}
	fmt.Fprintln(w, sep)
}
