package omv

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// DiffStats compares an existing database against a newly parsed
// payload before a rebuild.
type DiffStats struct {
	OldVersion     string   `json:"old_version"`
	NewVersion     string   `json:"new_version"`
	AddedClasses   []string `json:"added_classes"`
	RemovedClasses []string `json:"removed_classes"`
	CommonClasses  int      `json:"common_classes"`
	AddedEnums     []string `json:"added_enums"`
	PropertyDelta  int      `json:"property_delta"`
	MethodDelta    int      `json:"method_delta"`
}

// Diff reads the class inventory of the database at dbPath and compares
// it against the payload that is about to replace it.
func Diff(dbPath string, payload *SourcePayload) (DiffStats, error) {
	conn, err := sqlite.OpenConn(dbPath, sqlite.OpenReadOnly|sqlite.OpenWAL)
	if err != nil {
		return DiffStats{}, fmt.Errorf("omv: opening %s: %w", dbPath, err)
	}
	defer conn.Close()

	d := DiffStats{OldVersion: "?", NewVersion: payload.Version}

	err = sqlitex.Execute(conn, "SELECT value FROM db_meta WHERE key = 'dom_version'", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			d.OldVersion = stmt.ColumnText(0)
			return nil
		},
	})
	if err != nil {
		return DiffStats{}, fmt.Errorf("omv: reading dom_version: %w", err)
	}

	oldClasses := map[string]bool{}
	oldEnums := map[string]bool{}
	err = sqlitex.Execute(conn, "SELECT name, is_enum FROM classes", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			oldClasses[stmt.ColumnText(0)] = true
			if stmt.ColumnBool(1) {
				oldEnums[stmt.ColumnText(0)] = true
			}
			return nil
		},
	})
	if err != nil {
		return DiffStats{}, fmt.Errorf("omv: reading classes: %w", err)
	}

	var oldProps, oldMethods int
	counts := []struct {
		table string
		dst   *int
	}{
		{"properties", &oldProps},
		{"methods", &oldMethods},
	}
	for _, c := range counts {
		err = sqlitex.Execute(conn, "SELECT COUNT(*) FROM "+c.table, &sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				*c.dst = stmt.ColumnInt(0)
				return nil
			},
		})
		if err != nil {
			return DiffStats{}, fmt.Errorf("omv: counting %s: %w", c.table, err)
		}
	}

	var newProps, newMethods int
	newClasses := map[string]bool{}
	for i := range payload.Classes {
		cls := &payload.Classes[i]
		newClasses[cls.Name] = true
		newProps += len(cls.Properties)
		newMethods += len(cls.Methods)
		if cls.IsEnum && !oldEnums[cls.Name] {
			d.AddedEnums = append(d.AddedEnums, cls.Name)
		}
	}

	for name := range newClasses {
		if !oldClasses[name] {
			d.AddedClasses = append(d.AddedClasses, name)
		}
	}
	for name := range oldClasses {
		if newClasses[name] {
			d.CommonClasses++
		} else {
			d.RemovedClasses = append(d.RemovedClasses, name)
		}
	}
	sort.Strings(d.AddedClasses)
	sort.Strings(d.RemovedClasses)
	sort.Strings(d.AddedEnums)

	d.PropertyDelta = newProps - oldProps
	d.MethodDelta = newMethods - oldMethods
	return d, nil
}

// WriteDiff renders the pre-rebuild comparison report.
func WriteDiff(w io.Writer, d DiffStats) {
	sep := strings.Repeat("=", 55)
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "  DOM Update: %s -> %s\n", d.OldVersion, d.NewVersion)
	fmt.Fprintln(w, sep)

	if len(d.AddedClasses) > 0 {
		fmt.Fprintf(w, "  New classes:      +%3d   (%s)\n", len(d.AddedClasses), nameSample(d.AddedClasses))
	} else {
		fmt.Fprintln(w, "  New classes:      +  0")
	}
	if len(d.RemovedClasses) > 0 {
		fmt.Fprintf(w, "  Removed classes:  -%3d   (%s)\n", len(d.RemovedClasses), nameSample(d.RemovedClasses))
	} else {
		fmt.Fprintln(w, "  Removed classes:  -  0")
	}
	fmt.Fprintf(w, "  Common classes:   %5d\n", d.CommonClasses)
	if len(d.AddedEnums) > 0 {
		fmt.Fprintf(w, "  New enums:        +%3d\n", len(d.AddedEnums))
	}
	fmt.Fprintf(w, "  Properties delta: %s%d\n", plusSign(d.PropertyDelta), d.PropertyDelta)
	fmt.Fprintf(w, "  Methods delta:    %s%d\n", plusSign(d.MethodDelta), d.MethodDelta)
	fmt.Fprintln(w, sep)
}

// nameSample lists at most ten names, marking any overflow.
func nameSample(names []string) string {
	if len(names) > 10 {
		return strings.Join(names[:10], ", ") + ", ..."
	}
	return strings.Join(names, ", ")
}

func plusSign(n int) string {
	if n >= 0 {
		return "+"
	}
	return ""
}
