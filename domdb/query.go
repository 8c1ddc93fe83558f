package domdb

import (
	"context"
	"fmt"
	"strings"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// classRow is the shared per-class projection used by several lookups.
type classRow struct {
	id              int64
	name            string
	isEnum          bool
	isDynamic       bool
	description     string
	descriptionLong string
	superclass      string
	suite           string
	source          string
}

func classRowsQuery(sourceFilter string) (string, bool) {
	q := `SELECT c.id, c.name, c.is_enum, c.is_dynamic, c.description, c.description_long,
	             c.superclass_name, s.name AS suite_name, src.key AS source
	      FROM classes c
	      LEFT JOIN suites s ON c.suite_id = s.id
	      JOIN sources src ON c.source_id = src.id
	      WHERE c.name = ?`
	if sourceFilter != "" {
		return q + " AND src.key = ? ORDER BY src.key", true
	}
	return q + " ORDER BY src.key", false
}

func (s *Store) classRows(conn *sqlite.Conn, name, source string) ([]classRow, error) {
	query, filtered := classRowsQuery(source)
	args := []any{name}
	if filtered {
		args = append(args, source)
	}

	var rows []classRow
	err := sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			rows = append(rows, classRow{
				id:              stmt.ColumnInt64(0),
				name:            stmt.ColumnText(1),
				isEnum:          stmt.ColumnBool(2),
				isDynamic:       stmt.ColumnBool(3),
				description:     stmt.ColumnText(4),
				descriptionLong: stmt.ColumnText(5),
				superclass:      stmt.ColumnText(6),
				suite:           stmt.ColumnText(7),
				source:          stmt.ColumnText(8),
			})
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("domdb: class rows for %q: %w", name, err)
	}
	return rows, nil
}

// LookupClass returns the full record for every class matching name,
// one entry per source. An empty slice means the class is unknown.
func (s *Store) LookupClass(ctx context.Context, name, source string) ([]ClassInfo, error) {
	var out []ClassInfo
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		rows, err := s.classRows(conn, name, source)
		if err != nil {
			return err
		}
		for _, row := range rows {
			info := ClassInfo{
				Name:            row.name,
				Source:          row.source,
				Suite:           row.suite,
				IsEnum:          row.isEnum,
				IsDynamic:       row.isDynamic,
				Description:     row.description,
				DescriptionLong: row.descriptionLong,
				Superclass:      row.superclass,
			}

			countQueries := []struct {
				query string
				dst   *int
			}{
				{"SELECT COUNT(*) FROM properties WHERE class_id = ?", &info.PropertyCount},
				{"SELECT COUNT(*) FROM methods WHERE class_id = ?", &info.MethodCount},
			}
			for _, cq := range countQueries {
				err := sqlitex.Execute(conn, cq.query, &sqlitex.ExecOptions{
					Args: []any{row.id},
					ResultFunc: func(stmt *sqlite.Stmt) error {
						*cq.dst = stmt.ColumnInt(0)
						return nil
					},
				})
				if err != nil {
					return fmt.Errorf("domdb: counting members of %q: %w", name, err)
				}
			}

			info.DirectSubclasses, err = s.directSubclasses(conn, row.name, row.id)
			if err != nil {
				return err
			}
			out = append(out, info)
		}
		return nil
	})
	return out, err
}

func (s *Store) directSubclasses(conn *sqlite.Conn, className string, classID int64) ([]string, error) {
	subclasses := []string{}
	err := sqlitex.Execute(conn,
		`SELECT name FROM classes
		 WHERE superclass_name = ?
		   AND source_id = (SELECT source_id FROM classes WHERE id = ?)
		 ORDER BY name`,
		&sqlitex.ExecOptions{
			Args: []any{className, classID},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				subclasses = append(subclasses, stmt.ColumnText(0))
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("domdb: subclasses of %q: %w", className, err)
	}
	return subclasses, nil
}

// MemberQuery narrows a property or method listing.
type MemberQuery struct {
	Class string

	// Source restricts results to one source key. Empty means all.
	Source string

	// Filter is a case-insensitive substring match on member name or
	// description.
	Filter string

	// IncludeInherited walks the superclass chain within each source
	// and folds ancestors' members into the result.
	IncludeInherited bool
}

// memberClassIDs resolves the class IDs a member query spans: the named
// class in every matching source, optionally widened to each class's
// ancestor chain.
func (s *Store) memberClassIDs(conn *sqlite.Conn, q MemberQuery) ([]int64, error) {
	rows, err := s.classRows(conn, q.Class, q.Source)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.id)
	}
	if !q.IncludeInherited {
		return ids, nil
	}

	seen := map[int64]bool{}
	var chain []int64
	for _, row := range rows {
		ancestors, err := s.ancestorChainIDs(conn, row.id)
		if err != nil {
			return nil, err
		}
		for _, id := range ancestors {
			if !seen[id] {
				seen[id] = true
				chain = append(chain, id)
			}
		}
	}
	return chain, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// Properties lists the properties of one class, optionally filtered and
// widened to inherited members.
func (s *Store) Properties(ctx context.Context, q MemberQuery) ([]Property, error) {
	out := []Property{}
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		ids, err := s.memberClassIDs(conn, q)
		if err != nil || len(ids) == 0 {
			return err
		}

		query := fmt.Sprintf(`
			SELECT p.name, p.description, p.data_type, p.is_array, p.is_readonly,
			       p.data_type_ref, p.element_type, p.default_value, p.min_value, p.max_value,
			       c.name AS class_name, src.key AS source
			FROM properties p
			JOIN classes c ON p.class_id = c.id
			JOIN sources src ON c.source_id = src.id
			WHERE c.id IN (%s)`, placeholders(len(ids)))
		args := make([]any, 0, len(ids)+2)
		for _, id := range ids {
			args = append(args, id)
		}
		if q.Filter != "" {
			query += " AND (p.name LIKE ? OR p.description LIKE ?)"
			like := "%" + q.Filter + "%"
			args = append(args, like, like)
		}
		query += " ORDER BY src.key, c.name, p.element_type, p.name"

		err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
			Args: args,
			ResultFunc: func(stmt *sqlite.Stmt) error {
				out = append(out, Property{
					Name:         stmt.ColumnText(0),
					Description:  stmt.ColumnText(1),
					DataType:     stmt.ColumnText(2),
					IsArray:      stmt.ColumnBool(3),
					IsReadonly:   stmt.ColumnBool(4),
					DataTypeRef:  stmt.ColumnText(5),
					ElementType:  stmt.ColumnText(6),
					DefaultValue: stmt.ColumnText(7),
					MinValue:     stmt.ColumnText(8),
					MaxValue:     stmt.ColumnText(9),
					DefinedIn:    stmt.ColumnText(10),
					Source:       stmt.ColumnText(11),
				})
				return nil
			},
		})
		if err != nil {
			return fmt.Errorf("domdb: properties of %q: %w", q.Class, err)
		}
		return nil
	})
	return out, err
}

// Methods lists the methods of one class with compact signatures,
// optionally filtered and widened to inherited members.
func (s *Store) Methods(ctx context.Context, q MemberQuery) ([]Method, error) {
	out := []Method{}
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		ids, err := s.memberClassIDs(conn, q)
		if err != nil || len(ids) == 0 {
			return err
		}

		query := fmt.Sprintf(`
			SELECT m.id, m.name, m.description, m.return_type, m.return_is_array,
			       m.return_type_ref, m.element_type, c.name AS class_name, src.key AS source
			FROM methods m
			JOIN classes c ON m.class_id = c.id
			JOIN sources src ON c.source_id = src.id
			WHERE c.id IN (%s)`, placeholders(len(ids)))
		args := make([]any, 0, len(ids)+2)
		for _, id := range ids {
			args = append(args, id)
		}
		if q.Filter != "" {
			query += " AND (m.name LIKE ? OR m.description LIKE ?)"
			like := "%" + q.Filter + "%"
			args = append(args, like, like)
		}
		query += " ORDER BY src.key, c.name, m.element_type, m.name"

		type methodRow struct {
			id int64
			m  Method
		}
		var rows []methodRow
		err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
			Args: args,
			ResultFunc: func(stmt *sqlite.Stmt) error {
				rows = append(rows, methodRow{
					id: stmt.ColumnInt64(0),
					m: Method{
						Name:          stmt.ColumnText(1),
						Description:   stmt.ColumnText(2),
						ReturnType:    stmt.ColumnText(3),
						ReturnIsArray: stmt.ColumnBool(4),
						ReturnTypeRef: stmt.ColumnText(5),
						ElementType:   stmt.ColumnText(6),
						DefinedIn:     stmt.ColumnText(7),
						Source:        stmt.ColumnText(8),
					},
				})
				return nil
			},
		})
		if err != nil {
			return fmt.Errorf("domdb: methods of %q: %w", q.Class, err)
		}

		for _, row := range rows {
			sig, err := s.methodSignature(conn, row.id, row.m.ReturnType, row.m.ReturnIsArray)
			if err != nil {
				return err
			}
			row.m.Signature = sig
			out = append(out, row.m)
		}
		return nil
	})
	return out, err
}

// methodSignature builds the one-line "(name: type?) -> ret" form from
// a method's parameter rows.
func (s *Store) methodSignature(conn *sqlite.Conn, methodID int64, returnType string, returnIsArray bool) (string, error) {
	var parts []string
	err := sqlitex.Execute(conn,
		"SELECT name, data_type, is_optional FROM parameters WHERE method_id = ? ORDER BY sort_order",
		&sqlitex.ExecOptions{
			Args: []any{methodID},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				ptype := stmt.ColumnText(1)
				if ptype == "" {
					ptype = "any"
				}
				opt := ""
				if stmt.ColumnBool(2) {
					opt = "?"
				}
				parts = append(parts, fmt.Sprintf("%s: %s%s", stmt.ColumnText(0), ptype, opt))
				return nil
			},
		})
	if err != nil {
		return "", fmt.Errorf("domdb: parameters of method %d: %w", methodID, err)
	}

	ret := returnType
	if ret == "" {
		ret = "void"
	}
	if returnIsArray {
		ret += "[]"
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), ret), nil
}

// MethodDetail returns the full record for one method, parameters
// included, one entry per source it appears in.
func (s *Store) MethodDetail(ctx context.Context, className, methodName, source string) ([]MethodDetail, error) {
	var out []MethodDetail
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		query := `SELECT m.id, m.name, m.description, m.return_type, m.return_type_ref, m.return_is_array,
		                 m.element_type, src.key AS source
		          FROM methods m
		          JOIN classes c ON m.class_id = c.id
		          JOIN sources src ON c.source_id = src.id
		          WHERE c.name = ? AND m.name = ?`
		args := []any{className, methodName}
		if source != "" {
			query += " AND src.key = ?"
			args = append(args, source)
		}
		query += " ORDER BY src.key"

		type detailRow struct {
			id int64
			d  MethodDetail
		}
		var rows []detailRow
		err := sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
			Args: args,
			ResultFunc: func(stmt *sqlite.Stmt) error {
				rows = append(rows, detailRow{
					id: stmt.ColumnInt64(0),
					d: MethodDetail{
						Name:          stmt.ColumnText(1),
						ClassName:     className,
						Description:   stmt.ColumnText(2),
						ReturnType:    stmt.ColumnText(3),
						ReturnTypeRef: stmt.ColumnText(4),
						ReturnIsArray: stmt.ColumnBool(5),
						ElementType:   stmt.ColumnText(6),
						Source:        stmt.ColumnText(7),
					},
				})
				return nil
			},
		})
		if err != nil {
			return fmt.Errorf("domdb: method %s.%s: %w", className, methodName, err)
		}

		for _, row := range rows {
			row.d.Parameters = []Parameter{}
			err := sqlitex.Execute(conn,
				`SELECT name, description, data_type, data_type_ref, is_array, is_optional, default_value
				 FROM parameters
				 WHERE method_id = ?
				 ORDER BY sort_order`,
				&sqlitex.ExecOptions{
					Args: []any{row.id},
					ResultFunc: func(stmt *sqlite.Stmt) error {
						row.d.Parameters = append(row.d.Parameters, Parameter{
							Name:         stmt.ColumnText(0),
							Description:  stmt.ColumnText(1),
							DataType:     stmt.ColumnText(2),
							DataTypeRef:  stmt.ColumnText(3),
							IsArray:      stmt.ColumnBool(4),
							IsOptional:   stmt.ColumnBool(5),
							DefaultValue: stmt.ColumnText(6),
						})
						return nil
					},
				})
			if err != nil {
				return fmt.Errorf("domdb: parameters of %s.%s: %w", className, methodName, err)
			}
			out = append(out, row.d)
		}
		return nil
	})
	return out, err
}

// EnumValues returns the member values of an enumeration class, one
// entry per source. Non-enum classes do not match.
func (s *Store) EnumValues(ctx context.Context, enumName, source string) ([]EnumInfo, error) {
	var out []EnumInfo
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		query := `SELECT c.id, c.name, c.description, src.key AS source
		          FROM classes c
		          JOIN sources src ON c.source_id = src.id
		          WHERE c.name = ? AND c.is_enum = 1`
		args := []any{enumName}
		if source != "" {
			query += " AND src.key = ?"
			args = append(args, source)
		}
		query += " ORDER BY src.key"

		type enumRow struct {
			id int64
			e  EnumInfo
		}
		var rows []enumRow
		err := sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
			Args: args,
			ResultFunc: func(stmt *sqlite.Stmt) error {
				rows = append(rows, enumRow{
					id: stmt.ColumnInt64(0),
					e: EnumInfo{
						Name:        stmt.ColumnText(1),
						Description: stmt.ColumnText(2),
						Source:      stmt.ColumnText(3),
					},
				})
				return nil
			},
		})
		if err != nil {
			return fmt.Errorf("domdb: enum %q: %w", enumName, err)
		}

		for _, row := range rows {
			row.e.Values = []EnumValue{}
			// Enum members materialize as class-level properties whose
			// default_value carries the numeric value.
			err := sqlitex.Execute(conn,
				`SELECT name, description, default_value
				 FROM properties
				 WHERE class_id = ? AND element_type = 'class'
				 ORDER BY name`,
				&sqlitex.ExecOptions{
					Args: []any{row.id},
					ResultFunc: func(stmt *sqlite.Stmt) error {
						row.e.Values = append(row.e.Values, EnumValue{
							Name:         stmt.ColumnText(0),
							Description:  stmt.ColumnText(1),
							NumericValue: stmt.ColumnText(2),
						})
						return nil
					},
				})
			if err != nil {
				return fmt.Errorf("domdb: values of enum %q: %w", enumName, err)
			}
			out = append(out, row.e)
		}
		return nil
	})
	return out, err
}

// Hierarchy returns each matching class's ancestor chain (starting at
// the class itself) and its direct subclasses.
func (s *Store) Hierarchy(ctx context.Context, className, source string) ([]Hierarchy, error) {
	var out []Hierarchy
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		rows, err := s.classRows(conn, className, source)
		if err != nil {
			return err
		}
		for _, row := range rows {
			ancestors, err := s.ancestorChainNames(conn, row.id)
			if err != nil {
				return err
			}
			subclasses, err := s.directSubclasses(conn, className, row.id)
			if err != nil {
				return err
			}
			out = append(out, Hierarchy{
				ClassName:        className,
				Source:           row.source,
				Ancestors:        ancestors,
				DirectSubclasses: subclasses,
			})
		}
		return nil
	})
	return out, err
}

// Search runs a prefix-matched full-text query across all entities.
// Each whitespace-separated term matches as a prefix; results come back
// in relevance order.
func (s *Store) Search(ctx context.Context, query, source string, maxResults int) ([]SearchHit, error) {
	if maxResults <= 0 {
		maxResults = 20
	}
	terms := strings.Fields(query)
	for i, t := range terms {
		terms[i] = t + "*"
	}
	ftsQuery := strings.Join(terms, " ")

	out := []SearchHit{}
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		q := `SELECT entity_type, entity_name, parent_name, description, source
		      FROM dom_search
		      WHERE dom_search MATCH ?`
		args := []any{ftsQuery}
		if source != "" {
			q += " AND source = ?"
			args = append(args, source)
		}
		q += " ORDER BY rank LIMIT ?"
		args = append(args, maxResults)

		err := sqlitex.Execute(conn, q, &sqlitex.ExecOptions{
			Args: args,
			ResultFunc: func(stmt *sqlite.Stmt) error {
				out = append(out, SearchHit{
					EntityType:  stmt.ColumnText(0),
					EntityName:  stmt.ColumnText(1),
					ParentName:  stmt.ColumnText(2),
					Description: stmt.ColumnText(3),
					Source:      stmt.ColumnText(4),
				})
				return nil
			},
		})
		if err != nil {
			return fmt.Errorf("domdb: search %q: %w", query, err)
		}
		return nil
	})
	return out, err
}

// ListQuery narrows a class listing.
type ListQuery struct {
	// Suite restricts results to one suite name. Empty means all.
	Suite string

	// TypeFilter is "all", "class", or "enum". Empty means all.
	TypeFilter string

	// Source restricts results to one source key. Empty means all.
	Source string
}

// ListClasses returns the compact overview of all classes matching the
// query, descriptions truncated for display.
func (s *Store) ListClasses(ctx context.Context, q ListQuery) ([]ClassSummary, error) {
	out := []ClassSummary{}
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		query := `SELECT c.name, c.is_enum, c.description, s.name AS suite_name, src.key AS source
		          FROM classes c
		          LEFT JOIN suites s ON c.suite_id = s.id
		          JOIN sources src ON c.source_id = src.id
		          WHERE 1=1`
		var args []any
		if q.Suite != "" {
			query += " AND s.name = ?"
			args = append(args, q.Suite)
		}
		if q.Source != "" {
			query += " AND src.key = ?"
			args = append(args, q.Source)
		}
		switch q.TypeFilter {
		case "class":
			query += " AND c.is_enum = 0"
		case "enum":
			query += " AND c.is_enum = 1"
		}
		query += " ORDER BY src.key, c.name"

		err := sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
			Args: args,
			ResultFunc: func(stmt *sqlite.Stmt) error {
				desc := stmt.ColumnText(2)
				if r := []rune(desc); len(r) > 120 {
					desc = string(r[:120])
				}
				out = append(out, ClassSummary{
					Name:        stmt.ColumnText(0),
					IsEnum:      stmt.ColumnBool(1),
					Description: desc,
					Suite:       stmt.ColumnText(3),
					Source:      stmt.ColumnText(4),
				})
				return nil
			},
		})
		if err != nil {
			return fmt.Errorf("domdb: list classes: %w", err)
		}
		return nil
	})
	return out, err
}

// Info returns the build metadata and entity counts for the database.
func (s *Store) Info(ctx context.Context) (Info, error) {
	var info Info
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		meta := map[string]string{}
		err := sqlitex.Execute(conn, "SELECT key, value FROM db_meta", &sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				meta[stmt.ColumnText(0)] = stmt.ColumnText(1)
				return nil
			},
		})
		if err != nil {
			return fmt.Errorf("domdb: reading db_meta: %w", err)
		}
		info.DOMVersion = meta["dom_version"]
		info.DOMTitle = meta["dom_title"]
		info.SourceFile = meta["source_file"]
		info.SourceFiles = meta["source_files"]
		info.SourceKeys = meta["source_keys"]
		info.BuildTimestamp = meta["build_timestamp"]
		info.ParserVersion = meta["parser_version"]

		counts := []struct {
			query string
			dst   *int
		}{
			{"SELECT COUNT(*) FROM suites", &info.Counts.Suites},
			{"SELECT COUNT(*) FROM classes", &info.Counts.Classes},
			{"SELECT COUNT(*) FROM classes WHERE is_enum = 1", &info.Counts.Enums},
			{"SELECT COUNT(*) FROM properties", &info.Counts.Properties},
			{"SELECT COUNT(*) FROM methods", &info.Counts.Methods},
			{"SELECT COUNT(*) FROM parameters", &info.Counts.Parameters},
		}
		for _, c := range counts {
			err := sqlitex.Execute(conn, c.query, &sqlitex.ExecOptions{
				ResultFunc: func(stmt *sqlite.Stmt) error {
					*c.dst = stmt.ColumnInt(0)
					return nil
				},
			})
			if err != nil {
				return fmt.Errorf("domdb: counting entities: %w", err)
			}
		}
		info.Counts.RegularClasses = info.Counts.Classes - info.Counts.Enums

		info.Sources = []SourceClassCount{}
		err = sqlitex.Execute(conn,
			`SELECT src.key AS source, COUNT(c.id) AS class_count
			 FROM sources src
			 LEFT JOIN classes c ON c.source_id = src.id
			 GROUP BY src.key
			 ORDER BY src.key`,
			&sqlitex.ExecOptions{
				ResultFunc: func(stmt *sqlite.Stmt) error {
					info.Sources = append(info.Sources, SourceClassCount{
						Source:     stmt.ColumnText(0),
						ClassCount: stmt.ColumnInt(1),
					})
					return nil
				},
			})
		if err != nil {
			return fmt.Errorf("domdb: per-source counts: %w", err)
		}
		return nil
	})
	return info, err
}

// ListSources returns every registered documentation source with its
// entity counts.
func (s *Store) ListSources(ctx context.Context) ([]Source, error) {
	out := []Source{}
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn,
			`SELECT src.key AS source, src.label, src.file,
			        COUNT(DISTINCT c.id) AS classes,
			        COUNT(DISTINCT p.id) AS properties,
			        COUNT(DISTINCT m.id) AS methods
			 FROM sources src
			 LEFT JOIN classes c ON c.source_id = src.id
			 LEFT JOIN properties p ON p.class_id = c.id
			 LEFT JOIN methods m ON m.class_id = c.id
			 GROUP BY src.id
			 ORDER BY src.key`,
			&sqlitex.ExecOptions{
				ResultFunc: func(stmt *sqlite.Stmt) error {
					out = append(out, Source{
						Source: stmt.ColumnText(0),
						Label:  stmt.ColumnText(1),
						File:   stmt.ColumnText(2),
						Counts: SourceCounts{
							Classes:    stmt.ColumnInt(3),
							Properties: stmt.ColumnInt(4),
							Methods:    stmt.ColumnInt(5),
						},
					})
					return nil
				},
			})
		if err != nil {
			return fmt.Errorf("domdb: list sources: %w", err)
		}
		return nil
	})
	return out, err
}

// Overview returns the capability summary for multi-source lookups.
func (s *Store) Overview(ctx context.Context) (Overview, error) {
	sources, err := s.ListSources(ctx)
	if err != nil {
		return Overview{}, err
	}
	return Overview{
		Sources:              sources,
		ExtendScriptSpecials: []string{"$", "UnitValue", "File", "Folder", "Socket", "XML", "XMLList", "RegExp"},
		ScriptUINote: "ScriptUI is legacy technology. Prefer UXP for new UI development. " +
			"ScriptUI documentation remains useful for small dialogs and maintaining existing scripts.",
		LookupOrder:         []string{"knowledge_overview", "search_dom(source=...)", "lookup_class(source=...)", "indesign-exec.run_jsx"},
		KnownNameCollisions: []string{"Window", "Group", "Panel", "Event"},
	}, nil
}

// ancestorChainIDs walks the superclass chain upward by row IDs within
// one source, starting at classID. Cycles terminate the walk.
func (s *Store) ancestorChainIDs(conn *sqlite.Conn, classID int64) ([]int64, error) {
	var chain []int64
	seen := map[int64]bool{}
	current := classID

	for current != 0 && !seen[current] {
		chain = append(chain, current)
		seen[current] = true

		var parent int64
		err := sqlitex.Execute(conn,
			`SELECT COALESCE(parent.id, 0)
			 FROM classes child
			 LEFT JOIN classes parent
			   ON parent.name = child.superclass_name
			  AND parent.source_id = child.source_id
			 WHERE child.id = ?`,
			&sqlitex.ExecOptions{
				Args: []any{current},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					parent = stmt.ColumnInt64(0)
					return nil
				},
			})
		if err != nil {
			return nil, fmt.Errorf("domdb: ancestor walk from %d: %w", classID, err)
		}
		current = parent
	}
	return chain, nil
}

// ancestorChainNames walks the superclass chain upward by class names.
func (s *Store) ancestorChainNames(conn *sqlite.Conn, classID int64) ([]string, error) {
	names := []string{}
	seen := map[int64]bool{}
	current := classID

	for current != 0 && !seen[current] {
		seen[current] = true

		var name string
		var parent int64
		found := false
		err := sqlitex.Execute(conn,
			`SELECT child.name, COALESCE(parent.id, 0)
			 FROM classes child
			 LEFT JOIN classes parent
			   ON parent.name = child.superclass_name
			  AND parent.source_id = child.source_id
			 WHERE child.id = ?`,
			&sqlitex.ExecOptions{
				Args: []any{current},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					found = true
					name = stmt.ColumnText(0)
					parent = stmt.ColumnInt64(1)
					return nil
				},
			})
		if err != nil {
			return nil, fmt.Errorf("domdb: ancestor walk from %d: %w", classID, err)
		}
		if !found {
			break
		}
		names = append(names, name)
		current = parent
	}
	return names, nil
}
