package domdb

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jonwraymond/jsxbridge/omv"
)

// fixturePayloads builds a two-source object model: the application DOM
// with a small inheritance chain and an enum, plus a core JavaScript
// source that shares the "Event" class name with the DOM.
func fixturePayloads() []*omv.SourcePayload {
	dom := &omv.SourcePayload{
		SourceKey:  "dom",
		SourceFile: "omv$indesign.xml",
		Version:    "18.0",
		Title:      "Adobe InDesign 2026 Object Model",
		Suites: map[string][]string{
			"Basics Suite": {"Document", "DocumentBase"},
		},
		Classes: []omv.Class{
			{
				Name:           "Document",
				SourceKey:      "dom",
				Suite:          "Basics Suite",
				IsDynamic:      true,
				Description:    "A document.",
				SuperclassName: "DocumentBase",
				Properties: []omv.PropertyDef{
					{
						Name: "name", Description: "The name of the Document.",
						DataType: "string", IsReadonly: true, ElementType: "instance",
					},
					{
						Name: "zoomPercentage", Description: "The zoom level.",
						DataType: "number", ElementType: "instance",
						DefaultValue: "100", MinValue: "5", MaxValue: "4000",
					},
				},
				Methods: []omv.MethodDef{
					{
						Name: "close", Description: "Closes the Document.",
						ElementType: "instance",
						Parameters: []omv.ParameterDef{
							{
								Name: "saving", Description: "Whether to save. (Optional)",
								DataType: "SaveOptions", DataTypeRef: "local:SaveOptions",
								IsOptional: true, SortOrder: 0,
							},
							{
								Name: "savingIn", Description: "The file to save to.",
								DataType: "File", DataTypeRef: "javascript:File",
								IsOptional: true, SortOrder: 1,
							},
						},
					},
					{
						Name: "exportFile", Description: "Exports the document.",
						ReturnType: "bool", ElementType: "instance",
						Parameters: []omv.ParameterDef{
							{Name: "format", Description: "The export format.", DataType: "ExportFormat", SortOrder: 0},
						},
					},
				},
			},
			{
				Name:        "DocumentBase",
				SourceKey:   "dom",
				Suite:       "Basics Suite",
				Description: "Base class for documents.",
				Properties: []omv.PropertyDef{
					{Name: "id", Description: "The unique ID.", DataType: "number", IsReadonly: true, ElementType: "instance"},
				},
			},
			{
				Name:        "UserInteractionLevels",
				SourceKey:   "dom",
				IsEnum:      true,
				Description: "User interaction levels.",
				Properties: []omv.PropertyDef{
					{Name: "NEVER_INTERACT", Description: "Never show alerts.", DataType: "UserInteractionLevels", IsReadonly: true, ElementType: "class", DefaultValue: "1699640946"},
					{Name: "INTERACT_WITH_ALL", Description: "Show all alerts.", DataType: "UserInteractionLevels", IsReadonly: true, ElementType: "class", DefaultValue: "1699311205"},
				},
			},
			{
				Name:        "Event",
				SourceKey:   "dom",
				Description: "A DOM event.",
			},
		},
	}

	js := &omv.SourcePayload{
		SourceKey:  "javascript",
		SourceFile: "javascript.xml",
		Version:    "ES3",
		Title:      "Core JavaScript Classes",
		Suites:     map[string][]string{},
		Classes: []omv.Class{
			{
				Name:        "Event",
				SourceKey:   "javascript",
				Description: "A UI event.",
			},
			{
				Name:        "Array",
				SourceKey:   "javascript",
				Description: "An ordered collection.",
				Methods: []omv.MethodDef{
					{Name: "join", Description: "Joins elements into a string.", ReturnType: "string", ElementType: "instance"},
				},
			},
		},
	}

	return []*omv.SourcePayload{dom, js}
}

func openFixture(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "extendscript.db")
	if _, err := omv.BuildDatabase(fixturePayloads(), dbPath); err != nil {
		t.Fatalf("building fixture database: %v", err)
	}
	store, err := Open(Config{Path: dbPath, PoolSize: 2})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpen_MissingPath(t *testing.T) {
	if _, err := Open(Config{}); err == nil {
		t.Error("Open() accepted an empty path")
	}
}

func TestLookupClass(t *testing.T) {
	store := openFixture(t)

	infos, err := store.LookupClass(context.Background(), "Document", "")
	if err != nil {
		t.Fatalf("LookupClass() error = %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("results = %d, want 1", len(infos))
	}

	doc := infos[0]
	if doc.Source != "dom" || doc.Suite != "Basics Suite" {
		t.Errorf("source/suite = %q/%q", doc.Source, doc.Suite)
	}
	if !doc.IsDynamic || doc.IsEnum {
		t.Errorf("is_dynamic/is_enum = %v/%v", doc.IsDynamic, doc.IsEnum)
	}
	if doc.Superclass != "DocumentBase" {
		t.Errorf("superclass = %q", doc.Superclass)
	}
	if doc.PropertyCount != 2 || doc.MethodCount != 2 {
		t.Errorf("counts = %d props / %d methods, want 2/2", doc.PropertyCount, doc.MethodCount)
	}
	if len(doc.DirectSubclasses) != 0 {
		t.Errorf("subclasses = %v, want none", doc.DirectSubclasses)
	}
}

func TestLookupClass_Subclasses(t *testing.T) {
	store := openFixture(t)

	infos, err := store.LookupClass(context.Background(), "DocumentBase", "")
	if err != nil {
		t.Fatalf("LookupClass() error = %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("results = %d, want 1", len(infos))
	}
	subs := infos[0].DirectSubclasses
	if len(subs) != 1 || subs[0] != "Document" {
		t.Errorf("subclasses = %v, want [Document]", subs)
	}
}

func TestLookupClass_Unknown(t *testing.T) {
	store := openFixture(t)

	infos, err := store.LookupClass(context.Background(), "NoSuchClass", "")
	if err != nil {
		t.Fatalf("LookupClass() error = %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("results = %v, want empty", infos)
	}
}

func TestLookupClass_NameCollision(t *testing.T) {
	store := openFixture(t)

	// Without a source filter both Event classes come back side by side.
	infos, err := store.LookupClass(context.Background(), "Event", "")
	if err != nil {
		t.Fatalf("LookupClass() error = %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("unfiltered results = %d, want 2", len(infos))
	}
	if infos[0].Source != "dom" || infos[1].Source != "javascript" {
		t.Errorf("source order = %q, %q", infos[0].Source, infos[1].Source)
	}

	filtered, err := store.LookupClass(context.Background(), "Event", "javascript")
	if err != nil {
		t.Fatalf("LookupClass() error = %v", err)
	}
	if len(filtered) != 1 || filtered[0].Source != "javascript" {
		t.Errorf("filtered results = %v", filtered)
	}
}

func TestProperties(t *testing.T) {
	store := openFixture(t)

	props, err := store.Properties(context.Background(), MemberQuery{Class: "Document"})
	if err != nil {
		t.Fatalf("Properties() error = %v", err)
	}
	if len(props) != 2 {
		t.Fatalf("properties = %d, want 2", len(props))
	}

	byName := map[string]Property{}
	for _, p := range props {
		byName[p.Name] = p
	}
	name := byName["name"]
	if !name.IsReadonly || name.DataType != "string" || name.DefinedIn != "Document" {
		t.Errorf("name = %+v", name)
	}
	zoom := byName["zoomPercentage"]
	if zoom.DefaultValue != "100" || zoom.MinValue != "5" || zoom.MaxValue != "4000" {
		t.Errorf("zoom bounds = %q/%q/%q", zoom.DefaultValue, zoom.MinValue, zoom.MaxValue)
	}
}

func TestProperties_Filter(t *testing.T) {
	store := openFixture(t)

	props, err := store.Properties(context.Background(), MemberQuery{Class: "Document", Filter: "zoom"})
	if err != nil {
		t.Fatalf("Properties() error = %v", err)
	}
	if len(props) != 1 || props[0].Name != "zoomPercentage" {
		t.Errorf("filtered properties = %v", props)
	}
}

func TestProperties_Inherited(t *testing.T) {
	store := openFixture(t)

	props, err := store.Properties(context.Background(), MemberQuery{Class: "Document", IncludeInherited: true})
	if err != nil {
		t.Fatalf("Properties() error = %v", err)
	}
	if len(props) != 3 {
		t.Fatalf("inherited properties = %d, want 3", len(props))
	}

	var inherited *Property
	for i := range props {
		if props[i].Name == "id" {
			inherited = &props[i]
		}
	}
	if inherited == nil {
		t.Fatal("inherited property id missing")
	}
	if inherited.DefinedIn != "DocumentBase" {
		t.Errorf("id defined_in = %q, want DocumentBase", inherited.DefinedIn)
	}
}

func TestProperties_UnknownClass(t *testing.T) {
	store := openFixture(t)

	props, err := store.Properties(context.Background(), MemberQuery{Class: "NoSuchClass"})
	if err != nil {
		t.Fatalf("Properties() error = %v", err)
	}
	if len(props) != 0 {
		t.Errorf("properties = %v, want empty", props)
	}
}

func TestMethods_Signatures(t *testing.T) {
	store := openFixture(t)

	methods, err := store.Methods(context.Background(), MemberQuery{Class: "Document"})
	if err != nil {
		t.Fatalf("Methods() error = %v", err)
	}
	if len(methods) != 2 {
		t.Fatalf("methods = %d, want 2", len(methods))
	}

	byName := map[string]Method{}
	for _, m := range methods {
		byName[m.Name] = m
	}
	if sig := byName["close"].Signature; sig != "(saving: SaveOptions?, savingIn: File?) -> void" {
		t.Errorf("close signature = %q", sig)
	}
	if sig := byName["exportFile"].Signature; sig != "(format: ExportFormat) -> bool" {
		t.Errorf("exportFile signature = %q", sig)
	}
}

func TestMethodDetail(t *testing.T) {
	store := openFixture(t)

	details, err := store.MethodDetail(context.Background(), "Document", "close", "")
	if err != nil {
		t.Fatalf("MethodDetail() error = %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("results = %d, want 1", len(details))
	}

	d := details[0]
	if d.ClassName != "Document" || d.Source != "dom" {
		t.Errorf("class/source = %q/%q", d.ClassName, d.Source)
	}
	if len(d.Parameters) != 2 {
		t.Fatalf("parameters = %d, want 2", len(d.Parameters))
	}
	if d.Parameters[0].Name != "saving" || d.Parameters[1].Name != "savingIn" {
		t.Errorf("parameter order = %q, %q", d.Parameters[0].Name, d.Parameters[1].Name)
	}
	if !d.Parameters[0].IsOptional {
		t.Error("saving should be optional")
	}
	if d.Parameters[1].DataTypeRef != "javascript:File" {
		t.Errorf("savingIn data_type_ref = %q", d.Parameters[1].DataTypeRef)
	}
}

func TestMethodDetail_Unknown(t *testing.T) {
	store := openFixture(t)

	details, err := store.MethodDetail(context.Background(), "Document", "noSuchMethod", "")
	if err != nil {
		t.Fatalf("MethodDetail() error = %v", err)
	}
	if len(details) != 0 {
		t.Errorf("results = %v, want empty", details)
	}
}

func TestEnumValues(t *testing.T) {
	store := openFixture(t)

	enums, err := store.EnumValues(context.Background(), "UserInteractionLevels", "")
	if err != nil {
		t.Fatalf("EnumValues() error = %v", err)
	}
	if len(enums) != 1 {
		t.Fatalf("results = %d, want 1", len(enums))
	}

	values := enums[0].Values
	if len(values) != 2 {
		t.Fatalf("values = %d, want 2", len(values))
	}
	// Values come back name-sorted.
	if values[0].Name != "INTERACT_WITH_ALL" || values[0].NumericValue != "1699311205" {
		t.Errorf("values[0] = %+v", values[0])
	}
	if values[1].Name != "NEVER_INTERACT" || values[1].NumericValue != "1699640946" {
		t.Errorf("values[1] = %+v", values[1])
	}
}

func TestEnumValues_NotAnEnum(t *testing.T) {
	store := openFixture(t)

	enums, err := store.EnumValues(context.Background(), "Document", "")
	if err != nil {
		t.Fatalf("EnumValues() error = %v", err)
	}
	if len(enums) != 0 {
		t.Errorf("results = %v, want empty", enums)
	}
}

func TestHierarchy(t *testing.T) {
	store := openFixture(t)

	chains, err := store.Hierarchy(context.Background(), "Document", "")
	if err != nil {
		t.Fatalf("Hierarchy() error = %v", err)
	}
	if len(chains) != 1 {
		t.Fatalf("results = %d, want 1", len(chains))
	}

	h := chains[0]
	if len(h.Ancestors) != 2 || h.Ancestors[0] != "Document" || h.Ancestors[1] != "DocumentBase" {
		t.Errorf("ancestors = %v, want [Document DocumentBase]", h.Ancestors)
	}
	if len(h.DirectSubclasses) != 0 {
		t.Errorf("subclasses = %v, want none", h.DirectSubclasses)
	}
}

func TestSearch(t *testing.T) {
	store := openFixture(t)

	hits, err := store.Search(context.Background(), "zoom", "", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(hits))
	}
	hit := hits[0]
	if hit.EntityType != "property" || hit.EntityName != "zoomPercentage" || hit.ParentName != "Document" {
		t.Errorf("hit = %+v", hit)
	}
}

func TestSearch_SourceFilter(t *testing.T) {
	store := openFixture(t)

	all, err := store.Search(context.Background(), "event", "", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("unfiltered hits = %d, want 2", len(all))
	}

	jsOnly, err := store.Search(context.Background(), "event", "javascript", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(jsOnly) != 1 || jsOnly[0].Source != "javascript" {
		t.Errorf("filtered hits = %v", jsOnly)
	}
}

func TestSearch_MultiTermPrefix(t *testing.T) {
	store := openFixture(t)

	hits, err := store.Search(context.Background(), "zoom lev", "", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("hits = %d, want 1 (both terms prefix-match)", len(hits))
	}
}

func TestListClasses(t *testing.T) {
	store := openFixture(t)

	all, err := store.ListClasses(context.Background(), ListQuery{})
	if err != nil {
		t.Fatalf("ListClasses() error = %v", err)
	}
	if len(all) != 6 {
		t.Errorf("classes = %d, want 6", len(all))
	}

	enums, err := store.ListClasses(context.Background(), ListQuery{TypeFilter: "enum"})
	if err != nil {
		t.Fatalf("ListClasses() error = %v", err)
	}
	if len(enums) != 1 || enums[0].Name != "UserInteractionLevels" {
		t.Errorf("enums = %v", enums)
	}

	suite, err := store.ListClasses(context.Background(), ListQuery{Suite: "Basics Suite"})
	if err != nil {
		t.Fatalf("ListClasses() error = %v", err)
	}
	if len(suite) != 2 {
		t.Errorf("suite classes = %d, want 2", len(suite))
	}

	source, err := store.ListClasses(context.Background(), ListQuery{Source: "javascript"})
	if err != nil {
		t.Fatalf("ListClasses() error = %v", err)
	}
	if len(source) != 2 {
		t.Errorf("javascript classes = %d, want 2", len(source))
	}
}

func TestListClasses_TruncatesOnRuneBoundary(t *testing.T) {
	payload := &omv.SourcePayload{
		SourceKey:  "dom",
		SourceFile: "omv$indesign.xml",
		Version:    "18.0",
		Title:      "Adobe InDesign 2026 Object Model",
		Suites:     map[string][]string{},
		Classes: []omv.Class{
			{
				Name:        "Ruler",
				SourceKey:   "dom",
				Description: "Positions the ruler in " + strings.Repeat("¼", 130) + " increments.",
			},
		},
	}
	dbPath := filepath.Join(t.TempDir(), "extendscript.db")
	if _, err := omv.BuildDatabase([]*omv.SourcePayload{payload}, dbPath); err != nil {
		t.Fatalf("building fixture database: %v", err)
	}
	store, err := Open(Config{Path: dbPath, PoolSize: 1})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	classes, err := store.ListClasses(context.Background(), ListQuery{})
	if err != nil {
		t.Fatalf("ListClasses() error = %v", err)
	}
	if len(classes) != 1 {
		t.Fatalf("classes = %d, want 1", len(classes))
	}
	desc := classes[0].Description
	if !utf8.ValidString(desc) {
		t.Errorf("Description is not valid UTF-8: %q", desc)
	}
	if got := utf8.RuneCountInString(desc); got != 120 {
		t.Errorf("Description runes = %d, want 120", got)
	}
}

func TestInfo(t *testing.T) {
	store := openFixture(t)

	info, err := store.Info(context.Background())
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}

	if info.DOMVersion != "18.0" {
		t.Errorf("dom_version = %q", info.DOMVersion)
	}
	if info.ParserVersion != omv.ParserVersion {
		t.Errorf("parser_version = %q", info.ParserVersion)
	}
	if info.Counts.Classes != 6 || info.Counts.Enums != 1 || info.Counts.RegularClasses != 5 {
		t.Errorf("counts = %+v", info.Counts)
	}
	if len(info.Sources) != 2 {
		t.Fatalf("sources = %d, want 2", len(info.Sources))
	}
	if info.Sources[0].Source != "dom" || info.Sources[0].ClassCount != 4 {
		t.Errorf("sources[0] = %+v", info.Sources[0])
	}
}

func TestListSources(t *testing.T) {
	store := openFixture(t)

	sources, err := store.ListSources(context.Background())
	if err != nil {
		t.Fatalf("ListSources() error = %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("sources = %d, want 2", len(sources))
	}

	dom := sources[0]
	if dom.Source != "dom" || dom.Label != "InDesign DOM" {
		t.Errorf("dom source = %+v", dom)
	}
	if dom.Counts.Classes != 4 || dom.Counts.Properties != 5 || dom.Counts.Methods != 2 {
		t.Errorf("dom counts = %+v", dom.Counts)
	}
}

func TestOverview(t *testing.T) {
	store := openFixture(t)

	overview, err := store.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}
	if len(overview.Sources) != 2 {
		t.Errorf("sources = %d, want 2", len(overview.Sources))
	}
	if len(overview.KnownNameCollisions) == 0 {
		t.Error("known name collisions missing")
	}
	if len(overview.LookupOrder) == 0 {
		t.Error("lookup order missing")
	}
}
