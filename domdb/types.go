package domdb

// ClassInfo is the full record for one class in one source.
type ClassInfo struct {
	Name             string   `json:"name"`
	Source           string   `json:"source"`
	Suite            string   `json:"suite"`
	IsEnum           bool     `json:"is_enum"`
	IsDynamic        bool     `json:"is_dynamic"`
	Description      string   `json:"description"`
	DescriptionLong  string   `json:"description_long"`
	Superclass       string   `json:"superclass"`
	PropertyCount    int      `json:"property_count"`
	MethodCount      int      `json:"method_count"`
	DirectSubclasses []string `json:"direct_subclasses"`
}

// Property is one property row, annotated with the class it is defined
// on. With inherited lookups, DefinedIn names the ancestor that carries
// the property.
type Property struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	DataType     string `json:"data_type"`
	DataTypeRef  string `json:"data_type_ref"`
	IsArray      bool   `json:"is_array"`
	IsReadonly   bool   `json:"is_readonly"`
	ElementType  string `json:"element_type"`
	DefaultValue string `json:"default_value"`
	MinValue     string `json:"min_value"`
	MaxValue     string `json:"max_value"`
	DefinedIn    string `json:"defined_in"`
	Source       string `json:"source"`
}

// Method is one method row with a compact one-line signature.
type Method struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Signature     string `json:"signature"`
	ReturnType    string `json:"return_type"`
	ReturnTypeRef string `json:"return_type_ref"`
	ReturnIsArray bool   `json:"return_is_array"`
	ElementType   string `json:"element_type"`
	DefinedIn     string `json:"defined_in"`
	Source        string `json:"source"`
}

// Parameter is the full record for one method parameter.
type Parameter struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	DataType     string `json:"data_type"`
	DataTypeRef  string `json:"data_type_ref"`
	IsArray      bool   `json:"is_array"`
	IsOptional   bool   `json:"is_optional"`
	DefaultValue string `json:"default_value"`
}

// MethodDetail is the full record for one method including its
// parameter list.
type MethodDetail struct {
	Name          string      `json:"name"`
	ClassName     string      `json:"class_name"`
	Source        string      `json:"source"`
	Description   string      `json:"description"`
	ReturnType    string      `json:"return_type"`
	ReturnTypeRef string      `json:"return_type_ref"`
	ReturnIsArray bool        `json:"return_is_array"`
	ElementType   string      `json:"element_type"`
	Parameters    []Parameter `json:"parameters"`
}

// EnumValue is one member of an enumeration class.
type EnumValue struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	NumericValue string `json:"numeric_value"`
}

// EnumInfo is an enumeration class with its member values.
type EnumInfo struct {
	Name        string      `json:"name"`
	Source      string      `json:"source"`
	Description string      `json:"description"`
	Values      []EnumValue `json:"values"`
}

// Hierarchy is the inheritance context of one class: the ancestor chain
// starting at the class itself, plus its direct subclasses.
type Hierarchy struct {
	ClassName        string   `json:"class_name"`
	Source           string   `json:"source"`
	Ancestors        []string `json:"ancestors"`
	DirectSubclasses []string `json:"direct_subclasses"`
}

// SearchHit is one full-text search result.
type SearchHit struct {
	EntityType  string `json:"entity_type"`
	EntityName  string `json:"entity_name"`
	ParentName  string `json:"parent_name"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// ClassSummary is the compact class listing row. Description is
// truncated for display.
type ClassSummary struct {
	Name        string `json:"name"`
	Suite       string `json:"suite"`
	IsEnum      bool   `json:"is_enum"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// Counts aggregates entity counts across the whole database.
type Counts struct {
	Suites         int `json:"suites"`
	Classes        int `json:"classes"`
	Enums          int `json:"enums"`
	RegularClasses int `json:"regular_classes"`
	Properties     int `json:"properties"`
	Methods        int `json:"methods"`
	Parameters     int `json:"parameters"`
}

// SourceClassCount is the per-source class tally shown in Info.
type SourceClassCount struct {
	Source     string `json:"source"`
	ClassCount int    `json:"class_count"`
}

// Info is the database metadata and statistics summary.
type Info struct {
	DOMVersion     string             `json:"dom_version"`
	DOMTitle       string             `json:"dom_title"`
	SourceFile     string             `json:"source_file"`
	SourceFiles    string             `json:"source_files"`
	SourceKeys     string             `json:"source_keys"`
	BuildTimestamp string             `json:"build_timestamp"`
	ParserVersion  string             `json:"parser_version"`
	Sources        []SourceClassCount `json:"sources"`
	Counts         Counts             `json:"counts"`
}

// SourceCounts is the per-source entity tally shown in Source.
type SourceCounts struct {
	Classes    int `json:"classes"`
	Properties int `json:"properties"`
	Methods    int `json:"methods"`
}

// Source describes one documentation source registered in the database.
type Source struct {
	Source string       `json:"source"`
	Label  string       `json:"label"`
	File   string       `json:"file"`
	Counts SourceCounts `json:"counts"`
}

// Overview is the capability summary for multi-source lookups: which
// sources exist, what falls outside the DOM proper, and how the lookup
// tools are meant to be sequenced.
type Overview struct {
	Sources              []Source `json:"sources"`
	ExtendScriptSpecials []string `json:"extendscript_specials"`
	ScriptUINote         string   `json:"scriptui_note"`
	LookupOrder          []string `json:"lookup_order"`
	KnownNameCollisions  []string `json:"known_name_collisions"`
}
