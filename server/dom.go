package server

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/jsxbridge/domdb"
)

const domInstructions = "This server provides access to the Adobe InDesign ExtendScript Object Model. " +
	"Use these tools to look up classes, properties, methods, enums, and inheritance " +
	"relationships in the InDesign DOM. This helps when writing or debugging " +
	"InDesign ExtendScript code.\n\n" +
	"The database covers three sources: the InDesign DOM ('dom'), core JavaScript " +
	"('javascript'), and ScriptUI ('scriptui'). Most tools accept an optional source " +
	"filter; without one, results from all sources are returned. Start with " +
	"knowledge_overview if you are unsure which source a name lives in -- several " +
	"names (Window, Group, Panel, Event) exist in more than one."

// DOM is the reference MCP server over a reference Store.
type DOM struct {
	store *domdb.Store
	mcp   *mcp.Server
}

// NewDOM builds the reference server around an open store.
func NewDOM(store *domdb.Store, version string) (*DOM, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	d := &DOM{store: store}
	d.mcp = mcp.NewServer(
		&mcp.Implementation{Name: "InDesign DOM", Version: version},
		&mcp.ServerOptions{Instructions: domInstructions},
	)

	mcp.AddTool(d.mcp, &mcp.Tool{
		Name: "lookup_class",
		Description: "Look up full information for an InDesign DOM class.\n\n" +
			"Returns suite, superclass, description, property/method counts, " +
			"and direct subclasses.",
	}, d.lookupClass)

	mcp.AddTool(d.mcp, &mcp.Tool{
		Name:        "get_properties",
		Description: "Get properties of an InDesign DOM class.",
	}, d.getProperties)

	mcp.AddTool(d.mcp, &mcp.Tool{
		Name:        "get_methods",
		Description: "Get methods of an InDesign DOM class with short signatures.",
	}, d.getMethods)

	mcp.AddTool(d.mcp, &mcp.Tool{
		Name:        "get_method_detail",
		Description: "Get full detail for a single method including all parameters.",
	}, d.getMethodDetail)

	mcp.AddTool(d.mcp, &mcp.Tool{
		Name:        "get_enum_values",
		Description: "Get all values of an InDesign DOM enumeration.",
	}, d.getEnumValues)

	mcp.AddTool(d.mcp, &mcp.Tool{
		Name:        "get_hierarchy",
		Description: "Get the full inheritance chain and direct subclasses of a class.",
	}, d.getHierarchy)

	mcp.AddTool(d.mcp, &mcp.Tool{
		Name: "search_dom",
		Description: "Full-text search across all InDesign DOM entities.\n\n" +
			"Searches class names, property names, method names, parameter names, " +
			"and their descriptions. Returns up to 20 results.",
	}, d.searchDOM)

	mcp.AddTool(d.mcp, &mcp.Tool{
		Name:        "list_classes",
		Description: "List InDesign DOM classes, optionally filtered by suite, type, or source.",
	}, d.listClasses)

	mcp.AddTool(d.mcp, &mcp.Tool{
		Name: "dom_info",
		Description: "Get InDesign DOM database metadata and statistics.\n\n" +
			"Returns DOM version, source files, build timestamp, and entity counts.",
	}, d.domInfo)

	mcp.AddTool(d.mcp, &mcp.Tool{
		Name: "knowledge_overview",
		Description: "Orientation for the reference database: available sources, " +
			"name-collision warnings, ExtendScript specials, and lookup order advice.",
	}, d.knowledgeOverview)

	return d, nil
}

// Run serves over stdio until ctx is cancelled or the client closes the
// stream.
func (d *DOM) Run(ctx context.Context) error {
	return d.mcp.Run(ctx, &mcp.StdioTransport{})
}

type classInput struct {
	Name   string `json:"name" jsonschema:"The exact class name (e.g. 'TextFrame', 'Document', 'Application')"`
	Source string `json:"source,omitempty" jsonschema:"Restrict to one source: 'dom', 'javascript', or 'scriptui'"`
}

func (d *DOM) lookupClass(ctx context.Context, req *mcp.CallToolRequest, in classInput) (*mcp.CallToolResult, any, error) {
	infos, err := d.store.LookupClass(ctx, in.Name, in.Source)
	if err != nil {
		return failure(err), nil, nil
	}
	if len(infos) == 0 {
		return textResult(fmt.Sprintf("Class '%s' not found in the InDesign DOM.", in.Name)), nil, nil
	}
	return jsonResult(single(infos)), nil, nil
}

type memberInput struct {
	ClassName        string `json:"class_name" jsonschema:"The class name (e.g. 'TextFrame')"`
	Filter           string `json:"filter,omitempty" jsonschema:"Optional substring filter on member name or description"`
	IncludeInherited bool   `json:"include_inherited,omitempty" jsonschema:"If true, includes members from superclasses"`
	Source           string `json:"source,omitempty" jsonschema:"Restrict to one source: 'dom', 'javascript', or 'scriptui'"`
}

func (in memberInput) query() domdb.MemberQuery {
	return domdb.MemberQuery{
		Class:            in.ClassName,
		Source:           in.Source,
		Filter:           in.Filter,
		IncludeInherited: in.IncludeInherited,
	}
}

func noMembersMessage(kind string, in memberInput) string {
	msg := fmt.Sprintf("No %s found for '%s'", kind, in.ClassName)
	if in.Filter != "" {
		msg += fmt.Sprintf(" matching '%s'", in.Filter)
	}
	return msg + "."
}

func (d *DOM) getProperties(ctx context.Context, req *mcp.CallToolRequest, in memberInput) (*mcp.CallToolResult, any, error) {
	props, err := d.store.Properties(ctx, in.query())
	if err != nil {
		return failure(err), nil, nil
	}
	if len(props) == 0 {
		return textResult(noMembersMessage("properties", in)), nil, nil
	}
	return jsonResult(props), nil, nil
}

func (d *DOM) getMethods(ctx context.Context, req *mcp.CallToolRequest, in memberInput) (*mcp.CallToolResult, any, error) {
	methods, err := d.store.Methods(ctx, in.query())
	if err != nil {
		return failure(err), nil, nil
	}
	if len(methods) == 0 {
		return textResult(noMembersMessage("methods", in)), nil, nil
	}
	return jsonResult(methods), nil, nil
}

type methodDetailInput struct {
	ClassName  string `json:"class_name" jsonschema:"The class that owns the method (e.g. 'Application')"`
	MethodName string `json:"method_name" jsonschema:"The method name (e.g. 'findGrep')"`
	Source     string `json:"source,omitempty" jsonschema:"Restrict to one source: 'dom', 'javascript', or 'scriptui'"`
}

func (d *DOM) getMethodDetail(ctx context.Context, req *mcp.CallToolRequest, in methodDetailInput) (*mcp.CallToolResult, any, error) {
	details, err := d.store.MethodDetail(ctx, in.ClassName, in.MethodName, in.Source)
	if err != nil {
		return failure(err), nil, nil
	}
	if len(details) == 0 {
		return textResult(fmt.Sprintf("Method '%s' not found on class '%s'.", in.MethodName, in.ClassName)), nil, nil
	}
	return jsonResult(single(details)), nil, nil
}

type enumInput struct {
	EnumName string `json:"enum_name" jsonschema:"The enum class name (e.g. 'Justification')"`
	Source   string `json:"source,omitempty" jsonschema:"Restrict to one source: 'dom', 'javascript', or 'scriptui'"`
}

func (d *DOM) getEnumValues(ctx context.Context, req *mcp.CallToolRequest, in enumInput) (*mcp.CallToolResult, any, error) {
	enums, err := d.store.EnumValues(ctx, in.EnumName, in.Source)
	if err != nil {
		return failure(err), nil, nil
	}
	if len(enums) == 0 {
		return textResult(fmt.Sprintf("Enum '%s' not found in the InDesign DOM.", in.EnumName)), nil, nil
	}
	return jsonResult(single(enums)), nil, nil
}

type hierarchyInput struct {
	ClassName string `json:"class_name" jsonschema:"The class name (e.g. 'TextFrame')"`
	Source    string `json:"source,omitempty" jsonschema:"Restrict to one source: 'dom', 'javascript', or 'scriptui'"`
}

func (d *DOM) getHierarchy(ctx context.Context, req *mcp.CallToolRequest, in hierarchyInput) (*mcp.CallToolResult, any, error) {
	chains, err := d.store.Hierarchy(ctx, in.ClassName, in.Source)
	if err != nil {
		return failure(err), nil, nil
	}
	if len(chains) == 0 {
		return textResult(fmt.Sprintf("Class '%s' not found in the InDesign DOM.", in.ClassName)), nil, nil
	}
	return jsonResult(single(chains)), nil, nil
}

type searchInput struct {
	Query  string `json:"query" jsonschema:"Search terms (e.g. 'find grep change', 'hyperlink', 'export pdf')"`
	Source string `json:"source,omitempty" jsonschema:"Restrict to one source: 'dom', 'javascript', or 'scriptui'"`
}

func (d *DOM) searchDOM(ctx context.Context, req *mcp.CallToolRequest, in searchInput) (*mcp.CallToolResult, any, error) {
	hits, err := d.store.Search(ctx, in.Query, in.Source, 20)
	if err != nil {
		return failure(err), nil, nil
	}
	if len(hits) == 0 {
		return textResult(fmt.Sprintf("No results found for '%s'.", in.Query)), nil, nil
	}
	return jsonResult(hits), nil, nil
}

type listInput struct {
	Suite  string `json:"suite,omitempty" jsonschema:"Filter by suite name (e.g. 'Text Suite', 'Color Suite')"`
	Type   string `json:"type,omitempty" jsonschema:"Filter by type: 'class', 'enum', or 'all' (default)"`
	Source string `json:"source,omitempty" jsonschema:"Restrict to one source: 'dom', 'javascript', or 'scriptui'"`
}

func (d *DOM) listClasses(ctx context.Context, req *mcp.CallToolRequest, in listInput) (*mcp.CallToolResult, any, error) {
	classes, err := d.store.ListClasses(ctx, domdb.ListQuery{
		Suite:      in.Suite,
		TypeFilter: in.Type,
		Source:     in.Source,
	})
	if err != nil {
		return failure(err), nil, nil
	}
	if len(classes) == 0 {
		msg := "No classes found"
		if in.Suite != "" {
			msg += fmt.Sprintf(" in suite '%s'", in.Suite)
		}
		return textResult(msg + "."), nil, nil
	}
	return jsonResult(classes), nil, nil
}

func (d *DOM) domInfo(ctx context.Context, req *mcp.CallToolRequest, in emptyInput) (*mcp.CallToolResult, any, error) {
	info, err := d.store.Info(ctx)
	if err != nil {
		return failure(err), nil, nil
	}
	return jsonResult(info), nil, nil
}

func (d *DOM) knowledgeOverview(ctx context.Context, req *mcp.CallToolRequest, in emptyInput) (*mcp.CallToolResult, any, error) {
	overview, err := d.store.Overview(ctx)
	if err != nil {
		return failure(err), nil, nil
	}
	return jsonResult(overview), nil, nil
}
