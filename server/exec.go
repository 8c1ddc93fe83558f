package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/jsxbridge/bridge"
	"github.com/jonwraymond/jsxbridge/jsx"
)

const execInstructions = "This server executes ExtendScript (JSX) code directly in a running Adobe InDesign instance. " +
	"Use run_jsx to perform operations in InDesign documents. Every run_jsx call with " +
	"undo_mode='entire' (default) groups all changes under a single undo step, so " +
	"Ctrl+Z reverts the entire operation. Use the undo tool to programmatically revert changes.\n\n" +
	"IMPORTANT: In your JSX code, assign the return value to the variable __result. Example:\n" +
	"  var doc = app.activeDocument;\n" +
	"  __result = {name: doc.name, pages: doc.pages.length};\n\n" +
	"Do NOT use return statements — the wrapper handles serialisation.\n" +
	"Always verify results after modifications using eval_expression or get_document_info.\n" +
	"Use the InDesign DOM MCP server to look up classes, properties and methods " +
	"before writing JSX code.\n\n" +
	"PERFORMANCE: InDesign has a powerful Collection API. ALWAYS prefer collection methods " +
	"over manual for-loops:\n" +
	"  - everyItem() for bulk operations: collection.everyItem().prop = value (ONE command for ALL items)\n" +
	"  - itemByName('x'), itemByID(n), itemByRange(a,b) for direct access without loops\n" +
	"  - Nested: doc.stories.everyItem().paragraphs.everyItem().appliedParagraphStyle (reads ALL in ONE call)\n" +
	"  - Only use loops when each element needs a DIFFERENT value (use getElements() first)\n" +
	"  Example — set all docs to page 26 WITHOUT a loop:\n" +
	"    app.documents.everyItem().layoutWindows.everyItem().activePage = " +
	"app.documents.everyItem().pages.itemByName('26');\n" +
	"  Example — read all page names in one call:\n" +
	"    __result = doc.pages.everyItem().name;  // returns Array"

// Exec is the execution MCP server: five tools plus the usage-guide
// resource, all backed by one Runner.
type Exec struct {
	runner Runner
	mcp    *mcp.Server
}

// NewExec builds the execution server around a runner.
func NewExec(runner Runner, version string) (*Exec, error) {
	if runner == nil {
		return nil, ErrRunnerRequired
	}

	e := &Exec{runner: runner}
	e.mcp = mcp.NewServer(
		&mcp.Implementation{Name: "InDesign Exec", Version: version},
		&mcp.ServerOptions{Instructions: execInstructions},
	)

	mcp.AddTool(e.mcp, &mcp.Tool{
		Name: "run_jsx",
		Description: "Execute JSX (ExtendScript) code in InDesign.\n\n" +
			"The code runs inside a safety wrapper that catches errors and returns " +
			"structured results. When undo_mode is 'entire' (default), all changes " +
			"are grouped under a single undo step labeled with undo_name.\n\n" +
			"IMPORTANT: Assign the value you want to return to the variable __result.\n" +
			"Example:\n" +
			"    var doc = app.activeDocument;\n" +
			"    __result = {name: doc.name, pages: doc.pages.length};\n\n" +
			"PERFORMANCE — prefer InDesign Collection methods over loops:\n" +
			"    // GOOD: bulk operation via everyItem() — one command for all items\n" +
			"    doc.textFrames.everyItem().label = \"processed\";\n" +
			"    __result = doc.pages.everyItem().name;  // reads all names at once\n" +
			"    // GOOD: direct access without loop\n" +
			"    var style = doc.paragraphStyles.itemByName(\"Heading 1\");\n" +
			"    // BAD: manual loop when everyItem() would work\n" +
			"    for (var i = 0; i < doc.textFrames.length; i++) { doc.textFrames[i].label = \"processed\"; }\n" +
			"Only use loops when each element needs a DIFFERENT value.",
	}, e.runJSX)

	mcp.AddTool(e.mcp, &mcp.Tool{
		Name: "get_document_info",
		Description: "Get an overview of the active InDesign document.\n\n" +
			"Returns document name, page count, item counts, selection info, " +
			"style counts, and document preferences. Read-only operation.",
	}, e.getDocumentInfo)

	mcp.AddTool(e.mcp, &mcp.Tool{
		Name:        "get_selection",
		Description: "Get information about the current selection in InDesign.",
	}, e.getSelection)

	mcp.AddTool(e.mcp, &mcp.Tool{
		Name: "eval_expression",
		Description: "Evaluate a short ExtendScript expression in InDesign and return the result.\n\n" +
			"Use this for quick read-only queries like checking a property value " +
			"or counting items. No undo wrapping is applied.",
	}, e.evalExpression)

	mcp.AddTool(e.mcp, &mcp.Tool{
		Name: "undo",
		Description: "Undo the last operation(s) in the active InDesign document.\n\n" +
			"Each run_jsx call with undo_mode='entire' creates a single undo step. " +
			"Use this tool to revert agent operations that produced incorrect results.",
	}, e.undo)

	e.mcp.AddResource(&mcp.Resource{
		URI:         "config://usage",
		Name:        "usage",
		Description: "Usage guide for the InDesign Exec MCP. Read this first.",
		MIMEType:    "text/markdown",
	}, e.readUsage)

	return e, nil
}

// Run serves over stdio until ctx is cancelled or the client closes the
// stream.
func (e *Exec) Run(ctx context.Context) error {
	return e.mcp.Run(ctx, &mcp.StdioTransport{})
}

func (e *Exec) readUsage(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      "config://usage",
			MIMEType: "text/markdown",
			Text:     usageGuide,
		}},
	}, nil
}

// checkDocument verifies the application is reachable and a document is
// open. Returns a non-empty message when the preflight fails.
func (e *Exec) checkDocument(ctx context.Context) string {
	count, err := e.runner.Evaluate(ctx, "app.documents.length")
	if err != nil {
		return err.Error()
	}
	if strings.HasPrefix(count, jsx.ErrorPrefix) {
		return fmt.Sprintf("Error checking documents: %s", strings.TrimPrefix(count, jsx.ErrorPrefix))
	}
	if count == "0" {
		return "No document open in InDesign."
	}
	return ""
}

type runJSXInput struct {
	Code     string `json:"code" jsonschema:"The JSX code to execute. Assign to __result to return data."`
	UndoName string `json:"undo_name,omitempty" jsonschema:"Human-readable label for Edit > Undo (e.g. 'Agent: Format headings')"`
	UndoMode string `json:"undo_mode,omitempty" jsonschema:"'entire' groups all changes as one undo step (default), 'auto' lets InDesign handle undo per-operation, 'none' skips undo tracking (for read-only operations)"`
}

func (e *Exec) runJSX(ctx context.Context, req *mcp.CallToolRequest, in runJSXInput) (*mcp.CallToolResult, any, error) {
	undoName := in.UndoName
	if undoName == "" {
		undoName = "Agent Script"
	}
	undoMode := in.UndoMode
	if undoMode == "" {
		undoMode = "entire"
	}

	res := e.runner.Execute(ctx, bridge.Request{
		Script:    in.Code,
		UndoLabel: undoName,
		UndoMode:  bridge.ParseUndoMode(undoMode),
	})
	return jsonResult(resultPayload(res)), nil, nil
}

type emptyInput struct{}

func (e *Exec) getDocumentInfo(ctx context.Context, req *mcp.CallToolRequest, in emptyInput) (*mcp.CallToolResult, any, error) {
	if msg := e.checkDocument(ctx); msg != "" {
		return jsonResult(map[string]any{"success": false, "error": msg}), nil, nil
	}

	res := e.runner.Execute(ctx, bridge.Request{Script: docInfoScript, UndoMode: bridge.UndoNone})
	return jsonResult(unwrapPayload(resultPayload(res))), nil, nil
}

type selectionInput struct {
	DetailLevel string `json:"detail_level,omitempty" jsonschema:"'basic' for type/bounds/content, 'full' adds styles/colors/page"`
}

func (e *Exec) getSelection(ctx context.Context, req *mcp.CallToolRequest, in selectionInput) (*mcp.CallToolResult, any, error) {
	if msg := e.checkDocument(ctx); msg != "" {
		return jsonResult(map[string]any{"success": false, "error": msg}), nil, nil
	}

	script := selectionBasicScript
	if in.DetailLevel == "full" {
		script = selectionFullScript
	}

	res := e.runner.Execute(ctx, bridge.Request{Script: script, UndoMode: bridge.UndoNone})
	return jsonResult(unwrapPayload(resultPayload(res))), nil, nil
}

type evalInput struct {
	Expression string `json:"expression" jsonschema:"The expression to evaluate (e.g. 'app.activeDocument.pages.length')"`
}

func (e *Exec) evalExpression(ctx context.Context, req *mcp.CallToolRequest, in evalInput) (*mcp.CallToolResult, any, error) {
	value, err := e.runner.Evaluate(ctx, in.Expression)
	if err != nil {
		return failure(err), nil, nil
	}
	if msg, ok := strings.CutPrefix(value, jsx.ErrorPrefix); ok {
		return jsonResult(map[string]any{"success": false, "error": msg}), nil, nil
	}
	return jsonResult(map[string]any{"success": true, "result": value}), nil, nil
}

type undoInput struct {
	Steps int `json:"steps,omitempty" jsonschema:"Number of undo steps to perform (default: 1)"`
}

func (e *Exec) undo(ctx context.Context, req *mcp.CallToolRequest, in undoInput) (*mcp.CallToolResult, any, error) {
	if msg := e.checkDocument(ctx); msg != "" {
		return jsonResult(map[string]any{"success": false, "error": msg}), nil, nil
	}

	steps := min(max(in.Steps, 1), 50)

	res := e.runner.Execute(ctx, bridge.Request{Script: undoScript(steps), UndoMode: bridge.UndoNone})
	return jsonResult(unwrapPayload(resultPayload(res))), nil, nil
}
