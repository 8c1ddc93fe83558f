// Command jsxbridge manages the ExtendScript reference database and the
// learned-tip queue: parse OMV XML exports, build and validate the
// SQLite database, and review pending tip submissions.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/jonwraymond/jsxbridge/domdb"
	"github.com/jonwraymond/jsxbridge/omv"
	"github.com/jonwraymond/jsxbridge/tips"
)

const defaultDBPath = "extendscript.db"

func usage() {
	fmt.Fprint(os.Stderr, `Usage: jsxbridge <command> [flags]

Commands:
  analyze      Parse an OMV XML export and print a structure report
  build        Build the reference database from one XML source
  build-all    Build the database from DOM + JavaScript + ScriptUI sources
  update       Rebuild the database from new XML, reporting the changes
  validate     Validate the database, optionally against an XML source
  info         Show database statistics
  tips         Manage the learned-tip queue (pending, review, submit)

Run "jsxbridge <command> --help" for command flags.
`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "analyze":
		err = cmdAnalyze(os.Args[2:])
	case "build":
		err = cmdBuild(os.Args[2:])
	case "build-all":
		err = cmdBuildAll(os.Args[2:])
	case "update":
		err = cmdUpdate(os.Args[2:])
	case "validate":
		err = cmdValidate(os.Args[2:])
	case "info":
		err = cmdInfo(os.Args[2:])
	case "tips":
		err = cmdTips(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "jsxbridge: unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "jsxbridge: %v\n", err)
		os.Exit(1)
	}
}

func cmdAnalyze(args []string) error {
	flags := pflag.NewFlagSet("analyze", pflag.ExitOnError)
	xmlPath := flags.String("xml", "", "path to the OMV XML export")
	source := flags.String("source", "dom", "source key (dom, javascript, scriptui)")
	flags.Parse(args)

	if *xmlPath == "" {
		return fmt.Errorf("analyze: --xml is required")
	}

	fmt.Printf("Parsing %s (source=%s) ...\n", *xmlPath, *source)
	payload, err := omv.ParseFile(*xmlPath, *source)
	if err != nil {
		return err
	}
	omv.WriteReport(os.Stdout, omv.Analyze(payload))
	return nil
}

func cmdBuild(args []string) error {
	flags := pflag.NewFlagSet("build", pflag.ExitOnError)
	xmlPath := flags.String("xml", "", "path to the OMV XML export")
	dbPath := flags.String("db", defaultDBPath, "output database path")
	source := flags.String("source", "dom", "source key (dom, javascript, scriptui)")
	flags.Parse(args)

	if *xmlPath == "" {
		return fmt.Errorf("build: --xml is required")
	}

	fmt.Printf("Parsing %s (source=%s) ...\n", *xmlPath, *source)
	payload, err := omv.ParseFile(*xmlPath, *source)
	if err != nil {
		return err
	}
	omv.WriteReport(os.Stdout, omv.Analyze(payload))

	return buildAndValidate([]*omv.SourcePayload{payload}, *dbPath, nil)
}

func cmdBuildAll(args []string) error {
	flags := pflag.NewFlagSet("build-all", pflag.ExitOnError)
	domPath := flags.String("dom", "", "path to the application DOM XML export")
	jsPath := flags.String("js", "", "path to the core JavaScript XML export")
	suiPath := flags.String("sui", "", "path to the ScriptUI XML export")
	dbPath := flags.String("db", defaultDBPath, "output database path")
	flags.Parse(args)

	refs := []omv.SourceRef{
		{Key: "dom", Path: *domPath},
		{Key: "javascript", Path: *jsPath},
		{Key: "scriptui", Path: *suiPath},
	}
	for _, ref := range refs {
		if ref.Path == "" {
			return fmt.Errorf("build-all: --%s is required", flagForSource(ref.Key))
		}
	}

	var payloads []*omv.SourcePayload
	for _, ref := range refs {
		fmt.Printf("Parsing %s (source=%s) ...\n", ref.Path, ref.Key)
		payload, err := omv.ParseFile(ref.Path, ref.Key)
		if err != nil {
			return err
		}
		omv.WriteReport(os.Stdout, omv.Analyze(payload))
		payloads = append(payloads, payload)
	}

	return buildAndValidate(payloads, *dbPath, []string{"dom", "javascript", "scriptui"})
}

func flagForSource(key string) string {
	switch key {
	case "javascript":
		return "js"
	case "scriptui":
		return "sui"
	default:
		return key
	}
}

func buildAndValidate(payloads []*omv.SourcePayload, dbPath string, expectSources []string) error {
	fmt.Printf("\nBuilding database at %s ...\n", dbPath)
	stats, err := omv.BuildDatabase(payloads, dbPath)
	if err != nil {
		return err
	}
	fmt.Printf("  Sources:    %d\n", stats.SourceCount)
	fmt.Printf("  Classes:    %d\n", stats.ClassCount)
	fmt.Printf("  Properties: %d\n", stats.PropertyCount)
	fmt.Printf("  Methods:    %d\n", stats.MethodCount)
	fmt.Printf("  Parameters: %d\n", stats.ParameterCount)
	fmt.Printf("  FTS rows:   %d\n", stats.FTSRows)
	fmt.Printf("  Built at:   %s\n", stats.BuildTimestamp)

	fmt.Println("\nValidating ...")
	validation, err := omv.Validate(payloads, dbPath, expectSources)
	if err != nil {
		return err
	}
	omv.WriteValidation(os.Stdout, validation)

	if !validation.Passed {
		return fmt.Errorf("database built with validation errors")
	}
	fmt.Println("\nDatabase built successfully.")
	return nil
}

func cmdUpdate(args []string) error {
	flags := pflag.NewFlagSet("update", pflag.ExitOnError)
	xmlPath := flags.String("xml", "", "path to the new OMV XML export")
	dbPath := flags.String("db", defaultDBPath, "database path")
	source := flags.String("source", "dom", "source key (dom, javascript, scriptui)")
	flags.Parse(args)

	if *xmlPath == "" {
		return fmt.Errorf("update: --xml is required")
	}

	fmt.Printf("Parsing %s (source=%s) ...\n", *xmlPath, *source)
	payload, err := omv.ParseFile(*xmlPath, *source)
	if err != nil {
		return err
	}

	if _, err := os.Stat(*dbPath); err == nil {
		diff, err := omv.Diff(*dbPath, payload)
		if err != nil {
			fmt.Println("Could not read existing database for diff.")
		} else {
			omv.WriteDiff(os.Stdout, diff)
		}
	} else {
		fmt.Println("No existing database found. Building fresh.")
	}

	fmt.Printf("\nRebuilding database at %s ...\n", *dbPath)
	stats, err := omv.BuildDatabase([]*omv.SourcePayload{payload}, *dbPath)
	if err != nil {
		return err
	}
	fmt.Printf("  Classes:    %d\n", stats.ClassCount)
	fmt.Printf("  Properties: %d\n", stats.PropertyCount)
	fmt.Printf("  Methods:    %d\n", stats.MethodCount)
	fmt.Printf("  Parameters: %d\n", stats.ParameterCount)

	fmt.Println("\nValidating ...")
	validation, err := omv.Validate([]*omv.SourcePayload{payload}, *dbPath, nil)
	if err != nil {
		return err
	}
	omv.WriteValidation(os.Stdout, validation)

	if !validation.Passed {
		return fmt.Errorf("database updated with validation errors")
	}
	fmt.Println("\nDatabase updated successfully.")
	return nil
}

func cmdValidate(args []string) error {
	flags := pflag.NewFlagSet("validate", pflag.ExitOnError)
	xmlPath := flags.String("xml", "", "optional XML source to compare against")
	source := flags.String("source", "dom", "source key for --xml")
	dbPath := flags.String("db", defaultDBPath, "database path")
	expect := flags.String("expect-sources", "", "comma-separated source keys that must be present")
	flags.Parse(args)

	var expectSources []string
	if *expect != "" {
		expectSources = strings.Split(*expect, ",")
	}

	if *xmlPath != "" {
		fmt.Printf("Parsing %s for validation (source=%s) ...\n", *xmlPath, *source)
		payload, err := omv.ParseFile(*xmlPath, *source)
		if err != nil {
			return err
		}
		validation, err := omv.Validate([]*omv.SourcePayload{payload}, *dbPath, expectSources)
		if err != nil {
			return err
		}
		omv.WriteValidation(os.Stdout, validation)
		if err := regressionChecks(*dbPath); err != nil {
			return err
		}
		if !validation.Passed {
			return fmt.Errorf("validation failed")
		}
		return nil
	}

	fmt.Println("Validating database structure (no XML comparison) ...")
	validation, err := omv.Validate(nil, *dbPath, expectSources)
	if err != nil {
		return err
	}
	omv.WriteValidation(os.Stdout, validation)
	if err := regressionChecks(*dbPath); err != nil {
		return err
	}
	if !validation.Passed {
		return fmt.Errorf("validation failed")
	}
	return nil
}

func regressionChecks(dbPath string) error {
	if _, err := os.Stat(dbPath); err != nil {
		return nil
	}
	store, err := domdb.Open(domdb.Config{Path: dbPath})
	if err != nil {
		return err
	}
	defer store.Close()
	runRegressionChecks(context.Background(), os.Stdout, store)
	return nil
}

// runRegressionChecks runs sample lookups against a full three-source
// build. Misses are reported but do not fail validation: a single-source
// database legitimately lacks most of these.
func runRegressionChecks(ctx context.Context, w io.Writer, store *domdb.Store) {
	checks := []struct {
		class  string
		source string
	}{
		{"UnitValue", "javascript"},
		{"$", "javascript"},
		{"File", "javascript"},
		{"RegExp", "javascript"},
		{"ScriptUI", "scriptui"},
	}
	fmt.Fprintln(w, "  Regression checks:")
	for _, check := range checks {
		rows, err := store.LookupClass(ctx, check.class, check.source)
		status := "OK"
		if err != nil || len(rows) == 0 {
			status = "FAIL"
		}
		fmt.Fprintf(w, "    %s: lookup_class('%s', source='%s')\n", status, check.class, check.source)
	}
	rows, err := store.LookupClass(ctx, "Window", "")
	if err == nil && len(rows) >= 2 {
		fmt.Fprintln(w, "    OK: lookup_class('Window') resolves multiple sources")
	} else {
		fmt.Fprintln(w, "    FAIL: lookup_class('Window') should return multiple sources")
	}
}

func cmdInfo(args []string) error {
	flags := pflag.NewFlagSet("info", pflag.ExitOnError)
	dbPath := flags.String("db", defaultDBPath, "database path")
	flags.Parse(args)

	store, err := domdb.Open(domdb.Config{Path: *dbPath})
	if err != nil {
		return err
	}
	defer store.Close()

	info, err := store.Info(context.Background())
	if err != nil {
		return err
	}

	sep := strings.Repeat("=", 55)
	fmt.Println(sep)
	fmt.Println("  ExtendScript Reference Database Info")
	fmt.Println(sep)
	fmt.Printf("  Version:        %s\n", info.DOMVersion)
	fmt.Printf("  Title:          %s\n", info.DOMTitle)
	fmt.Printf("  Source file:    %s\n", info.SourceFile)
	fmt.Printf("  Source files:   %s\n", info.SourceFiles)
	fmt.Printf("  Built:          %s\n", info.BuildTimestamp)
	fmt.Printf("  Parser version: %s\n", info.ParserVersion)
	fmt.Println(sep)
	fmt.Printf("  Suites:           %6d\n", info.Counts.Suites)
	fmt.Printf("  Classes (total):  %6d\n", info.Counts.Classes)
	fmt.Printf("    Regular:        %6d\n", info.Counts.RegularClasses)
	fmt.Printf("    Enumerations:   %6d\n", info.Counts.Enums)
	fmt.Printf("  Properties:       %6d\n", info.Counts.Properties)
	fmt.Printf("  Methods:          %6d\n", info.Counts.Methods)
	fmt.Printf("  Parameters:       %6d\n", info.Counts.Parameters)
	fmt.Println(sep)
	return nil
}

func cmdTips(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("tips: subcommand required (pending, review, submit)")
	}

	flags := pflag.NewFlagSet("tips", pflag.ExitOnError)
	queuePath := flags.String("queue", "submissions/pending.jsonl", "pending submissions file")
	curatedPath := flags.String("curated", "gotchas.json", "curated tips file")

	sub := tips.Submission{}
	var triggers []string
	switch args[0] {
	case "submit":
		flags.StringVar(&sub.Category, "category", "extendscript", "tip category")
		flags.StringVar(&sub.Severity, "severity", "warning", "tip severity")
		flags.StringSliceVar(&triggers, "trigger", nil, "trigger keyword (repeatable)")
		flags.StringVar(&sub.Problem, "problem", "", "what went wrong")
		flags.StringVar(&sub.Solution, "solution", "", "how to avoid it")
		flags.StringVar(&sub.ErrorMessage, "error", "", "observed error message")
		flags.StringVar(&sub.JSXContext, "jsx", "", "the JSX snippet that triggered the problem")
	}
	flags.Parse(args[1:])

	store, err := tips.NewStore(tips.Config{QueuePath: *queuePath, CuratedPath: *curatedPath})
	if err != nil {
		return err
	}

	switch args[0] {
	case "pending":
		return tipsPending(store)
	case "review":
		return tipsReview(store)
	case "submit":
		sub.Triggers = triggers
		if err := store.Submit(sub); err != nil {
			return err
		}
		fmt.Println("Submission queued.")
		return nil
	default:
		return fmt.Errorf("tips: unknown subcommand %q", args[0])
	}
}

func tipsPending(store *tips.Store) error {
	subs, invalid, err := store.Pending()
	if err != nil {
		return err
	}
	if len(subs) == 0 && invalid == 0 {
		fmt.Println("No pending submissions.")
		return nil
	}
	for i, sub := range subs {
		printSubmission(i+1, sub)
	}
	if invalid > 0 {
		fmt.Printf("(%d malformed line(s) kept in the queue)\n", invalid)
	}
	return nil
}

func printSubmission(idx int, sub tips.Submission) {
	fmt.Println(strings.Repeat("-", 72))
	fmt.Printf("Submission #%d\n", idx)
	fmt.Printf("  Category: %s\n", sub.Category)
	fmt.Printf("  Severity: %s\n", sub.Severity)
	fmt.Printf("  Triggers: %v\n", sub.Triggers)
	fmt.Printf("  Problem:  %s\n", sub.Problem)
	fmt.Printf("  Solution: %s\n", sub.Solution)
	if sub.ErrorMessage != "" {
		fmt.Printf("  Error:    %s\n", sub.ErrorMessage)
	}
	if sub.JSXContext != "" {
		preview := strings.ReplaceAll(sub.JSXContext, "\n", "\\n")
		if len(preview) > 180 {
			preview = preview[:180]
		}
		fmt.Printf("  JSX:      %s\n", preview)
	}
}

func tipsReview(store *tips.Store) error {
	reader := bufio.NewReader(os.Stdin)
	stats, err := store.Review(func(idx int, sub tips.Submission) tips.Decision {
		printSubmission(idx, sub)
		fmt.Print("Action [a=approve, s=skip, r=reject, q=quit] (default: s): ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return tips.Quit
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "a":
			return tips.Approve
		case "r":
			return tips.Reject
		case "q":
			return tips.Quit
		default:
			return tips.Skip
		}
	})
	if err != nil {
		return err
	}
	fmt.Println(strings.Repeat("-", 72))
	fmt.Printf("Review complete. Approved: %d, Rejected: %d, Still pending: %d\n",
		stats.Approved, stats.Rejected, stats.Pending)
	return nil
}
