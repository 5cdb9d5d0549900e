package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/quillgraph/quillgraph/internal/demo"
	"github.com/quillgraph/quillgraph/internal/eventbus"
	"github.com/quillgraph/quillgraph/internal/language"
	"github.com/quillgraph/quillgraph/internal/otel"
)

const rootUsage = `quillgraph — GraphQL execution engine & tools

USAGE:
  quillgraph <command> [flags]

COMMANDS:
  exec             Execute a query against the built-in demo schema
  help             Show help for any command
`

const execUsage = `exec FLAGS:
  -query <text>            Query document text (required unless -query.file)
  -query.file <path>       Read the query document from a file
  -operation <name>        Operation to run when the document has several
  -variables <json>        Variables as a JSON object (default: {})
  -pretty                  Pretty-print the JSON result
  -otel.endpoint <addr>    OTLP collector endpoint
  -otel.service <name>     OpenTelemetry service name (default: quillgraph)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("quillgraph", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "exec":
		return cmdExec(cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "exec":
		fmt.Print(execUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

func cmdExec(args []string) error {
	query := ""
	queryFile := ""
	operation := ""
	variablesJSON := "{}"
	pretty := false
	otelEndpoint := ""
	otelService := "quillgraph"

	fs := flag.NewFlagSet("exec", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&query, "query", query, "Query document text")
	fs.StringVar(&queryFile, "query.file", queryFile, "Read the query document from a file")
	fs.StringVar(&operation, "operation", operation, "Operation name")
	fs.StringVar(&variablesJSON, "variables", variablesJSON, "Variables as a JSON object")
	fs.BoolVar(&pretty, "pretty", pretty, "Pretty-print the JSON result")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, execUsage)
		return err
	}

	if queryFile != "" {
		data, err := os.ReadFile(queryFile)
		if err != nil {
			return fmt.Errorf("read query file: %w", err)
		}
		query = string(data)
	}
	if query == "" {
		fmt.Fprint(os.Stderr, execUsage)
		return fmt.Errorf("-query or -query.file is required")
	}

	var variables map[string]any
	if err := json.Unmarshal([]byte(variablesJSON), &variables); err != nil {
		return fmt.Errorf("parse variables: %w", err)
	}

	eventbus.Use(eventbus.New())
	shutdown, err := otel.Setup(otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	ctx := context.Background()
	defer shutdown(ctx)

	document, err := language.ParseQuery(query)
	if err != nil {
		return fmt.Errorf("parse query: %w", err)
	}

	engine, root := demo.NewEngine()
	result := engine.ExecuteRequest(ctx, document, operation, variables, root, nil)

	var out []byte
	if pretty {
		out, err = json.MarshalIndent(result, "", "  ")
	} else {
		out, err = json.Marshal(result)
	}
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
