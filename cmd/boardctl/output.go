package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// printJSON writes v as indented JSON to stdout.
func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: marshaling JSON: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

// FatalError prints an error to stderr and exits.
func FatalError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// errorJSON is the payload shape for fatal errors under --json.
func errorJSON(format string, args ...interface{}) map[string]string {
	return map[string]string{"error": fmt.Sprintf(format, args...)}
}

// FatalErrorRespectJSON emits the error as a JSON object when --json is
// set, so scripted callers always get parseable output.
func FatalErrorRespectJSON(format string, args ...interface{}) {
	if jsonOutput {
		printJSON(errorJSON(format, args...))
		os.Exit(1)
	}
	FatalError(format, args...)
}
