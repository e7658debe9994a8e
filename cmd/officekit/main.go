// Command officekit is the thin CLI front-end over the document core:
// per-format sub-commands that print pretty text or a JSON envelope.
//
// Usage:
//
//	officekit <pptx|docx|xlsx|pdf> <info|list|show|extract|verify|theme> [flags] file
//	officekit <pptx|docx|xlsx> build [flags] output
package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// envelope is the JSON output shape: {success:true, data} or
// {success:false, error:{code,message}}.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *cliError   `json:"error,omitempty"`
}

type cliError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Recognised error codes.
const (
	codeFileNotFound    = "FILE_NOT_FOUND"
	codeParseError      = "PARSE_ERROR"
	codeInvalidArgument = "INVALID_ARGUMENT"
)

func main() {
	if len(os.Args) < 3 {
		usage()
		os.Exit(2)
	}

	format := os.Args[1]
	command := os.Args[2]
	args := os.Args[3:]

	var err *cliError
	switch format {
	case "pptx":
		err = runPptx(command, args)
	case "docx":
		err = runDocx(command, args)
	case "xlsx":
		err = runXlsx(command, args)
	case "pdf":
		err = runPdf(command, args)
	default:
		err = &cliError{Code: codeInvalidArgument, Message: fmt.Sprintf("unknown format %q", format)}
	}

	if err != nil {
		emitError(err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: officekit <pptx|docx|xlsx|pdf> <info|list|show|extract|build|verify|theme> [flags] file")
}

// emitJSON prints a success envelope.
func emitJSON(data interface{}) {
	out, err := json.MarshalIndent(envelope{Success: true, Data: data}, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func emitError(e *cliError) {
	out, _ := json.MarshalIndent(envelope{Success: false, Error: e}, "", "  ")
	fmt.Fprintln(os.Stderr, string(out))
}

// readFileArg loads the trailing file argument.
func readFileArg(args []string) ([]byte, string, *cliError) {
	if len(args) < 1 {
		return nil, "", &cliError{Code: codeInvalidArgument, Message: "missing file argument"}
	}
	path := args[len(args)-1]
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, path, &cliError{Code: codeFileNotFound, Message: err.Error()}
		}
		return nil, path, &cliError{Code: codeParseError, Message: err.Error()}
	}
	return data, path, nil
}

func invalidCommand(format, command string) *cliError {
	return &cliError{
		Code:    codeInvalidArgument,
		Message: fmt.Sprintf("unknown %s command %q", format, command),
	}
}
