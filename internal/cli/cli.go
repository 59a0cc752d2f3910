package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vk/hpogrid/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("hpogrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
hpogrid - expands a declarative ablation study into a runnable trial plan.

Usage:
  hpogrid [options] [STUDY_PATH]

Arguments:
  STUDY_PATH
    Path to a study document (.hcl, .json, .yaml) or a directory of them.

Options:
`)
		flagSet.PrintDefaults()
	}

	studyFlag := flagSet.String("study", "", "Path to the study document or directory.")
	sFlag := flagSet.String("s", "", "Path to the study document or directory (shorthand).")
	outFlag := flagSet.String("out", "", "File to write the expanded trial plan to. Empty writes to stdout.")
	validateFlag := flagSet.Bool("validate", false, "Validate the study document(s) and exit.")
	execFlag := flagSet.String("exec", "", "Command to run per trial; receives the trial document on stdin and must print JSON metrics. Split on whitespace; shell quoting is not interpreted.")
	resultsFlag := flagSet.String("results", "", "File to append trial results to as JSON lines (with -exec).")
	workersFlag := flagSet.Int("workers", 4, "Number of concurrent trial workers (with -exec).")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := ""
	if *studyFlag != "" {
		path = *studyFlag
	} else if *sFlag != "" {
		path = *sFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}

	if path == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	var execCommand []string
	if *execFlag != "" {
		execCommand = strings.Fields(*execFlag)
	}

	config, err := app.NewConfig(app.Config{
		StudyPath:    path,
		OutPath:      *outFlag,
		ValidateOnly: *validateFlag,
		ExecCommand:  execCommand,
		ResultsPath:  *resultsFlag,
		Workers:      *workersFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
