// Command lesson-solver runs a single solve from a JSON request on stdin
// and writes the resulting schedule as JSON to stdout, for scripting and
// local experimentation without standing up the HTTP server.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/noah-isme/lesson-solver/internal/scheduler"
)

type request struct {
	Teacher  scheduler.TeacherConfig   `json:"teacher"`
	Students []scheduler.StudentConfig `json:"students"`
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("lesson-solver", flag.ContinueOnError)
	validateOnly := fs.Bool("validate-only", false, "only run structural validation, do not search for a schedule")
	maxTimeMs := fs.Int64("max-time-ms", 0, "override the adaptive solve time budget in milliseconds (0 = adaptive default)")
	seed := fs.Int64("seed", 0, "search value-ordering seed (0 = no jitter)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading request: %w", err)
	}

	var req request
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("parsing request: %w", err)
	}

	if *validateOnly {
		issues := scheduler.ValidateInputs(req.Teacher, req.Students)
		return writeJSON(out, map[string]interface{}{"valid": len(issues) == 0, "issues": issues})
	}

	opts := scheduler.DefaultSolverOptions(len(req.Students))
	if *maxTimeMs > 0 {
		opts.MaxTimeMs = *maxTimeMs
	}
	opts.SearchSeed = *seed

	solution, err := scheduler.SolveWithOptions(req.Teacher, req.Students, opts)
	if err != nil {
		return fmt.Errorf("solving: %w", err)
	}

	return writeJSON(out, solution)
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
