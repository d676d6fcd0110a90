package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/unkn0wn-root/repo-bootstrap/internal/errdef"
)

var version = "dev"

func main() {
	// A missing .env is normal; real environment values win over it.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the root command and maps its error to a process exit code.
// Fetch failures were already reported line by line, so only other errors
// are printed here.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err != nil && !errdef.Is(err, errdef.CodeFetch) {
		_, _ = fmt.Fprintf(stderr, "repo-bootstrap: %v\n", err)
		if errdef.Is(err, errdef.CodeUsage) {
			_, _ = fmt.Fprintln(stderr, "Run 'repo-bootstrap --help' for usage.")
		}
	}
	return errdef.ExitCode(err)
}
