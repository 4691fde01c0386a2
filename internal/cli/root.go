package cli

import (
	"context"
	"os"
)

// Execute runs the querygraph CLI with args taken from os.Args.
//
// Logging goes to stderr at info level; --verbose switches to debug and
// routes editor, render and cache events to the log. Command output goes
// to stdout.
//
//	func main() {
//	    if err := cli.Execute(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context) error {
	return New(os.Stderr, LogInfo).RootCommand().ExecuteContext(ctx)
}
