// Command keyreduce reduces densely keyed animation clips and WAV channels to
// sparse Hermite keyframes.
//
// Usage:
//
//	keyreduce clip walk.yaml                       # writes walk_reduced.yaml
//	keyreduce clip --threshold 1e-4 walk.json out.json
//	keyreduce clip --sampling adaptive walk.yaml   # sample only around source keys
//	keyreduce wav --mode linear envelope.wav envelope.yaml --render check.wav
//
// Settings can also come from .keyreduce.yaml (current or home directory) or
// KEYREDUCE_* environment variables.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "keyreduce: %v\n", err)
		os.Exit(1)
	}
}
