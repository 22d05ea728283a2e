package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/forPelevin/ytpgen/internal/graceful"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	ctx, cancel := graceful.Context(context.Background())
	root := newRootCommand()
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	err := root.ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
