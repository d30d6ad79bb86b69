package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nurfarazi/Excel2Google-AutoPilot/commands"
)

func main() {
	ctx := context.Background()

	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
