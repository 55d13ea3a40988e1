package main

import (
	"context"
	"os"

	"github.com/centerhq/appstore-server/cmd/appstore-server/cmd"
)

func main() {
	command := cmd.RootCmd
	if err := command.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
