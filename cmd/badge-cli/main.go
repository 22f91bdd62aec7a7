package main

import (
	"context"
	"robobadge/cmd/badge-cli/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
