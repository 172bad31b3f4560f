package main

import (
	"os"

	"github.com/livp123/logwatch/cmd/logwatch/commands"
)

func main() {
	os.Exit(commands.Execute())
}
