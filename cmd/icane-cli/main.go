package main

import "icane/cmd/icane-cli/cmd"

func main() {
	cmd.Execute()
}
