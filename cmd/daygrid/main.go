package main

import "github.com/marcus/daygrid/cmd/daygrid/commands"

func main() {
	commands.Execute()
}
