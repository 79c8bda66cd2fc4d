package main

import "github.com/forodb/forodb/cmd/forodb/commands"

func main() {
	commands.Execute()
}
