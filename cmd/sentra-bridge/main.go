package main

import "github.com/sentra-home/sentra-bridge/cmd/sentra-bridge/cmd"

func main() {
	cmd.Execute()
}
