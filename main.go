package main

import "github.com/Tiliavir/hdash/cmd"

func main() {
	cmd.Execute()
}
