package main

import "bl-extractor/cmd/blx/cmd"

func main() {
	cmd.Execute()
}
