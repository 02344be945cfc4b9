package main

import "github.com/itsmostafa/deepwiki-export/cmd"

func main() {
	cmd.Execute()
}
