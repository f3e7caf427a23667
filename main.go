package main

import "github.com/itsmostafa/userdocs/cmd"

func main() {
	cmd.Execute()
}
