package main

import "munch/cmd"

func main() {
	cmd.Execute()
}
