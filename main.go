package main

import "floppy8/cmd"

func main() {
	cmd.Execute()
}
