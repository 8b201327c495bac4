package main

import "davexport/cmd"

func main() {
	cmd.Run()
}
