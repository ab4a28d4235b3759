package main

import "sipeta/cmd"

func main() {
	cmd.Execute()
}
