package main

import "group-sync/cmd"

func main() {
	cmd.Execute()
}
