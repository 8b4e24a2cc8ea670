package main

import "ytcurator/cmd"

func main() {
	cmd.Execute()
}
