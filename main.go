package main

import "github.com/notargets/semflow/cmd"

func main() {
	cmd.Execute()
}
