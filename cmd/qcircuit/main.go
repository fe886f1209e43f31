package main

import "qcircuit/internal/cmd"

func main() {
	cmd.Execute()
}
