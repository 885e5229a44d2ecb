package main

import "hostprep/cmd"

func main() {
	cmd.Execute()
}
