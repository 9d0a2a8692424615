package main

import "github.com/minnowsh/minnow/cmd"

func main() {
	cmd.Execute()
}
