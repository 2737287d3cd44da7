package main

import "github.com/marktree/marktree/cmd"

func main() {
	cmd.Execute()
}
