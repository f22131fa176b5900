package main

import "github.com/afoley587/coding-challenges-2025/addressbook/cmd"

func main() {
	cmd.Execute()
}
