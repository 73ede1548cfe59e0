package main

import "github.com/open-cli-collective/chtheme/internal/cmd/root"

func main() {
	root.Execute()
}
