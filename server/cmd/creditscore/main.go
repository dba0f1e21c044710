package main

import "github.com/creditlens/creditscore/server/internal/cli"

func main() {
	cli.Execute()
}
