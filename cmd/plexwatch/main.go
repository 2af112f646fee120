package main

import "github.com/tessro/plexwatch/internal/cli"

func main() {
	cli.Execute()
}
