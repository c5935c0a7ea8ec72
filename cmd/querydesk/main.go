package main

import "github.com/kumar-tinkesh/headless-api-call-with-model/internal/cli"

func main() {
	cli.Execute()
}
