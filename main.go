package main

import "github.com/mrops-br/crm-api/internal/cli"

func main() {
	cli.Execute()
}
