package main

import (
	"os"

	"github.com/DimitrisAlexiou/sql-to-liquibase-converter/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
