package main

import (
	"os"

	_ "github.com/jhipster/jhipster-go/internal/adapters/database/mysql"
	_ "github.com/jhipster/jhipster-go/internal/adapters/database/postgres"
	_ "github.com/jhipster/jhipster-go/internal/blueprints/docker"

	"github.com/jhipster/jhipster-go/cmd/jhipster/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
