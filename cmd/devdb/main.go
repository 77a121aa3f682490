package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tripsit/tripsit-api/internal/testutil"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	flag.Parse()

	usage := `
Start a disposable PostgreSQL container for local development and print the
DATABASE_* settings that point the server at it.

Usage:

devdb [-h] [-f ENV_FILE_PATH]

ENV_FILE_PATH: path to a .env file with POSTGRES_* overrides

example
  devdb -f ./.env >> .env.local
`
	// if -h flag print usage and return
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	pg, err := testutil.StartPostgres(ctx)
	if err != nil {
		log.Fatalf("Failed to start postgres: %v\n", err)
	}

	db := pg.Database
	fmt.Fprintf(os.Stdout, "DATABASE_TYPE=%s\n", db.Type)
	fmt.Fprintf(os.Stdout, "DATABASE_HOST=%s\n", db.Host)
	fmt.Fprintf(os.Stdout, "DATABASE_PORT=%s\n", db.Port)
	fmt.Fprintf(os.Stdout, "DATABASE_NAME=%s\n", db.Name)
	fmt.Fprintf(os.Stdout, "DATABASE_USER=%s\n", db.User)
	fmt.Fprintf(os.Stdout, "DATABASE_PASSWORD=%s\n", db.Password)
	log.Printf("Postgres is running; press Ctrl+C to stop\n")

	<-ctx.Done()
	log.Printf("Terminating postgres container...\n")

	shutdown, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := pg.Terminate(shutdown); err != nil {
		log.Printf("Failed to terminate container: %v\n", err)
	}
}
