package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	pureSqlite "github.com/glebarez/sqlite"
	"github.com/graphql-go/graphql/testutil"
	"github.com/tripsit/tripsit-api/internal/database"
	"github.com/tripsit/tripsit-api/internal/graph"
)

func main() {
	var gql bool
	flag.BoolVar(&gql, "graphql", false, "print the GraphQL introspection result instead of the SQL tables")
	flag.Parse()

	if gql {
		printGraphQL()
		return
	}

	db, err := database.Open(pureSqlite.Open(":memory:"), true)
	if err != nil {
		log.Fatal(err)
	}

	// Auto-migrate to see what GORM creates
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	// Get the schema
	var tables []string
	db.Raw("SELECT name FROM sqlite_master WHERE type='table' ORDER BY name").Scan(&tables)

	for _, table := range tables {
		fmt.Printf("\n=== Table: %s ===\n", table)
		var schema string
		db.Raw("SELECT sql FROM sqlite_master WHERE name = ?", table).Scan(&schema)
		fmt.Println(schema)
	}
}

func printGraphQL() {
	schema, err := graph.NewSchema(graph.Options{Permissions: graph.DefaultPermissions()})
	if err != nil {
		log.Fatal(err)
	}

	res := schema.Execute(context.Background(), graph.Request{Query: testutil.IntrospectionQuery})
	if len(res.Errors) > 0 {
		log.Fatalf("introspection failed: %v", res.Errors)
	}
	out, err := json.MarshalIndent(res.Data, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))
}
