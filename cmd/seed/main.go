package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"os"

	_ "modernc.org/sqlite"

	"github.com/bobby4fischer/E6Hackathon/pkg/storage"
)

func main() {
	dbPath := os.Getenv("AQE_DB_PATH")
	if dbPath == "" {
		dbPath = "aqe.sqlite"
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := storage.EnsureMetaTables(ctx, db); err != nil {
		log.Fatalf("ensure meta tables: %v", err)
	}

	if _, err := db.Exec(`DROP TABLE IF EXISTS purchases`); err != nil {
		log.Fatalf("drop: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE purchases (
        id INTEGER PRIMARY KEY,
        category TEXT,
        country TEXT,
        value REAL
    )`); err != nil {
		log.Fatalf("create: %v", err)
	}

	rng := rand.New(rand.NewSource(42))
	categories := []string{"electronics", "clothing", "grocery", "books", "toys"}
	countries := []string{"US", "IN", "DE", "FR", "GB", "BR", "CA", "AU", "JP", "MX"}

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("begin: %v", err)
	}
	stmt, err := tx.Prepare("INSERT INTO purchases(category,country,value) VALUES (?,?,?)")
	if err != nil {
		log.Fatalf("prepare: %v", err)
	}
	defer stmt.Close()

	n := 200000
	for i := 0; i < n; i++ {
		cat := categories[rng.Intn(len(categories))]
		country := countries[rng.Intn(len(countries))]
		// heavy-tailed values so sampled SUMs are interesting
		value := 10 + rng.ExpFloat64()*50
		if _, err := stmt.Exec(cat, country, value); err != nil {
			log.Fatalf("insert: %v", err)
		}
		if i%10000 == 0 {
			fmt.Printf("inserted %d\n", i)
		}
	}
	if err := tx.Commit(); err != nil {
		log.Fatalf("commit: %v", err)
	}

	if err := storage.UpsertTableRowCount(ctx, db, "purchases", int64(n)); err != nil {
		log.Fatalf("record row count: %v", err)
	}
	fmt.Println("Seed done.")
}
