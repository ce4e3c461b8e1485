// Command aqe-demo loads a CSV dataset and runs a fixed set of queries
// showing exact and sampled execution side by side.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/bobby4fischer/E6Hackathon/pkg/dataset"
	"github.com/bobby4fischer/E6Hackathon/pkg/executor"
	"github.com/bobby4fischer/E6Hackathon/pkg/query"
)

func main() {
	path := "data/large_data.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	data, err := dataset.FromCSVFile(path)
	if err != nil {
		log.Fatalf("load data: %v", err)
	}
	if len(data) == 0 {
		log.Fatalf("no rows in %s", path)
	}
	fmt.Printf("Loaded %d rows from %s\n", len(data), path)

	demos := []struct {
		name string
		sql  string
	}{
		{"Exact COUNT", "SELECT COUNT(value) FROM data"},
		{"Approximate COUNT (10% sample)", "SELECT COUNT(value) FROM data SAMPLE 10%"},
		{"Group By with AVG", "SELECT category, AVG(value) FROM data GROUP BY category"},
		{"Stratified Sampling", "SELECT category, AVG(value) FROM data GROUP BY category SAMPLE STRATIFIED BY category 20%"},
	}

	exec := executor.New()
	for _, demo := range demos {
		fmt.Printf("\nExecuting: %s\n", demo.name)

		q, err := query.Parse(demo.sql)
		if err != nil {
			log.Printf("parse: %v", err)
			continue
		}

		start := time.Now()
		res, err := exec.Execute(q, data)
		if err != nil {
			log.Printf("execute: %v", err)
			continue
		}

		printResult(res)
		fmt.Printf("Execution time: %v\n", time.Since(start))
	}
}

func printResult(res *executor.Result) {
	fmt.Println(strings.Join(res.Columns, "\t"))
	fmt.Println(strings.Repeat("-", 50))
	for _, row := range res.Rows {
		fmt.Println(strings.Join(row, "\t"))
	}
	if res.Approximate {
		fmt.Println("\nNote: Results are approximate.")
	}
}
