// contribquery inspects a contribstream parquet export with SQL.
//
// Usage:
//
//	contribquery -dir exports -recipient C00177436
//	contribquery -dir exports -sql "SELECT recipient, sum(total) FROM aggregate GROUP BY 1"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/xtxerr/contribstream/internal/logging"
	"github.com/xtxerr/contribstream/internal/query"
)

func main() {
	dir := flag.String("dir", "", "export directory (required)")
	recipient := flag.String("recipient", "", "show aggregate and running rows for one recipient")
	sqlStmt := flag.String("sql", "", "run an SQL statement; views `running` and `aggregate` are available")
	memLimit := flag.String("memory-limit", "", "DuckDB memory limit, e.g. 1GB")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	logging.Init(logging.ParseLevel(*logLevel), false)
	log := logging.Component("contribquery")

	if *dir == "" || (*recipient == "" && *sqlStmt == "") {
		fmt.Fprintf(os.Stderr, "USAGE: %s -dir <export-dir> (-recipient <id> | -sql <statement>)\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(0)
	}

	svc, err := query.New(*dir, *memLimit)
	if err != nil {
		log.Error("open query service", "error", err)
		os.Exit(1)
	}
	defer svc.Close()

	ctx := context.Background()

	if *recipient != "" {
		if err := showRecipient(ctx, svc, *recipient); err != nil {
			log.Error("query recipient", "recipient", *recipient, "error", err)
			os.Exit(1)
		}
	}

	if *sqlStmt != "" {
		if err := runSQL(ctx, svc, *sqlStmt); err != nil {
			log.Error("run sql", "error", err)
			os.Exit(1)
		}
	}
}

func showRecipient(ctx context.Context, svc *query.Service, recipient string) error {
	agg, err := svc.AggregatesFor(ctx, recipient)
	if err != nil {
		return err
	}
	for _, r := range agg {
		fmt.Printf("%s|%s|%d|%d|%d\n", r.Recipient, r.Date, r.Median, r.Count, r.Total)
	}

	running, err := svc.RunningFor(ctx, recipient)
	if err != nil {
		return err
	}
	for _, r := range running {
		fmt.Printf("%s|%s|%d|%d|%d\n", r.Recipient, r.Zone, r.Median, r.Count, r.Total)
	}
	return nil
}

func runSQL(ctx context.Context, svc *query.Service, stmt string) error {
	rows, err := svc.ExecuteSQL(ctx, stmt)
	if err != nil {
		return err
	}
	for _, row := range rows {
		cols := make([]string, 0, len(row))
		for col := range row {
			cols = append(cols, col)
		}
		sort.Strings(cols)
		for i, col := range cols {
			if i > 0 {
				fmt.Print("|")
			}
			fmt.Printf("%s=%v", col, row[col])
		}
		fmt.Println()
	}
	return nil
}
