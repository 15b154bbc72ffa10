package main

import (
	"flag"
	"os"

	"github.com/tobsdb/traceeval/hist"
	"github.com/tobsdb/traceeval/pkg"
)

func main() {
	schema_data := flag.String("schema", "", "table schema text")
	schema_path := flag.String("schema-file", "", "path to a table schema file")
	sort_by := flag.String("sort", "", "sort levels, e.g. \"dur.total:desc,name\"; hits sorts by hit count, field.min/max/total/avg/count by statistic")
	with_stats := flag.Bool("stats", false, "print statistics of stats fields")
	verbose := flag.Bool("v", false, "debug logging")
	quiet := flag.Bool("q", false, "no logging")

	flag.Parse()

	switch {
	case *quiet:
		pkg.SetLogLevel(pkg.LogLevelNone)
	case *verbose:
		pkg.SetLogLevel(pkg.LogLevelDebug)
	}

	if len(*schema_path) > 0 {
		data, err := os.ReadFile(*schema_path)
		if err != nil {
			pkg.FatalLog(err)
		}
		*schema_data = string(data)
	}
	if len(*schema_data) == 0 {
		pkg.FatalLog("no schema; use -schema or -schema-file")
	}

	table, err := hist.NewFromSchema(*schema_data, nil)
	if err != nil {
		pkg.FatalLog("Invalid schema;", err)
	}
	defer table.Release()

	if err := run(table, os.Stdin, os.Stdout, *sort_by, *with_stats); err != nil {
		pkg.FatalLog(err)
	}
}
