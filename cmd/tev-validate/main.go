package main

import (
	"fmt"
	"os"
	"path"

	"github.com/tobsdb/traceeval/schema"
	"github.com/tobsdb/traceeval/types"
)

func main() {
	args := os.Args
	var schema_path string

	if len(args) > 1 {
		schema_path = args[1]
	} else {
		schema_path = "./schema.tev"
	}

	if !path.IsAbs(schema_path) {
		cwd, _ := os.Getwd()
		schema_path = path.Join(cwd, schema_path)
	}

	fmt.Printf("Checking %s for errors\n", schema_path)

	schema_data, err := os.ReadFile(schema_path)
	if err != nil {
		fmt.Printf("Error: %s\n", err.Error())
		os.Exit(1)
	}

	keys, vals, err := schema.ParseSchema(string(schema_data))
	if err != nil {
		fmt.Printf("Invalid schema; %s\n", err.Error())
		os.Exit(1)
	}

	printFields("keys", keys)
	printFields("values", vals)
	fmt.Println("Schema checks successful: Schema is valid")
}

func printFields(block string, fields []types.Field) {
	fmt.Printf("%s:\n", block)
	for i := range fields {
		f := &fields[i]
		fmt.Printf("  %d: %s", i, f)
		if f.IsStats() {
			fmt.Print(" [stats]")
		}
		if f.IsSigned() {
			fmt.Print(" [signed]")
		}
		fmt.Println()
	}
}
