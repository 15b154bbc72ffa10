package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/tobsdb/traceeval/hist"
	"github.com/tobsdb/traceeval/pkg"
	"github.com/tobsdb/traceeval/types"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

type sortLevel struct {
	field     string
	ascending bool
}

// parseSort reads "field[:asc|:desc],..." into sort levels. Unless the
// table declares a field of that name, "hits" means the hit count and
// "field.total" (count, min, max, total, avg) a statistic of a stats field.
func parseSort(t *hist.Table, sort_by string) ([]sortLevel, error) {
	var levels []sortLevel
	if len(strings.TrimSpace(sort_by)) == 0 {
		return levels, nil
	}

	for _, part := range strings.Split(sort_by, ",") {
		name, dir, _ := strings.Cut(strings.TrimSpace(part), ":")
		level := sortLevel{field: name, ascending: true}

		switch dir {
		case "", "asc":
		case "desc":
			level.ascending = false
		default:
			return nil, fmt.Errorf("Invalid sort direction: %s", dir)
		}

		_, is_key := t.FindKey(name)
		_, is_val := t.FindVal(name)
		if !is_key && !is_val {
			level.field = pseudoField(t, name)
		}
		levels = append(levels, level)
	}
	return levels, nil
}

func pseudoField(t *hist.Table, name string) string {
	if name == "hits" {
		return hist.HITS
	}
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return name
	}
	if kind := hist.StatKind(name[idx+1:]); kind.IsValid() {
		return hist.StatField(name[:idx], kind)
	}
	return name
}

func run(t *hist.Table, r io.Reader, w io.Writer, sort_by string, with_stats bool) error {
	levels, err := parseSort(t, sort_by)
	if err != nil {
		return err
	}
	if _, err := load(t, r); err != nil {
		return err
	}
	out, err := report(t, levels, with_stats)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// report renders one row per entry in sort order: keys, hits, the latest
// values and, with with_stats, the statistics of every stats field.
func report(t *hist.Table, levels []sortLevel, with_stats bool) (string, error) {
	it, err := t.Iterator()
	if err != nil {
		return "", err
	}
	defer it.Close()

	for i, l := range levels {
		if err := it.SetSort(l.field, i, l.ascending); err != nil {
			return "", err
		}
	}

	stats_fields := []types.Field{}
	if with_stats {
		for _, f := range t.ValSchema().Fields() {
			if f.IsStats() {
				stats_fields = append(stats_fields, f)
			}
		}
	}

	header := fieldNames(t.KeySchema().Fields())
	header = append(header, "hits")
	header = append(header, fieldNames(t.ValSchema().Fields())...)
	for _, f := range stats_fields {
		for _, col := range []string{"count", "min", "max", "total", "avg", "std"} {
			header = append(header, f.Name+"."+col)
		}
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(header...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for {
		keys, ok, err := it.Next()
		if err != nil {
			return "", err
		}
		if !ok {
			break
		}

		row, err := entryRow(t, keys, stats_fields)
		it.ReleaseKeys(keys)
		if err != nil {
			return "", err
		}
		tbl.Row(row...)
	}
	return tbl.String(), nil
}

func entryRow(t *hist.Table, keys types.Record, stats_fields []types.Field) ([]string, error) {
	var row []string
	_, err := t.QueryFunc(keys, func(r *hist.Result) error {
		row = formatRecord(t.KeySchema().Fields(), r.Keys())
		row = append(row, humanNumber(r.Hits()))
		row = append(row, formatRecord(t.ValSchema().Fields(), r.Values())...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, f := range stats_fields {
		stat, err := t.Stat(keys, f.Name)
		if err != nil {
			return nil, err
		}
		row = append(row,
			humanNumber(stat.Count),
			humanNumber(stat.Min),
			humanNumber(stat.Max),
			humanNumber(stat.Total),
			humanNumber(stat.Avg),
			strconv.FormatFloat(stat.Std, 'f', 2, 64),
		)
	}
	return row, nil
}

func humanNumber(n uint64) string {
	if n > math.MaxInt64 {
		return strconv.FormatUint(n, 10)
	}
	return humanize.Comma(int64(n))
}

func fieldNames(fields []types.Field) []string {
	return pkg.Map(fields, func(f types.Field) string { return f.Name })
}

func formatRecord(fields []types.Field, r types.Record) []string {
	cols := make([]string, len(r))
	for i, v := range r {
		cols[i] = types.Format(&fields[i], v)
	}
	return cols
}
