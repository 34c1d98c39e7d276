package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mikeboe/pharma-news/pkg/report"
	"github.com/mikeboe/pharma-news/pkg/research"
)

const formatJSON = "json"

func writeReports(w io.Writer, reports []research.CompoundReport, format string, withSources bool) error {
	if format == formatJSON {
		return writeJSON(w, reports)
	}

	mode, err := report.ParseMode(format)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, report.Table(reports, mode, report.DefaultColumnWidth))
	if withSources {
		fmt.Fprintln(w)
		fmt.Fprintln(w, report.SourcesTable(reports, mode))
	}
	return nil
}

func writeDigest(w io.Writer, items []research.DigestItem, format string) error {
	if format == formatJSON {
		return writeJSON(w, items)
	}

	mode, err := report.ParseMode(format)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, report.DigestTable(items, mode, report.DefaultColumnWidth))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
