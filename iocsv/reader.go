// Package iocsv implements the CSV input readers and output writers of
// spec §6: locations, travel, chargers, vehicles, trips, maintenances,
// config on the input side; schedule and unassigned trips/maintenances
// on the output side (statistics CSVs are written by package stats).
// Every reader tolerates an
// optional UTF-8 BOM or Excel "sep=," preamble line, skips blank and
// "#"-prefixed comment lines, strips trailing '\r', and detects its
// header row by matching the first data token against a known set
// rather than assuming row 1 is always the header.
package iocsv

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"

	"github.com/evfleet/rotor/model"
)

// openRecords strips a leading BOM/"sep=" preamble and comment/blank
// lines, then hands the remainder to encoding/csv. source names the
// table for DataError reporting.
func openRecords(r io.Reader, source string) ([][]string, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = br.Discard(3)
	}

	var filtered strings.Builder
	scanner := bufio.NewScanner(br)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.HasPrefix(strings.ToLower(trimmed), "sep=") {
			continue
		}
		filtered.WriteString(line)
		filtered.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, model.NewDataError(source, "reading input: "+err.Error())
	}

	cr := csv.NewReader(strings.NewReader(filtered.String()))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, model.NewDataError(source, "malformed CSV: "+err.Error())
	}
	return records, nil
}

// dropHeader removes the first record if its first token isn't a
// parseable data value for this table — detected by headerToken
// matching the conventional header name for column zero.
func dropHeader(records [][]string, headerToken string) [][]string {
	if len(records) == 0 {
		return records
	}
	if strings.EqualFold(strings.TrimSpace(records[0][0]), headerToken) {
		return records[1:]
	}
	return records
}
