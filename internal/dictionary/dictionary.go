package dictionary

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"

	"github.com/bbrewington/data-liberation-project-datasets/internal/transform"
)

// The reference file is the agency's data dictionary for FOIA 24-F-0024,
// re-keyed as (field_num, code) -> (desc, category). It ships embedded so a
// pipeline run never depends on an external lookup file.
//
//go:embed foia_codes.csv
var codesCSV []byte

type Entry struct {
	FieldNum string
	Code     string
	Desc     string
	Category string
}

type Dictionary struct {
	entries []Entry
	byField map[string][]Entry
}

// Load parses the embedded reference CSV once at startup. Rows with a blank
// code are skipped; everything else is kept verbatim, including the
// abuse-severity levels that the agency recorded without a field number.
func Load() (*Dictionary, error) {
	reader := csv.NewReader(bytes.NewReader(codesCSV))
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded code dictionary: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("embedded code dictionary is empty")
	}

	d := &Dictionary{byField: make(map[string][]Entry)}
	for _, row := range rows[1:] {
		if len(row) < 4 {
			continue
		}
		entry := Entry{
			FieldNum: strings.TrimSpace(row[0]),
			Code:     strings.TrimSpace(row[1]),
			Desc:     strings.TrimSpace(row[2]),
			Category: strings.TrimSpace(row[3]),
		}
		if entry.Code == "" {
			continue
		}
		d.entries = append(d.entries, entry)
		d.byField[entry.FieldNum] = append(d.byField[entry.FieldNum], entry)
	}

	// Sorting per field by code makes multi-value decode output independent
	// of dictionary file order.
	for _, entries := range d.byField {
		sort.Slice(entries, func(i, j int) bool { return entries[i].Code < entries[j].Code })
	}

	return d, nil
}

// Lookup resolves a single-value code against both the field number and the
// code. Left-join semantics: a miss is nil, never an error. Several raw
// codes observed in the data have no dictionary entry at all and stay
// undecoded on purpose.
func (d *Dictionary) Lookup(fieldNum, code string) *string {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	for _, entry := range d.byField[fieldNum] {
		if entry.Code == code {
			desc := entry.Desc
			return &desc
		}
	}
	return nil
}

// LookupByCode matches on code alone, scanning entries in file order.
// The four abuse-severity fields share levels 1-3 without a field number
// discriminator in the source dictionary, so they can only be joined this
// way. Known ambiguity in the source data; kept rather than fixed.
func (d *Dictionary) LookupByCode(code string) *string {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	for _, entry := range d.entries {
		if entry.Code == code {
			desc := entry.Desc
			return &desc
		}
	}
	return nil
}

// EntriesFor returns a field's entries ordered by code ascending.
func (d *Dictionary) EntriesFor(fieldNum string) []Entry {
	return d.byField[fieldNum]
}

// CodesFor returns a field's known codes, ordered by code ascending.
func (d *Dictionary) CodesFor(fieldNum string) []string {
	entries := d.byField[fieldNum]
	codes := make([]string, 0, len(entries))
	for _, entry := range entries {
		codes = append(codes, entry.Code)
	}
	return codes
}

// DecodeMulti builds the human-readable description of a packed multi-code
// value: every entry of the field whose code appears in the raw value,
// ordered by code ascending, descriptions joined with ", ". An absent raw
// value (or one containing no known code) decodes to nil, not "".
func (d *Dictionary) DecodeMulti(fieldNum, raw string) *string {
	set := transform.ParseCodeSet(raw, d.CodesFor(fieldNum))
	if set.Empty() {
		return nil
	}

	var descs []string
	for _, entry := range d.EntriesFor(fieldNum) {
		if set.Has(entry.Code) {
			descs = append(descs, entry.Desc)
		}
	}
	if len(descs) == 0 {
		return nil
	}
	joined := strings.Join(descs, ", ")
	return &joined
}
