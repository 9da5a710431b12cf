// Package importer implements the CSV import pipeline: field conversion,
// reference resolution, market synthesis, record assembly, and the run
// orchestration that persists the resulting batch.
package importer

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// convert.go provides the cell-level converters. Each one turns a raw text
// cell into a typed value, returning pgtype values with Valid=false when the
// cell is blank or unparseable. Malformed cells degrade to absent values;
// they never fail a row.

// Date patterns recognized in the source sheet. A full date means the value
// is confirmed; a year-month value is a provisional estimate.
var (
	fullDatePattern  = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`)
	yearMonthPattern = regexp.MustCompile(`^\d{1,2}/\d{4}$`)
	nonDigitPattern  = regexp.MustCompile(`[^0-9]`)
)

// DateConfirmed pairs a calendar date with the release-confidence flag.
type DateConfirmed struct {
	Date      pgtype.Date
	Confirmed bool
}

// ParseAmount converts a price cell to a numeric value. Every non-digit
// character is stripped first, so currency symbols and thousands separators
// are discarded; decimal points do not survive either, matching the source
// sheet where prices are whole amounts. Blank cells and cells with no
// digits at all convert to an absent value.
func ParseAmount(s string) pgtype.Numeric {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Numeric{}
	}

	digits := nonDigitPattern.ReplaceAllString(s, "")
	if digits == "" {
		return pgtype.Numeric{}
	}

	var n pgtype.Numeric
	if err := n.Scan(digits); err != nil {
		return pgtype.Numeric{}
	}
	return n
}

// ParseDateConfirmed converts a confidence-bearing date cell.
// "M/D/YYYY" yields that date with Confirmed=true; "M/YYYY" yields the first
// day of the month with Confirmed=false; anything else is absent.
func ParseDateConfirmed(s string) DateConfirmed {
	s = strings.TrimSpace(s)
	if s == "" {
		return DateConfirmed{}
	}

	if fullDatePattern.MatchString(s) {
		t, err := time.Parse("1/2/2006", s)
		if err != nil {
			return DateConfirmed{}
		}
		return DateConfirmed{
			Date:      pgtype.Date{Time: t, Valid: true},
			Confirmed: true,
		}
	}

	if yearMonthPattern.MatchString(s) {
		t, err := time.Parse("1/2006", s)
		if err != nil {
			return DateConfirmed{}
		}
		return DateConfirmed{
			Date:      pgtype.Date{Time: t, Valid: true},
			Confirmed: false,
		}
	}

	return DateConfirmed{}
}

// ParseDate converts a date cell using the same two patterns as
// ParseDateConfirmed but discards the confidence bit. Used for columns that
// carry no ambiguity, like announcement and preorder dates.
func ParseDate(s string) pgtype.Date {
	return ParseDateConfirmed(s).Date
}

// ParseList splits a comma-separated cell into trimmed, non-empty strings.
// A blank cell yields nil, not an empty list; the distinction separates
// "field not provided" from "field explicitly empty".
func ParseList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ParseFlag converts an attribute flag cell. The literal TRUE, in any case,
// reads as true; everything else, blank included, reads as false.
//
// The Static column is the one inversion: the sheet records whether the
// figure is static, the record stores whether it is articulable. The
// inversion is keyed by column name, not by value shape.
func ParseFlag(column, s string) bool {
	v := strings.EqualFold(strings.TrimSpace(s), "TRUE")
	if column == ColStatic {
		return !v
	}
	return v
}

// ParseYear converts an anniversary-year cell to an int. Blank or
// non-numeric cells convert to zero, which downstream lookups treat as
// "no anniversary".
func ParseYear(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	year, err := strconv.Atoi(s)
	if err != nil || year < 0 {
		return 0
	}
	return year
}

// ParseText trims a free-text cell and wraps it as pgtype.Text, absent when
// blank.
func ParseText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
