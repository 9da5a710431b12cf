package importer

import (
	"fmt"
	"strings"
)

// schema.go declares the expected sheet layout as an explicit table of
// column specs. The header match is case-sensitive and exact; the converter
// policy for each column lives in row.go, next to the field it feeds.

// Column header names as they appear in the source sheet.
const (
	ColOriginalName    = "Myth Cloth Original Name"
	ColBaseName        = "Base Name"
	ColPriceJPY        = "Price (JPY)"
	ColAnnouncementJPY = "Announcement (JPY)"
	ColPreorderJPY     = "Preorder (JPY)"
	ColReleaseJPY      = "Release (JPY)"
	ColPriceMXN        = "Price (MXN)"
	ColPreorderMXN     = "Preorder (MXN)"
	ColReleaseMXN      = "Release (MXN)"
	ColLink            = "Link"
	ColDistribution    = "Distribution"
	ColLineUp          = "LineUp"
	ColSeries          = "Series"
	ColGroup           = "Group"
	ColAnniversary     = "Anniversary"
	ColMetal           = "Metal"
	ColOCE             = "OCE"
	ColRevival         = "Revival"
	ColPlainCloth      = "PlainCloth"
	ColBroken          = "Broken"
	ColGolden          = "Golden"
	ColGold            = "Gold"
	ColHK              = "HK"
	ColManga           = "Manga"
	ColSurplice        = "Surplice"
	ColSet             = "Set"
	ColStatic          = "Static"
	ColRemarks         = "Remarks"
	ColOfficialImages  = "Official Images"
	ColOtherImages     = "Other Images"
)

// ColumnKind is the converter family a column belongs to.
type ColumnKind int

const (
	ColumnText ColumnKind = iota
	ColumnAmount
	ColumnDate
	ColumnDateConfirmed
	ColumnYear
	ColumnFlag
	ColumnList
)

// ColumnSpec is one (header name, converter kind) pair of the sheet schema.
type ColumnSpec struct {
	Name string
	Kind ColumnKind
}

// Columns is the full sheet schema in source order. Every column must be
// present in the header; extra columns are tolerated and ignored.
var Columns = []ColumnSpec{
	{ColOriginalName, ColumnText},
	{ColBaseName, ColumnText},
	{ColPriceJPY, ColumnAmount},
	{ColAnnouncementJPY, ColumnDate},
	{ColPreorderJPY, ColumnDate},
	{ColReleaseJPY, ColumnDateConfirmed},
	{ColPriceMXN, ColumnAmount},
	{ColPreorderMXN, ColumnDate},
	{ColReleaseMXN, ColumnDate},
	{ColLink, ColumnText},
	{ColDistribution, ColumnText},
	{ColLineUp, ColumnText},
	{ColSeries, ColumnText},
	{ColGroup, ColumnText},
	{ColAnniversary, ColumnYear},
	{ColMetal, ColumnFlag},
	{ColOCE, ColumnFlag},
	{ColRevival, ColumnFlag},
	{ColPlainCloth, ColumnFlag},
	{ColBroken, ColumnFlag},
	{ColGolden, ColumnFlag},
	{ColGold, ColumnFlag},
	{ColHK, ColumnFlag},
	{ColManga, ColumnFlag},
	{ColSurplice, ColumnFlag},
	{ColSet, ColumnFlag},
	{ColStatic, ColumnFlag},
	{ColRemarks, ColumnText},
	{ColOfficialImages, ColumnList},
	{ColOtherImages, ColumnList},
}

// HeaderIndex maps column names to their position in the CSV header.
type HeaderIndex map[string]int

// MakeHeaderIndex builds the index from a header record. Header cells are
// trimmed but matched case-sensitively.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

// ValidateHeader checks that every schema column is present, reporting all
// missing columns at once.
func ValidateHeader(idx HeaderIndex) error {
	var missing []string
	for _, spec := range Columns {
		if _, ok := idx[spec.Name]; !ok {
			missing = append(missing, spec.Name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("header is missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// cell returns the raw value of a named column in a record, or "" when the
// record is shorter than the header.
func cell(record []string, idx HeaderIndex, name string) string {
	pos, ok := idx[name]
	if !ok || pos >= len(record) {
		return ""
	}
	return record[pos]
}
