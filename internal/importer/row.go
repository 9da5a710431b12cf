package importer

import (
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// Row is the typed form of one sheet record: every cell run through its
// converter, nothing resolved against the catalogs yet.
type Row struct {
	OriginalName string
	BaseName     string

	PriceJPY        pgtype.Numeric
	AnnouncementJPY pgtype.Date
	PreorderJPY     pgtype.Date
	ReleaseJPY      DateConfirmed

	PriceMXN    pgtype.Numeric
	PreorderMXN pgtype.Date
	ReleaseMXN  pgtype.Date

	Link string

	Distribution    string
	LineUp          string
	Series          string
	Group           string
	AnniversaryYear int

	MetalBody   bool
	OCE         bool
	Revival     bool
	PlainCloth  bool
	Broken      bool
	Golden      bool
	Gold        bool
	HK          bool
	Manga       bool
	Surplice    bool
	Set         bool
	Articulable bool

	Remarks string

	OfficialImages    []string
	NonOfficialImages []string
}

// ParseRow converts one CSV record into a Row by applying the converter for
// each schema column. Conversion never fails a row; malformed cells degrade
// to absent values.
func ParseRow(record []string, idx HeaderIndex) Row {
	get := func(name string) string { return cell(record, idx, name) }

	return Row{
		OriginalName: get(ColOriginalName),
		BaseName:     get(ColBaseName),

		PriceJPY:        ParseAmount(get(ColPriceJPY)),
		AnnouncementJPY: ParseDate(get(ColAnnouncementJPY)),
		PreorderJPY:     ParseDate(get(ColPreorderJPY)),
		ReleaseJPY:      ParseDateConfirmed(get(ColReleaseJPY)),

		PriceMXN:    ParseAmount(get(ColPriceMXN)),
		PreorderMXN: ParseDate(get(ColPreorderMXN)),
		ReleaseMXN:  ParseDate(get(ColReleaseMXN)),

		Link: get(ColLink),

		Distribution:    get(ColDistribution),
		LineUp:          get(ColLineUp),
		Series:          get(ColSeries),
		Group:           get(ColGroup),
		AnniversaryYear: ParseYear(get(ColAnniversary)),

		MetalBody:   ParseFlag(ColMetal, get(ColMetal)),
		OCE:         ParseFlag(ColOCE, get(ColOCE)),
		Revival:     ParseFlag(ColRevival, get(ColRevival)),
		PlainCloth:  ParseFlag(ColPlainCloth, get(ColPlainCloth)),
		Broken:      ParseFlag(ColBroken, get(ColBroken)),
		Golden:      ParseFlag(ColGolden, get(ColGolden)),
		Gold:        ParseFlag(ColGold, get(ColGold)),
		HK:          ParseFlag(ColHK, get(ColHK)),
		Manga:       ParseFlag(ColManga, get(ColManga)),
		Surplice:    ParseFlag(ColSurplice, get(ColSurplice)),
		Set:         ParseFlag(ColSet, get(ColSet)),
		Articulable: ParseFlag(ColStatic, get(ColStatic)),

		Remarks: get(ColRemarks),

		OfficialImages:    ParseList(get(ColOfficialImages)),
		NonOfficialImages: ParseList(get(ColOtherImages)),
	}
}

// Empty reports whether every cell of the record is blank; fully empty rows
// are skipped by the orchestrator.
func Empty(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
