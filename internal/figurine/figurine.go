// Package figurine defines the canonical product record graph produced by
// the import pipeline: one Figurine per source row, holding zero or more
// per-market pricing entries.
package figurine

import (
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mesofi/mythcloth/internal/catalog"
)

// Figurine is the canonical product record. LegacyName is the natural key
// used to decide insert vs. update during import; NormalizedName is always
// populated.
type Figurine struct {
	ID             int64
	LegacyName     pgtype.Text
	NormalizedName string
	TamashiiURL    pgtype.Text

	Distribution *catalog.Entry
	LineUp       *catalog.Entry
	Series       *catalog.Entry
	Group        *catalog.Entry
	Anniversary  *catalog.Anniversary

	Markets []*MarketEntry

	MetalBody   bool
	OCE         bool
	Revival     bool
	PlainCloth  bool
	Broken      bool
	Golden      bool
	Gold        bool
	Manga       bool
	Surplice    bool
	Set         bool
	Articulable bool

	Remarks pgtype.Text

	OfficialImages    []string
	NonOfficialImages []string
}

// MarketEntry is one country/currency-specific price-and-date record.
// Entries are owned exclusively by their parent figurine and live and die
// with it. The back-reference is set by the record builder once the parent
// exists.
type MarketEntry struct {
	ID       int64
	Figurine *Figurine

	Distributor *catalog.Distributor
	Currency    catalog.CurrencyCode

	Price pgtype.Numeric

	AnnouncementDate     pgtype.Date
	PreorderDate         pgtype.Date
	ReleaseDate          pgtype.Date
	ReleaseDateConfirmed bool
}
