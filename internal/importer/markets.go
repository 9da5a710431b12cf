package importer

import (
	"github.com/mesofi/mythcloth/internal/catalog"
	"github.com/mesofi/mythcloth/internal/figurine"
)

// markets.go synthesizes the per-market pricing entries for one row.
//
// The policy is fixed and currency-keyed: the home market (JPY columns)
// always produces an entry, and the HK flag switches that entry to CNY for
// figures released through the Chinese channel instead of the Japanese one.
// The secondary market (MXN columns) produces an entry only when its price
// cell carries a value.

// currencyCountry maps each market currency to the distributor country that
// serves it.
var currencyCountry = map[catalog.CurrencyCode]catalog.CountryCode{
	catalog.CurrencyJPY: catalog.CountryJP,
	catalog.CurrencyCNY: catalog.CountryCN,
	catalog.CurrencyMXN: catalog.CountryMX,
}

// SynthesizeMarkets builds the pricing entries for a row. Each entry is
// bound to the distributor serving its market's country; a market without a
// distributor fails the run.
func SynthesizeMarkets(snap *catalog.Snapshot, row Row) ([]*figurine.MarketEntry, error) {
	currency := catalog.CurrencyJPY
	if row.HK {
		currency = catalog.CurrencyCNY
	}

	primary := &figurine.MarketEntry{
		Currency:             currency,
		Price:                row.PriceJPY,
		AnnouncementDate:     row.AnnouncementJPY,
		PreorderDate:         row.PreorderJPY,
		ReleaseDate:          row.ReleaseJPY.Date,
		ReleaseDateConfirmed: row.ReleaseJPY.Confirmed,
	}
	if err := bindDistributor(snap, primary); err != nil {
		return nil, err
	}

	entries := []*figurine.MarketEntry{primary}

	// The secondary market exists only when a price was published for it.
	// Its release date is not confidence-tracked in the source.
	if row.PriceMXN.Valid {
		secondary := &figurine.MarketEntry{
			Currency:     catalog.CurrencyMXN,
			Price:        row.PriceMXN,
			PreorderDate: row.PreorderMXN,
			ReleaseDate:  row.ReleaseMXN,
		}
		if err := bindDistributor(snap, secondary); err != nil {
			return nil, err
		}
		entries = append(entries, secondary)
	}

	return entries, nil
}

func bindDistributor(snap *catalog.Snapshot, entry *figurine.MarketEntry) error {
	cc, ok := currencyCountry[entry.Currency]
	if !ok {
		return &catalog.DistributorError{Country: catalog.CountryCode(entry.Currency)}
	}
	d, err := snap.DistributorByCountry(cc)
	if err != nil {
		return err
	}
	entry.Distributor = d
	return nil
}
