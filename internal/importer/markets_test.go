package importer

import (
	"errors"
	"testing"

	"github.com/mesofi/mythcloth/internal/catalog"
)

func marketSnapshot(distributors ...catalog.Distributor) *catalog.Snapshot {
	return catalog.NewSnapshot(nil, nil, nil, nil, nil, distributors)
}

func allDistributors() []catalog.Distributor {
	return []catalog.Distributor{
		{ID: 1, Name: catalog.Bandai, Country: catalog.CountryJP},
		{ID: 2, Name: catalog.DAM, Country: catalog.CountryMX},
		{ID: 3, Name: catalog.BandaiChina, Country: catalog.CountryCN},
	}
}

func TestSynthesizePrimaryOnly(t *testing.T) {
	snap := marketSnapshot(allDistributors()...)

	row := Row{
		PriceJPY:        ParseAmount("¥12,800"),
		AnnouncementJPY: ParseDate("1/15/2024"),
		PreorderJPY:     ParseDate("2/1/2024"),
		ReleaseJPY:      ParseDateConfirmed("6/1/2024"),
	}

	entries, err := SynthesizeMarkets(snap, row)
	if err != nil {
		t.Fatalf("SynthesizeMarkets: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1 (blank secondary price produces no entry)", len(entries))
	}

	p := entries[0]
	if p.Currency != catalog.CurrencyJPY {
		t.Errorf("primary currency = %s, want JPY", p.Currency)
	}
	if p.Distributor == nil || p.Distributor.Country != catalog.CountryJP {
		t.Errorf("primary distributor = %+v, want JP", p.Distributor)
	}
	if !p.Price.Valid || p.Price.Int.String() != "12800" {
		t.Errorf("primary price = %+v, want 12800", p.Price)
	}
	if !p.ReleaseDateConfirmed {
		t.Error("full release date should be confirmed")
	}
}

func TestSynthesizeHKSubstitutesCurrency(t *testing.T) {
	snap := marketSnapshot(allDistributors()...)

	row := Row{
		PriceJPY:   ParseAmount("9800"),
		ReleaseJPY: ParseDateConfirmed("3/2023"),
		HK:         true,
	}

	entries, err := SynthesizeMarkets(snap, row)
	if err != nil {
		t.Fatalf("SynthesizeMarkets: %v", err)
	}

	p := entries[0]
	if p.Currency != catalog.CurrencyCNY {
		t.Errorf("HK row primary currency = %s, want CNY", p.Currency)
	}
	if p.Distributor == nil || p.Distributor.Country != catalog.CountryCN {
		t.Errorf("HK row distributor = %+v, want CN", p.Distributor)
	}
	// Price and dates are the same columns regardless of the flag.
	if !p.Price.Valid || p.Price.Int.String() != "9800" {
		t.Errorf("HK row price = %+v, want 9800", p.Price)
	}
	if p.ReleaseDateConfirmed {
		t.Error("year-month release should not be confirmed")
	}
}

func TestSynthesizeSecondaryMarket(t *testing.T) {
	snap := marketSnapshot(allDistributors()...)

	row := Row{
		PriceJPY:    ParseAmount("12800"),
		PriceMXN:    ParseAmount("$3,499"),
		PreorderMXN: ParseDate("4/1/2024"),
		ReleaseMXN:  ParseDate("8/2024"),
	}

	entries, err := SynthesizeMarkets(snap, row)
	if err != nil {
		t.Fatalf("SynthesizeMarkets: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	sec := entries[1]
	if sec.Currency != catalog.CurrencyMXN {
		t.Errorf("secondary currency = %s, want MXN", sec.Currency)
	}
	if sec.Distributor == nil || sec.Distributor.Country != catalog.CountryMX {
		t.Errorf("secondary distributor = %+v, want MX", sec.Distributor)
	}
	if !sec.Price.Valid || sec.Price.Int.String() != "3499" {
		t.Errorf("secondary price = %+v, want 3499", sec.Price)
	}
	// Secondary release dates are not confidence-tracked in the source.
	if sec.ReleaseDateConfirmed {
		t.Error("secondary entry must not carry a confirmed release date")
	}
	if !sec.ReleaseDate.Valid {
		t.Error("secondary release date should be present")
	}

	if entries[0].Distributor.ID == sec.Distributor.ID {
		t.Error("entries must have distinct distributors")
	}
}

func TestSynthesizeMissingDistributorIsFatal(t *testing.T) {
	// Only the MX distributor exists; the primary market cannot resolve.
	snap := marketSnapshot(catalog.Distributor{ID: 2, Name: catalog.DAM, Country: catalog.CountryMX})

	_, err := SynthesizeMarkets(snap, Row{PriceJPY: ParseAmount("100")})
	var distErr *catalog.DistributorError
	if !errors.As(err, &distErr) {
		t.Fatalf("expected DistributorError, got %v", err)
	}
	if distErr.Country != catalog.CountryJP {
		t.Errorf("DistributorError.Country = %s, want JP", distErr.Country)
	}
}

func TestSynthesizeMissingSecondaryDistributorIsFatal(t *testing.T) {
	snap := marketSnapshot(catalog.Distributor{ID: 1, Name: catalog.Bandai, Country: catalog.CountryJP})

	_, err := SynthesizeMarkets(snap, Row{PriceMXN: ParseAmount("3499")})
	var distErr *catalog.DistributorError
	if !errors.As(err, &distErr) {
		t.Fatalf("expected DistributorError, got %v", err)
	}
	if distErr.Country != catalog.CountryMX {
		t.Errorf("DistributorError.Country = %s, want MX", distErr.Country)
	}
}
