// Package catalog defines the reference data the import pipeline resolves
// against: the five descriptive catalogs (distribution, lineup, series,
// group, anniversary) and the distributor vocabulary.
//
// Catalog entries are created and maintained elsewhere; this package only
// models them and provides the immutable per-run Snapshot used for lookups.
package catalog

import "fmt"

// Kind identifies one of the five reference catalogs.
type Kind int

const (
	KindDistribution Kind = iota
	KindLineUp
	KindSeries
	KindGroup
	KindAnniversary
)

// String returns the catalog name used in error messages and logs.
func (k Kind) String() string {
	switch k {
	case KindDistribution:
		return "distribution"
	case KindLineUp:
		return "lineup"
	case KindSeries:
		return "series"
	case KindGroup:
		return "group"
	case KindAnniversary:
		return "anniversary"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Entry is a descriptive catalog record: an opaque id plus a short unique
// description used for case-insensitive label resolution.
type Entry struct {
	ID          int64
	Description string
}

// Anniversary is the one catalog entry shape that also carries a year.
// Lookups against anniversaries go by year, not by description.
type Anniversary struct {
	ID          int64
	Description string
	Year        int
}

// CountryCode is an ISO-3166 alpha-2 country code for a distributor market.
type CountryCode string

const (
	CountryJP CountryCode = "JP"
	CountryMX CountryCode = "MX"
	CountryCN CountryCode = "CN"
	CountryUS CountryCode = "US"
)

// CurrencyCode is an ISO-4217 currency code for a market entry.
type CurrencyCode string

const (
	CurrencyJPY CurrencyCode = "JPY"
	CurrencyMXN CurrencyCode = "MXN"
	CurrencyCNY CurrencyCode = "CNY"
	CurrencyUSD CurrencyCode = "USD"
)

// DistributorName enumerates the known vendors.
type DistributorName string

const (
	Bandai          DistributorName = "BANDAI"
	DAM             DistributorName = "DAM"
	DTM             DistributorName = "DTM"
	BandaiChina     DistributorName = "BANDAI_CHINA"
	DSDistributions DistributorName = "DS_DISTRIBUTIONS"
	BlueFin         DistributorName = "BLUE_FIN"
)

// Description returns the vendor display name.
func (n DistributorName) Description() string {
	switch n {
	case Bandai:
		return "Tamashii Nations"
	case DAM:
		return "Distribuidora Animéxico"
	case DTM:
		return "Distribuidora Toyvision México"
	case BandaiChina:
		return "Tamashii Nations China"
	case DSDistributions:
		return "DS Distribuciones"
	case BlueFin:
		return "Bluefin"
	default:
		return string(n)
	}
}

// Distributor is a vendor in a specific country.
// (Name, Country) is the natural key, enforced unique in storage.
type Distributor struct {
	ID      int64
	Name    DistributorName
	Country CountryCode
	Website string
}

// ResolutionError reports a non-blank label or id that matched nothing in a
// catalog. It identifies the catalog and the offending value so the caller
// can abort the run with a precise reason.
type ResolutionError struct {
	Kind  Kind
	Value string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s: no catalog entry matches %q", e.Kind, e.Value)
}

// DistributorError reports a market whose country has no distributor.
// The primary and secondary market distributors must always exist.
type DistributorError struct {
	Country CountryCode
}

func (e *DistributorError) Error() string {
	return fmt.Sprintf("no distributor registered for country %s", e.Country)
}
