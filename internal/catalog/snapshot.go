package catalog

import (
	"strconv"
	"strings"
)

// Snapshot is the immutable in-memory copy of all reference catalogs and
// distributors used for one import run. It is built once, up front, and
// passed explicitly to every resolution call; nothing mutates it afterwards.
//
// Label lookups are case-insensitive exact matches. There is no fuzzy or
// partial matching: an unmatched non-blank label is always an error.
type Snapshot struct {
	distributions map[string]*Entry
	lineUps       map[string]*Entry
	series        map[string]*Entry
	groups        map[string]*Entry
	anniversaries map[int]*Anniversary
	distributors  map[CountryCode]*Distributor

	byID map[Kind]map[int64]*Entry
}

// NewSnapshot indexes the full contents of the reference catalogs.
// The input slices are copied into internal indexes; callers may discard them.
func NewSnapshot(
	distributions, lineUps, series, groups []Entry,
	anniversaries []Anniversary,
	distributors []Distributor,
) *Snapshot {
	s := &Snapshot{
		distributions: indexByDescription(distributions),
		lineUps:       indexByDescription(lineUps),
		series:        indexByDescription(series),
		groups:        indexByDescription(groups),
		anniversaries: make(map[int]*Anniversary, len(anniversaries)),
		distributors:  make(map[CountryCode]*Distributor, len(distributors)),
		byID:          make(map[Kind]map[int64]*Entry, 4),
	}

	for i := range anniversaries {
		a := &anniversaries[i]
		if _, seen := s.anniversaries[a.Year]; !seen {
			s.anniversaries[a.Year] = a
		}
	}
	for i := range distributors {
		d := &distributors[i]
		// First distributor per country wins, matching the findFirst
		// behavior the import has always had.
		if _, seen := s.distributors[d.Country]; !seen {
			s.distributors[d.Country] = d
		}
	}

	s.byID[KindDistribution] = indexByID(distributions)
	s.byID[KindLineUp] = indexByID(lineUps)
	s.byID[KindSeries] = indexByID(series)
	s.byID[KindGroup] = indexByID(groups)

	return s
}

func indexByDescription(entries []Entry) map[string]*Entry {
	m := make(map[string]*Entry, len(entries))
	for i := range entries {
		e := &entries[i]
		key := strings.ToLower(e.Description)
		if _, seen := m[key]; !seen {
			m[key] = e
		}
	}
	return m
}

func indexByID(entries []Entry) map[int64]*Entry {
	m := make(map[int64]*Entry, len(entries))
	for i := range entries {
		m[entries[i].ID] = &entries[i]
	}
	return m
}

// ResolveDistribution resolves a distribution label.
func (s *Snapshot) ResolveDistribution(label string) (*Entry, error) {
	return s.resolveLabel(KindDistribution, s.distributions, label)
}

// ResolveLineUp resolves a lineup label.
func (s *Snapshot) ResolveLineUp(label string) (*Entry, error) {
	return s.resolveLabel(KindLineUp, s.lineUps, label)
}

// ResolveSeries resolves a series label.
func (s *Snapshot) ResolveSeries(label string) (*Entry, error) {
	return s.resolveLabel(KindSeries, s.series, label)
}

// ResolveGroup resolves a group label.
func (s *Snapshot) ResolveGroup(label string) (*Entry, error) {
	return s.resolveLabel(KindGroup, s.groups, label)
}

// resolveLabel is the shared by-label lookup: blank input resolves to
// nothing, a non-blank miss is a ResolutionError.
func (s *Snapshot) resolveLabel(kind Kind, table map[string]*Entry, label string) (*Entry, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, nil
	}
	if e, ok := table[strings.ToLower(label)]; ok {
		return e, nil
	}
	return nil, &ResolutionError{Kind: kind, Value: label}
}

// ResolveByID resolves a catalog entry by exact id. A zero id resolves to
// nothing; a non-zero miss is a ResolutionError.
func (s *Snapshot) ResolveByID(kind Kind, id int64) (*Entry, error) {
	if id == 0 {
		return nil, nil
	}
	if e, ok := s.byID[kind][id]; ok {
		return e, nil
	}
	return nil, &ResolutionError{Kind: kind, Value: strconv.FormatInt(id, 10)}
}

// AnniversaryByYear looks up the anniversary catalog by year. The
// association is optional and opportunistic, so a miss is not an error.
func (s *Snapshot) AnniversaryByYear(year int) *Anniversary {
	if year == 0 {
		return nil
	}
	return s.anniversaries[year]
}

// DistributorByCountry returns the distributor serving a country. Market
// entries cannot exist without a distributor, so a miss here is fatal.
func (s *Snapshot) DistributorByCountry(cc CountryCode) (*Distributor, error) {
	if d, ok := s.distributors[cc]; ok {
		return d, nil
	}
	return nil, &DistributorError{Country: cc}
}
