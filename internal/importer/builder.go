package importer

import (
	"fmt"
	"strings"

	"github.com/mesofi/mythcloth/internal/catalog"
	"github.com/mesofi/mythcloth/internal/figurine"
)

// BuildFigurine assembles the canonical record for one parsed row: resolves
// the five catalog references, synthesizes the market entries, and wires the
// back-references from each entry to its parent. Any resolution failure
// propagates; nothing of the row is persisted.
func BuildFigurine(snap *catalog.Snapshot, row Row) (*figurine.Figurine, error) {
	distribution, err := snap.ResolveDistribution(row.Distribution)
	if err != nil {
		return nil, err
	}
	lineUp, err := snap.ResolveLineUp(row.LineUp)
	if err != nil {
		return nil, err
	}
	series, err := snap.ResolveSeries(row.Series)
	if err != nil {
		return nil, err
	}
	group, err := snap.ResolveGroup(row.Group)
	if err != nil {
		return nil, err
	}

	markets, err := SynthesizeMarkets(snap, row)
	if err != nil {
		return nil, err
	}

	f := &figurine.Figurine{
		LegacyName:     ParseText(row.OriginalName),
		NormalizedName: strings.TrimSpace(row.BaseName),
		TamashiiURL:    ParseText(row.Link),

		Distribution: distribution,
		LineUp:       lineUp,
		Series:       series,
		Group:        group,
		Anniversary:  snap.AnniversaryByYear(row.AnniversaryYear),

		Markets: markets,

		MetalBody:   row.MetalBody,
		OCE:         row.OCE,
		Revival:     row.Revival,
		PlainCloth:  row.PlainCloth,
		Broken:      row.Broken,
		Golden:      row.Golden,
		Gold:        row.Gold,
		Manga:       row.Manga,
		Surplice:    row.Surplice,
		Set:         row.Set,
		Articulable: row.Articulable,

		Remarks: ParseText(row.Remarks),

		OfficialImages:    row.OfficialImages,
		NonOfficialImages: row.NonOfficialImages,
	}

	if f.NormalizedName == "" {
		return nil, fmt.Errorf("row %q has no base name", row.OriginalName)
	}

	// Back-reference pass: the entries cannot know their parent until the
	// parent exists.
	for _, m := range f.Markets {
		m.Figurine = f
	}

	return f, nil
}
