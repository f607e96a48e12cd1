package services

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"go-recruiter/internal/recruitment/models"
	"go-recruiter/pkg/evegateway"

	"github.com/ErikKalkoken/go-set"
)

// surfacedFlags are the location flags of items shown at the top of the asset view.
var surfacedFlags = set.Of("Hangar", "AssetSafety", "Deliveries")

// BuildAssetTree nests items into locations. Items with a surfaced flag become roots
// under their location; items located inside a root become its children. Deeper
// containers are not followed, so their contents are not listed.
// Every sibling list is ordered by value descending, ties by id.
func BuildAssetTree(items []evegateway.Asset, prices PriceTable) []*models.AssetLocation {
	children := make(map[int64][]*models.AssetNode)
	for _, it := range items {
		children[it.LocationID] = append(children[it.LocationID], newAssetNode(it, prices))
	}

	byLocation := make(map[int64]*models.AssetLocation)
	for _, it := range items {
		if !surfacedFlags.Contains(it.LocationFlag) {
			continue
		}
		root := newAssetNode(it, prices)
		root.Children = children[it.ItemID]
		for _, c := range root.Children {
			root.Value += c.Value
		}
		sortNodes(root.Children)

		loc, ok := byLocation[it.LocationID]
		if !ok {
			loc = &models.AssetLocation{LocationID: it.LocationID}
			byLocation[it.LocationID] = loc
		}
		loc.Items = append(loc.Items, root)
		loc.Value += root.Value
	}

	locations := make([]*models.AssetLocation, 0, len(byLocation))
	for _, loc := range byLocation {
		sortNodes(loc.Items)
		locations = append(locations, loc)
	}
	slices.SortFunc(locations, func(x, y *models.AssetLocation) int {
		if c := cmp.Compare(y.Value, x.Value); c != 0 {
			return c
		}
		return cmp.Compare(x.LocationID, y.LocationID)
	})
	return locations
}

func newAssetNode(it evegateway.Asset, prices PriceTable) *models.AssetNode {
	unit := prices.Price(it.TypeID)
	return &models.AssetNode{
		ItemID:    it.ItemID,
		TypeID:    it.TypeID,
		Flag:      it.LocationFlag,
		Quantity:  it.Quantity,
		UnitPrice: unit,
		Value:     unit * float64(it.Quantity),
	}
}

func sortNodes(nodes []*models.AssetNode) {
	slices.SortFunc(nodes, func(x, y *models.AssetNode) int {
		if c := cmp.Compare(y.Value, x.Value); c != 0 {
			return c
		}
		return cmp.Compare(x.ItemID, y.ItemID)
	})
}

// Assets returns the valued asset tree of a character.
func (a *Aggregator) Assets(ctx context.Context, characterID int32) (*models.AssetSummary, error) {
	resp, err := a.esi.GetAssets(ctx, characterID)
	if err != nil {
		return nil, fetchError("assets", err)
	}

	locations := BuildAssetTree(resp.Data, a.prices(ctx))
	custom := a.assetNames(ctx, characterID, locations)

	summary := &models.AssetSummary{Locations: locations}
	for _, loc := range locations {
		loc.Name = a.names.LocationName(ctx, characterID, loc.LocationID)
		summary.TotalValue += loc.Value
		for _, root := range loc.Items {
			a.nameNode(ctx, root, custom)
			for _, c := range root.Children {
				a.nameNode(ctx, c, custom)
			}
		}
	}
	return summary, nil
}

func (a *Aggregator) nameNode(ctx context.Context, n *models.AssetNode, custom map[int64]string) {
	n.TypeName = a.names.TypeName(ctx, n.TypeID)
	n.Name = custom[n.ItemID]
}

// assetNames loads player given names of the listed items. Failures only lose the names.
func (a *Aggregator) assetNames(ctx context.Context, characterID int32, locations []*models.AssetLocation) map[int64]string {
	var ids []int64
	for _, loc := range locations {
		for _, root := range loc.Items {
			ids = append(ids, root.ItemID)
			for _, c := range root.Children {
				ids = append(ids, c.ItemID)
			}
		}
	}

	names := make(map[int64]string)
	for chunk := range slices.Chunk(ids, evegateway.MaxNamesPerRequest) {
		resp, err := a.esi.PostAssetNames(ctx, characterID, chunk)
		if err != nil {
			slog.WarnContext(ctx, "Asset names unavailable", "character_id", characterID, "error", err)
			return names
		}
		for _, n := range resp.Data {
			if n.Name != "" && n.Name != "None" {
				names[n.ItemID] = n.Name
			}
		}
	}
	return names
}
