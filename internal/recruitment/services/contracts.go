package services

import (
	"context"
	"log/slog"
	"slices"

	"go-recruiter/internal/recruitment/models"
	"go-recruiter/pkg/evegateway"

	"golang.org/x/sync/errgroup"
)

// Contracts returns the character's contracts, newest first, with items priced.
// A contract whose items cannot be loaded is returned without items.
func (a *Aggregator) Contracts(ctx context.Context, characterID int32) ([]models.Contract, error) {
	resp, err := a.esi.GetContracts(ctx, characterID)
	if err != nil {
		return nil, fetchError("contracts", err)
	}
	raw := resp.Data

	items := make([][]evegateway.ContractItem, len(raw))
	var g errgroup.Group
	g.SetLimit(a.opts.Concurrency)
	for i, c := range raw {
		g.Go(func() error {
			r, err := a.esi.GetContractItems(ctx, characterID, c.ContractID)
			if err != nil {
				slog.WarnContext(ctx, "Contract items unavailable", "contract_id", c.ContractID, "error", err)
				return nil
			}
			items[i] = r.Data
			return nil
		})
	}
	_ = g.Wait()

	var refs []EntityRef
	for _, c := range raw {
		refs = append(refs,
			EntityRef{Domain: DomainCharacter, ID: int64(c.IssuerID)},
			EntityRef{Domain: DomainEntity, ID: c.AssigneeID},
			EntityRef{Domain: DomainEntity, ID: c.AcceptorID},
		)
	}
	names := a.names.ResolveBatch(ctx, characterID, refs)
	prices := a.prices(ctx)

	contracts := make([]models.Contract, 0, len(raw))
	for i, c := range raw {
		out := models.Contract{
			ContractID:    c.ContractID,
			Type:          c.Type,
			Status:        c.Status,
			Title:         c.Title,
			Issuer:        lookup(names, DomainCharacter, int64(c.IssuerID), models.UnknownCharacter),
			Assignee:      partyName(names, c.AssigneeID, models.UnknownAssignee),
			Acceptor:      partyName(names, c.AcceptorID, models.UnknownCharacter),
			Volume:        c.Volume,
			DateIssued:    c.DateIssued,
			DateExpired:   c.DateExpired,
			DateCompleted: c.DateCompleted,
			Items:         make([]models.ContractItem, 0, len(items[i])),
		}
		if c.StartLocationID != 0 {
			out.StartLocation = a.names.LocationName(ctx, characterID, c.StartLocationID)
		}
		if c.EndLocationID != 0 {
			out.EndLocation = a.names.LocationName(ctx, characterID, c.EndLocationID)
		}
		setContractAmounts(&out, c)

		for _, it := range items[i] {
			unit := prices.Price(it.TypeID)
			item := models.ContractItem{
				TypeName:   a.names.TypeName(ctx, it.TypeID),
				Quantity:   it.Quantity,
				IsIncluded: it.IsIncluded,
				UnitPrice:  unit,
				Value:      unit * float64(it.Quantity),
			}
			if item.IsIncluded {
				out.ItemsValue += item.Value
			}
			out.Items = append(out.Items, item)
		}
		contracts = append(contracts, out)
	}
	slices.SortStableFunc(contracts, func(x, y models.Contract) int {
		return y.DateIssued.Compare(x.DateIssued)
	})
	return contracts, nil
}

// partyName is empty for parties that do not exist yet, such as the acceptor of an
// outstanding contract.
func partyName(names map[EntityRef]string, id int64, fallback string) string {
	if id == 0 {
		return ""
	}
	return lookup(names, DomainEntity, id, fallback)
}

// setContractAmounts copies the amounts that mean something for the contract type.
func setContractAmounts(out *models.Contract, c evegateway.Contract) {
	switch c.Type {
	case evegateway.ContractItemExchange:
		out.Price = &c.Price
	case evegateway.ContractAuction:
		out.Price = &c.Price
		out.Buyout = &c.Buyout
	case evegateway.ContractCourier:
		out.Reward = &c.Reward
		out.Collateral = &c.Collateral
	case evegateway.ContractLoan:
		out.Price = &c.Price
		out.Collateral = &c.Collateral
	}
}
