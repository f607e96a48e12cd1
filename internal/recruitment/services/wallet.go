package services

import (
	"context"
	"slices"

	"go-recruiter/internal/recruitment/models"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

// MarketOrders returns open market orders, newest first.
func (a *Aggregator) MarketOrders(ctx context.Context, characterID int32) ([]models.MarketOrder, error) {
	resp, err := a.esi.GetMarketOrders(ctx, characterID)
	if err != nil {
		return nil, fetchError("market orders", err)
	}

	orders := make([]models.MarketOrder, 0, len(resp.Data))
	for _, o := range resp.Data {
		orders = append(orders, models.MarketOrder{
			OrderID:      o.OrderID,
			TypeName:     a.names.TypeName(ctx, o.TypeID),
			Location:     a.names.LocationName(ctx, characterID, o.LocationID),
			Region:       a.names.NameOr(ctx, characterID, DomainRegion, int64(o.RegionID), models.Unknown),
			Price:        o.Price,
			VolumeRemain: o.VolumeRemain,
			VolumeTotal:  o.VolumeTotal,
			IsBuyOrder:   o.IsBuyOrder,
			Issued:       o.Issued,
			Duration:     o.Duration,
			Range:        o.Range,
		})
	}
	slices.SortStableFunc(orders, func(x, y models.MarketOrder) int {
		return y.Issued.Compare(x.Issued)
	})
	return orders, nil
}

// Wallet returns balance, journal and transactions. All three are required.
func (a *Aggregator) Wallet(ctx context.Context, characterID int32) (*models.WalletSummary, error) {
	var (
		balance float64
		journal []models.WalletEntry
		txs     []models.WalletTransaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := a.esi.GetWalletBalance(gctx, characterID)
		if err != nil {
			return err
		}
		balance = resp.Data
		return nil
	})
	g.Go(func() error {
		var err error
		journal, err = a.walletJournal(gctx, characterID)
		return err
	})
	g.Go(func() error {
		var err error
		txs, err = a.walletTransactions(gctx, characterID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fetchError("wallet", err)
	}

	return &models.WalletSummary{
		Balance:          balance,
		BalanceFormatted: humanize.FormatFloat("#,###.##", balance) + " ISK",
		Journal:          journal,
		Transactions:     txs,
	}, nil
}

func (a *Aggregator) walletJournal(ctx context.Context, characterID int32) ([]models.WalletEntry, error) {
	resp, err := a.esi.GetWalletJournal(ctx, characterID)
	if err != nil {
		return nil, err
	}

	var refs []EntityRef
	for _, e := range resp.Data {
		refs = append(refs,
			EntityRef{Domain: DomainEntity, ID: e.FirstPartyID},
			EntityRef{Domain: DomainEntity, ID: e.SecondPartyID},
		)
	}
	names := a.names.ResolveBatch(ctx, characterID, refs)

	entries := make([]models.WalletEntry, 0, len(resp.Data))
	for _, e := range resp.Data {
		entries = append(entries, models.WalletEntry{
			ID:          e.ID,
			Date:        e.Date,
			RefType:     e.RefType,
			Description: e.Description,
			Amount:      e.Amount,
			Balance:     e.Balance,
			FirstParty:  partyName(names, e.FirstPartyID, models.Unknown),
			SecondParty: partyName(names, e.SecondPartyID, models.Unknown),
			Reason:      e.Reason,
		})
	}
	slices.SortStableFunc(entries, func(x, y models.WalletEntry) int {
		return y.Date.Compare(x.Date)
	})
	return entries, nil
}

func (a *Aggregator) walletTransactions(ctx context.Context, characterID int32) ([]models.WalletTransaction, error) {
	resp, err := a.esi.GetWalletTransactions(ctx, characterID)
	if err != nil {
		return nil, err
	}

	refs := make([]EntityRef, 0, len(resp.Data))
	for _, t := range resp.Data {
		refs = append(refs, EntityRef{Domain: DomainEntity, ID: t.ClientID})
	}
	names := a.names.ResolveBatch(ctx, characterID, refs)

	txs := make([]models.WalletTransaction, 0, len(resp.Data))
	for _, t := range resp.Data {
		txs = append(txs, models.WalletTransaction{
			TransactionID: t.TransactionID,
			Date:          t.Date,
			TypeName:      a.names.TypeName(ctx, t.TypeID),
			Client:        lookup(names, DomainEntity, t.ClientID, models.Unknown),
			Location:      a.names.LocationName(ctx, characterID, t.LocationID),
			Quantity:      t.Quantity,
			UnitPrice:     t.UnitPrice,
			IsBuy:         t.IsBuy,
		})
	}
	slices.SortStableFunc(txs, func(x, y models.WalletTransaction) int {
		return y.Date.Compare(x.Date)
	})
	return txs, nil
}
