package services

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"go-recruiter/pkg/evegateway"

	"github.com/ErikKalkoken/go-set"
	"golang.org/x/sync/errgroup"
)

// EntityRef identifies one id within its domain.
type EntityRef struct {
	Domain Domain
	ID     int64
}

// batchable domains can be answered by the bulk names endpoint.
var batchable = set.Of(
	DomainCharacter,
	DomainCorporation,
	DomainAlliance,
	DomainSystem,
	DomainConstellation,
	DomainRegion,
	DomainStation,
	DomainEntity,
)

// ResolveBatch resolves many refs at once. Cached refs are served from the store,
// the remaining batchable ones go out in a single names request whose Expires header
// sets their TTL, and everything else (mailing lists, structures) is resolved one by one.
// Refs that cannot be resolved are absent from the result.
func (r *NameResolver) ResolveBatch(ctx context.Context, characterID int32, refs []EntityRef) map[EntityRef]string {
	result := make(map[EntityRef]string)
	var pending, single set.Set[EntityRef]
	for ref := range set.Of(refs...).All() {
		if ref.ID == 0 {
			continue
		}
		var name string
		if ok, _ := r.store.Get(ctx, nameKey(ref.Domain, ref.ID), &name); ok {
			result[ref] = name
			continue
		}
		if batchable.Contains(ref.Domain) {
			pending.Add(ref)
		} else {
			single.Add(ref)
		}
	}

	if pending.Size() > 0 {
		if err := r.resolvePending(ctx, pending, result); err != nil {
			slog.WarnContext(ctx, "Bulk name lookup failed, resolving one by one",
				"count", pending.Size(), "error", err)
			single = set.Union(single, pending)
		}
	}
	if single.Size() > 0 {
		r.resolveEach(ctx, characterID, single, result)
	}
	return result
}

func (r *NameResolver) resolvePending(ctx context.Context, pending set.Set[EntityRef], result map[EntityRef]string) error {
	var ids set.Set[int64]
	for ref := range pending.All() {
		ids.Add(ref.ID)
	}
	names, ttl, err := r.postNames(ctx, slices.Sorted(ids.All()))
	if err != nil {
		return err
	}
	for ref := range pending.All() {
		name, ok := names[ref.ID]
		if !ok {
			continue
		}
		result[ref] = name
		r.remember(ctx, nameKey(ref.Domain, ref.ID), name, ttl)
	}
	return nil
}

// postNames calls the bulk endpoint in chunks and returns the shortest TTL any chunk allows.
func (r *NameResolver) postNames(ctx context.Context, ids []int64) (map[int64]string, int, error) {
	names := make(map[int64]string, len(ids))
	ttl := 0
	for chunk := range slices.Chunk(ids, evegateway.MaxNamesPerRequest) {
		resp, err := r.esi.PostNames(ctx, chunk)
		if err != nil {
			return nil, 0, err
		}
		chunkTTL := evegateway.ExpirationMinutes(resp.Expires, r.now(), r.ttl)
		if ttl == 0 || chunkTTL < ttl {
			ttl = chunkTTL
		}
		for _, n := range resp.Data {
			names[n.ID] = n.Name
		}
	}
	return names, ttl, nil
}

func (r *NameResolver) resolveEach(ctx context.Context, characterID int32, refs set.Set[EntityRef], result map[EntityRef]string) {
	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for ref := range refs.All() {
		g.Go(func() error {
			name, err := r.Resolve(ctx, characterID, ref.Domain, ref.ID)
			if err != nil {
				slog.DebugContext(ctx, "Name unresolved", "domain", ref.Domain, "id", ref.ID, "error", err)
				return nil
			}
			mu.Lock()
			result[ref] = name
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
}

// lookup returns the resolved name for ref or fallback.
func lookup(names map[EntityRef]string, d Domain, id int64, fallback string) string {
	if name, ok := names[EntityRef{Domain: d, ID: id}]; ok {
		return name
	}
	return fallback
}
