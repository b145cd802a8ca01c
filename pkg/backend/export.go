package backend

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/quizhub/quizhub/pkg/access"
	"github.com/quizhub/quizhub/pkg/db"
	"github.com/quizhub/quizhub/pkg/export"
	"github.com/quizhub/quizhub/pkg/proto"
)

// ledger returns the ledger records whose keys match pattern, oldest
// result first.
func (d *Backend) ledger(ctx context.Context, pattern string) ([]export.Record, error) {
	recs := make([]export.Record, 0)
	if d.cache == nil {
		return recs, nil
	}

	keys, err := d.cache.Keys(ctx, pattern)
	if err != nil {
		d.logger.Error("error listing ledger keys", "pattern", pattern, "err", err)
		return nil, err
	}

	for _, k := range keys {
		bts, ok := d.cache.Get(ctx, k)
		if !ok {
			continue
		}
		var rec export.Record
		if err := json.Unmarshal(bts, &rec); err != nil {
			d.logger.Warn("skipping bad ledger record", "key", k, "err", err)
			continue
		}
		recs = append(recs, rec)
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].ResultID < recs[j].ResultID
	})
	return recs, nil
}

// ExportMine returns caller's ledger records.
func (d *Backend) ExportMine(ctx context.Context, caller int64) ([]export.Record, error) {
	return d.ledger(ctx, export.Pattern(0, caller))
}

// ExportCompany returns the ledger records of every member of company.
func (d *Backend) ExportCompany(ctx context.Context, caller, company int64) ([]export.Record, error) {
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		return d.canViewAnalytics(ctx, tx, caller, company)
	})
	if err != nil {
		return nil, d.txError(err, "exporting company results", "company", company)
	}

	return d.ledger(ctx, export.Pattern(company, 0))
}

// ExportMember returns the ledger records of user in company.
func (d *Backend) ExportMember(ctx context.Context, caller, company, user int64) ([]export.Record, error) {
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if err := d.canViewAnalytics(ctx, tx, caller, company); err != nil {
			return err
		}

		r, err := d.role(ctx, tx, company, user)
		if err != nil {
			return err
		}
		if r == access.NoRole {
			return proto.ErrMemberNotFound
		}
		return nil
	})
	if err != nil {
		return nil, d.txError(err, "exporting member results", "company", company, "user", user)
	}

	return d.ledger(ctx, export.Pattern(company, user))
}
