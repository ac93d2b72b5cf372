// Copyright 2019 CERN. All Rights Reserved.

package api

import (
	"context"

	"github.com/cerndb/netapp-api-go/api/zapi"
)

// Aggregate is one physical aggregate as reported by aggr-get-iter.
type Aggregate struct {
	Name          string
	OwnerName     string
	State         string
	SizeTotal     *int64
	SizeUsed      *int64
	SizeAvailable *int64
	VolumeCount   *int
}

// Aggregates returns a lazy sequence of every aggregate visible at the
// current scope. maxRecords caps the page size when non-nil.
func (c *Client) Aggregates(ctx context.Context, maxRecords *int) *zapi.Iterator[Aggregate] {
	q := zapi.New("aggr-get-iter")
	if maxRecords != nil {
		q.Append(zapi.Int("max-records", *maxRecords))
	}
	return zapi.Paginate(ctx, c.zr, c.endpoint, "attributes-list", q, decodeAggregate)
}

func decodeAggregate(record *zapi.Element) (Aggregate, error) {
	name, err := requiredText(record, "aggregate-name")
	if err != nil {
		return Aggregate{}, err
	}

	aggregate := Aggregate{
		Name:      name,
		OwnerName: record.FindText("aggr-ownership-attributes/owner-name"),
		State:     record.FindText("aggr-raid-attributes/state"),
	}
	if aggregate.SizeTotal, err = optionalInt64(record, "aggr-space-attributes/size-total"); err != nil {
		return Aggregate{}, err
	}
	if aggregate.SizeUsed, err = optionalInt64(record, "aggr-space-attributes/size-used"); err != nil {
		return Aggregate{}, err
	}
	if aggregate.SizeAvailable, err = optionalInt64(record, "aggr-space-attributes/size-available"); err != nil {
		return Aggregate{}, err
	}
	if aggregate.VolumeCount, err = optionalInt(record, "aggr-volume-count-attributes/flexvol-count"); err != nil {
		return Aggregate{}, err
	}
	return aggregate, nil
}
