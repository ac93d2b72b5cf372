// Copyright 2019 CERN. All Rights Reserved.

package api

import (
	"context"

	"github.com/cerndb/netapp-api-go/api/zapi"
)

// Lock is one file lock as reported by lock-get-iter.
type Lock struct {
	Volume        string
	Vserver       string
	Path          string
	LockState     string
	ClientAddress string
	Protocol      string
}

// LockFilter selects a subset of locks. The zero value matches everything
// the current scope can see.
type LockFilter struct {
	Volume     string
	Vserver    string
	MaxRecords *int
}

func (f LockFilter) query() *zapi.Element {
	q := zapi.New("lock-get-iter")
	info := zapi.New("lock-info")
	if f.Volume != "" {
		info.Append(zapi.Str("volume", f.Volume))
	}
	if f.Vserver != "" {
		info.Append(zapi.Str("vserver", f.Vserver))
	}
	if len(info.Children()) > 0 {
		q.Append(zapi.New("query", info))
	}
	if f.MaxRecords != nil {
		q.Append(zapi.Int("max-records", *f.MaxRecords))
	}
	return q
}

// Locks returns a lazy sequence of file locks matching the filter.
func (c *Client) Locks(ctx context.Context, filter LockFilter) *zapi.Iterator[Lock] {
	return zapi.Paginate(ctx, c.zr, c.endpoint, "attributes-list", filter.query(), decodeLock)
}

func decodeLock(record *zapi.Element) (Lock, error) {
	volume, err := requiredText(record, "volume")
	if err != nil {
		return Lock{}, err
	}
	return Lock{
		Volume:        volume,
		Vserver:       record.FindText("vserver"),
		Path:          record.FindText("path"),
		LockState:     record.FindText("lock-state"),
		ClientAddress: record.FindText("client-address"),
		Protocol:      record.FindText("protocol"),
	}, nil
}
