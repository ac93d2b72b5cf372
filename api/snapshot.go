// Copyright 2019 CERN. All Rights Reserved.

package api

import (
	"context"

	"github.com/cerndb/netapp-api-go/api/zapi"
)

// Snapshot is one volume snapshot as reported by snapshot-get-iter.
type Snapshot struct {
	Name       string
	Volume     string
	Vserver    string
	AccessTime int64
	Busy       *bool
	// Total is the snapshot size in KB, when reported.
	Total *int64
}

// SnapshotFilter selects a subset of snapshots. The zero value matches
// everything the current scope can see.
type SnapshotFilter struct {
	Volume     string
	Vserver    string
	MaxRecords *int
}

func (f SnapshotFilter) query() *zapi.Element {
	q := zapi.New("snapshot-get-iter")
	info := zapi.New("snapshot-info")
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

// Snapshots returns a lazy sequence of snapshots matching the filter.
func (c *Client) Snapshots(ctx context.Context, filter SnapshotFilter) *zapi.Iterator[Snapshot] {
	return zapi.Paginate(ctx, c.zr, c.endpoint, "attributes-list", filter.query(), decodeSnapshot)
}

func decodeSnapshot(record *zapi.Element) (Snapshot, error) {
	name, err := requiredText(record, "name")
	if err != nil {
		return Snapshot{}, err
	}
	accessTime, err := requiredInt64(record, "access-time")
	if err != nil {
		return Snapshot{}, err
	}

	snapshot := Snapshot{
		Name:       name,
		Volume:     record.FindText("volume"),
		Vserver:    record.FindText("vserver"),
		AccessTime: accessTime,
	}
	if snapshot.Busy, err = optionalBool(record, "busy"); err != nil {
		return Snapshot{}, err
	}
	if snapshot.Total, err = optionalInt64(record, "total"); err != nil {
		return Snapshot{}, err
	}
	return snapshot, nil
}

// SnapshotCreate creates a snapshot of a volume.
func (c *Client) SnapshotCreate(ctx context.Context, volume, snapshot string) error {
	_, err := c.invoke(ctx, zapi.New("snapshot-create",
		zapi.Str("volume", volume),
		zapi.Str("snapshot", snapshot)))
	return err
}

// SnapshotDelete deletes a snapshot of a volume.
func (c *Client) SnapshotDelete(ctx context.Context, volume, snapshot string) error {
	_, err := c.invoke(ctx, zapi.New("snapshot-delete",
		zapi.Str("volume", volume),
		zapi.Str("snapshot", snapshot)))
	return err
}
