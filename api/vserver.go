// Copyright 2019 CERN. All Rights Reserved.

package api

import (
	"context"

	"github.com/cerndb/netapp-api-go/api/zapi"
)

// Vserver is one virtual server as reported by vserver-get-iter.
type Vserver struct {
	Name             string
	UUID             string
	State            string
	Type             string
	AllowedProtocols []string
}

// Vservers returns a lazy sequence of every vserver visible at the current
// scope. maxRecords caps the page size when non-nil.
func (c *Client) Vservers(ctx context.Context, maxRecords *int) *zapi.Iterator[Vserver] {
	q := zapi.New("vserver-get-iter")
	if maxRecords != nil {
		q.Append(zapi.Int("max-records", *maxRecords))
	}
	return zapi.Paginate(ctx, c.zr, c.endpoint, "attributes-list", q, decodeVserver)
}

// VserverByName returns the single vserver with the given name, or a
// not-found error if no such vserver exists.
func (c *Client) VserverByName(ctx context.Context, name string) (Vserver, error) {
	q := zapi.New("vserver-get-iter",
		zapi.New("query", zapi.New("vserver-info", zapi.Str("vserver-name", name))))
	it := zapi.Paginate(ctx, c.zr, c.endpoint, "attributes-list", q, decodeVserver)
	return zapi.First(it, "vserver")
}

func decodeVserver(record *zapi.Element) (Vserver, error) {
	name, err := requiredText(record, "vserver-name")
	if err != nil {
		return Vserver{}, err
	}
	return Vserver{
		Name:             name,
		UUID:             record.FindText("uuid"),
		State:            record.FindText("state"),
		Type:             record.FindText("vserver-type"),
		AllowedProtocols: textList(record, "allowed-protocols"),
	}, nil
}
