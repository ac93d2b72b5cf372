// Copyright 2019 CERN. All Rights Reserved.

package api

import (
	"context"

	"github.com/cerndb/netapp-api-go/api/zapi"
)

// VolumeAutosize is the autosize configuration of a volume.
type VolumeAutosize struct {
	Enabled       *bool
	Mode          string
	MaximumSize   *int64
	IncrementSize *int64
}

// Volume is one FlexVol as reported by volume-get-iter.
type Volume struct {
	Name                      string
	UUID                      string
	JunctionPath              string
	ContainingAggregate       string
	Node                      string
	OwningVserver             string
	Size                      *int64
	SizeUsed                  *int64
	SizeAvailable             *int64
	PercentageSnapshotReserve *int
	State                     string
	CachingPolicy             string
	CompressionEnabled        *bool
	InlineCompression         *bool
	Autosize                  VolumeAutosize
}

// VolumeFilter selects a subset of volumes. The zero value matches everything.
type VolumeFilter struct {
	Name       string
	Vserver    string
	MaxRecords *int
}

func (f VolumeFilter) query() *zapi.Element {
	q := zapi.New("volume-get-iter")
	idAttributes := zapi.New("volume-id-attributes")
	if f.Name != "" {
		idAttributes.Append(zapi.Str("name", f.Name))
	}
	if f.Vserver != "" {
		idAttributes.Append(zapi.Str("owning-vserver-name", f.Vserver))
	}
	if len(idAttributes.Children()) > 0 {
		q.Append(zapi.New("query", zapi.New("volume-attributes", idAttributes)))
	}
	if f.MaxRecords != nil {
		q.Append(zapi.Int("max-records", *f.MaxRecords))
	}
	return q
}

// Volumes returns a lazy sequence of volumes matching the filter.
func (c *Client) Volumes(ctx context.Context, filter VolumeFilter) *zapi.Iterator[Volume] {
	return zapi.Paginate(ctx, c.zr, c.endpoint, "attributes-list", filter.query(), decodeVolume)
}

// VolumeByName returns the single volume with the given name, or a not-found
// error if no such volume exists.
func (c *Client) VolumeByName(ctx context.Context, name string) (Volume, error) {
	it := c.Volumes(ctx, VolumeFilter{Name: name})
	return zapi.First(it, "volume")
}

func decodeVolume(record *zapi.Element) (Volume, error) {
	name, err := requiredText(record, "volume-id-attributes/name")
	if err != nil {
		return Volume{}, err
	}

	volume := Volume{
		Name:                name,
		UUID:                record.FindText("volume-id-attributes/instance-uuid"),
		JunctionPath:        record.FindText("volume-id-attributes/junction-path"),
		ContainingAggregate: record.FindText("volume-id-attributes/containing-aggregate-name"),
		Node:                record.FindText("volume-id-attributes/node"),
		OwningVserver:       record.FindText("volume-id-attributes/owning-vserver-name"),
		State:               record.FindText("volume-state-attributes/state"),
		CachingPolicy:       record.FindText("volume-hybrid-cache-attributes/caching-policy"),
		Autosize: VolumeAutosize{
			Mode: record.FindText("volume-autosize-attributes/mode"),
		},
	}

	if volume.Size, err = optionalInt64(record, "volume-space-attributes/size"); err != nil {
		return Volume{}, err
	}
	if volume.SizeUsed, err = optionalInt64(record, "volume-space-attributes/size-used"); err != nil {
		return Volume{}, err
	}
	if volume.SizeAvailable, err = optionalInt64(record, "volume-space-attributes/size-available"); err != nil {
		return Volume{}, err
	}
	if volume.PercentageSnapshotReserve, err = optionalInt(record, "volume-space-attributes/percentage-snapshot-reserve"); err != nil {
		return Volume{}, err
	}
	if volume.CompressionEnabled, err = optionalBool(record, "volume-sis-attributes/is-compression-enabled"); err != nil {
		return Volume{}, err
	}
	if volume.InlineCompression, err = optionalBool(record, "volume-sis-attributes/is-inline-compression-enabled"); err != nil {
		return Volume{}, err
	}
	if volume.Autosize.Enabled, err = optionalBool(record, "volume-autosize-attributes/is-enabled"); err != nil {
		return Volume{}, err
	}
	if volume.Autosize.MaximumSize, err = optionalInt64(record, "volume-autosize-attributes/maximum-size"); err != nil {
		return Volume{}, err
	}
	if volume.Autosize.IncrementSize, err = optionalInt64(record, "volume-autosize-attributes/increment-size"); err != nil {
		return Volume{}, err
	}
	return volume, nil
}

// VolumeCreateRequest carries the parameters of a volume-create call.
type VolumeCreateRequest struct {
	Name         string
	Aggregate    string
	// Size uses the API's size syntax, e.g. "100g" or a byte count.
	Size         string
	JunctionPath string
	ExportPolicy string
	// PercentageSnapshotReserve is applied only when non-nil.
	PercentageSnapshotReserve *int
}

// VolumeCreate creates a new FlexVol.
func (c *Client) VolumeCreate(ctx context.Context, request VolumeCreateRequest) error {
	q := zapi.New("volume-create",
		zapi.Str("volume", request.Name),
		zapi.Str("containing-aggr-name", request.Aggregate),
		zapi.Str("size", request.Size))
	if request.JunctionPath != "" {
		q.Append(zapi.Str("junction-path", request.JunctionPath))
	}
	if request.ExportPolicy != "" {
		q.Append(zapi.Str("export-policy", request.ExportPolicy))
	}
	if request.PercentageSnapshotReserve != nil {
		q.Append(zapi.Int("percentage-snapshot-reserve", *request.PercentageSnapshotReserve))
	}
	_, err := c.invoke(ctx, q)
	return err
}

// VolumeOnline brings a volume online.
func (c *Client) VolumeOnline(ctx context.Context, name string) error {
	_, err := c.invoke(ctx, zapi.New("volume-online", zapi.Str("name", name)))
	return err
}

// VolumeOffline takes a volume offline. The volume must be unmounted first.
func (c *Client) VolumeOffline(ctx context.Context, name string) error {
	_, err := c.invoke(ctx, zapi.New("volume-offline", zapi.Str("name", name)))
	return err
}

// VolumeRestrict restricts a volume.
func (c *Client) VolumeRestrict(ctx context.Context, name string) error {
	_, err := c.invoke(ctx, zapi.New("volume-restrict", zapi.Str("name", name)))
	return err
}

// VolumeDestroy destroys a volume. The volume must be offline.
func (c *Client) VolumeDestroy(ctx context.Context, name string) error {
	_, err := c.invoke(ctx, zapi.New("volume-destroy", zapi.Str("name", name)))
	return err
}

// VolumeMount mounts a volume at the given junction path.
func (c *Client) VolumeMount(ctx context.Context, name, junctionPath string) error {
	_, err := c.invoke(ctx, zapi.New("volume-mount",
		zapi.Str("volume-name", name),
		zapi.Str("junction-path", junctionPath)))
	return err
}

// VolumeUnmount unmounts a volume from its junction path.
func (c *Client) VolumeUnmount(ctx context.Context, name string) error {
	_, err := c.invoke(ctx, zapi.New("volume-unmount", zapi.Str("volume-name", name)))
	return err
}

// VolumeSetAutosize reconfigures a volume's autosize behavior. Only non-nil
// settings are sent.
func (c *Client) VolumeSetAutosize(ctx context.Context, name string, settings VolumeAutosize) error {
	q := zapi.New("volume-autosize-set", zapi.Str("volume", name))
	if settings.Enabled != nil {
		q.Append(zapi.Bool("is-enabled", *settings.Enabled))
	}
	if settings.Mode != "" {
		q.Append(zapi.Str("mode", settings.Mode))
	}
	if settings.MaximumSize != nil {
		q.Append(zapi.Int64("maximum-size", *settings.MaximumSize))
	}
	if settings.IncrementSize != nil {
		q.Append(zapi.Int64("increment-size", *settings.IncrementSize))
	}
	_, err := c.invoke(ctx, q)
	return err
}

// VolumeSetCompression toggles background and inline compression on a volume.
func (c *Client) VolumeSetCompression(ctx context.Context, name string, enabled, inline bool) error {
	_, err := c.invoke(ctx, zapi.New("sis-set-config",
		zapi.Str("path", "/vol/"+name),
		zapi.Bool("enable-compression", enabled),
		zapi.Bool("enable-inline-compression", inline)))
	return err
}
