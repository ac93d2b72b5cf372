// Copyright 2019 CERN. All Rights Reserved.

package api

import (
	"context"
	"strings"
	"time"

	"github.com/cerndb/netapp-api-go/api/zapi"
	"github.com/cerndb/netapp-api-go/errors"
)

// Event is one entry of the OCUM event log.
type Event struct {
	ID                int
	Name              string
	About             string
	Category          string
	Condition         string
	ImpactArea        string
	ImpactLevel       string
	Severity          string
	SourceName        string
	SourceResourceKey string
	SourceType        string
	State             string
	EventType         string
	// Timestamp is the event time as a Unix timestamp in the server's
	// local time zone.
	Timestamp int64
}

// Time returns the event timestamp as a time.Time.
func (e Event) Time() time.Time {
	return time.Unix(e.Timestamp, 0)
}

// TimeRange is an inclusive range of Unix timestamps.
type TimeRange struct {
	Start int64
	End   int64
}

// eventSeverities are the severity values the event API recognizes.
var eventSeverities = map[string]bool{
	"information": true,
	"warning":     true,
	"error":       true,
	"critical":    true,
}

// EventFilter selects a subset of the event log. The zero value matches
// everything.
type EventFilter struct {
	// Severities restricts results to the given severities (case
	// insensitive). An unrecognized severity is rejected when the query is
	// built rather than silently ignored.
	Severities []string
	// States restricts results to the given event states (NEW, OBSOLETE, ...).
	States []string
	// GreaterThanID only returns events logged after the given one.
	GreaterThanID *int
	// TimeRange bounds the event timestamps, inclusively.
	TimeRange *TimeRange
	// MaxRecords caps the page size; the full result set still spans as
	// many pages as needed.
	MaxRecords *int
	// Timeout is the server-side long-poll timeout in seconds; 0 returns
	// immediately when nothing matches.
	Timeout int
}

func (f EventFilter) query() (*zapi.Element, error) {
	q := zapi.New("event-iter")
	if f.GreaterThanID != nil {
		q.Append(zapi.Int("greater-than-id", *f.GreaterThanID))
	}
	if f.TimeRange != nil {
		q.Append(zapi.New("time-range",
			zapi.New("event-timestamp-range",
				zapi.Int64("end-time", f.TimeRange.End),
				zapi.Int64("start-time", f.TimeRange.Start))))
	}
	if len(f.States) > 0 {
		states := zapi.New("event-state-filter-list")
		for _, state := range f.States {
			states.Append(zapi.Str("event-state", state))
		}
		q.Append(states)
	}
	if len(f.Severities) > 0 {
		severities := zapi.New("event-severities")
		for _, severity := range f.Severities {
			severity = strings.ToLower(severity)
			if !eventSeverities[severity] {
				return nil, errors.InvalidInputError("unrecognized event severity %q", severity)
			}
			severities.Append(zapi.Str("obj-status", severity))
		}
		q.Append(severities)
	}
	if f.MaxRecords != nil {
		q.Append(zapi.Int("max-records", *f.MaxRecords))
	}
	q.Append(zapi.Int("timeout", f.Timeout))
	return q, nil
}

// Events returns a lazy sequence of events matching the filter. Each call
// performs fresh network round trips; nothing is cached. The sequence may
// fail mid-iteration if a later page fails.
func (c *Client) Events(ctx context.Context, filter EventFilter) (*zapi.Iterator[Event], error) {
	query, err := filter.query()
	if err != nil {
		return nil, err
	}
	return zapi.Paginate(ctx, c.zr, c.endpoint, "records", query, decodeEvent), nil
}

// EventByID returns the single event with the given ID, or a not-found error
// if no such event exists.
func (c *Client) EventByID(ctx context.Context, id int) (Event, error) {
	query := zapi.New("event-iter", zapi.Int("event-id", id))
	it := zapi.Paginate(ctx, c.zr, c.endpoint, "records", query, decodeEvent)
	return zapi.First(it, "event")
}

func decodeEvent(record *zapi.Element) (Event, error) {
	id, err := requiredInt(record, "event-id")
	if err != nil {
		return Event{}, err
	}
	timestamp, err := requiredInt64(record, "event-time")
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:                id,
		Name:              record.FindText("event-name"),
		About:             record.FindText("event-about"),
		Category:          record.FindText("event-category"),
		Condition:         record.FindText("event-condition"),
		ImpactArea:        record.FindText("event-impact-area"),
		ImpactLevel:       record.FindText("event-impact-level"),
		Severity:          record.FindText("event-severity"),
		SourceName:        record.FindText("event-source-name"),
		SourceResourceKey: record.FindText("event-source-resource-key"),
		SourceType:        record.FindText("event-source-type"),
		State:             record.FindText("event-state"),
		EventType:         record.FindText("event-type"),
		Timestamp:         timestamp,
	}, nil
}
