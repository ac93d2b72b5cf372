// Copyright 2019 CERN. All Rights Reserved.

package api

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cerndb/netapp-api-go/api/zapi"
	netappconfig "github.com/cerndb/netapp-api-go/config"
	"github.com/cerndb/netapp-api-go/errors"
)

func eventRecord(id int) string {
	return fmt.Sprintf(`<event-info>
		<event-about>Some event</event-about>
		<event-category>availability</event-category>
		<event-condition>threshold crossed</event-condition>
		<event-id>%d</event-id>
		<event-impact-area>availability</event-impact-area>
		<event-impact-level>incident</event-impact-level>
		<event-name>volume.offline</event-name>
		<event-severity>critical</event-severity>
		<event-source-name>filer1:/vol0</event-source-name>
		<event-source-resource-key>abc-123</event-source-resource-key>
		<event-source-type>volume</event-source-type>
		<event-state>NEW</event-state>
		<event-type>volume-state-changed</event-type>
		<event-time>1474992000</event-time>
	</event-info>`, id)
}

func parseRecord(t *testing.T, s string) *zapi.Element {
	t.Helper()
	record := &zapi.Element{}
	require.NoError(t, xml.Unmarshal([]byte(s), record))
	return record
}

func TestEventFilterQueryAllOptions(t *testing.T) {
	greaterThan := 13
	maxRecords := 4
	filter := EventFilter{
		Severities:    []string{"Critical", "error"},
		States:        []string{"NEW", "OBSOLETE"},
		GreaterThanID: &greaterThan,
		TimeRange:     &TimeRange{Start: 1474990000, End: 1474999999},
		MaxRecords:    &maxRecords,
	}

	q, err := filter.query()
	require.NoError(t, err)
	assert.Equal(t, "event-iter", q.Name())

	names := make([]string, 0, len(q.Children()))
	for _, c := range q.Children() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{
		"greater-than-id", "time-range", "event-state-filter-list",
		"event-severities", "max-records", "timeout",
	}, names)

	assert.Equal(t, "13", q.FindText("greater-than-id"))
	assert.Equal(t, "1474990000", q.FindText("time-range/event-timestamp-range/start-time"))
	assert.Equal(t, "1474999999", q.FindText("time-range/event-timestamp-range/end-time"))
	assert.Equal(t, "NEW", q.Find("event-state-filter-list").Children()[0].Content())

	// Severities are passed lower-case.
	severities := q.Find("event-severities").Children()
	require.Len(t, severities, 2)
	assert.Equal(t, "critical", severities[0].Content())
	assert.Equal(t, "error", severities[1].Content())

	assert.Equal(t, "0", q.FindText("timeout"))
}

func TestEventFilterRejectsUnknownSeverity(t *testing.T) {
	_, err := EventFilter{Severities: []string{"catastrophic"}}.query()
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInputError(err))
}

func TestEventsRejectsBadFilterBeforeTransport(t *testing.T) {
	client, transport := newTestClient(t, netappconfig.ServerTypeOCUM)

	_, err := client.Events(context.Background(), EventFilter{Severities: []string{"nope"}})
	require.Error(t, err)
	assert.Zero(t, transport.GetTotalCallCount())
}

func TestDecodeEvent(t *testing.T) {
	record := parseRecord(t, eventRecord(13))

	event, err := decodeEvent(record)
	require.NoError(t, err)
	assert.Equal(t, 13, event.ID)
	assert.Equal(t, "volume.offline", event.Name)
	assert.Equal(t, "critical", event.Severity)
	assert.Equal(t, "NEW", event.State)
	assert.Equal(t, "volume", event.SourceType)
	assert.Equal(t, int64(1474992000), event.Timestamp)
	assert.Equal(t, int64(1474992000), event.Time().Unix())
}

func TestDecodeEventIdempotent(t *testing.T) {
	record := parseRecord(t, eventRecord(13))

	first, err := decodeEvent(record)
	require.NoError(t, err)
	second, err := decodeEvent(record)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDecodeEventMissingID(t *testing.T) {
	record := parseRecord(t, `<event-info><event-time>1474992000</event-time></event-info>`)

	_, err := decodeEvent(record)
	require.Error(t, err)
	assert.True(t, errors.IsContractError(err))
}

func TestEventByID(t *testing.T) {
	client, transport := newTestClient(t, netappconfig.ServerTypeOCUM)
	transport.RegisterResponder("POST", ocumURL(), httpmock.NewStringResponder(200,
		passedResponse(`<num-records>1</num-records><records>`+eventRecord(13)+`</records>`)))

	event, err := client.EventByID(context.Background(), 13)
	require.NoError(t, err)
	assert.Equal(t, 13, event.ID)
}

func TestEventByIDNotFound(t *testing.T) {
	client, transport := newTestClient(t, netappconfig.ServerTypeOCUM)
	transport.RegisterResponder("POST", ocumURL(), httpmock.NewStringResponder(200,
		passedResponse(`<num-records>0</num-records><records></records>`)))

	_, err := client.EventByID(context.Background(), 999999)
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
	assert.False(t, zapi.IsAPIError(err))
}

func TestEventsSurfaceAPIError(t *testing.T) {
	client, transport := newTestClient(t, netappconfig.ServerTypeOCUM)
	transport.RegisterResponder("POST", ocumURL(),
		func(req *http.Request) (*http.Response, error) {
			return failedResponse("Bad filter", 14), nil
		})

	it, err := client.Events(context.Background(), EventFilter{})
	require.NoError(t, err)
	_, err = it.Next()
	require.Error(t, err)
	require.True(t, zapi.IsAPIError(err))
	assert.Equal(t, 14, err.(*zapi.APIError).Code)
	assert.Equal(t, "Bad filter", err.(*zapi.APIError).Reason)
}
