// Copyright 2019 CERN. All Rights Reserved.

package zapi

import (
	"context"

	"github.com/cerndb/netapp-api-go/errors"
)

// RecordDecoder projects one raw record element into a typed value.
type RecordDecoder[T any] func(*Element) (T, error)

// Iterator is a lazy sequence of typed records spanning every page of one
// logical query. Records surface in strict page order, and within a page in
// server-returned order; memory use stays bounded by a single page. Any
// error — transport, API, decode, or contract — terminates the sequence at
// the point of consumption, and no further requests are made for it.
// Abandoning an Iterator early is free: the server keeps no cursor state
// beyond the opaque continuation tag.
type Iterator[T any] struct {
	ctx          context.Context
	runner       *Runner
	endpoint     Endpoint
	containerTag string
	decode       RecordDecoder[T]

	query   *Element
	buffer  []*Element
	nextTag *string
	started bool
	done    bool
	err     error
}

// Paginate starts a paginated query. No request is issued until the first
// HasNext or Next call. The query is owned by the iterator for the duration
// of the call and must not be reused concurrently.
func Paginate[T any](
	ctx context.Context, runner *Runner, endpoint Endpoint, containerTag string,
	query *Element, decode RecordDecoder[T],
) *Iterator[T] {
	return &Iterator[T]{
		ctx:          ctx,
		runner:       runner,
		endpoint:     endpoint,
		containerTag: containerTag,
		decode:       decode,
		query:        query,
	}
}

// HasNext reports whether another record is available, fetching further pages
// as needed. It also returns true when an error is pending, so the consumer
// always observes the error from the Next call it was pulling on.
func (it *Iterator[T]) HasNext() bool {
	if it.done {
		return false
	}
	if it.err != nil {
		return true
	}
	for len(it.buffer) == 0 {
		if it.started && it.nextTag == nil {
			it.done = true
			return false
		}
		it.fetchPage()
		if it.err != nil {
			return true
		}
	}
	return true
}

// Next returns the next record of the sequence. After Next returns a non-nil
// error the iterator is terminal and every later call returns the same error.
func (it *Iterator[T]) Next() (T, error) {
	var zero T
	if it.err == nil && !it.HasNext() {
		return zero, errors.ContractError("Next called past the end of the result set")
	}
	if it.err != nil {
		it.done = true
		return zero, it.err
	}

	record := it.buffer[0]
	it.buffer = it.buffer[1:]
	value, err := it.decode(record)
	if err != nil {
		it.err = err
		it.done = true
		return zero, err
	}
	return value, nil
}

// Collect drains the remaining sequence into a slice.
func (it *Iterator[T]) Collect() ([]T, error) {
	var out []T
	for it.HasNext() {
		value, err := it.Next()
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, nil
}

// fetchPage performs one round trip. The first page sends the query as
// built; every later page derives its query by replacing the continuation
// tag while leaving all other elements untouched.
func (it *Iterator[T]) fetchPage() {
	query := it.query
	if it.started {
		query = it.query.WithTag(*it.nextTag)
		it.query = query
	}

	body, err := it.runner.Send(it.ctx, it.endpoint, query)
	if err != nil {
		it.err = err
		return
	}

	queryXML, _ := query.ToXML()
	page, err := DecodePage(body, it.containerTag, []byte(queryXML))
	if err != nil {
		it.err = err
		return
	}

	it.started = true
	it.buffer = page.Records
	it.nextTag = page.NextTag
}

// First implements single-item lookup semantics on top of an iterator: the
// first record if one exists, or a not-found error naming what was looked
// up. The not-found case is distinct from an APIError because the call
// itself succeeded; only the filter matched nothing.
func First[T any](it *Iterator[T], what string) (T, error) {
	var zero T
	if !it.HasNext() {
		return zero, errors.NotFoundError("no such %s", what)
	}
	return it.Next()
}
