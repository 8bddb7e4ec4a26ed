package rest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/livesboard/livesboard/internal/backend"
)

// Select runs a table read and decodes the row array into dest.
func (c *Client) Select(ctx context.Context, q backend.Query, dest any) error {
	if err := c.doJSON(ctx, "GET", "/rest/v1/"+q.Table, q.Values(), nil, nil, dest); err != nil {
		return fmt.Errorf("select %s: %w", q.Table, err)
	}
	return nil
}

// Insert creates one row, asking the backend to return the representation.
func (c *Client) Insert(ctx context.Context, table string, record, dest any) error {
	headers := map[string]string{"Prefer": "return=representation"}

	var rows []json.RawMessage
	if err := c.doJSON(ctx, "POST", "/rest/v1/"+table, nil, headers, record, &rows); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	ok, err := firstRow(rows, dest)
	if err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	if !ok && dest != nil {
		return fmt.Errorf("insert %s: no row returned", table)
	}
	return nil
}

// Update patches every row matched by q, decoding the first updated row into
// dest when dest is non-nil.
func (c *Client) Update(ctx context.Context, table string, patch any, q backend.Query, dest any) error {
	headers := map[string]string{"Prefer": "return=representation"}

	var rows []json.RawMessage
	if err := c.doJSON(ctx, "PATCH", "/rest/v1/"+table, q.Values(), headers, patch, &rows); err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	if dest != nil {
		ok, err := firstRow(rows, dest)
		if err != nil {
			return fmt.Errorf("update %s: %w", table, err)
		}
		if !ok {
			return fmt.Errorf("update %s: no row matched", table)
		}
	}
	return nil
}

// Delete removes every row matched by q.
func (c *Client) Delete(ctx context.Context, table string, q backend.Query) error {
	if err := c.doJSON(ctx, "DELETE", "/rest/v1/"+table, q.Values(), nil, nil, nil); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return nil
}

// Call invokes a named server-side procedure, passing params through
// opaquely and decoding the verbatim result into dest when non-nil.
func (c *Client) Call(ctx context.Context, fn string, params, dest any) error {
	if params == nil {
		params = map[string]any{}
	}
	if err := c.doJSON(ctx, "POST", "/rest/v1/rpc/"+fn, nil, nil, params, dest); err != nil {
		return fmt.Errorf("rpc %s: %w", fn, err)
	}
	return nil
}
