package rest

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Upload stores an object under bucket/path. With upsert set, an existing
// object at the same path is overwritten.
func (c *Client) Upload(ctx context.Context, bucket, path string, data []byte, contentType string, upsert bool) error {
	var headers map[string]string
	if upsert {
		headers = map[string]string{"x-upsert": "true"}
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	p := "/storage/v1/object/" + bucket + "/" + encodePath(path)
	if err := c.do(ctx, "POST", p, nil, headers, bytes.NewReader(data), contentType, nil); err != nil {
		return fmt.Errorf("upload %s/%s: %w", bucket, path, err)
	}
	return nil
}

// PublicURL returns the public URL for an object. Assumes the bucket has
// public read access.
func (c *Client) PublicURL(bucket, path string) string {
	return c.baseURL + "/storage/v1/object/public/" + bucket + "/" + encodePath(path)
}

// Remove deletes objects by path. The backend ignores paths that do not
// exist.
func (c *Client) Remove(ctx context.Context, bucket string, paths []string) error {
	payload := map[string][]string{"prefixes": paths}
	if err := c.doJSON(ctx, "DELETE", "/storage/v1/object/"+bucket, nil, nil, payload, nil); err != nil {
		return fmt.Errorf("remove objects from %s: %w", bucket, err)
	}
	return nil
}

// encodePath percent-encodes each path segment, preserving separators.
func encodePath(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
