package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/frahmantamala/funcionarios/internal/backend"
)

func (c *Client) restPath(table string) (string, error) {
	if !backend.ValidIdentifier(table) {
		return "", fmt.Errorf("%w: %q", backend.ErrInvalidTable, table)
	}
	return "/rest/v1/" + table, nil
}

// bearer is the signed-in user's access token, or the API key for anonymous
// reads.
func (c *Client) bearer() string {
	if s := c.currentSession(); s != nil {
		return s.AccessToken
	}
	return ""
}

func (c *Client) Select(ctx context.Context, table string, query backend.Query, dest any) error {
	path, err := c.restPath(table)
	if err != nil {
		return err
	}

	values := url.Values{}
	columns := query.Columns
	if columns == "" {
		columns = "*"
	}
	values.Set("select", columns)
	for _, f := range query.Filters {
		if !backend.ValidIdentifier(f.Column) {
			return fmt.Errorf("%w: %q", backend.ErrInvalidTable, f.Column)
		}
		values.Add(f.Column, "eq."+f.Value)
	}
	if query.Order != nil {
		if !backend.ValidIdentifier(query.Order.Column) {
			return fmt.Errorf("%w: %q", backend.ErrInvalidTable, query.Order.Column)
		}
		dir := "desc"
		if query.Order.Ascending {
			dir = "asc"
		}
		values.Set("order", query.Order.Column+"."+dir)
	}

	headers := map[string]string{}
	if query.Single {
		headers["Accept"] = "application/vnd.pgrst.object+json"
	}

	return c.do(ctx, request{
		method:  http.MethodGet,
		path:    path,
		query:   values,
		headers: headers,
		token:   c.bearer(),
	}, dest)
}

// Insert posts one row and decodes the single returned representation.
func (c *Client) Insert(ctx context.Context, table string, row any, dest any) error {
	path, err := c.restPath(table)
	if err != nil {
		return err
	}

	return c.do(ctx, request{
		method: http.MethodPost,
		path:   path,
		query:  url.Values{"select": {"*"}},
		body:   row,
		headers: map[string]string{
			"Prefer": "return=representation",
			"Accept": "application/vnd.pgrst.object+json",
		},
		token: c.bearer(),
	}, dest)
}
