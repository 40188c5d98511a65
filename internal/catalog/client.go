// Package catalog talks to a Unity-Catalog-compatible metadata service and
// turns discovered tables into entity descriptors.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const apiPrefix = "/api/2.1/unity-catalog"

// APIError is a non-2xx response from the catalog service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog API request failed: %s (status %d)", e.Message, e.StatusCode)
}

// TableInfo is the subset of the catalog's table object the discovery flow
// needs. The list endpoint omits Columns; GetTable fills them in.
type TableInfo struct {
	Name             string            `json:"name"`
	CatalogName      string            `json:"catalog_name"`
	SchemaName       string            `json:"schema_name"`
	TableType        string            `json:"table_type"`
	DataSourceFormat string            `json:"data_source_format"`
	StorageLocation  string            `json:"storage_location"`
	Comment          string            `json:"comment"`
	Properties       map[string]string `json:"properties"`
	Columns          []ColumnInfo      `json:"columns"`
}

// FullName returns the three-part dotted table name.
func (t *TableInfo) FullName() string {
	return t.CatalogName + "." + t.SchemaName + "." + t.Name
}

type ColumnInfo struct {
	Name     string `json:"name"`
	TypeText string `json:"type_text"`
	TypeName string `json:"type_name"`
	Position int    `json:"position"`
	Nullable bool   `json:"nullable"`
	Comment  string `json:"comment"`
}

type listTablesResponse struct {
	Tables []TableInfo `json:"tables"`
}

// Client is a bearer-token HTTP client for the catalog API.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
	logger  *slog.Logger
}

// NewClient creates a catalog client against endpoint (scheme + host, with or
// without a trailing slash).
func NewClient(endpoint, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL: strings.TrimRight(endpoint, "/"),
		token:   token,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// NewClientFromEnv resolves the bearer token from the environment variable
// named by tokenEnv.
func NewClientFromEnv(endpoint, tokenEnv string, logger *slog.Logger) (*Client, error) {
	token := os.Getenv(tokenEnv)
	if token == "" {
		return nil, fmt.Errorf("catalog token environment variable %s is not set", tokenEnv)
	}
	return NewClient(endpoint, token, logger), nil
}

// ListTables lists all tables in catalog.schema. Column metadata is not
// included; call GetTable for it.
func (c *Client) ListTables(ctx context.Context, catalog, schema string) ([]TableInfo, error) {
	q := url.Values{}
	q.Set("catalog_name", catalog)
	q.Set("schema_name", schema)

	c.logger.Debug("listing catalog tables", "catalog", catalog, "schema", schema)

	var resp listTablesResponse
	if err := c.get(ctx, apiPrefix+"/tables?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp.Tables, nil
}

// GetTable fetches full metadata, including columns, for one table by its
// three-part name.
func (c *Client) GetTable(ctx context.Context, fullName string) (*TableInfo, error) {
	c.logger.Debug("fetching table metadata", "table", fullName)

	var info TableInfo
	if err := c.get(ctx, apiPrefix+"/tables/"+url.PathEscape(fullName), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return &APIError{StatusCode: resp.StatusCode, Message: "invalid or expired catalog token"}
	case http.StatusNotFound:
		return &APIError{StatusCode: resp.StatusCode, Message: "catalog, schema, or table not found"}
	default:
		return &APIError{StatusCode: resp.StatusCode, Message: "unexpected response"}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding catalog response: %w", err)
	}
	return nil
}
