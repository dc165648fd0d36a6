// Package api is a thin client for the files manager REST API. Error
// statuses are mapped back to the sentinel errors of package common.
package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/common"
)

type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type File struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"userId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsPublic bool   `json:"isPublic"`
	ParentID int64  `json:"parentId"`
}

type Status struct {
	DB bool `json:"db"`
	KV bool `json:"kv"`
}

type Stats struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

// NewFile describes an upload. Data is raw content; it is base64-encoded on
// the wire and ignored for folders.
type NewFile struct {
	Name     string
	Type     string
	ParentID int64
	IsPublic bool
	Data     []byte
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type request struct {
	method string
	path   string
	query  url.Values
	token  string
	body   any
	header map[string]string
}

// do performs r and returns the response body of a 2xx response.
func (c *Client) do(ctx context.Context, r request) ([]byte, http.Header, error) {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, nil, err
	}
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set(common.SessionTokenHeaderName, r.token)
	}
	for k, v := range r.header {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, nil, statusError(resp.StatusCode, data)
	}
	return data, resp.Header, nil
}

func (c *Client) doJSON(ctx context.Context, r request, out any) error {
	data, _, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) Status(ctx context.Context) (*Status, error) {
	var s Status
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: "/status"}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: "/stats"}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Register(ctx context.Context, email, password string) (*User, error) {
	var u User
	err := c.doJSON(ctx, request{
		method: http.MethodPost,
		path:   "/users",
		body:   map[string]string{"email": email, "password": password},
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Connect exchanges credentials for a session token.
func (c *Client) Connect(ctx context.Context, email, password string) (string, error) {
	creds := base64.StdEncoding.EncodeToString([]byte(email + ":" + password))
	var out struct {
		Token string `json:"token"`
	}
	err := c.doJSON(ctx, request{
		method: http.MethodGet,
		path:   "/connect",
		header: map[string]string{"Authorization": "Basic " + creds},
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *Client) Disconnect(ctx context.Context, token string) error {
	return c.doJSON(ctx, request{method: http.MethodGet, path: "/disconnect", token: token}, nil)
}

func (c *Client) Me(ctx context.Context, token string) (*User, error) {
	var u User
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: "/users/me", token: token}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Upload(ctx context.Context, token string, f NewFile) (*File, error) {
	body := map[string]any{
		"name":     f.Name,
		"type":     f.Type,
		"parentId": f.ParentID,
		"isPublic": f.IsPublic,
	}
	if f.Data != nil {
		body["data"] = base64.StdEncoding.EncodeToString(f.Data)
	}

	var out File
	if err := c.doJSON(ctx, request{method: http.MethodPost, path: "/files", token: token, body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) List(ctx context.Context, token string, parentID int64, page int) ([]File, error) {
	q := url.Values{}
	q.Set("parentId", strconv.FormatInt(parentID, 10))
	q.Set("page", strconv.Itoa(page))

	var out []File
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: "/files", token: token, query: q}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, token string, id int64) (*File, error) {
	var out File
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: filePath(id, ""), token: token}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetVisibility publishes or unpublishes a file.
func (c *Client) SetVisibility(ctx context.Context, token string, id int64, public bool) (*File, error) {
	action := "unpublish"
	if public {
		action = "publish"
	}
	var out File
	if err := c.doJSON(ctx, request{method: http.MethodPut, path: filePath(id, action), token: token}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Content downloads file content, or the size-pixel rendition of an image
// when size is non-zero. token may be empty for public files.
func (c *Client) Content(ctx context.Context, token string, id int64, size int) ([]byte, string, error) {
	var q url.Values
	if size != 0 {
		q = url.Values{"size": []string{strconv.Itoa(size)}}
	}
	data, header, err := c.do(ctx, request{method: http.MethodGet, path: filePath(id, "data"), token: token, query: q})
	if err != nil {
		return nil, "", err
	}
	return data, header.Get("Content-Type"), nil
}

func filePath(id int64, action string) string {
	p := "/files/" + strconv.FormatInt(id, 10)
	if action != "" {
		p += "/" + action
	}
	return p
}
