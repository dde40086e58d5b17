package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
)

// Object is the provider's representation of a file or folder.
type Object struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	MIMEType    string   `json:"mimeType"`
	Size        int64    `json:"size,string,omitempty"`
	Trashed     bool     `json:"trashed"`
	Parents     []string `json:"parents,omitempty"`
	WebViewLink string   `json:"webViewLink,omitempty"`
}

// objectFields is the field projection requested on every object read.
const objectFields = "id,name,mimeType,size,trashed,parents,webViewLink"

// StatusError is a non-2xx response from the provider.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("drive API status %d: %s", e.Code, e.Body)
}

// Client is a thin HTTP wrapper over the external storage provider's API.
// Every call resolves the caller's access token through the TokenSource;
// a 401 response triggers one refresh-and-retry.
type Client struct {
	httpClient *http.Client
	apiBase    string
	uploadBase string
	folderMIME string
	tokens     TokenSource
	logger     *slog.Logger
}

// NewClient creates a drive client for the given provider profile.
// httpClient nil means http.DefaultClient (default timeout behavior).
func NewClient(provider Provider, tokens TokenSource, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		apiBase:    provider.APIBase,
		uploadBase: provider.UploadBase,
		folderMIME: provider.FolderMIMEType,
		tokens:     tokens,
		logger:     logger,
	}
}

// do executes a request built by build, retrying once with a refreshed
// token on 401. build must return a fresh request each call so bodies can
// be replayed.
func (c *Client) do(ctx context.Context, userID string, build func(token string) (*http.Request, error)) (*http.Response, error) {
	token, err := c.tokens.AccessToken(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("drive credential: %w", err)
	}

	req, err := build(token)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("drive request: %w", err)
	}

	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	// Stale access token: refresh once and replay
	resp.Body.Close()
	token, err = c.tokens.Refresh(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("drive credential refresh: %w", err)
	}

	req, err = build(token)
	if err != nil {
		return nil, err
	}

	resp, err = c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("drive request: %w", err)
	}

	return resp, nil
}

func (c *Client) decodeObject(resp *http.Response) (*Object, error) {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.statusError(resp)
	}

	var obj Object
	if err := json.NewDecoder(resp.Body).Decode(&obj); err != nil {
		return nil, fmt.Errorf("decode drive object: %w", err)
	}

	return &obj, nil
}

func (c *Client) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &StatusError{Code: resp.StatusCode, Body: string(body)}
}

// CreateFolder creates a folder under parentID. Empty parentID creates it
// at the drive root.
func (c *Client) CreateFolder(ctx context.Context, userID, name, parentID string) (*Object, error) {
	metadata := map[string]any{
		"name":     name,
		"mimeType": c.folderMIME,
	}
	if parentID != "" {
		metadata["parents"] = []string{parentID}
	}

	payload, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("encode folder metadata: %w", err)
	}

	endpoint := fmt.Sprintf("%s/files?fields=%s", c.apiBase, url.QueryEscape(objectFields))
	resp, err := c.do(ctx, userID, func(token string) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, err
	}

	return c.decodeObject(resp)
}

// UploadFile uploads content as a new object under parentID using the
// provider's multipart upload (metadata part + media part).
func (c *Client) UploadFile(ctx context.Context, userID, name, contentType, parentID string, content []byte) (*Object, error) {
	metadata := map[string]any{
		"name": name,
	}
	if parentID != "" {
		metadata["parents"] = []string{parentID}
	}

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("encode file metadata: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	metaPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"application/json; charset=UTF-8"},
	})
	if err != nil {
		return nil, fmt.Errorf("create metadata part: %w", err)
	}
	if _, err := metaPart.Write(metadataJSON); err != nil {
		return nil, fmt.Errorf("write metadata part: %w", err)
	}

	mediaPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {contentType},
	})
	if err != nil {
		return nil, fmt.Errorf("create media part: %w", err)
	}
	if _, err := mediaPart.Write(content); err != nil {
		return nil, fmt.Errorf("write media part: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/files?uploadType=multipart&fields=%s", c.uploadBase, url.QueryEscape(objectFields))
	payload := body.Bytes()
	resp, err := c.do(ctx, userID, func(token string) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "multipart/related; boundary="+writer.Boundary())
		return req, nil
	})
	if err != nil {
		return nil, err
	}

	return c.decodeObject(resp)
}

// GetFile retrieves an object's metadata.
func (c *Client) GetFile(ctx context.Context, userID, objectID string) (*Object, error) {
	endpoint := fmt.Sprintf("%s/files/%s?fields=%s", c.apiBase, url.PathEscape(objectID), url.QueryEscape(objectFields))
	resp, err := c.do(ctx, userID, func(token string) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		return req, nil
	})
	if err != nil {
		return nil, err
	}

	return c.decodeObject(resp)
}

// ListChildren lists non-trashed objects directly under parentID.
func (c *Client) ListChildren(ctx context.Context, userID, parentID string) ([]Object, error) {
	query := fmt.Sprintf("'%s' in parents and trashed = false", parentID)
	endpoint := fmt.Sprintf("%s/files?q=%s&fields=%s",
		c.apiBase,
		url.QueryEscape(query),
		url.QueryEscape("files("+objectFields+")"),
	)

	resp, err := c.do(ctx, userID, func(token string) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp)
	}

	var listing struct {
		Files []Object `json:"files"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode drive listing: %w", err)
	}

	return listing.Files, nil
}

// setTrashed flips the object's trashed flag via a metadata patch.
func (c *Client) setTrashed(ctx context.Context, userID, objectID string, trashed bool) error {
	payload, err := json.Marshal(map[string]bool{"trashed": trashed})
	if err != nil {
		return fmt.Errorf("encode trash patch: %w", err)
	}

	endpoint := fmt.Sprintf("%s/files/%s", c.apiBase, url.PathEscape(objectID))
	resp, err := c.do(ctx, userID, func(token string) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Object already gone counts as done for trash operations
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(resp)
	}

	return nil
}

// Trash moves the object to the provider's trash.
func (c *Client) Trash(ctx context.Context, userID, objectID string) error {
	return c.setTrashed(ctx, userID, objectID, true)
}

// Untrash restores the object from the provider's trash.
func (c *Client) Untrash(ctx context.Context, userID, objectID string) error {
	return c.setTrashed(ctx, userID, objectID, false)
}

// Delete permanently deletes the object. A 404 is treated as success: the
// object is already gone, which is the state we wanted.
func (c *Client) Delete(ctx context.Context, userID, objectID string) error {
	endpoint := fmt.Sprintf("%s/files/%s", c.apiBase, url.PathEscape(objectID))
	resp, err := c.do(ctx, userID, func(token string) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		return req, nil
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(resp)
	}

	return nil
}
