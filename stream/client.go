// Package stream provides the client for the remote transcoding/streaming service.
package stream

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/reeler-cli/reeler/log"
	"github.com/reeler-cli/reeler/network"
)

// Client communicates with the playback endpoints of the media server.
// It performs no retries, deduplication, or caching of in-flight requests;
// callers are responsible for not issuing redundant concurrent requests for
// the same player handle.
type Client struct {
	baseURL string
	userID  string
	httpc   *http.Client
}

// NewClient creates a streaming service client for the given server base URL and user identity.
func NewClient(baseURL, userID string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		userID:  userID,
		httpc:   network.Client,
	}
}

// WithHTTPClient replaces the underlying HTTP client. Intended for tests.
func (c *Client) WithHTTPClient(httpc *http.Client) *Client {
	c.httpc = httpc
	return c
}

// RequestPlay asks the server for a playback handle.
// With direct=true the server answers with a static resource locator for the
// original file; otherwise it starts a transcoding session and returns its
// identifier plus a manifest locator for a progressively extended segmented stream.
func (c *Client) RequestPlay(mediaID string, direct bool) (*Session, error) {
	q := url.Values{}
	q.Set("mediaId", mediaID)
	q.Set("direct", strconv.FormatBool(direct))
	q.Set("userId", c.userID)

	resp, err := c.httpc.Get(c.baseURL + "/video/play?" + q.Encode())
	if err != nil {
		return nil, fmt.Errorf("request playback handle: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("playback request returned status %d", resp.StatusCode)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("parse playback response: %w", err)
	}

	log.Debugf("playback handle acquired: direct=%v session=%s", direct, session.ID)
	return &session, nil
}

// RestartAt asks the remote encoder to restart an existing transcoding session
// so that produced segments begin at startTime. The response is a new session;
// the old one is implicitly superseded server-side.
func (c *Client) RestartAt(sessionID string, startTime float64) (*Session, error) {
	payload, err := json.Marshal(map[string]any{
		"sessionId": sessionID,
		"startTime": startTime,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal seek request: %w", err)
	}

	resp, err := c.httpc.Post(c.baseURL+"/video/seek", "application/json", strings.NewReader(string(payload)))
	if err != nil {
		return nil, fmt.Errorf("request seek restart: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("seek restart returned status %d", resp.StatusCode)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("parse seek response: %w", err)
	}

	log.Infof("transcoding restarted at %.1fs: session=%s", startTime, session.ID)
	return &session, nil
}

// FetchManifest downloads and parses the master playlist for a transcoding session,
// exposing the rendition ladder offered by the encoder.
func (c *Client) FetchManifest(manifestURL string) (*Manifest, error) {
	resp, err := c.httpc.Get(manifestURL)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("manifest request returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	return ParseMaster(string(body))
}
