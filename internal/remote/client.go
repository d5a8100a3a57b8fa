package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tessro/tapedeck/internal/core"
	tderrors "github.com/tessro/tapedeck/internal/errors"
)

// Client talks to a running player's inspection server.
type Client struct {
	base   string
	http   *http.Client
	dialer *websocket.Dialer
}

// NewClient creates a client for the server at addr ("host:port" or a
// full http URL).
func NewClient(addr string) *Client {
	base := strings.TrimRight(addr, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &Client{
		base:   base,
		http:   &http.Client{Timeout: 10 * time.Second},
		dialer: websocket.DefaultDialer,
	}
}

// Toggle plays or pauses.
func (c *Client) Toggle(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/toggle", nil, nil)
}

// Next skips forward.
func (c *Client) Next(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/next", nil, nil)
}

// Previous skips back.
func (c *Client) Previous(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/previous", nil, nil)
}

// Select loads the track at index.
func (c *Client) Select(ctx context.Context, index int, autoplay bool) error {
	if index < 0 {
		return fmt.Errorf("load %d: %w", index, tderrors.ErrIndexOutOfRange)
	}
	path := fmt.Sprintf("/api/load/%d?autoplay=%t", index, autoplay)
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

// Seek moves to ratio of the current track.
func (c *Client) Seek(ctx context.Context, ratio float64) error {
	return c.do(ctx, http.MethodPost, "/api/seek", SeekRequest{Ratio: ratio}, nil)
}

// Volume sets the volume percent.
func (c *Client) Volume(ctx context.Context, percent int) error {
	return c.do(ctx, http.MethodPost, "/api/volume", VolumeRequest{Percent: percent}, nil)
}

// Snapshot returns the player's current snapshot.
func (c *Client) Snapshot(ctx context.Context) (*core.Snapshot, error) {
	var snap core.Snapshot
	if err := c.do(ctx, http.MethodGet, "/api/state", nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Tracks returns the playlist.
func (c *Client) Tracks(ctx context.Context) ([]core.Track, error) {
	var tracks []core.Track
	if err := c.do(ctx, http.MethodGet, "/api/playlist", nil, &tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

// Watch calls fn with every snapshot the server pushes until ctx is done,
// the connection drops, or fn returns an error.
func (c *Client) Watch(ctx context.Context, fn func(*core.Snapshot) error) error {
	url := "ws" + strings.TrimPrefix(c.base, "http") + "/api/events"
	conn, _, err := c.dialer.DialContext(ctx, url, nil)
	if err != nil {
		return c.wrap(ctx, err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		var snap core.Snapshot
		if err := conn.ReadJSON(&snap); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("event stream: %w", err)
		}
		if err := fn(&snap); err != nil {
			return err
		}
	}
}

var _ core.Transport = (*Client)(nil)

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, r)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.wrap(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// wrap marks connection failures as "no running player".
func (c *Client) wrap(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("%w at %s: %v", tderrors.ErrNotRunning, c.base, err)
}

func decodeError(resp *http.Response) error {
	var e ErrorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &e); err != nil || e.Error == "" {
		e.Error = strings.TrimSpace(string(data))
		if e.Error == "" {
			e.Error = resp.Status
		}
	}

	if resp.StatusCode == http.StatusUnprocessableEntity {
		return fmt.Errorf("%w: %s", tderrors.ErrIndexOutOfRange, e.Error)
	}
	return errors.New(e.Error)
}
