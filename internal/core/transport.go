package core

import "context"

// Transport defines the playback commands shared by the in-process player
// handle and the remote client.
type Transport interface {
	Toggle(ctx context.Context) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	Select(ctx context.Context, index int, autoplay bool) error
	Seek(ctx context.Context, ratio float64) error
	Volume(ctx context.Context, percent int) error

	Snapshot(ctx context.Context) (*Snapshot, error)
	Tracks(ctx context.Context) ([]Track, error)
}
