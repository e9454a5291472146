// Package archive keeps the in-memory view of a user's stars, planets and media
// in sync with the remote API. Requests run off the frame loop; their results are
// applied back on it through a Poster so state is only touched from one goroutine.
package archive

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/memory-space/api"
)

// User-facing messages
const (
	MsgServerError = "Server connection error"
	MsgReported    = "Your report has been submitted."
)

// UserError is a rule violation whose text is shown to the user as is
type UserError string

func (e UserError) Error() string { return string(e) }

// Poster queues a function onto the frame loop
type Poster interface {
	Post(fn func())
}

// Notifier shows a short message to the user
type Notifier interface {
	Notify(msg string)
}

// NotifyFunc adapts a function to Notifier
type NotifyFunc func(msg string)

// Notify calls f
func (f NotifyFunc) Notify(msg string) { f(msg) }

// requests runs API calls in goroutines and posts their results
type requests struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	poster Poster
	log    zerolog.Logger
}

func newRequests(parent context.Context, poster Poster, log zerolog.Logger) *requests {
	ctx, cancel := context.WithCancel(parent)
	return &requests{ctx: ctx, cancel: cancel, poster: poster, log: log}
}

// start runs call in a goroutine; a non-nil returned func is posted to the frame loop
func (r *requests) start(name string, call func(ctx context.Context) func()) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		apply := call(r.ctx)
		if apply == nil || r.ctx.Err() != nil {
			r.log.Debug().Str("request", name).Msg("request result dropped")
			return
		}
		r.poster.Post(apply)
	}()
}

// wait blocks until in-flight requests have posted their results
func (r *requests) wait() { r.wg.Wait() }

// close cancels in-flight requests and waits for them
func (r *requests) close() {
	r.cancel()
	r.wg.Wait()
}

// failureMessage picks the server's message, the fallback for other server failures,
// or the connection error text for transport failures
func failureMessage(err error, fallback string) string {
	var re *api.RemoteError
	if errors.As(err, &re) {
		if re.Message != "" {
			return re.Message
		}
		return fallback
	}
	return MsgServerError
}
