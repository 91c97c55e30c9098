// Package submitguard collapses identical create requests that are in
// flight at the same time, so a double-clicked submit produces one write.
package submitguard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"golang.org/x/sync/singleflight"
)

// Guard is safe for concurrent use. The zero value is ready to use.
type Guard struct {
	g singleflight.Group
}

// Key fingerprints a create request by who sent it, where, and what.
func Key(actor, guildID, kind string, payload any) string {
	h := sha256.New()
	h.Write([]byte(actor + "\x00" + guildID + "\x00" + kind + "\x00"))
	if b, err := json.Marshal(payload); err == nil {
		h.Write(b)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Do runs fn once per key among concurrent callers. shared is true for
// callers that received another caller's result.
//
// fn gets ctx without its cancellation, so the write finishes for every
// collapsed caller even when the caller that started it goes away. Callers
// stop waiting when their own ctx is done; fn should apply its own timeout.
func Do[T any](ctx context.Context, g *Guard, key string, fn func(context.Context) (T, error)) (v T, shared bool, err error) {
	detached := context.WithoutCancel(ctx)
	ch := g.g.DoChan(key, func() (any, error) {
		return fn(detached)
	})
	select {
	case res := <-ch:
		if res.Val != nil {
			v = res.Val.(T)
		}
		return v, res.Shared, res.Err
	case <-ctx.Done():
		return v, false, ctx.Err()
	}
}
