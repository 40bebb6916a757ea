package corspolicy

import "sync/atomic"

// A Holder publishes the current [Policy] of a running service.
// Request handlers call [*Holder.Load] once per request and evaluate the
// resulting policy; reloads replace the whole policy atomically, so that every
// in-flight request observes either the old policy or the new one, never
// a mixture of both.
//
// The zero value is ready to use and holds no policy; a middleware that finds
// no policy should behave as a passthrough.
//
// A Holder must not be copied after first use.
// Holders are safe for concurrent use by multiple goroutines.
type Holder struct {
	p atomic.Pointer[Policy]
}

// NewHolder returns a Holder that holds p.
func NewHolder(p *Policy) *Holder {
	var h Holder
	h.p.Store(p)
	return &h
}

// Load returns the current policy, or nil if h holds none.
func (h *Holder) Load() *Policy {
	return h.p.Load()
}

// Store replaces the current policy with p.
// If p is nil, h subsequently holds no policy.
func (h *Holder) Store(p *Policy) {
	h.p.Store(p)
}

// Reconfigure compiles cfg and, if successful, publishes the resulting
// policy. If cfg is nil, h subsequently holds no policy.
// If *cfg is invalid, it leaves h unchanged and returns some non-nil error.
// Provided that h holds a policy, the following statement is guaranteed
// to be a no-op
// (albeit a relatively expensive one):
//
//	h.Reconfigure(h.Load().Config())
//
// Rather than attempt to diff the new config against the current one,
// Reconfigure simply starts from scratch; for common configurations,
// doing so is performant enough.
//
// If you need to programmatically handle the configuration errors constitutive
// of the resulting error, rely on package [github.com/jub0bs/corspolicy/cfgerrors].
func (h *Holder) Reconfigure(cfg *Config) error {
	if cfg == nil {
		h.p.Store(nil)
		return nil
	}
	p, err := Compile(cfg)
	if err != nil {
		return err
	}
	h.p.Store(p)
	return nil
}
