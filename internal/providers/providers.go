// Package providers holds the capability registry that decouples feature code
// from concrete vendor SDK adapters. Each capability has at most one
// implementation, registered during app startup and read-only afterwards.
// Feature code must treat an absent capability as "unavailable" and degrade
// gracefully rather than fail.
package providers

import (
	"fmt"
	"log/slog"
	"sync"
)

// Capability names one optional vendor integration slot.
type Capability string

const (
	CapabilityPurchase      Capability = "purchase"
	CapabilityAnalytics     Capability = "analytics"
	CapabilityAttribution   Capability = "attribution"
	CapabilityFirebase      Capability = "firebase"
	CapabilityCrashReporter Capability = "crash-reporting"
	CapabilityPush          Capability = "push"
	CapabilityFacebook      Capability = "facebook"
	CapabilityBanner        Capability = "banner"
	CapabilitySocialSignIn  Capability = "social-sign-in"
	CapabilityImageCaching  Capability = "image-caching"
	CapabilityAnimation     Capability = "animation"
)

// Registry maps capabilities to adapter implementations. It has a two-phase
// lifecycle: Register during startup, then Freeze. After Freeze all writes
// fail and reads are lock-free safe.
type Registry struct {
	mu     sync.RWMutex
	frozen bool
	slots  map[Capability]any
}

// NewRegistry returns an empty, unfrozen registry.
func NewRegistry() *Registry {
	return &Registry{slots: make(map[Capability]any)}
}

// Register assigns the implementation for a capability. Each slot may be
// assigned exactly once, and only before Freeze.
func (r *Registry) Register(cap Capability, impl any) error {
	if impl == nil {
		return fmt.Errorf("provider for %q is nil", cap)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("registry is frozen: cannot register %q after startup", cap)
	}
	if _, exists := r.slots[cap]; exists {
		return fmt.Errorf("provider for %q already registered", cap)
	}
	r.slots[cap] = impl
	return nil
}

// Freeze closes the registration phase. Idempotent.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Frozen reports whether the registration phase has ended.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Lookup returns the raw implementation for a capability, if registered.
func (r *Registry) Lookup(cap Capability) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	impl, ok := r.slots[cap]
	return impl, ok
}

// warnUnavailable logs the uniform degradation message for an absent slot.
func warnUnavailable(cap Capability) {
	slog.Warn("capability not available", "capability", string(cap))
}

// Analytics returns the analytics provider, or (nil, false) with a warning
// when the slot is empty or holds the wrong type.
func (r *Registry) Analytics() (AnalyticsProvider, bool) {
	impl, ok := r.Lookup(CapabilityAnalytics)
	if !ok {
		warnUnavailable(CapabilityAnalytics)
		return nil, false
	}
	p, ok := impl.(AnalyticsProvider)
	if !ok {
		warnUnavailable(CapabilityAnalytics)
		return nil, false
	}
	return p, true
}

// Purchase returns the purchase provider, if registered.
func (r *Registry) Purchase() (PurchaseProvider, bool) {
	impl, ok := r.Lookup(CapabilityPurchase)
	if !ok {
		warnUnavailable(CapabilityPurchase)
		return nil, false
	}
	p, ok := impl.(PurchaseProvider)
	if !ok {
		warnUnavailable(CapabilityPurchase)
		return nil, false
	}
	return p, true
}

// Attribution returns the attribution provider, if registered.
func (r *Registry) Attribution() (AttributionProvider, bool) {
	impl, ok := r.Lookup(CapabilityAttribution)
	if !ok {
		warnUnavailable(CapabilityAttribution)
		return nil, false
	}
	p, ok := impl.(AttributionProvider)
	if !ok {
		warnUnavailable(CapabilityAttribution)
		return nil, false
	}
	return p, true
}

// CrashReporter returns the crash reporter, if registered.
func (r *Registry) CrashReporter() (CrashReporter, bool) {
	impl, ok := r.Lookup(CapabilityCrashReporter)
	if !ok {
		warnUnavailable(CapabilityCrashReporter)
		return nil, false
	}
	p, ok := impl.(CrashReporter)
	if !ok {
		warnUnavailable(CapabilityCrashReporter)
		return nil, false
	}
	return p, true
}

// Push returns the push provider, if registered.
func (r *Registry) Push() (PushProvider, bool) {
	impl, ok := r.Lookup(CapabilityPush)
	if !ok {
		warnUnavailable(CapabilityPush)
		return nil, false
	}
	p, ok := impl.(PushProvider)
	if !ok {
		warnUnavailable(CapabilityPush)
		return nil, false
	}
	return p, true
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide registry, created on first use.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}
