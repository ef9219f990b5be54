package providers

// Narrow per-capability interfaces. The core depends only on these; concrete
// vendor adapters live in the consuming application and are linked (or not)
// at build time.

// AnalyticsProvider exposes the analytics SDK surface the core needs.
type AnalyticsProvider interface {
	// AppInstanceID returns the analytics SDK's per-install identifier,
	// available synchronously after SDK init.
	AppInstanceID() (string, error)
	// Track records a named event with optional parameters. Fire and forget.
	Track(event string, params map[string]any)
}

// PurchaseProvider exposes the purchase/subscription SDK surface.
type PurchaseProvider interface {
	// ReceiptToken returns the current store receipt token for validation.
	ReceiptToken() (string, error)
}

// AttributionProvider exposes the install-attribution SDK surface.
type AttributionProvider interface {
	// ConversionPayload returns the attribution data reported to the hub.
	ConversionPayload() map[string]any
}

// CrashReporter exposes the crash-reporting SDK surface.
type CrashReporter interface {
	// Notify records a non-fatal error. Fire and forget.
	Notify(err error)
}

// PushProvider exposes the push-notification SDK surface.
type PushProvider interface {
	// DeviceToken returns the current push token, empty when unavailable.
	DeviceToken() (string, error)
}
