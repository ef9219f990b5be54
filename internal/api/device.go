package api

import (
	"context"
	"log/slog"
	"runtime"
)

// RegisterParams carries the caller-supplied portion of the registration
// schema. Session identity and the analytics instance id are filled in by
// Register itself.
type RegisterParams struct {
	AppVersion string
	OSVersion  string
	Locale     string
}

// Register registers this device with the hub. On success the session's vid
// and remote config are updated and the client's OnRegister callback fires
// with the decoded payload. The app-instance id is attached only when an
// analytics provider is registered; its absence degrades to a warning.
func (s DeviceService) Register(ctx context.Context, params RegisterParams) (*RegisterResponse, error) {
	body := map[string]any{
		"udid":     s.Session.DeviceID(),
		"platform": runtime.GOOS,
	}
	if params.AppVersion != "" {
		body["app_version"] = params.AppVersion
	}
	if params.OSVersion != "" {
		body["os_version"] = params.OSVersion
	}
	if params.Locale != "" {
		body["locale"] = params.Locale
	}
	if analytics, ok := s.Providers.Analytics(); ok {
		if instanceID, err := analytics.AppInstanceID(); err == nil && instanceID != "" {
			body["app_instance_id"] = instanceID
		} else if err != nil {
			slog.Warn("app instance id unavailable", "error", err)
		}
	}

	result, err := call[RegisterResponse](ctx, s.Client, DeviceRegister(body))
	if err != nil {
		return nil, err
	}

	s.Session.SetVID(result.VID)
	if result.Device != nil {
		s.Session.SetPremium(result.Device.Premium)
	}
	s.Session.SetRemoteConfig(result.RemoteConfig)
	if s.OnRegister != nil {
		s.OnRegister(result, result.RemoteConfig)
	}
	return result, nil
}

// Delete removes this device from the hub.
func (s DeviceService) Delete(ctx context.Context) (*DeleteDeviceResult, error) {
	return call[DeleteDeviceResult](ctx, s.Client, DeleteDevice())
}

// SocialLogin exchanges a social-provider token for a hub identity. The
// returned vid replaces the session's current one when present.
func (s DeviceService) SocialLogin(ctx context.Context, provider, token string) (*SocialLoginResult, error) {
	result, err := call[SocialLoginResult](ctx, s.Client, SocialLogin(provider, token))
	if err != nil {
		return nil, err
	}
	if result.VID != "" {
		s.Session.SetVID(result.VID)
	}
	s.Session.SetPremium(result.Premium)
	return result, nil
}

// ApproveQRLogin approves a QR login token scanned on another device.
func (s DeviceService) ApproveQRLogin(ctx context.Context, token string) (*QRLoginResult, error) {
	return call[QRLoginResult](ctx, s.Client, ApproveQRLogin(token))
}

// ClaimRetentionCoin claims the retention reward for this device.
func (s DeviceService) ClaimRetentionCoin(ctx context.Context) (*RetentionCoinResult, error) {
	return call[RetentionCoinResult](ctx, s.Client, ClaimRetentionCoin())
}

// SendConversionInfo reports install-attribution data to the hub. When no
// payload is supplied, the attribution provider's payload is used; with
// neither available the call no-ops.
func (s DeviceService) SendConversionInfo(ctx context.Context, payload map[string]any) (*ConversionResult, error) {
	if len(payload) == 0 {
		attribution, ok := s.Providers.Attribution()
		if !ok {
			return &ConversionResult{Status: "skipped"}, nil
		}
		payload = attribution.ConversionPayload()
		if len(payload) == 0 {
			return &ConversionResult{Status: "skipped"}, nil
		}
	}
	return call[ConversionResult](ctx, s.Client, SendConversionInfo(payload))
}
