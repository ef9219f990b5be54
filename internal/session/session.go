// Package session holds mutable per-process hub session state: the device
// identity, the server-assigned visitor id, entitlement flags, and the
// server-controlled remote-config bag. All fields may be read and written
// from arbitrary goroutines and are guarded by a single RWMutex.
package session

import "sync"

// State is the shared hub session state for the process.
type State struct {
	mu           sync.RWMutex
	hubID        string
	deviceID     string
	vid          string
	premium      bool
	online       bool
	remoteConfig RemoteConfig
}

// New creates session state for the given hub tenant and device identity.
func New(hubID, deviceID string) *State {
	return &State{
		hubID:    hubID,
		deviceID: deviceID,
		online:   true,
	}
}

// HubID returns the tenant identifier sent as X-Hub-Id.
func (s *State) HubID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hubID
}

// DeviceID returns the stable device identifier sent as X-Hub-Device-Id.
func (s *State) DeviceID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deviceID
}

// SetDeviceID replaces the device identifier.
func (s *State) SetDeviceID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deviceID = id
}

// VID returns the server-assigned visitor id, empty until registration.
func (s *State) VID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vid
}

// SetVID records the server-assigned visitor id.
func (s *State) SetVID(vid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vid = vid
}

// Premium reports whether the device currently holds a premium entitlement.
func (s *State) Premium() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.premium
}

// SetPremium records the premium entitlement flag.
func (s *State) SetPremium(premium bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.premium = premium
}

// Online reports the last known connectivity state.
func (s *State) Online() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.online
}

// SetOnline records the connectivity state.
func (s *State) SetOnline(online bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.online = online
}

// RemoteConfig returns the current remote-config bag. The returned map is a
// copy; mutating it does not affect the session.
func (s *State) RemoteConfig() RemoteConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remoteConfig.clone()
}

// SetRemoteConfig replaces the remote-config bag.
func (s *State) SetRemoteConfig(rc RemoteConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remoteConfig = rc.clone()
}
