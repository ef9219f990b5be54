package api

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/vxhub/vxhub-cli/internal/session"
)

// FlexInt handles JSON numbers that may come as strings or integers
type FlexInt int

func (fi *FlexInt) UnmarshalJSON(data []byte) error {
	// Try as int first
	var i int
	if err := json.Unmarshal(data, &i); err == nil {
		*fi = FlexInt(i)
		return nil
	}
	// Try as string
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*fi = 0
			return nil
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*fi = FlexInt(i)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into FlexInt", data)
}

// FlexFloat handles JSON numbers that may come as strings or numbers
type FlexFloat float64

func (ff *FlexFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*ff = FlexFloat(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*ff = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*ff = FlexFloat(f)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into FlexFloat", data)
}

// Device is the hub's view of a registered device.
type Device struct {
	UDID       string `json:"udid"`
	AppVersion string `json:"app_version,omitempty"`
	OSVersion  string `json:"os_version,omitempty"`
	Locale     string `json:"locale,omitempty"`
	Premium    bool   `json:"premium,omitempty"`
	CreatedAt  int64  `json:"created_at,omitempty"`
}

// DeviceConfig is the typed per-device configuration returned on registration.
type DeviceConfig struct {
	BannerEnabled  bool   `json:"banner_enabled,omitempty"`
	SupportEnabled bool   `json:"support_enabled,omitempty"`
	ForceUpdate    bool   `json:"force_update,omitempty"`
	StoreVersion   string `json:"store_version,omitempty"`
}

// RegisterResponse is the device-registration success payload. RemoteConfig
// is decoded once alongside the typed fields; its key set is server-defined.
type RegisterResponse struct {
	Status       string               `json:"status"`
	VID          string               `json:"vid"`
	Device       *Device              `json:"device,omitempty"`
	Config       *DeviceConfig        `json:"config,omitempty"`
	RemoteConfig session.RemoteConfig `json:"remote_config,omitempty"`
}

// PurchaseValidation is the rc/validate success payload.
type PurchaseValidation struct {
	Status    string `json:"status"`
	Premium   bool   `json:"premium"`
	ProductID string `json:"product_id,omitempty"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}

// AfterPurchaseResult is the device/after-purchase success payload.
type AfterPurchaseResult struct {
	Status  string `json:"status"`
	Granted bool   `json:"granted"`
}

// PromoCodeResult is the promo-codes/use success payload.
type PromoCodeResult struct {
	Status     string `json:"status"`
	Premium    bool   `json:"premium,omitempty"`
	ExtraCoins int    `json:"extra_coins,omitempty"`
}

// SocialLoginResult is the device/social-login success payload.
type SocialLoginResult struct {
	Status  string `json:"status"`
	VID     string `json:"vid,omitempty"`
	Premium bool   `json:"premium,omitempty"`
}

// QRLoginResult is the device/qr-login/approve success payload.
type QRLoginResult struct {
	Status string `json:"status"`
}

// ConversionResult is the device/conversion success payload.
type ConversionResult struct {
	Status string `json:"status"`
}

// RetentionCoinResult is the device/retention/claim success payload.
type RetentionCoinResult struct {
	Status string `json:"status"`
	Coins  int    `json:"coins,omitempty"`
}

// DeleteDeviceResult is the DELETE device success payload.
type DeleteDeviceResult struct {
	Status string `json:"status"`
}

// Product is one purchasable item from product/app.
type Product struct {
	SKU      string    `json:"sku"`
	Name     string    `json:"name"`
	Price    FlexFloat `json:"price"`
	Currency string    `json:"currency,omitempty"`
	Period   string    `json:"period,omitempty"`
}

// ProductList is the product/app success payload.
type ProductList struct {
	Status   string    `json:"status"`
	Products []Product `json:"products"`
}

// Ticket is one support ticket.
type Ticket struct {
	ID          FlexInt `json:"id"`
	Category    string  `json:"category"`
	Status      string  `json:"status,omitempty"`
	LastMessage string  `json:"last_message,omitempty"`
	Unseen      bool    `json:"unseen,omitempty"`
	CreatedAt   int64   `json:"created_at,omitempty"`
}

// TicketList is the support/tickets listing payload.
type TicketList struct {
	Status  string   `json:"status"`
	Tickets []Ticket `json:"tickets"`
}

// TicketMessage is one message on a ticket.
type TicketMessage struct {
	ID         FlexInt `json:"id"`
	Message    string  `json:"message"`
	FromDevice bool    `json:"from_device"`
	CreatedAt  int64   `json:"created_at,omitempty"`
}

// TicketMessages is the per-ticket message listing payload.
type TicketMessages struct {
	Status   string          `json:"status"`
	Ticket   *Ticket         `json:"ticket,omitempty"`
	Messages []TicketMessage `json:"messages"`
}

// TicketCreateResult is the ticket-creation payload.
type TicketCreateResult struct {
	Status string  `json:"status"`
	Ticket *Ticket `json:"ticket,omitempty"`
}

// MessageResult is the message-creation payload.
type MessageResult struct {
	Status  string         `json:"status"`
	Message *TicketMessage `json:"message,omitempty"`
}

// UnseenStatus is the support/unseen payload.
type UnseenStatus struct {
	Status string `json:"status"`
	Unseen bool   `json:"unseen"`
	Count  int    `json:"count,omitempty"`
}

// AppStoreLookup is the external store lookup payload. Field names follow the
// store's camelCase wire format.
type AppStoreLookup struct {
	ResultCount int           `json:"resultCount"`
	Results     []AppStoreApp `json:"results"`
}

// AppStoreApp is one store listing entry.
type AppStoreApp struct {
	BundleID     string `json:"bundleId"`
	TrackName    string `json:"trackName,omitempty"`
	Version      string `json:"version"`
	TrackViewURL string `json:"trackViewUrl,omitempty"`
}
