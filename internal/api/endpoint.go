package api

import (
	"fmt"
	"net/http"
)

// Encoding selects how request parameters are serialized.
type Encoding int

const (
	// EncodeJSON serializes body parameters as a JSON object body.
	EncodeJSON Encoding = iota
	// EncodeURL serializes parameters into the URL query string; no body.
	EncodeURL
)

// Operation names one backend call.
type Operation string

const (
	OpDeviceRegister     Operation = "device.register"
	OpValidatePurchase   Operation = "purchase.validate"
	OpUsePromoCode       Operation = "promo.use"
	OpSocialLogin        Operation = "device.social-login"
	OpGetProducts        Operation = "products.list"
	OpSendConversionInfo Operation = "device.conversion"
	OpGetTickets         Operation = "tickets.list"
	OpCreateTicket       Operation = "tickets.create"
	OpGetTicketMessages  Operation = "tickets.messages"
	OpCreateMessage      Operation = "tickets.send"
	OpApproveQRLogin     Operation = "device.qr-approve"
	OpDeleteDevice       Operation = "device.delete"
	OpTicketsUnseen      Operation = "tickets.unseen"
	OpClaimRetentionCoin Operation = "device.retention-claim"
	OpGetAppStoreVersion Operation = "appstore.version"
	OpAfterPurchaseCheck Operation = "purchase.after-check"
)

// route is the static description of one operation: path template, verb,
// parameter encoding, and whether the host is external to the hub (external
// endpoints get no hub identity headers).
type route struct {
	path     string // may contain one %s for a dynamic segment
	method   string
	encoding Encoding
	external bool
}

// appStoreBaseURL hosts the store version lookup. The only non-hub endpoint.
const appStoreBaseURL = "https://itunes.apple.com"

var routes = map[Operation]route{
	OpDeviceRegister:     {path: "device/register", method: http.MethodPost, encoding: EncodeJSON},
	OpValidatePurchase:   {path: "rc/validate", method: http.MethodPost, encoding: EncodeJSON},
	OpUsePromoCode:       {path: "promo-codes/use", method: http.MethodPost, encoding: EncodeJSON},
	OpSocialLogin:        {path: "device/social-login", method: http.MethodPost, encoding: EncodeJSON},
	OpGetProducts:        {path: "product/app", method: http.MethodGet, encoding: EncodeURL},
	OpSendConversionInfo: {path: "device/conversion", method: http.MethodPost, encoding: EncodeJSON},
	OpGetTickets:         {path: "support/tickets", method: http.MethodGet, encoding: EncodeURL},
	OpCreateTicket:       {path: "support/tickets", method: http.MethodPost, encoding: EncodeJSON},
	OpGetTicketMessages:  {path: "support/tickets/%s", method: http.MethodGet, encoding: EncodeURL},
	OpCreateMessage:      {path: "support/tickets/%s/messages", method: http.MethodPost, encoding: EncodeJSON},
	OpApproveQRLogin:     {path: "device/qr-login/approve", method: http.MethodPost, encoding: EncodeJSON},
	OpDeleteDevice:       {path: "device", method: http.MethodDelete, encoding: EncodeURL},
	OpTicketsUnseen:      {path: "support/unseen", method: http.MethodGet, encoding: EncodeURL},
	OpClaimRetentionCoin: {path: "device/retention/claim", method: http.MethodPost, encoding: EncodeJSON},
	OpGetAppStoreVersion: {path: "lookup", method: http.MethodGet, encoding: EncodeURL, external: true},
	OpAfterPurchaseCheck: {path: "device/after-purchase", method: http.MethodPost, encoding: EncodeJSON},
}

// Endpoint is an immutable description of one request: the operation plus its
// call-time arguments. Base URL, path, verb, and encoding all derive from the
// route table; identity headers are resolved by the client at build time so
// they reflect current session state.
type Endpoint struct {
	op       Operation
	pathArgs []string
	body     map[string]any
	query    map[string]string
	headers  map[string]string
}

// Operation returns the operation identifier.
func (e Endpoint) Operation() Operation { return e.op }

// Method returns the HTTP verb from the route table.
func (e Endpoint) Method() string { return routes[e.op].method }

// Path expands the route's path template with the endpoint's dynamic segments.
func (e Endpoint) Path() string {
	tmpl := routes[e.op].path
	if len(e.pathArgs) == 0 {
		return tmpl
	}
	args := make([]any, len(e.pathArgs))
	for i, a := range e.pathArgs {
		args[i] = a
	}
	return fmt.Sprintf(tmpl, args...)
}

// Encoding returns the parameter encoding from the route table.
func (e Endpoint) Encoding() Encoding { return routes[e.op].encoding }

// External reports whether the endpoint targets a non-hub host.
func (e Endpoint) External() bool { return routes[e.op].external }

// DeviceRegister describes the device-registration call. The body schema is
// assembled by the device service from session state and providers.
func DeviceRegister(body map[string]any) Endpoint {
	return Endpoint{op: OpDeviceRegister, body: body}
}

// ValidatePurchase describes a purchase-validation call.
func ValidatePurchase(transactionID string) Endpoint {
	return Endpoint{op: OpValidatePurchase, body: map[string]any{"transaction_id": transactionID}}
}

// UsePromoCode describes a promo-code redemption call.
func UsePromoCode(code string) Endpoint {
	return Endpoint{op: OpUsePromoCode, body: map[string]any{"code": code}}
}

// SocialLogin describes a social-login call.
func SocialLogin(provider, token string) Endpoint {
	return Endpoint{op: OpSocialLogin, body: map[string]any{"provider": provider, "token": token}}
}

// GetProducts describes the product-listing call.
func GetProducts() Endpoint {
	return Endpoint{op: OpGetProducts}
}

// SendConversionInfo describes the attribution-conversion report call.
func SendConversionInfo(payload map[string]any) Endpoint {
	return Endpoint{op: OpSendConversionInfo, body: payload}
}

// GetTickets describes the support-ticket listing call.
func GetTickets() Endpoint {
	return Endpoint{op: OpGetTickets}
}

// CreateTicket describes a support-ticket creation call.
func CreateTicket(category, message string) Endpoint {
	return Endpoint{op: OpCreateTicket, body: map[string]any{"category": category, "message": message}}
}

// GetTicketMessages describes the message listing for one ticket.
func GetTicketMessages(ticketID string) Endpoint {
	return Endpoint{op: OpGetTicketMessages, pathArgs: []string{ticketID}}
}

// CreateMessage describes posting a message to one ticket.
func CreateMessage(ticketID, message string) Endpoint {
	return Endpoint{op: OpCreateMessage, pathArgs: []string{ticketID}, body: map[string]any{"message": message}}
}

// ApproveQRLogin describes approving a QR login token.
func ApproveQRLogin(token string) Endpoint {
	return Endpoint{op: OpApproveQRLogin, body: map[string]any{"token": token}}
}

// DeleteDevice describes the device deletion call.
func DeleteDevice() Endpoint {
	return Endpoint{op: OpDeleteDevice}
}

// GetTicketsUnseenStatus describes the unseen-ticket status call.
func GetTicketsUnseenStatus() Endpoint {
	return Endpoint{op: OpTicketsUnseen}
}

// ClaimRetentionCoin describes the retention-coin claim call.
func ClaimRetentionCoin() Endpoint {
	return Endpoint{op: OpClaimRetentionCoin}
}

// GetAppStoreVersion describes the external store version lookup for an app
// bundle. No hub identity headers are sent.
func GetAppStoreVersion(bundleID string) Endpoint {
	return Endpoint{op: OpGetAppStoreVersion, query: map[string]string{"bundleId": bundleID}}
}

// AfterPurchaseCheck describes the post-purchase verification call.
func AfterPurchaseCheck(transactionID, productID string) Endpoint {
	return Endpoint{op: OpAfterPurchaseCheck, body: map[string]any{
		"transaction_id": transactionID,
		"product_id":     productID,
	}}
}
