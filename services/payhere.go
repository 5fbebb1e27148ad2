// services/payhere.go
package services

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

// PayhereStatusSuccess is the only notification status code that credits a
// wallet. PayHere also sends 0 (pending), -1 (canceled), -2 (failed) and
// -3 (chargedback); those are acknowledged without any ledger effect.
const PayhereStatusSuccess = "2"

// PayhereConfig carries the hosted-checkout gateway credentials and the URLs
// echoed back to it. It is injected into the WalletService at construction so
// tests can supply fake credentials without touching process environment.
type PayhereConfig struct {
	MerchantID     string
	MerchantSecret string
	Currency       string
	FrontendURL    string
	BackendURL     string
}

func PayhereConfigFromEnv() PayhereConfig {
	currency := os.Getenv("PAYHERE_CURRENCY")
	if currency == "" {
		currency = "LKR"
	}
	return PayhereConfig{
		MerchantID:     os.Getenv("PAYHERE_MERCHANT_ID"),
		MerchantSecret: os.Getenv("PAYHERE_SECRET"),
		Currency:       currency,
		FrontendURL:    os.Getenv("FRONTEND_URL"),
		BackendURL:     os.Getenv("BACKEND_URL"),
	}
}

// Configured reports whether the merchant credentials are present.
func (c PayhereConfig) Configured() bool {
	return c.MerchantID != "" && c.MerchantSecret != ""
}

func md5Upper(s string) string {
	sum := md5.Sum([]byte(s))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// hashedSecret is stage one of PayHere's two-stage digest: the merchant
// secret hashed on its own, uppercased.
func (c PayhereConfig) hashedSecret() string {
	return md5Upper(c.MerchantSecret)
}

// CheckoutHash computes the signature sent with a checkout redirect:
// md5(merchant_id + order_id + amount + currency + md5(secret)), uppercased.
// The amount must already be formatted to two decimals.
func (c PayhereConfig) CheckoutHash(orderID, amountFormatted string) string {
	return md5Upper(c.MerchantID + orderID + amountFormatted + c.Currency + c.hashedSecret())
}

// NotifySignature computes the expected md5sig for a server-to-server
// notification, from the callback's own fields. Unlike the checkout hash it
// also covers the status code.
func (c PayhereConfig) NotifySignature(merchantID, orderID, amount, currency, statusCode string) string {
	return md5Upper(merchantID + orderID + amount + currency + statusCode + c.hashedSecret())
}

// VerifyNotify checks the callback signature, case-insensitively. All trust
// in the unauthenticated webhook endpoint derives from this check.
func (c PayhereConfig) VerifyNotify(n PayhereNotification) bool {
	expected := c.NotifySignature(n.MerchantID, n.OrderID, n.PayhereAmount, n.PayhereCurrency, n.StatusCode)
	return strings.EqualFold(expected, n.MD5Sig)
}

// PayhereNotification is the typed webhook payload. PayHere posts it
// form-encoded; the same field names are accepted as JSON for tooling.
type PayhereNotification struct {
	MerchantID      string `form:"merchant_id" json:"merchant_id" validate:"required"`
	OrderID         string `form:"order_id" json:"order_id" validate:"required"`
	PayhereAmount   string `form:"payhere_amount" json:"payhere_amount" validate:"required"`
	PayhereCurrency string `form:"payhere_currency" json:"payhere_currency" validate:"required"`
	StatusCode      string `form:"status_code" json:"status_code" validate:"required"`
	MD5Sig          string `form:"md5sig" json:"md5sig" validate:"required"`
}

// PayhereCheckout is the redirect payload returned by deposit initiation; the
// frontend opens the hosted checkout with exactly these fields.
type PayhereCheckout struct {
	MerchantID string `json:"merchant_id"`
	ReturnURL  string `json:"return_url"`
	CancelURL  string `json:"cancel_url"`
	NotifyURL  string `json:"notify_url"`
	OrderID    string `json:"order_id"`
	Items      string `json:"items"`
	Currency   string `json:"currency"`
	Amount     string `json:"amount"`
	Hash       string `json:"hash"`
	FirstName  string `json:"first_name"`
	Email      string `json:"email"`
}

// formatAmount renders a ledger amount the way the gateway expects it: two
// decimals, no separators.
func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
