package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testPayhereConfig() PayhereConfig {
	return PayhereConfig{
		MerchantID:     "1221149",
		MerchantSecret: "testsecret",
		Currency:       "LKR",
		FrontendURL:    "http://localhost:3000",
		BackendURL:     "http://localhost:5100",
	}
}

func TestCheckoutHash(t *testing.T) {
	cfg := testPayhereConfig()

	// md5("testsecret") = 217df19d942a4a990ebeed63a983292f, uppercased, then
	// md5("1221149" + "ORDER_1700000000000" + "100.00" + "LKR" + that).
	hash := cfg.CheckoutHash("ORDER_1700000000000", "100.00")
	assert.Equal(t, "6A6142670E7995907C5ED2493773EE59", hash)
}

func TestNotifySignature(t *testing.T) {
	cfg := testPayhereConfig()

	sig := cfg.NotifySignature("1221149", "ORDER_1700000000000", "100.00", "LKR", "2")
	assert.Equal(t, "96B2AB4C26C553652CD7710087A9FD43", sig)

	// The status code is part of the digest, so a different outcome for the
	// same order signs differently.
	canceled := cfg.NotifySignature("1221149", "ORDER_1700000000000", "100.00", "LKR", "-1")
	assert.Equal(t, "437DC776864DABBD52E9C43E597F06F5", canceled)
	assert.NotEqual(t, sig, canceled)
}

func TestVerifyNotify(t *testing.T) {
	cfg := testPayhereConfig()

	n := PayhereNotification{
		MerchantID:      "1221149",
		OrderID:         "ORDER_1700000000000",
		PayhereAmount:   "100.00",
		PayhereCurrency: "LKR",
		StatusCode:      "2",
		MD5Sig:          "96B2AB4C26C553652CD7710087A9FD43",
	}
	assert.True(t, cfg.VerifyNotify(n))

	// Case-insensitive comparison: gateways are not consistent about casing.
	n.MD5Sig = "96b2ab4c26c553652cd7710087a9fd43"
	assert.True(t, cfg.VerifyNotify(n))

	// Any covered field change invalidates the signature.
	tampered := n
	tampered.PayhereAmount = "999.99"
	assert.False(t, cfg.VerifyNotify(tampered))

	forged := n
	forged.MD5Sig = "0000000000000000000000000000000A"
	assert.False(t, cfg.VerifyNotify(forged))
}

func TestConfigured(t *testing.T) {
	assert.True(t, testPayhereConfig().Configured())
	assert.False(t, PayhereConfig{MerchantID: "1221149"}.Configured())
	assert.False(t, PayhereConfig{MerchantSecret: "testsecret"}.Configured())
	assert.False(t, PayhereConfig{}.Configured())
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "100.00", formatAmount(100))
	assert.Equal(t, "100.50", formatAmount(100.5))
	assert.Equal(t, "0.10", formatAmount(0.1))
	assert.Equal(t, "1234.57", formatAmount(1234.567))
}
