package elevenlabs

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	payload := []byte(`{"conversation_id":"conv_1"}`)
	secret := "whsec_test"
	good := sign(secret, payload)

	if !VerifyWebhookSignature(secret, payload, good) {
		t.Error("valid signature rejected")
	}
	if !VerifyWebhookSignature(secret, payload, "sha256="+good) {
		t.Error("prefixed signature rejected")
	}
	if VerifyWebhookSignature(secret, payload, sign(secret, []byte("tampered"))) {
		t.Error("tampered payload accepted")
	}
	if VerifyWebhookSignature(secret, payload, "") {
		t.Error("empty signature accepted")
	}
	if VerifyWebhookSignature("", payload, good) {
		t.Error("empty secret accepted")
	}
	if VerifyWebhookSignature("other-secret", payload, good) {
		t.Error("wrong secret accepted")
	}
}
