package clients

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// PaymentVerifier checks the signature a hosted payment widget returns with
// a successful payment.
type PaymentVerifier interface {
	Enabled() bool
	Verify(reference, paymentID, signature string) bool
}

type hmacPaymentVerifier struct {
	secret []byte
}

// NewPaymentVerifier returns a verifier keyed by secret. With an empty
// secret signatures are not checked.
func NewPaymentVerifier(secret string) PaymentVerifier {
	return &hmacPaymentVerifier{secret: []byte(secret)}
}

func (v *hmacPaymentVerifier) Enabled() bool {
	return len(v.secret) > 0
}

// SignPayment is the gateway's signature: hex HMAC-SHA256 of
// "reference|paymentID".
func SignPayment(secret, reference, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(reference + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (v *hmacPaymentVerifier) Verify(reference, paymentID, signature string) bool {
	if !v.Enabled() {
		return true
	}
	expected := SignPayment(string(v.secret), reference, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
