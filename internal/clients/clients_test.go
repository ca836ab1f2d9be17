package clients

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"storefront_service/internal/domain"
)

func TestPaymentVerifier(t *testing.T) {
	v := NewPaymentVerifier("s3cret")
	require.True(t, v.Enabled())

	sig := SignPayment("s3cret", "order_rcpt_1", "pay_123")
	assert.True(t, v.Verify("order_rcpt_1", "pay_123", sig))
	assert.False(t, v.Verify("order_rcpt_1", "pay_124", sig))
	assert.False(t, v.Verify("order_rcpt_1", "pay_123", "deadbeef"))
}

func TestPaymentVerifierDisabledAcceptsAnything(t *testing.T) {
	v := NewPaymentVerifier("")
	assert.False(t, v.Enabled())
	assert.True(t, v.Verify("r", "p", ""))
}

func TestBuildContentsOrdersHistoryAndImage(t *testing.T) {
	contents := BuildContents(domain.StylistPrompt{
		History: []domain.ChatTurn{
			{Role: domain.ChatRoleUser, Text: "I need a saree for a wedding"},
			{Role: domain.ChatRoleModel, Text: "Banarasi silk would suit."},
			{Role: domain.ChatRoleUser, Text: "   "},
		},
		Message:   "Does this blouse match?",
		Image:     []byte{0xff, 0xd8, 0xff},
		ImageMIME: "image/jpeg",
	})

	require.Len(t, contents, 3)
	assert.EqualValues(t, genai.RoleUser, contents[0].Role)
	assert.EqualValues(t, genai.RoleModel, contents[1].Role)

	last := contents[2]
	assert.EqualValues(t, genai.RoleUser, last.Role)
	require.Len(t, last.Parts, 2)
	assert.Equal(t, "Does this blouse match?", last.Parts[0].Text)
	require.NotNil(t, last.Parts[1].InlineData)
	assert.Equal(t, "image/jpeg", last.Parts[1].InlineData.MIMEType)
}
