package domain

type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

type ChatTurn struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}

// StylistPrompt is one request to the generative stylist. Image is optional
// inline image data and requires ImageMIME.
type StylistPrompt struct {
	System    string
	History   []ChatTurn
	Message   string
	Image     []byte
	ImageMIME string
}
