package entity

// VocationalChatInput is the structured input of the guidance prompt.
type VocationalChatInput struct {
	Message   string   `json:"message" validate:"required,max=2000"`
	Interests []string `json:"interests,omitempty" validate:"max=20"`
	Grade     string   `json:"grade,omitempty" validate:"max=64"`
	Previous  string   `json:"previous,omitempty" validate:"max=4000"`
}

type VocationalChatOutput struct {
	Response string `json:"response"`
	Fallback bool   `json:"fallback,omitempty"`
}
