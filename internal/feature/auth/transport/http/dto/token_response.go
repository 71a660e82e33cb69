package dto

// TokenRes is the body of a successful /login.
type TokenRes struct {
	Token string `json:"token"`
}

// MessageRes is a plain acknowledgement body.
type MessageRes struct {
	Message string `json:"message"`
}
