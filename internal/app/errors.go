package app

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrUsernameExists       = errors.New("username already exists")
	ErrEmailExists          = errors.New("email already exists")
	ErrInvalidCredential    = errors.New("invalid username or password")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageEmpty         = errors.New("message content is empty")
	ErrFileNotFound         = errors.New("file not found")
	ErrFileTooLarge         = errors.New("file too large")
	ErrContentNotFound      = errors.New("content not found")
	ErrPromptEmpty          = errors.New("prompt is required")
)
