package entity

import "errors"

// Domain errors
var (
	// Conversation errors
	ErrNoConversation   = errors.New("no active conversation")
	ErrConversationBusy = errors.New("conversation is processing an analysis")

	// Engine errors
	ErrEmptyEngineResult = errors.New("generation engine returned no result")

	// Storage errors
	ErrStorageUnavailable = errors.New("analysis storage is not available")
	ErrAnalysisNotFound   = errors.New("analysis not found")

	// Validation errors
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)
