package barcode

import (
	"context"
	"sync"
)

// PermissionState mirrors the platform permission states.
type PermissionState string

const (
	PermissionGranted PermissionState = "granted"
	PermissionDenied  PermissionState = "denied"
	PermissionPrompt  PermissionState = "prompt"
)

// Permissions is the bridge to the platform camera permission dialog.
type Permissions interface {
	Check(ctx context.Context) (PermissionState, error)
	Request(ctx context.Context) (PermissionState, error)
}

// PromptPermissions starts in the prompt state and resolves to the answer
// configured with Answer (granted by default) on the first request.
type PromptPermissions struct {
	mu     sync.Mutex
	state  PermissionState
	answer PermissionState
}

// NewPromptPermissions creates a provider that grants on request.
func NewPromptPermissions() *PromptPermissions {
	return &PromptPermissions{state: PermissionPrompt, answer: PermissionGranted}
}

// Answer sets the state the next request resolves to.
func (p *PromptPermissions) Answer(state PermissionState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.answer = state
}

// Check implements Permissions.
func (p *PromptPermissions) Check(context.Context) (PermissionState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state, nil
}

// Request implements Permissions.
func (p *PromptPermissions) Request(context.Context) (PermissionState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == PermissionPrompt {
		p.state = p.answer
	}
	return p.state, nil
}
