// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderpass

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// PassState is the state of a Pass.
type PassState int

const (
	// PassIdle means no StartPass has happened since creation or FinishPass.
	PassIdle PassState = iota

	// PassNotStarted means StartPass succeeded and no stage is active yet.
	PassNotStarted

	// PassInStage means a stage is active.
	PassInStage

	// PassFinished means every stage ran and FinishPass succeeded.
	PassFinished
)

// String returns the string representation of PassState.
func (s PassState) String() string {
	switch s {
	case PassIdle:
		return "Idle"
	case PassNotStarted:
		return "NotStarted"
	case PassInStage:
		return "InStage"
	case PassFinished:
		return "Finished"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Attacher binds a framebuffer to the backend's native pass object.
type Attacher interface {
	AttachFramebuffer(fb *Framebuffer) error
}

// Pass is one instance of a Template. It is not safe for concurrent use.
type Pass struct {
	template *Template
	attacher Attacher
	fb       *Framebuffer
	attached bool
	clear    gputypes.Color
	index    int
	state    PassState
}

// NewPass creates a pass over t. attacher may be nil, in which case
// framebuffers are considered attached as soon as they are bound.
func NewPass(t *Template, attacher Attacher) *Pass {
	return &Pass{
		template: t,
		attacher: attacher,
		clear:    t.ClearColor(),
		index:    -1,
	}
}

// Template returns the template the pass was built from.
func (p *Pass) Template() *Template { return p.template }

// State returns the current state.
func (p *Pass) State() PassState { return p.state }

// Index returns the current stage index, -1 before the first stage.
func (p *Pass) Index() int { return p.index }

// Framebuffer returns the bound framebuffer, or nil.
func (p *Pass) Framebuffer() *Framebuffer { return p.fb }

// ClearColor returns the pass clear color.
func (p *Pass) ClearColor() gputypes.Color { return p.clear }

// SetClearColor overrides the template's default clear color.
func (p *Pass) SetClearColor(c gputypes.Color) { p.clear = c }

func (p *Pass) active() bool {
	return p.state == PassNotStarted || p.state == PassInStage
}

// BindFramebuffer binds fb for the next StartPass. fb must structurally
// match the template's framebuffer template.
func (p *Pass) BindFramebuffer(fb *Framebuffer) error {
	if fb == nil {
		return violation(ErrNoFramebuffer, "bind nil framebuffer")
	}
	if p.active() {
		return violation(ErrPassActive, "bind framebuffer %d in state %s", fb.ID, p.state)
	}
	if !p.template.Framebuffer().Matches(fb.Template) {
		return violation(ErrFramebufferMismatch, "framebuffer %d has %d attachments, template has %d",
			fb.ID, len(fb.Template.Attachments), len(p.template.Framebuffer().Attachments))
	}
	if p.fb != fb {
		p.fb = fb
		p.attached = false
	}
	return nil
}

// StartPass moves to NotStarted, attaching the bound framebuffer first if
// it is not yet attached.
func (p *Pass) StartPass() error {
	if p.active() {
		return violation(ErrPassActive, "start pass in state %s", p.state)
	}
	if p.fb == nil {
		return violation(ErrNoFramebuffer, "start pass")
	}
	if !p.attached {
		if p.attacher != nil {
			if err := p.attacher.AttachFramebuffer(p.fb); err != nil {
				return fmt.Errorf("renderpass: attach framebuffer %d: %w", p.fb.ID, err)
			}
		}
		p.attached = true
	}
	p.index = -1
	p.state = PassNotStarted
	return nil
}

// NextStage advances to the next stage and returns it.
func (p *Pass) NextStage() (Stage, error) {
	if !p.active() {
		return Stage{}, violation(ErrNotStarted, "next stage in state %s", p.state)
	}
	if p.index >= p.template.Len()-1 {
		return Stage{}, violation(ErrStageOverflow, "next stage after %d of %d", p.index+1, p.template.Len())
	}
	p.index++
	p.state = PassInStage
	return p.template.Stage(p.index), nil
}

// CurrentStage returns the active stage.
func (p *Pass) CurrentStage() (Stage, bool) {
	if p.state != PassInStage {
		return Stage{}, false
	}
	return p.template.Stage(p.index), true
}

// FinishPass ends the pass. Every stage must have been visited.
func (p *Pass) FinishPass() error {
	if !p.active() {
		return violation(ErrNotStarted, "finish pass in state %s", p.state)
	}
	if p.index != p.template.Len()-1 {
		return violation(ErrStagesRemaining, "finish pass after %d of %d stages", p.index+1, p.template.Len())
	}
	p.state = PassFinished
	return nil
}

// PreserveAttachments is reserved for keeping attachment contents across
// passes. It has no behavior yet.
func (p *Pass) PreserveAttachments() error {
	return ErrNotImplemented
}

// Reset abandons any progress and returns the pass to Idle. The bound
// framebuffer stays bound and attached.
func (p *Pass) Reset() {
	p.index = -1
	p.state = PassIdle
}
