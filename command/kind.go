// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package command

// Kind identifies the type of a command.
type Kind uint8

const (
	KindNop             Kind = iota // Placeholder left by optimizers
	KindClear                       // Clear the color attachment
	KindBeginRenderPass             // Begin a native render pass
	KindBindPipeline                // Bind a cached pipeline for a stage
	KindDraw                        // Draw instances of a mesh
	KindDrawOverlay                 // Draw overlay text
	KindEndRenderPass               // End the native render pass
)

var kindNames = [...]string{
	KindNop:             "Nop",
	KindClear:           "Clear",
	KindBeginRenderPass: "BeginRenderPass",
	KindBindPipeline:    "BindPipeline",
	KindDraw:            "Draw",
	KindDrawOverlay:     "DrawOverlay",
	KindEndRenderPass:   "EndRenderPass",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}
