package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/inkwell-ai/inkwell/internal/render"
)

const (
	EnvWorkflowPacing      = "INKWELL_WORKFLOW_PACING"
	EnvWorkflowMaxChapters = "INKWELL_WORKFLOW_MAX_CHAPTERS"
	EnvRenderPaper         = "INKWELL_RENDER_PAPER"
	EnvRenderFont          = "INKWELL_RENDER_FONT"
	EnvRenderFontSize      = "INKWELL_RENDER_FONT_SIZE"
)

// WorkflowConfig holds auto-run pacing, chapter bounds, and PDF render
// settings. MaxChapters caps the table of contents a model may produce;
// zero disables the cap.
type WorkflowConfig struct {
	Pacing      string         `toml:"pacing"`
	MaxChapters int            `toml:"max_chapters"`
	Render      render.Options `toml:"render"`
}

// PacingDuration returns Pacing as a time.Duration.
func (c *WorkflowConfig) PacingDuration() time.Duration {
	d, _ := time.ParseDuration(c.Pacing)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *WorkflowConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *WorkflowConfig) Merge(overlay *WorkflowConfig) {
	if overlay.Pacing != "" {
		c.Pacing = overlay.Pacing
	}
	if overlay.MaxChapters != 0 {
		c.MaxChapters = overlay.MaxChapters
	}
	if overlay.Render.Paper != "" {
		c.Render.Paper = overlay.Render.Paper
	}
	if overlay.Render.Font != "" {
		c.Render.Font = overlay.Render.Font
	}
	if overlay.Render.FontSize != 0 {
		c.Render.FontSize = overlay.Render.FontSize
	}
}

func (c *WorkflowConfig) loadDefaults() {
	if c.Pacing == "" {
		c.Pacing = "1s"
	}
	if c.MaxChapters == 0 {
		c.MaxChapters = 25
	}
}

func (c *WorkflowConfig) loadEnv() {
	if v := os.Getenv(EnvWorkflowPacing); v != "" {
		c.Pacing = v
	}
	if v := os.Getenv(EnvWorkflowMaxChapters); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxChapters = n
		}
	}
	if v := os.Getenv(EnvRenderPaper); v != "" {
		c.Render.Paper = v
	}
	if v := os.Getenv(EnvRenderFont); v != "" {
		c.Render.Font = v
	}
	if v := os.Getenv(EnvRenderFontSize); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			c.Render.FontSize = size
		}
	}
}

func (c *WorkflowConfig) validate() error {
	if _, err := time.ParseDuration(c.Pacing); err != nil {
		return fmt.Errorf("invalid pacing: %w", err)
	}
	if c.MaxChapters < 0 {
		return fmt.Errorf("max_chapters cannot be negative")
	}
	return nil
}
