// Copyright 2026 The Dupscan Authors
// SPDX-License-Identifier: MIT

// Package progress draws the file-collection progress bar on stderr.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Tracker wraps a progress bar for file collection. A nil *Tracker is a
// no-op, so callers need not check whether progress is enabled.
type Tracker struct {
	bar   *progressbar.ProgressBar
	w     io.Writer
	label string
}

// New creates a bar on stderr with the given label and total count.
func New(label string, total int) *Tracker {
	return NewWithWriter(os.Stderr, label, total)
}

// NewWithWriter creates a bar that draws to w.
func NewWithWriter(w io.Writer, label string, total int) *Tracker {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(label),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Tracker{bar: bar, w: w, label: label}
}

// Tick advances the bar by one file. Safe for concurrent use.
func (t *Tracker) Tick() {
	if t == nil {
		return
	}
	_ = t.bar.Add(1)
}

// Done is Tick with the signature engine.Run expects for its callback.
func (t *Tracker) Done(string) { t.Tick() }

// Finish clears the bar.
func (t *Tracker) Finish() {
	if t == nil {
		return
	}
	_ = t.bar.Finish()
	_ = t.bar.Clear()
}

// Fail clears the bar and prints err after the label.
func (t *Tracker) Fail(err error) {
	if t == nil {
		return
	}
	t.Finish()
	fmt.Fprintf(t.w, "  %s error: %v\n", t.label, err)
}
