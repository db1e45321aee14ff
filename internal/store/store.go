// Copyright 2026 The Dupscan Authors
// SPDX-License-Identifier: MIT

// Package store provides the run-scoped index that collects fingerprinted
// blocks and constant declarations and answers the finalize-phase queries.
//
// An Index moves through three phases. While Collecting it accepts inserts
// from any number of goroutines. Seal moves it to Finalizing, after which each
// query may be issued exactly once. Close moves it to Done and releases the
// backend. No phase can be re-entered.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/davetashner/dupscan/internal/model"
)

// Lifecycle errors.
var (
	ErrNotCollecting  = errors.New("store: insert outside collecting phase")
	ErrNotFinalizing  = errors.New("store: query outside finalizing phase")
	ErrAlreadyQueried = errors.New("store: query already issued")
	ErrClosed         = errors.New("store: closed")
)

// StorageError reports an I/O failure of the backing storage. It is fatal to
// the run.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage %s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }

// Phase is the lifecycle state of an Index.
type Phase int

// Index phases.
const (
	Collecting Phase = iota
	Finalizing
	Done
)

func (p Phase) String() string {
	switch p {
	case Collecting:
		return "collecting"
	case Finalizing:
		return "finalizing"
	default:
		return "done"
	}
}

// Mode selects a storage backend.
type Mode string

// Storage modes.
const (
	Memory   Mode = "memory"
	TempFile Mode = "tempfile"
)

// ParseMode validates a storage mode name. The empty string selects Memory.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", Memory:
		return Memory, nil
	case TempFile:
		return TempFile, nil
	default:
		return "", fmt.Errorf("unknown storage mode %q (must be memory or tempfile)", s)
	}
}

// Backend is the storage behind an Index. Put methods must be safe for
// concurrent use. DuplicateBlocks returns every hash with at least min blocks.
type Backend interface {
	PutBlock(b model.CodeBlock) error
	PutConstant(d model.ConstantDeclaration) error
	Seal() error
	DuplicateBlocks(min int) (map[uint64][]model.CodeBlock, error)
	Constants() ([]model.ConstantDeclaration, error)
	Close() error
}

// Options configures Open.
type Options struct {
	Mode    Mode
	TempDir string // tempfile mode only; empty means os.TempDir()
}

// Index guards a Backend with the collect/finalize lifecycle.
type Index struct {
	mu      sync.RWMutex
	backend Backend
	phase   Phase

	queriedBlocks    bool
	queriedConstants bool

	blocks    atomic.Int64
	constants atomic.Int64
}

// Open creates a fresh Index in the Collecting phase.
func Open(opts Options) (*Index, error) {
	var (
		b   Backend
		err error
	)
	switch opts.Mode {
	case "", Memory:
		b = NewMemory()
	case TempFile:
		b, err = OpenSQLite(opts.TempDir)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown storage mode %q", opts.Mode)
	}
	slog.Debug("store opened", "mode", string(opts.Mode))
	return New(b), nil
}

// New wraps an existing backend in an Index.
func New(b Backend) *Index {
	return &Index{backend: b}
}

// Phase returns the current lifecycle phase.
func (x *Index) Phase() Phase {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.phase
}

// Counts returns how many blocks and constants have been inserted.
func (x *Index) Counts() (blocks, constants int) {
	return int(x.blocks.Load()), int(x.constants.Load())
}

// InsertBlock appends a block. Valid only while Collecting.
func (x *Index) InsertBlock(b model.CodeBlock) error {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if err := x.collecting(); err != nil {
		return err
	}
	if err := x.backend.PutBlock(b); err != nil {
		return err
	}
	x.blocks.Add(1)
	return nil
}

// InsertConstant appends a constant declaration. Valid only while Collecting.
func (x *Index) InsertConstant(d model.ConstantDeclaration) error {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if err := x.collecting(); err != nil {
		return err
	}
	if err := x.backend.PutConstant(d); err != nil {
		return err
	}
	x.constants.Add(1)
	return nil
}

func (x *Index) collecting() error {
	switch x.phase {
	case Collecting:
		return nil
	case Done:
		return ErrClosed
	default:
		return ErrNotCollecting
	}
}

// Seal ends collection and moves the index to Finalizing. It waits for
// in-flight inserts to finish.
func (x *Index) Seal() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if err := x.collecting(); err != nil {
		return err
	}
	if err := x.backend.Seal(); err != nil {
		return err
	}
	x.phase = Finalizing
	return nil
}

// QueryDuplicateBlocks returns every fingerprint shared by at least
// minOccurrences blocks. Blocks in each group are ordered by (file, start
// line). Valid once, while Finalizing.
func (x *Index) QueryDuplicateBlocks(minOccurrences int) (map[uint64][]model.CodeBlock, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if err := x.finalizing(x.queriedBlocks); err != nil {
		return nil, err
	}
	x.queriedBlocks = true
	if minOccurrences < 2 {
		minOccurrences = 2
	}
	groups, err := x.backend.DuplicateBlocks(minOccurrences)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		sortBlocks(g)
	}
	return groups, nil
}

// QueryConstants returns every inserted declaration ordered by (file, line).
// Valid once, while Finalizing.
func (x *Index) QueryConstants() ([]model.ConstantDeclaration, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if err := x.finalizing(x.queriedConstants); err != nil {
		return nil, err
	}
	x.queriedConstants = true
	decls, err := x.backend.Constants()
	if err != nil {
		return nil, err
	}
	sortConstants(decls)
	return decls, nil
}

func (x *Index) finalizing(queried bool) error {
	switch {
	case x.phase == Done:
		return ErrClosed
	case x.phase != Finalizing:
		return ErrNotFinalizing
	case queried:
		return ErrAlreadyQueried
	}
	return nil
}

// Close releases the backend and moves the index to Done. Closing twice is a
// no-op.
func (x *Index) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.phase == Done {
		return nil
	}
	x.phase = Done
	return x.backend.Close()
}
