// Copyright 2026 The Dupscan Authors
// SPDX-License-Identifier: MIT

package store

import (
	"sort"
	"sync"

	"github.com/davetashner/dupscan/internal/model"
)

// MemoryBackend keeps blocks in a map keyed by fingerprint.
type MemoryBackend struct {
	mu        sync.RWMutex
	byHash    map[uint64][]model.CodeBlock
	constants []model.ConstantDeclaration
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *MemoryBackend {
	return &MemoryBackend{byHash: make(map[uint64][]model.CodeBlock)}
}

// PutBlock implements Backend.
func (m *MemoryBackend) PutBlock(b model.CodeBlock) error {
	m.mu.Lock()
	m.byHash[b.Hash] = append(m.byHash[b.Hash], b)
	m.mu.Unlock()
	return nil
}

// PutConstant implements Backend.
func (m *MemoryBackend) PutConstant(d model.ConstantDeclaration) error {
	m.mu.Lock()
	m.constants = append(m.constants, d)
	m.mu.Unlock()
	return nil
}

// Seal implements Backend.
func (m *MemoryBackend) Seal() error { return nil }

// DuplicateBlocks implements Backend.
func (m *MemoryBackend) DuplicateBlocks(min int) (map[uint64][]model.CodeBlock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[uint64][]model.CodeBlock)
	for h, bs := range m.byHash {
		if len(bs) >= min {
			out[h] = append([]model.CodeBlock(nil), bs...)
		}
	}
	return out, nil
}

// Constants implements Backend.
func (m *MemoryBackend) Constants() ([]model.ConstantDeclaration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.ConstantDeclaration(nil), m.constants...), nil
}

// Close implements Backend.
func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	m.byHash = nil
	m.constants = nil
	m.mu.Unlock()
	return nil
}

func sortBlocks(bs []model.CodeBlock) {
	sort.SliceStable(bs, func(i, j int) bool {
		a, b := bs[i], bs[j]
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		if a.StartLine != b.StartLine {
			return a.StartLine < b.StartLine
		}
		return a.Window < b.Window
	})
}

func sortConstants(ds []model.ConstantDeclaration) {
	sort.SliceStable(ds, func(i, j int) bool {
		a, b := ds[i], ds[j]
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Name < b.Name
	})
}
