package testkit

import (
	"strings"
	"testing"

	"docfence/internal/fence"
	"docfence/internal/source"
)

const sample = "# Title\n\n```rust\nfn main() {}\n```\n\n~~~~\nout\n~~~~text\n"

func TestCheckBlockInvariantsAcceptsScannedBlocks(t *testing.T) {
	for _, text := range []string{
		sample,
		"",
		"no fences here\n",
		"﻿```\r\nline\r\n```\r\n",
		"  ```bash title\n  ls\n  ```\n```\nunclosed\n",
	} {
		blocks := fence.Collect(text)
		if err := CheckBlockInvariants(0, text, blocks); err != nil {
			t.Errorf("text %q: %v", text, err)
		}
	}
}

func TestCheckBlockInvariantsRejects(t *testing.T) {
	blocks := fence.Collect(sample)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}

	tests := []struct {
		name   string
		mutate func(bs []fence.Block)
		want   string
	}{
		{"wrong file", func(bs []fence.Block) { bs[0].Open.File = 3 }, "belongs to file"},
		{"out of bounds", func(bs []fence.Block) { bs[1].Close.End = 1 << 20 }, "outside text"},
		{"tag text", func(bs []fence.Block) { bs[0].Tag = "go" }, "tag span reads"},
		{"body text", func(bs []fence.Block) { bs[0].Body = "" }, "body span reads"},
		{"line", func(bs []fence.Block) { bs[1].Line = 1 }, "line 1, want"},
		{"overlap", func(bs []fence.Block) { bs[1] = bs[0] }, "overlaps previous"},
		{"marker", func(bs []fence.Block) { bs[1].Marker = "```" }, "does not start with marker"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bs := append([]fence.Block(nil), blocks...)
			tt.mutate(bs)
			err := CheckBlockInvariants(source.FileID(0), sample, bs)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
