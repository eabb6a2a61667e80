// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package internal holds helpers shared by the emulator packages.
package internal

import (
	"cmp"
	"iter"
	"maps"
	"slices"
)

// Concat2 concatenates key/value sequences into a single sequence.
func Concat2[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			for key, value := range seq {
				if !yield(key, value) {
					return
				}
			}
		}
	}
}

// Sorted2 yields the pairs of seq in key order.
// When a key repeats, the last value seen wins.
func Sorted2[K cmp.Ordered, V any](seq iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		collected := maps.Collect(seq)
		for _, key := range slices.Sorted(maps.Keys(collected)) {
			if !yield(key, collected[key]) {
				return
			}
		}
	}
}
