//go:build !debug

package engine

const panicOnInvariant = false
