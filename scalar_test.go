package vram_planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGigaBytesScalarRound2(t *testing.T) {
	cases := []struct {
		given    GigaBytesScalar
		expected float64
	}{
		{13.038516044616699, 13.04},
		{2.60770320892334, 2.61},
		{16, 16},
		{0.005, 0.01},
		{0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.given.String(), func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.given.Round2())
		})
	}
}

func TestGigaBytesScalarString(t *testing.T) {
	cases := []struct {
		given    GigaBytesScalar
		expected string
	}{
		{13.038516044616699, "13.04 GiB"},
		{16, "16 GiB"},
		{0.5, "0.50 GiB"},
		{0, "0 GiB"},
		{-1, "0 GiB"},
	}
	for _, tc := range cases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.given.String())
		})
	}
}
