package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSameImage(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		same bool
	}{
		{"identical", "app/main:v1", "app/main:v1", true},
		{"default tag", "app/main", "app/main:latest", true},
		{"registry stripped", "registry2.example.com/app/main:v1", "app/main:v1", true},
		{"localhost registry", "localhost:5000/app/main:v1", "app/main:v1", true},
		{"digest ignored for repo match", "app/main:v1@sha256:abc123", "app/main:v1", true},
		{"digest cross match", "app/main@sha256:abc123", "other/name@sha256:abc123", true},
		{"different tag", "app/main:v1", "app/main:v2", false},
		{"different repo", "app/main:v1", "app/other:v1", false},
		{"empty", "", "app/main:v1", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.same, IsSameImage(tc.a, tc.b))
			assert.Equal(t, tc.same, IsSameImage(tc.b, tc.a), "symmetry")
		})
	}
}
