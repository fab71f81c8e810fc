package validators

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameValidator(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want error
	}{
		{"empty", "", ErrNameEmpty},
		{"simple", "walk-policy", nil},
		{"single char", "a", nil},
		{"digits only", "42", nil},
		{"underscores", "walk_policy_v2", nil},
		{"leading hyphen", "-walk", ErrNameInvalid},
		{"leading underscore", "_walk", ErrNameInvalid},
		{"space", "walk policy", ErrNameInvalid},
		{"slash", "alice/walk", ErrNameInvalid},
		{"dot", "walk.v2", ErrNameInvalid},
		{"unicode", "wälk", ErrNameInvalid},
		{"max length", strings.Repeat("a", 255), nil},
		{"too long", strings.Repeat("a", 256), ErrNameTooLong},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, NameValidator(tc.in), tc.want)
		})
	}
}
