package tuntap

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCopyIfname(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short", "tap0", "tap0"},
		{"empty", "", ""},
		{"template", "tap%d", "tap%d"},
		{"fits exactly", "abcdefghijklmno", "abcdefghijklmno"},
		{"one too long", "abcdefghijklmnop", "abcdefghijklmno"},
		{"way too long", "ipop-virtual-ethernet-0", "ipop-virtual-et"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := bytes.Repeat([]byte{0xff}, ifnameSize)
			n := copyIfname(field, tt.in)

			assert.Equal(t, len(tt.want), n)
			assert.Equal(t, tt.want, ifnameString(field))
			assert.Equal(t, byte(0), field[ifnameSize-1])
			for _, c := range field[n:] {
				assert.Equal(t, byte(0), c)
			}
		})
	}
}

func TestCopyIfnameEmptyField(t *testing.T) {
	assert.Equal(t, 0, copyIfname(nil, "tap0"))
}

func TestIfnameStringUnterminated(t *testing.T) {
	assert.Equal(t, "abcd", ifnameString([]byte("abcd")))
}
