//go:build windows

package tuntap

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControlCodes(t *testing.T) {
	assert.Equal(t, uint32(0x220004), tapIoctlGetMAC)
	assert.Equal(t, uint32(0x220018), tapIoctlSetMediaStatus)
}

func TestDevicePath(t *testing.T) {
	assert.Equal(t,
		`\\.\Global\{9A4D6C2E-7A5B-4F0E-8C61-0D2E5B7F1A42}.tap`,
		devicePath("{9A4D6C2E-7A5B-4F0E-8C61-0D2E5B7F1A42}"))
}

func TestDetermineGUID(t *testing.T) {
	a := determineGUID("ipop")
	require.NotNil(t, a)
	assert.Equal(t, a, determineGUID("ipop"))
	assert.NotEqual(t, a, determineGUID("ipop1"))
}

func TestTapUnknownConnection(t *testing.T) {
	name := fmt.Sprintf("ethertap-missing-%d", rand.Int63())

	ifce, err := Tap(name)
	assert.Nil(t, ifce)
	require.ErrorIs(t, err, ErrInterfaceNotFound)

	var te *Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, name, te.Name)
	assert.Nil(t, te.Err)
}
