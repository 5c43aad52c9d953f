//go:build windows

package tuntap

import (
	"crypto/md5"
	"encoding/binary"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/sys/windows"
	"golang.zx2c4.com/wireguard/tun"
)

// determineGUID generates the wintun adapter GUID from the tunnel name, so
// reopening one name reuses one adapter instead of piling up new ones.
func determineGUID(name string) *windows.GUID {
	b := make([]byte, 16)
	if _, err := io.ReadFull(hkdf.New(md5.New, []byte(name), nil, nil), b); err != nil {
		return nil
	}
	g := &windows.GUID{
		Data1: binary.LittleEndian.Uint32(b[0:4]),
		Data2: binary.LittleEndian.Uint16(b[4:6]),
		Data3: binary.LittleEndian.Uint16(b[6:8]),
	}
	copy(g.Data4[:], b[8:16])
	return g
}

func createTUN(name string, mtu int) (tun.Device, error) {
	return tun.CreateTUNWithRequestedGUID(name, determineGUID(name), mtu)
}
