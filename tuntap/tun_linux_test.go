//go:build linux

package tuntap

import (
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishvananda/netlink"
)

func TestTunDeliversOnePacketPerRead(t *testing.T) {
	requireTAP(t)

	ifce, err := Tun(testIfname())
	require.NoError(t, err)
	defer ifce.Close()

	link, err := netlink.LinkByName(ifce.Name())
	require.NoError(t, err)
	addr, err := netlink.ParseAddr("198.18.77.1/24")
	require.NoError(t, err)
	require.NoError(t, netlink.AddrAdd(link, addr))
	require.NoError(t, netlink.LinkSetUp(link))

	peer := net.IPv4(198, 18, 77, 2).To4()
	got := make(chan []byte, 8)
	go func() {
		defer close(got)
		buf := make([]byte, 1500)
		for {
			n, err := ifce.Read(buf)
			if err != nil {
				return
			}
			pkt := buf[:n]
			// IPv4 UDP to the peer, anything else is the kernel talking
			if n >= 28 && pkt[0]>>4 == 4 && pkt[9] == 17 && net.IP(pkt[16:20]).Equal(peer) {
				got <- append([]byte(nil), pkt...)
			}
		}
	}()

	conn, err := net.Dial("udp4", "198.18.77.2:9")
	require.NoError(t, err)
	defer conn.Close()

	payloads := []string{"one", "two", "three"}
	for _, p := range payloads {
		_, err := conn.Write([]byte(p))
		require.NoError(t, err)
	}

	for _, want := range payloads {
		select {
		case pkt, ok := <-got:
			require.True(t, ok, "reader stopped early")
			assert.Equal(t, len(pkt), int(binary.BigEndian.Uint16(pkt[2:4])))
			ihl := int(pkt[0]&0x0f) * 4
			assert.Equal(t, want, string(pkt[ihl+8:]))
		case <-time.After(2 * time.Second):
			t.Fatalf("packet %q was not read from the tunnel", want)
		}
	}
}
