package main

import (
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/songgao/packets/ethernet"

	"github.com/feifeigood/ethertap/lg"
	"github.com/feifeigood/ethertap/netdevice"
	netether "github.com/feifeigood/ethertap/netdevice/ethernet"
	"github.com/feifeigood/ethertap/netdevice/tun"
	"github.com/feifeigood/ethertap/tuntap"
)

var (
	logger   *log.Logger
	logLevel = lg.INFO
)

func init() {
	logger = log.New(os.Stderr, "[tap_echo] ", log.Ldate|log.Ltime|log.Lmicroseconds)
}

func logf(lvl lg.LogLevel, s string, args ...interface{}) {
	lg.Logf(logger, logLevel, lvl, s, args...)
}

// reply builds the answer to frame: same payload, addressed back to its
// sender. Frames sent by us and frames too short to parse get none.
func reply(frame ethernet.Frame, self net.HardwareAddr) ethernet.Frame {
	if len(frame) < 14 || len(frame) < 14+int(frame.Tagging()) {
		return nil
	}
	src := frame.Source()
	if self != nil && src.String() == self.String() {
		return nil
	}
	from := self
	if from == nil {
		from = frame.Destination()
	}

	var out ethernet.Frame
	payload := frame.Payload()
	tagging := frame.Tagging()
	out.Prepare(src, from, tagging, frame.Ethertype(), len(payload))
	// Prepare only writes the TPIDs, the tag control fields come from frame
	copy(out[12:12+int(tagging)], frame[12:12+int(tagging)])
	copy(out.Payload(), payload)
	return out
}

func echo(frame []byte, from netdevice.Device) {
	if from.Type() == "tun" {
		logf(lg.DEBUG, "%s: %d byte packet", from.Name(), len(frame))
		return
	}

	f := ethernet.Frame(frame)
	out := reply(f, from.HardwareAddr())
	if out == nil {
		return
	}
	logf(lg.DEBUG, "%s: echo %d bytes to %s (ethertype % x)", from.Name(), len(out), f.Source(), f.Ethertype())
	if err := from.Send(out); err != nil {
		logf(lg.WARN, "%s", err)
	}
}

func open(cfg *config) (netdevice.Device, error) {
	opts := []netether.Option{
		netether.WithLogger(logger),
		netether.WithLogLevel(cfg.LogLevel),
		netether.WithBufferSize(cfg.BufferSize),
		netether.WithHandler(netdevice.HandlerFunc(echo)),
	}
	if cfg.Tun {
		return tun.Open(tun.WithName(cfg.Device), tun.WithDeviceOptions(opts...))
	}

	ifce, err := tuntap.Tap(cfg.Device)
	if err != nil {
		return nil, err
	}
	dev, err := netether.New(ifce, opts...)
	if err != nil {
		ifce.Close()
		return nil, err
	}
	return dev, nil
}

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		// go-flags has already printed its own errors
		if fe, ok := err.(*flags.Error); ok {
			if fe.Type == flags.ErrHelp {
				os.Exit(0)
			}
			os.Exit(1)
		}
		lg.LogFatal("[tap_echo] ", "%s", err)
	}
	logLevel = cfg.LogLevel

	dev, err := open(cfg)
	if err != nil {
		lg.LogFatal("[tap_echo] ", "%s", err)
	}

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, syscall.SIGINT, syscall.SIGTERM)
	logf(lg.INFO, "echoing on %s (%s), waiting....", dev.Name(), dev.Type())

	select {
	case sig := <-exit:
		logf(lg.INFO, "%s, shutting down", sig)
	case <-dev.Done():
		logf(lg.WARN, "%s: end of stream", dev.Name())
	}
	if err := dev.Close(); err != nil {
		logf(lg.ERROR, "%s", err)
	}
}
