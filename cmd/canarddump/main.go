//go:build linux

// Command canarddump bridges a Cyphal/CAN Instance to a Linux SocketCAN
// interface: it is a minimal driver living outside the core package, wired
// up end to end.
package main

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/cyphal-can/canard"
)

func main() {
	iface := pflag.StringP("iface", "i", "can0", "SocketCAN interface name")
	nodeID := pflag.IntP("node-id", "n", -1, "local node-id, 0-127; omit for anonymous")
	mtu := pflag.IntP("mtu", "m", canard.MTUCANFD, "CAN frame MTU (8 for Classic CAN, up to 64 for CAN FD)")
	fdFrames := pflag.BoolP("fd", "f", true, "enable CAN FD frames on the socket")
	subsPath := pflag.StringP("subs", "s", "", "path to a YAML subscription list")
	pflag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	ins := canard.Init(nil)
	ins.MTU = *mtu
	if *nodeID >= 0 {
		ins.NodeID = canard.NodeID(*nodeID)
	}

	if *subsPath != "" {
		subs, err := loadSubscriptions(*subsPath)
		if err != nil {
			logger.Fatal("loading subscriptions", "err", err)
		}
		for _, c := range subs {
			kind, err := c.transferKind()
			if err != nil {
				logger.Fatal("bad subscription entry", "err", err)
			}
			timeoutUsec := uint64(c.TimeoutSec * 1e6)
			if _, err := ins.RxSubscribe(kind, canard.PortID(c.Port), c.Extent, timeoutUsec, &canard.Subscription{}); err != nil {
				logger.Fatal("subscribing", "kind", c.Kind, "port", c.Port, "err", err)
			}
			logger.Info("subscribed", "kind", c.Kind, "port", c.Port, "extent", c.Extent)
		}
	}

	drv, err := openSocketCAN(*iface, *fdFrames)
	if err != nil {
		logger.Fatal("opening SocketCAN interface", "iface", *iface, "err", err)
	}
	defer drv.Close()

	// mu serializes every call into ins, per the engine's own concurrency
	// contract: one Instance, one caller-supplied mutex, shared by exactly
	// one receive loop and one transmit loop.
	var mu sync.Mutex

	go transmitLoop(ins, &mu, drv, logger)
	go receiveLoop(ins, &mu, drv, logger)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")
}

func transmitLoop(ins *canard.Instance, mu *sync.Mutex, drv *socketCANDriver, logger *log.Logger) {
	for {
		mu.Lock()
		frame, ok := ins.TxPeek()
		mu.Unlock()
		if !ok {
			time.Sleep(time.Millisecond) // Busy-wait with a small yield; queue is empty.
			continue
		}
		if err := drv.Send(frame); err != nil {
			logger.Error("send failed", "err", err)
		}
		mu.Lock()
		ins.TxPop()
		mu.Unlock()
	}
}

func receiveLoop(ins *canard.Instance, mu *sync.Mutex, drv *socketCANDriver, logger *log.Logger) {
	for {
		frame, err := drv.Recv()
		if err != nil {
			logger.Error("receive failed", "err", err)
			continue
		}
		frame.Timestamp = uint64(time.Now().UnixMicro())
		mu.Lock()
		transfer, done, err := ins.RxAccept(&frame, 0)
		mu.Unlock()
		if err != nil {
			logger.Error("rx accept failed", "err", err)
			continue
		}
		if !done {
			continue
		}
		logger.Info("transfer",
			"kind", transfer.Kind,
			"port", transfer.Port,
			"remote", transfer.Remote,
			"size", transfer.PayloadSize,
		)
	}
}
