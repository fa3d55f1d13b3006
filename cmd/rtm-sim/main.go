// Command rtm-sim serves a simulated RTM3004 oscilloscope on a TCP
// socket, speaking the SCPI subset the driver uses.
//
// The simulator is the same bench double the driver's tests run
// against: commanded scales quantize to the instrument step,
// measurement slots return canned readings, and one slot can be
// scripted to read the overflow value until its source channel reaches
// a target scale. That is enough to exercise rtmctl, including the
// auto-range loop, without hardware on the bench.
//
// Usage:
//
//	rtm-sim [flags]
//
// Flags:
//
//	-listen string     TCP listen address (default "127.0.0.1:5025")
//	-identity string   *IDN? reply
//	-step float        vertical scale quantization step (default 0.005)
//	-clip-slot int     slot scripted to clip (0 disables)
//	-clip-until float  scripted slot clips below this source scale (default 0.05)
//	-result float      scripted slot reading once clear of clipping (default 0.042)
//
// Examples:
//
//	# Serve on the standard SCPI raw-socket port
//	rtm-sim
//
//	# Exercise the auto-range loop from another terminal
//	rtm-sim -clip-slot 1 &
//	rtmctl -r TCPIP::127.0.0.1::5025::SOCKET scale ch1 --start 0.01 --settle 10ms
package main

import (
	"context"
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/benchtop/rtm3004-go/internal/sim"
)

var (
	listen    string
	identity  string
	step      float64
	clipSlot  int
	clipUntil float64
	result    float64
)

func init() {
	flag.StringVar(&listen, "listen", "127.0.0.1:5025", "TCP listen address")
	flag.StringVar(&identity, "identity", sim.DefaultIdentity, "*IDN? reply")
	flag.Float64Var(&step, "step", 0.005, "vertical scale quantization step")
	flag.IntVar(&clipSlot, "clip-slot", 0, "slot scripted to clip (0 disables)")
	flag.Float64Var(&clipUntil, "clip-until", 0.05, "scripted slot clips below this source scale")
	flag.Float64Var(&result, "result", 0.042, "scripted slot reading once clear of clipping")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	if clipSlot < 0 || clipSlot > 8 {
		log.Fatalf("Invalid -clip-slot %d: slots are 1..8", clipSlot)
	}
	if step < 0 {
		log.Fatalf("Invalid -step %g: must not be negative", step)
	}

	ins := sim.New(sim.Config{Identity: identity, Step: step})
	if clipSlot > 0 {
		ins.SetClipThreshold(clipSlot, clipUntil)
		ins.SetResult(clipSlot, result)
		log.Printf("Slot %d clips while its source scale is below %g V/div", clipSlot, clipUntil)
	}

	ln, err := net.Listen("tcp", listen)
	if err != nil {
		log.Fatalf("Failed to listen on %s: %v", listen, err)
	}
	log.Printf("Simulated RTM3004 listening on %s", ln.Addr())
	log.Printf("Resource string: TCPIP::%s::SOCKET", hostPortResource(ln.Addr()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- ins.Serve(ctx, ln) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal: %v", sig)
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil && ctx.Err() == nil {
			log.Fatalf("Serve failed: %v", err)
		}
	}
	log.Println("Shutting down...")
}

// hostPortResource renders a listen address in the form the resource
// string wants, host and port separated by "::".
func hostPortResource(addr net.Addr) string {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host + "::" + port
}
