// Command iolinke-demo wires a simulated physical layer into a Device
// and drives one M-sequence through it, the way the teacher's
// examples/client and examples/server programs exercised a Client/Server
// pair over a loopback TCP connection.
package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	iolinke "github.com/iolinke/iolinke-device"
	"github.com/iolinke/iolinke-device/frame"
	"github.com/iolinke/iolinke-device/proto"
	"github.com/iolinke/iolinke-device/sm"
)

// loopbackPhysical is a trivial physical.Layer stand-in that keeps the
// last reply frame the device transmits so main can print it, rather
// than driving a real C/Q line.
type loopbackPhysical struct {
	lastReply []byte
}

func (p *loopbackPhysical) SetMode(proto.PhysicalMode, proto.TransmissionRate) error { return nil }

func (p *loopbackPhysical) Transfer(out []byte) error {
	p.lastReply = out
	return nil
}

func (p *loopbackPhysical) StartTimer(proto.TimerID, uint32) error   { return nil }
func (p *loopbackPhysical) RestartTimer(proto.TimerID, uint32) error { return nil }
func (p *loopbackPhysical) StopTimer(proto.TimerID) error            { return nil }

func main() {
	logrus.SetLevel(logrus.InfoLevel)

	opt, err := iolinke.NewDeviceOption(sm.Identity{VendorID: 0x04B2, DeviceID: 0x000001, Revision: 0x11})
	if err != nil {
		panic(err)
	}
	opt.SetProcessDataLengths(2, 2, 1, 1)

	pl := &loopbackPhysical{}
	dev, err := iolinke.NewDevice(opt, pl)
	if err != nil {
		panic(err)
	}

	// Simulate a STARTUP-format (OD[1]) Page-channel read of the Direct
	// Parameter Page's MinCycleTime octet (index 0x08). No wake-up has
	// been signalled, so the device is still in Inactive mode, which
	// uses the same frame layout. The OD octet the master sends
	// alongside a read request is a don't-care placeholder.
	mc := byte(frame.NewMC(proto.Read, proto.ChannelPage, 0x08))
	const odPlaceholder = 0x00
	cks := frame.Checksum([]byte{mc, 0x00, odPlaceholder})
	ckt := byte(frame.NewCKT(proto.MSeqType0, cks))
	req := []byte{mc, ckt, odPlaceholder}

	for _, b := range req {
		dev.TransferInd(b)
	}
	dev.Poll()

	fmt.Printf("device mode: %v\n", dev.Mode())
	fmt.Printf("reply frame: % x\n", pl.lastReply)
}
