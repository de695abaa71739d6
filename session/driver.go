package session

import "github.com/netump-go/netump/wire"

// Driver is the tick entry point (C7): a single method invoked once per
// millisecond by whatever Clock the netump package wires up. It advances
// the event timer, polls for one inbound datagram, runs the Machine's
// per-state logic, and — only while Opened — drains the Assembler and
// sends the result.
type Driver struct {
	transport Transport
	machine   *Machine
	parser    *Parser
	assembler *Assembler
}

// NewDriver returns a Driver wiring transport, machine, parser and
// assembler together. All four MUST already be wired to the same Ring and
// Transport.
func NewDriver(transport Transport, machine *Machine, parser *Parser, assembler *Assembler) *Driver {
	return &Driver{transport: transport, machine: machine, parser: parser, assembler: assembler}
}

// Tick runs one millisecond's worth of session logic.
func (d *Driver) Tick() {
	if d.machine.locked() {
		return
	}

	d.machine.AdvanceTimer()

	if datagram, sender, err := d.transport.Recv(); err == nil {
		cmds := d.parser.Parse(datagram, sender, d.machine.AcceptUMP)
		for _, cmd := range cmds {
			d.machine.Handle(cmd)
		}
	}

	d.machine.Tick()

	if d.machine.Status() == Opened {
		if datagram := d.assembler.Assemble(); datagram != nil {
			d.machine.pingDelay = 0
			if err := d.transport.Send(datagram, d.machine.peer); err == nil {
				d.machine.metrics.PacketSent(wire.OpUMPData.String())
			}
		}
	} else {
		// Drain and discard so that, once the session opens, no
		// backlog accumulated while Invite/WaitInvite bursts out as
		// the first transmission.
		d.assembler.Drain()
	}
}
