package wristlink

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	serial "github.com/jacobsa/go-serial/serial"
)

// Handler receives decoded wrist link messages.
type Handler interface {
	OnTilt(x, y int)
	OnSnap()
	OnActivation(active bool)
	OnRapid()
}

// Open opens the UART the wrist device is attached to.
func Open(portName string, baudRate int) (io.ReadWriteCloser, error) {
	opts := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              uint(baudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("wristlink: open %s: %w", portName, err)
	}
	log.Printf("wristlink: serial port opened on %s at %d baud", portName, baudRate)
	return port, nil
}

// Serve reads sentences from r and dispatches them to h until r is
// exhausted, a read fails or ctx is cancelled. Malformed lines are skipped.
// Cancellation is only noticed between lines; close r to unblock a read.
func Serve(ctx context.Context, r io.Reader, h Handler) error {
	reader := bufio.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, err := reader.ReadString('\n')
		if line = strings.TrimSpace(line); strings.HasPrefix(line, "$") {
			dispatch(line, h)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("wristlink: read: %w", err)
		}
	}
}

func dispatch(line string, h Handler) {
	m, err := Parse(line)
	if err != nil {
		log.Printf("wristlink: dropping %q: %v", line, err)
		return
	}
	switch m.Kind {
	case KindTilt:
		h.OnTilt(int(m.TiltX), int(m.TiltY))
	case KindSnap:
		h.OnSnap()
	case KindActivation:
		h.OnActivation(m.Active)
	case KindRapid:
		h.OnRapid()
	}
}

// Writer sends messages to the wrist link, one sentence per line.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

// Send writes one message terminated by CRLF.
func (w *Writer) Send(m Message) error {
	if _, err := io.WriteString(w.w, Encode(m)+"\r\n"); err != nil {
		return fmt.Errorf("wristlink: write: %w", err)
	}
	return nil
}
