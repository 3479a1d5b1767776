// Package wristlink carries gestures and tilt from the wrist device over a
// UART as proprietary NMEA-0183 sentences:
//
//	$PFXPT,T,<x>,<y>*CS   tilt sample
//	$PFXPT,S*CS           snap gesture
//	$PFXPT,A,<0|1>*CS     activation change
//	$PFXPT,R*CS           rapid-mode shake
//	$PFXPT,H*CS           haptic pulse, host to wrist
package wristlink

import (
	"fmt"
	"strconv"
	"strings"

	nmea "github.com/adrianmo/go-nmea"
)

// SentenceType is the proprietary sentence type, after the "P" prefix.
const SentenceType = "FXPT"

// Kind is the message carried by a sentence.
type Kind string

const (
	KindTilt       Kind = "T"
	KindSnap       Kind = "S"
	KindActivation Kind = "A"
	KindRapid      Kind = "R"
	KindHaptic     Kind = "H"
)

// Message is a decoded wrist link sentence.
type Message struct {
	nmea.BaseSentence
	Kind   Kind
	TiltX  int64
	TiltY  int64
	Active bool
}

var parser = nmea.SentenceParser{
	CustomParsers: map[string]nmea.ParserFunc{
		SentenceType: newMessage,
	},
}

func newMessage(s nmea.BaseSentence) (nmea.Sentence, error) {
	p := nmea.NewParser(s)
	m := Message{
		BaseSentence: s,
		Kind:         Kind(p.EnumString(0, "kind", string(KindTilt), string(KindSnap), string(KindActivation), string(KindRapid), string(KindHaptic))),
	}
	switch m.Kind {
	case KindTilt:
		m.TiltX = p.Int64(1, "tilt x")
		m.TiltY = p.Int64(2, "tilt y")
	case KindActivation:
		m.Active = p.EnumString(1, "active", "0", "1") == "1"
	}
	return m, p.Err()
}

// Parse decodes one line. Sentences of other types are rejected.
func Parse(line string) (Message, error) {
	s, err := parser.Parse(strings.TrimSpace(line))
	if err != nil {
		return Message{}, err
	}
	m, ok := s.(Message)
	if !ok {
		return Message{}, fmt.Errorf("wristlink: unexpected sentence %s", s.DataType())
	}
	return m, nil
}

// Encode renders a message as a checksummed sentence without line ending.
func Encode(m Message) string {
	fields := []string{"P" + SentenceType, string(m.Kind)}
	switch m.Kind {
	case KindTilt:
		fields = append(fields, strconv.FormatInt(m.TiltX, 10), strconv.FormatInt(m.TiltY, 10))
	case KindActivation:
		if m.Active {
			fields = append(fields, "1")
		} else {
			fields = append(fields, "0")
		}
	}
	body := strings.Join(fields, ",")
	return "$" + body + "*" + nmea.Checksum(body)
}

// Tilt builds a tilt message.
func Tilt(x, y int) Message { return Message{Kind: KindTilt, TiltX: int64(x), TiltY: int64(y)} }

// Snap builds a snap message.
func Snap() Message { return Message{Kind: KindSnap} }

// Activation builds an activation message.
func Activation(active bool) Message { return Message{Kind: KindActivation, Active: active} }

// Rapid builds a rapid-mode message.
func Rapid() Message { return Message{Kind: KindRapid} }

// Haptic builds a haptic pulse message.
func Haptic() Message { return Message{Kind: KindHaptic} }
