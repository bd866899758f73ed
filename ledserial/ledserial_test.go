package ledserial

import (
	"bytes"
	"io"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestDrawPacketOverTheWire(t *testing.T) {
	c := qt.New(t)

	want := DrawPacket{Lines: []TextLine{
		{X: 0, Y: 0, Size: 1, Text: "   *Tappy Rainbow*"},
		{X: 0, Y: 18, Size: 1, Text: "Phew!\n\nThat was a long hold!"},
	}}

	var buf bytes.Buffer
	c.Assert(WriteIncomingPacket(&buf, want), qt.IsNil)

	got, err := ReadIncomingPacket(&buf, ReadContext{})
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, IncomingPacket(want))
	c.Assert(buf.Len(), qt.Equals, 0)
}

func TestSetPacketReusesBuffer(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	c.Assert(WriteIncomingPacket(&buf, SetPacket{Pix: []uint8{1, 2, 3, 4, 5, 6}}), qt.IsNil)

	ledBuffer := make([]byte, 6)
	p, err := ReadIncomingPacket(&buf, ReadContext{NumLEDs: 2, LEDBuffer: ledBuffer})
	c.Assert(err, qt.IsNil)
	c.Assert(p.(SetPacket).Pix, qt.DeepEquals, []uint8{1, 2, 3, 4, 5, 6})
	c.Assert(&p.(SetPacket).Pix[0], qt.Equals, &ledBuffer[0])
}

func TestChecksumMismatch(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	c.Assert(WriteOutgoingPacket(&buf, SamplePacket{Raw: 2000}), qt.IsNil)

	b := buf.Bytes()
	b[1] ^= 0xFF // corrupt the sample

	_, err := ReadOutgoingPacket(bytes.NewReader(b), ReadContext{})
	c.Assert(err, qt.ErrorMatches, "packet checksum mismatch")
}

func TestOutgoingStream(t *testing.T) {
	c := qt.New(t)

	sent := []OutgoingPacket{
		SamplePacket{Raw: 1801},
		AckPacket{IncomingPacketType: TypeDrawPacket},
		LogPacket{Message: "display ready"},
		ErrorPacket{Message: "display unavailable"},
		PanicPacket{Message: "halted"},
	}

	var buf bytes.Buffer
	for _, p := range sent {
		c.Assert(WriteOutgoingPacket(&buf, p), qt.IsNil)
	}

	for _, want := range sent {
		got, err := ReadOutgoingPacket(&buf, ReadContext{})
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.DeepEquals, want)
	}

	_, err := ReadOutgoingPacket(&buf, ReadContext{})
	c.Assert(err, qt.ErrorIs, io.EOF)
}

func TestTooManyLines(t *testing.T) {
	err := WriteIncomingPacket(io.Discard, DrawPacket{Lines: make([]TextLine, MaxLines+1)})
	qt.Assert(t, err, qt.ErrorMatches, "too many lines: 9")
}

func TestUnknownPacketType(t *testing.T) {
	_, err := ReadIncomingPacket(bytes.NewReader([]byte{0x7F}), ReadContext{})
	qt.Assert(t, err, qt.ErrorMatches, "unknown packet type: IncomingPacketType\\(127\\)")
}
