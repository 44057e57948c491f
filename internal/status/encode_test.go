// internal/status/encode_test.go
package status

import "testing"

func TestEncode_LayoutAndStage(t *testing.T) {
	regs := Encode(Connected("192.168.1.20"))

	if len(regs) != SlotsPerDisplay {
		t.Fatalf("expected %d regs, got %d", SlotsPerDisplay, len(regs))
	}
	if regs[SlotStageCode] != StageConnected {
		t.Fatalf("stage mismatch: got=%d want=%d", regs[SlotStageCode], StageConnected)
	}
	for i := SlotReservedStart; i <= SlotReservedEnd; i++ {
		if regs[i] != 0 {
			t.Fatalf("reserved slot %d not zero: %d", i, regs[i])
		}
	}

	want := []string{"wifi connected", "IP Address:", "192.168.1.20"}
	for i, w := range want {
		start := SlotLinesStart + i*SlotsPerLine
		got := DecodeLine(regs[start : start+SlotsPerLine])
		if got != w {
			t.Fatalf("line %d mismatch: got=%q want=%q", i, got, w)
		}
	}
}

func TestEncodeLine_TruncatesAndSanitizes(t *testing.T) {
	regs := EncodeLine("abcdefghijklmnop-overflow")
	if got := DecodeLine(regs); got != "abcdefghijklmnop" {
		t.Fatalf("expected truncation to 16 chars, got %q", got)
	}

	regs = EncodeLine("a\tb")
	if got := DecodeLine(regs); got != "a?b" {
		t.Fatalf("expected sanitized line, got %q", got)
	}
}

func TestEncode_SameSnapshotSameBlock(t *testing.T) {
	a := Encode(Text("one", "two", "three"))
	b := Encode(Text("one", "two", "three"))

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("slot %d differs between identical snapshots", i)
		}
	}
}

func TestText_DropsExtraLines(t *testing.T) {
	s := Text("1", "2", "3", "4")
	if s.Lines != [Lines]string{"1", "2", "3"} {
		t.Fatalf("unexpected lines: %v", s.Lines)
	}
	if s.Stage != StageUnknown {
		t.Fatalf("free-form text must carry unknown stage")
	}
}

func TestBytes_HighByteFirst(t *testing.T) {
	out := Bytes([]uint16{0x4142, 0x0001})

	want := []byte{0x41, 0x42, 0x00, 0x01}
	if string(out) != string(want) {
		t.Fatalf("got % x want % x", out, want)
	}
}
