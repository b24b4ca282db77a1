package osc

import (
	"testing"

	"github.com/sygaldry-dmi/sygaldry/pkg/endpoint"
)

func TestAddress(t *testing.T) {
	got := Address("Test Component 1", "slider in")
	want := "/Test_Component_1/slider_in"
	if got != want {
		t.Errorf("Address = %q, want %q", got, want)
	}
}

func TestTypeTag(t *testing.T) {
	tog := endpoint.MakeToggle("toggle")
	sld := endpoint.MakeSlider("slider")
	txt := endpoint.MakeText("text")
	arr := endpoint.MakeArray("array", 3)
	bng := endpoint.MakeBang("bang")

	tests := []struct {
		e    endpoint.Endpoint
		want string
	}{
		{&tog, ",i"},
		{&sld, ",f"},
		{&txt, ",s"},
		{&arr, ",fff"},
		{&bng, ","},
	}
	for _, tt := range tests {
		if got := TypeTag(tt.e); got != tt.want {
			t.Errorf("TypeTag(%s) = %q, want %q", tt.e.Name(), got, tt.want)
		}
	}
}

func TestMessageRoundTrip(t *testing.T) {
	msg := Message{
		Address:  "/Test_Component_1/slider_in",
		TypeTags: "f",
		Args:     []any{float32(0.31459)},
	}
	raw, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}
	if len(raw)%4 != 0 {
		t.Errorf("encoded length %d not 4-byte aligned", len(raw))
	}

	p, err := ReadPacket(raw)
	if err != nil {
		t.Fatalf("ReadPacket: %v", err)
	}
	if p.Message == nil {
		t.Fatal("expected a message packet")
	}
	if p.Message.Address != msg.Address || p.Message.TypeTags != "f" {
		t.Errorf("decoded %q %q", p.Message.Address, p.Message.TypeTags)
	}
	if v, ok := p.Message.Args[0].(float32); !ok || v != 0.31459 {
		t.Errorf("decoded arg = %v", p.Message.Args[0])
	}
}

func TestBundleRoundTrip(t *testing.T) {
	msgs := []Message{
		{Address: "/a/toggle_out", TypeTags: "i", Args: []any{int32(1)}},
		{Address: "/a/text_out", TypeTags: "s", Args: []any{"hello world"}},
		{Address: "/a/bang_out", TypeTags: "", Args: nil},
	}
	raw, err := EncodeBundle(Immediately, msgs)
	if err != nil {
		t.Fatalf("EncodeBundle: %v", err)
	}

	p, err := ReadPacket(raw)
	if err != nil {
		t.Fatalf("ReadPacket: %v", err)
	}
	if p.Bundle == nil {
		t.Fatal("expected a bundle packet")
	}
	if p.Bundle.TimeTag != Immediately {
		t.Errorf("time tag = %d, want %d", p.Bundle.TimeTag, Immediately)
	}
	got := p.Messages()
	if len(got) != 3 {
		t.Fatalf("flattened %d messages, want 3", len(got))
	}
	if got[1].Args[0] != "hello world" {
		t.Errorf("string arg = %v", got[1].Args[0])
	}
	if got[2].TypeTags != "" {
		t.Errorf("bang type tags = %q, want empty", got[2].TypeTags)
	}
}

func TestReadPacketErrors(t *testing.T) {
	if _, err := ReadPacket(nil); err == nil {
		t.Error("empty input should fail")
	}
	if _, err := ReadPacket([]byte("garbage\x00")); err == nil {
		t.Error("non-OSC input should fail")
	}
	// message with a missing type tag string
	raw := appendPaddedString(nil, "/x")
	if _, err := ReadPacket(raw); err == nil {
		t.Error("missing type tags should fail")
	}
}
