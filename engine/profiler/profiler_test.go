package profiler

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"
)

func TestTickWaitsForInterval(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProfiler(WithLogger(log.New(buf, "", 0)), WithInterval(time.Hour))
	for range 10 {
		if p.Tick() {
			t.Fatal("expected no sample before the interval elapsed")
		}
	}
	if _, n := p.Last(); n != 0 {
		t.Errorf("expected no samples, got %d", n)
	}
	if strings.Contains(buf.String(), "TPS") {
		t.Errorf("expected nothing logged, got %q", buf.String())
	}
}

func TestTickSamples(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProfiler(WithLogger(log.New(buf, "", 0)), WithInterval(time.Millisecond))
	time.Sleep(2 * time.Millisecond)
	if !p.Tick() {
		t.Fatal("expected a sample once the interval elapsed")
	}
	s, n := p.Last()
	if n != 1 {
		t.Errorf("expected one sample, got %d", n)
	}
	if s.TicksPerSecond <= 0 || s.HeapMB <= 0 || s.SysMB <= 0 {
		t.Errorf("expected positive rates and memory figures, got %+v", s)
	}
	if !strings.Contains(buf.String(), "[Profiler] TPS:") {
		t.Errorf("expected a profiler line, got %q", buf.String())
	}
}

func TestReset(t *testing.T) {
	p := NewProfiler(WithLogger(log.New(&bytes.Buffer{}, "", 0)), WithInterval(50*time.Millisecond))
	time.Sleep(60 * time.Millisecond)
	p.Reset()
	if p.Tick() {
		t.Error("expected Reset to restart the interval")
	}
}
