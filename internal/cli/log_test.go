package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(log.New(&buf))

	p.done("Rendered profile card")

	out := buf.String()
	if !strings.Contains(out, "Rendered profile card (") {
		t.Errorf("missing message with elapsed time, got %q", out)
	}
	if !strings.Contains(out, "s)") {
		t.Errorf("missing duration unit, got %q", out)
	}
}
