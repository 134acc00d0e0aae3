package emit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dshills/reactive-go/reactive"
)

// LogEmitter writes one line per event to writer, text or JSON.
//
// Example text output:
//
//	[expression evaluate] node=3 changed=true
//
// Example JSON output:
//
//	{"kind":"expression","op":"evaluate","nodeID":3,"changed":true}
type LogEmitter struct {
	writer   io.Writer
	jsonMode bool
}

// NewLogEmitter creates a LogEmitter writing to writer (os.Stdout if nil).
func NewLogEmitter(writer io.Writer, jsonMode bool) *LogEmitter {
	if writer == nil {
		writer = os.Stdout
	}
	return &LogEmitter{writer: writer, jsonMode: jsonMode}
}

func (l *LogEmitter) Emit(ev reactive.Event) {
	if l.jsonMode {
		l.emitJSON(ev)
		return
	}
	l.emitText(ev)
}

func (l *LogEmitter) emitJSON(ev reactive.Event) {
	var duration string
	if ev.Duration > 0 {
		duration = ev.Duration.String()
	}
	data, err := json.Marshal(struct {
		Kind     string `json:"kind"`
		Op       string `json:"op"`
		NodeID   int    `json:"nodeID"`
		Changed  bool   `json:"changed"`
		Err      string `json:"err,omitempty"`
		Duration string `json:"duration,omitempty"`
	}{
		Kind: ev.Kind, Op: ev.Op, NodeID: ev.NodeID, Changed: ev.Changed,
		Err:      errString(ev.Err),
		Duration: duration,
	})
	if err != nil {
		fmt.Fprintf(l.writer, "{\"error\":\"failed to marshal event: %v\"}\n", err)
		return
	}
	fmt.Fprintf(l.writer, "%s\n", data)
}

func (l *LogEmitter) emitText(ev reactive.Event) {
	fmt.Fprintf(l.writer, "[%s %s] node=%d changed=%v", ev.Kind, ev.Op, ev.NodeID, ev.Changed)
	if ev.Err != nil {
		fmt.Fprintf(l.writer, " err=%v", ev.Err)
	}
	if ev.Duration > 0 {
		fmt.Fprintf(l.writer, " duration=%s", ev.Duration)
	}
	fmt.Fprint(l.writer, "\n")
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
