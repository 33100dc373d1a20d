package player

import (
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/reeler-cli/reeler/log"
)

// eventListener bridges mpv's observe_property notifications into typed
// player events. It holds a persistent connection to the IPC socket and
// runs a dedicated read loop for the lifetime of the subscription.
type eventListener struct {
	socketPath string
	conn       net.Conn
	emit       func(Event)
	stopCh     chan struct{}
	mu         sync.Mutex
	listening  bool
}

func newEventListener(socketPath string, emit func(Event)) *eventListener {
	return &eventListener{
		socketPath: socketPath,
		emit:       emit,
		stopCh:     make(chan struct{}),
	}
}

// start registers the property observers and launches the read loop.
func (el *eventListener) start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	// observe_property <id> <property> — mpv sends notifications when they change
	properties := []struct {
		id   int
		name string
	}{
		{1, "time-pos"},           // playhead progress
		{2, "pause"},              // suspension state
		{3, "seeking"},            // seek in flight
		{4, "demuxer-cache-time"}, // buffered end, absolute timestamp
	}

	for _, prop := range properties {
		_, err := doSendCommand(el.socketPath, []interface{}{"observe_property", prop.id, prop.name})
		if err != nil {
			return fmt.Errorf("observe %s: %w", prop.name, err)
		}
	}

	// Open a persistent connection for the event read loop
	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}
	el.conn = conn
	el.listening = true

	go el.readLoop()

	log.Infof("mpv event listener started on %s", el.socketPath)
	return nil
}

// stop terminates the event listener.
func (el *eventListener) stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if !el.listening {
		return
	}

	close(el.stopCh)
	if el.conn != nil {
		el.conn.Close()
	}
	el.listening = false
}

// readLoop continuously reads events from the persistent mpv connection.
// mpv sends newline-delimited JSON events when observed properties change.
func (el *eventListener) readLoop() {
	defer func() {
		el.mu.Lock()
		el.listening = false
		el.mu.Unlock()
	}()

	buf := make([]byte, 4096)
	var remainder []byte

	for {
		select {
		case <-el.stopCh:
			return
		default:
		}

		// Set read deadline to avoid blocking forever
		if err := el.conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
			return
		}

		n, err := el.conn.Read(buf)
		if err != nil {
			if strings.Contains(err.Error(), "timeout") || strings.Contains(err.Error(), "deadline") {
				continue // timeout is normal, keep listening
			}
			log.Warnf("event listener read error: %v", err)
			return
		}

		// mpv sends multiple JSON objects separated by newlines
		data := append(remainder, buf[:n]...)
		remainder = nil

		lines := strings.Split(string(data), "\n")
		for i, line := range lines {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}

			// Last incomplete line goes to remainder for next read
			if i == len(lines)-1 && !strings.HasSuffix(string(data), "\n") {
				remainder = []byte(line)
				continue
			}

			el.processEvent(line)
		}
	}
}

// processEvent parses a single mpv event JSON line and adapts it into a
// typed player event when it maps onto one.
func (el *eventListener) processEvent(line string) {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return // Skip unparseable lines
	}

	eventType, ok := raw["event"].(string)
	if !ok || el.emit == nil {
		return
	}

	switch eventType {
	case "property-change":
		el.processPropertyChange(raw)
	case "file-loaded":
		el.emit(Event{Kind: EventFileLoaded})
	case "end-file":
		el.processEndFile(raw)
	}
}

// processPropertyChange maps an observed property notification to its event kind.
func (el *eventListener) processPropertyChange(raw map[string]interface{}) {
	name, _ := raw["name"].(string)

	switch name {
	case "time-pos":
		if pos, ok := raw["data"].(float64); ok {
			el.emit(Event{Kind: EventTimePos, Float: pos})
		}
	case "pause":
		if paused, ok := raw["data"].(bool); ok {
			el.emit(Event{Kind: EventPause, Bool: paused})
		}
	case "seeking":
		if seeking, ok := raw["data"].(bool); ok {
			el.emit(Event{Kind: EventSeeking, Bool: seeking})
		}
	case "demuxer-cache-time":
		if end, ok := raw["data"].(float64); ok {
			el.emit(Event{Kind: EventBuffered, Float: end})
		}
	}
}

// processEndFile distinguishes a natural end of file from a source failure.
// mpv reports the cause in the "reason" field and, on errors, the specific
// failure in "file_error".
func (el *eventListener) processEndFile(raw map[string]interface{}) {
	reason, _ := raw["reason"].(string)

	switch reason {
	case "eof":
		el.emit(Event{Kind: EventEnd})
	case "error":
		fileError, _ := raw["file_error"].(string)
		el.emit(Event{Kind: EventError, Err: &Error{
			Code:    classifyMpvError(fileError),
			Message: fileError,
		}})
	}
	// "stop" and "redirect" follow loadfile replace; not a terminal condition.
}

// classifyMpvError maps mpv's end-file error strings onto error codes.
func classifyMpvError(fileError string) ErrorCode {
	switch {
	case strings.Contains(fileError, "decod"),
		strings.Contains(fileError, "no video"),
		strings.Contains(fileError, "no audio"):
		return CodeDecode
	case strings.Contains(fileError, "unrecognized"),
		strings.Contains(fileError, "unsupported"),
		strings.Contains(fileError, "no such"):
		return CodeUnsupported
	case strings.Contains(fileError, "loading failed"),
		strings.Contains(fileError, "network"),
		strings.Contains(fileError, "connect"):
		return CodeNetwork
	default:
		return CodeGeneric
	}
}
