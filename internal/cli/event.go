package cli

import (
	"encoding/json"
	"errors"
	"fmt"
)

// IdleEvent is the part of a host event the idle command cares about.
type IdleEvent struct {
	SessionID string
	Idle      bool
}

// opencode bus events wrap the session id in properties; hook payloads
// carry it at the top level next to the event name.
type rawEvent struct {
	Type       string `json:"type"`
	Properties struct {
		SessionID string `json:"sessionID"`
	} `json:"properties"`
	SessionID     string `json:"session_id"`
	HookEventName string `json:"hook_event_name"`
}

// ParseEvent decodes an opencode event or a stop-hook payload.
// Events other than session.idle and Stop parse with Idle false.
func ParseEvent(data []byte) (IdleEvent, error) {
	var raw rawEvent
	if err := json.Unmarshal(data, &raw); err != nil {
		return IdleEvent{}, fmt.Errorf("failed to parse event: %w", err)
	}

	switch {
	case raw.Type != "":
		return IdleEvent{
			SessionID: raw.Properties.SessionID,
			Idle:      raw.Type == "session.idle",
		}, nil
	case raw.HookEventName != "":
		return IdleEvent{
			SessionID: raw.SessionID,
			Idle:      raw.HookEventName == "Stop",
		}, nil
	case raw.SessionID != "":
		return IdleEvent{SessionID: raw.SessionID, Idle: true}, nil
	}

	return IdleEvent{}, errors.New("unrecognized event: no type, hook_event_name or session_id")
}
