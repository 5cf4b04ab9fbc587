package handlers

// Notifier fans an event out to connected live clients. The websocket hub
// implements it; handlers treat delivery as fire-and-forget.
type Notifier interface {
	Broadcast(event string, data map[string]interface{})
}

var notifier Notifier

// SetNotifier wires the live hub in at startup.
func SetNotifier(n Notifier) {
	notifier = n
}

func broadcastEvent(event string, data map[string]interface{}) {
	if notifier != nil {
		notifier.Broadcast(event, data)
	}
}
