// internal/status/snapshot.go
package status

// Snapshot is exactly what a display is allowed to show.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Stage uint16
	Lines [Lines]string
}

// Text builds a free-form snapshot from up to three lines.
// Extra lines are dropped, missing lines are blank.
func Text(lines ...string) Snapshot {
	var s Snapshot
	for i := 0; i < len(lines) && i < Lines; i++ {
		s.Lines[i] = lines[i]
	}
	return s
}

func DeviceReady() Snapshot {
	s := Text("screen ready")
	s.Stage = StageDeviceReady
	return s
}

func Connecting(ssid string) Snapshot {
	s := Text("Connecting to:", ssid)
	s.Stage = StageConnecting
	return s
}

func Connected(ip string) Snapshot {
	s := Text("wifi connected", "IP Address:", ip)
	s.Stage = StageConnected
	return s
}

func RequestSent() Snapshot {
	s := Text("http request", "sent")
	s.Stage = StageRequestSent
	return s
}
