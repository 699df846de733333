// Package drift implements the playback drift corrector of the
// synchronization contract. Servers relay authoritative positions; the
// functions here decide whether a local player position has diverged far
// enough from the authoritative one to warrant a snap.
package drift

import "math"

// DefaultThreshold is the largest position difference, in seconds, that is
// tolerated before snapping. Sub-threshold differences are left alone to
// avoid micro-stutter from continuous re-seeks.
const DefaultThreshold = 0.5

// Drift returns the signed difference between a local playback position and
// the authoritative remote one, in seconds.
func Drift(local, remote float64) float64 {
	return local - remote
}

// IsDrift reports whether the positions diverge by more than threshold.
func IsDrift(local, remote, threshold float64) bool {
	return math.Abs(local-remote) > threshold
}

// Reconcile returns the position a player should adopt: the authoritative
// remote position when the drift exceeds threshold, the unchanged local
// position otherwise. Supra-threshold drift snaps immediately rather than
// ramping, because ramping is perceptible during fast host seeks.
func Reconcile(local, remote, threshold float64) float64 {
	if IsDrift(local, remote, threshold) {
		return local - Drift(local, remote)
	}

	return local
}

// ClockOffset estimates the difference between the server wall clock and the
// client wall clock from one ping/pong round trip, using the half-round-trip
// assumption. All arguments are epoch milliseconds; clientSend and
// clientReceive are read on the client clock, serverTime on the server's.
func ClockOffset(clientSend, serverTime, clientReceive int64) float64 {
	return float64(serverTime) - (float64(clientSend) + float64(clientReceive-clientSend)/2)
}
