// Package license ties an activation key to the machine the POS runs on.
package license

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"strings"
	"time"
)

const unknownDevice = "UNKNOWN-DEVICE"

// Stage is one activation tier and the moment it stops being valid.
type Stage struct {
	Name    string
	Expires time.Time
}

// Stages lists every key tier a device can be activated with.
var Stages = []Stage{
	{Name: "TRIAL", Expires: time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC)},
	{Name: "ANNUAL", Expires: time.Date(2027, 12, 31, 23, 59, 59, 0, time.UTC)},
	{Name: "LIFETIME", Expires: time.Date(2099, 12, 31, 23, 59, 59, 0, time.UTC)},
}

// DeviceID hashes the MAC of the first active interface into an ID like
// "POS-A1B2C3D4".
func DeviceID() string {
	interfaces, err := net.Interfaces()
	if err != nil {
		return unknownDevice
	}

	for _, i := range interfaces {
		if i.Flags&net.FlagUp != 0 && len(i.HardwareAddr) > 0 {
			return deviceIDFor(i.HardwareAddr.String())
		}
	}
	return unknownDevice
}

func deviceIDFor(mac string) string {
	hash := sha256.Sum256([]byte(mac + "POS-DEVICE"))
	return "POS-" + strings.ToUpper(hex.EncodeToString(hash[:])[:8])
}

// KeyFor derives the activation key of stage for deviceID.
func KeyFor(stage, deviceID, salt string) string {
	hash := sha256.Sum256([]byte(deviceID + stage + salt))
	return stage + "-" + strings.ToUpper(hex.EncodeToString(hash[:])[:12])
}

// Verify finds the stage key was issued for on deviceID.
func Verify(key, deviceID, salt string) (Stage, bool) {
	for _, stage := range Stages {
		if key == KeyFor(stage.Name, deviceID, salt) {
			return stage, true
		}
	}
	return Stage{}, false
}
