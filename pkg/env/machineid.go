package env

import (
	"github.com/denisbrodbeck/machineid"
)

// MachineID retrieves the unique ID identifying the machine, hashed
// with the app name so the raw ID isn't exposed.
func MachineID() string {
	id, err := machineid.ProtectedID(AppName)
	if err != nil {
		return "unknown"
	}
	if len(id) > 12 {
		id = id[:12]
	}
	return id
}
