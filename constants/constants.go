package constants

import "os"

// GetConfigPath returns the config file path, empty when unset.
func GetConfigPath() string {
	return os.Getenv("DOMBRATAB_CONFIG")
}

func GetWorkDir() string {
	path := os.Getenv("DOMBRATAB_WORK_DIR")
	if path != "" {
		return path
	}
	return os.TempDir()
}

// GetPort returns the PORT env var, empty when unset.
func GetPort() string {
	return os.Getenv("PORT")
}

// dombra: string 1 = D4, string 2 = G3
var DefaultOpenPitches = []int{62, 55}

const DefaultMaxFret = 20

// overlap allowed between consecutive melody notes, in event time units
const Tolerance = 1e-3

const OctaveShift = 12

const (
	StringChangeCost = 1
	OctaveShiftCost  = 5
)

const DefaultAddr = ":8000"

// the web client caps uploads at roughly 15 seconds of audio
const DefaultMaxUpload = "2MB"

const TabWrapLength = 40

const DetectorOutputSuffix = "_basic_pitch.mid"
