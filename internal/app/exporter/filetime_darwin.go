//go:build darwin

package exporter

import (
	"os/exec"
	"time"
)

// setFileCreationTime stamps the birth time of a note with SetFile when
// the Xcode command line tools are installed.
func setFileCreationTime(path string, created time.Time) error {
	if created.IsZero() {
		return nil
	}
	setFile, err := exec.LookPath("SetFile")
	if err != nil {
		return nil
	}
	return exec.Command(setFile, "-d", created.Local().Format("01/02/2006 15:04:05"), path).Run()
}
