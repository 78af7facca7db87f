//go:build linux

package cmd

import (
	"log/slog"
	"os"

	"golang.org/x/sys/unix"
)

// logHIDInfo asks the hidraw driver who is on the other end, so the
// operator can tell from the log which controller was picked up.
func logHIDInfo(f *os.File, logger *slog.Logger) {
	fd := int(f.Fd())

	name, err := unix.IoctlHIDGetRawName(fd)
	if err != nil {
		logger.Debug("Device is not a hidraw node", "error", err)
		return
	}
	info, err := unix.IoctlHIDGetRawInfo(fd)
	if err != nil {
		logger.Info("Pad device", "name", name)
		return
	}
	logger.Info("Pad device",
		"name", name,
		"bus", info.Bustype,
		"vendor", uint16(info.Vendor),
		"product", uint16(info.Product))
}
