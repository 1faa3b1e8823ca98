// Package log provides simple leveled logging for captivegate.
//
// Messages are written with a level prefix: DEBUG (verbose mode only),
// INFO, WARN and ERROR. Errors go to stderr, everything else to stdout
// unless SetForceStdErr is enabled.
//
// Basic logging:
//
//	log.Infof("Enable kmod on %s", iface)
//	log.Warnf("Resolution of %s failed: %v", domain, err)
//
// Enabling verbose mode for debug output:
//
//	log.SetVerbose(true)
//	log.Debugf("Writing %q to %s", line, path)
//
// Tests can capture output with SetOutput(&buf), which also drops the ANSI
// colors. All functions are safe for concurrent use.
package log
