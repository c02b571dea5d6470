//go:build !windows && !linux

package robot

import "markestedt/autom/platform"

// nativeKeys is empty: robotgo's table is all this platform offers
func nativeKeys(platform.Runner) map[platform.Key]injector {
	return nil
}
