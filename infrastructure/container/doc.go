// Package container resolves which container runtime to use and how host
// directories are expressed as volume mounts for it.
//
// Path translation is a pure function of the host path and the host path
// style, so Windows drive-letter and UNC behaviour can be tested on any OS:
//
//	HostMountPath(`C:\Users\x`, StyleWindows) // "/c/Users/x"
//	HostMountPath(`\\nas\media`, StyleWindows) // "//nas/media"
//	HostMountPath("/home/x", StylePOSIX)       // "/home/x"
package container
