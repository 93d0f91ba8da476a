package main

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"golang.org/x/sys/unix"
)

const daemonEnv = "PLAYBACKD_DAEMONIZED"

// daemonize re-executes the binary detached from the controlling terminal.
// It returns true in the parent, which should exit, and false in the
// detached child.
func daemonize() (parent bool, err error) {
	if os.Getenv(daemonEnv) == "1" {
		// Already the detached child; finish the detach with a new
		// session and a neutral working directory.
		if _, err := unix.Setsid(); err != nil && err != unix.EPERM {
			return false, fmt.Errorf("setsid: %w", err)
		}
		if err := os.Chdir("/"); err != nil {
			return false, fmt.Errorf("chdir: %w", err)
		}
		return false, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return false, fmt.Errorf("resolve executable: %w", err)
	}
	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Env = append(os.Environ(), daemonEnv+"=1")
	cmd.Stdout = nil
	cmd.Stdin = nil
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return false, fmt.Errorf("spawn daemon child: %w", err)
	}
	return true, nil
}

func writePIDFile(path string) error {
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o644)
}
