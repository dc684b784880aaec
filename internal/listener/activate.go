package listener

import (
	"fmt"
	"net"
	"os"
	"strconv"
)

// listenFdsStart is the first inherited fd under the socket activation
// protocol: fds 0-2 are the standard streams.
const listenFdsStart = 3

// Activate returns the listening socket for the daemon. When the process
// manager passed one in via the LISTEN_FDS protocol (systemd socket
// activation) that socket is adopted; otherwise a unix socket is created at
// socketPath, replacing any stale file from a previous run.
func Activate(socketPath string) (net.Listener, error) {
	if ln, ok, err := activated(); ok || err != nil {
		return ln, err
	}

	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}
	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}
	return ln, nil
}

// activated adopts the first socket inherited from the process manager.
func activated() (net.Listener, bool, error) {
	pidStr := os.Getenv("LISTEN_PID")
	fdsStr := os.Getenv("LISTEN_FDS")
	if pidStr == "" || fdsStr == "" {
		return nil, false, nil
	}

	pid, err := strconv.Atoi(pidStr)
	if err != nil || pid != os.Getpid() {
		// Inherited by a different process; not ours to adopt.
		return nil, false, nil
	}
	nfds, err := strconv.Atoi(fdsStr)
	if err != nil || nfds < 1 {
		return nil, true, fmt.Errorf("socket activation: invalid LISTEN_FDS=%q", fdsStr)
	}

	f := os.NewFile(uintptr(listenFdsStart), "activation socket")
	if f == nil {
		return nil, true, fmt.Errorf("socket activation: fd %d not open", listenFdsStart)
	}
	defer f.Close()

	ln, err := net.FileListener(f)
	if err != nil {
		return nil, true, fmt.Errorf("socket activation: %w", err)
	}
	return ln, true, nil
}
