package port

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/iDenSorta/amneziawg-setup/internal/config"
	"github.com/iDenSorta/amneziawg-setup/internal/errors"
	"github.com/iDenSorta/amneziawg-setup/internal/logging"
	"github.com/iDenSorta/amneziawg-setup/internal/system"
)

// Lister reports the ports the host currently listens on.
type Lister interface {
	ListeningPorts(ctx context.Context) (map[int]bool, error)
}

// SocketTable queries the host socket table via ss(8).
type SocketTable struct {
	Exec system.CommandExecutor
}

// ListeningPorts returns the set of TCP ports in a listening state.
// Ports are parsed out of each local address field, so a listener on 2000
// never shadows 20001 the way a substring match would.
func (s *SocketTable) ListeningPorts(ctx context.Context) (map[int]bool, error) {
	out, err := s.Exec.Execute(ctx, "ss", "-Htln")
	if err != nil {
		return nil, fmt.Errorf("failed to query socket table: %w", err)
	}

	occupied := make(map[int]bool)
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		// State Recv-Q Send-Q Local:Port Peer:Port
		if len(fields) < 4 {
			continue
		}
		local := fields[3]
		idx := strings.LastIndexByte(local, ':')
		if idx < 0 {
			continue
		}
		p, err := strconv.Atoi(local[idx+1:])
		if err != nil {
			continue
		}
		occupied[p] = true
	}

	return occupied, nil
}

// Allocate validates an explicitly requested port or scans the configured
// range for the first free one. Allocation is deterministic: for a fixed
// occupied set the lowest available port in range always wins.
func Allocate(ctx context.Context, lister Lister, requested int) (int, error) {
	occupied, err := lister.ListeningPorts(ctx)
	if err != nil {
		return 0, errors.Wrap(errors.ExitNoFreePort, "failed to read listening ports", err)
	}

	if requested != 0 {
		if occupied[requested] {
			return 0, errors.PortOccupied(requested)
		}
		logging.Debug("requested port is free", "port", requested)
		return requested, nil
	}

	for p := config.PortRangeFrom; p <= config.PortRangeTo; p++ {
		if !occupied[p] {
			logging.Debug("allocated port", "port", p)
			return p, nil
		}
	}

	return 0, errors.NoFreePort(fmt.Sprintf("no free port in range %d-%d",
		config.PortRangeFrom, config.PortRangeTo))
}
