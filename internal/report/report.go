package report

import (
	"context"
	"fmt"
	"io"

	"github.com/iDenSorta/amneziawg-setup/internal/config"
	"github.com/iDenSorta/amneziawg-setup/internal/logging"
	"github.com/iDenSorta/amneziawg-setup/internal/system"
)

// ProbeOutcome is the reported result of the functional probe.
type ProbeOutcome string

const (
	ProbeOK      ProbeOutcome = "ok"
	ProbeFailed  ProbeOutcome = "failed"
	ProbeSkipped ProbeOutcome = "skipped"
)

// Summary is everything the final connection report prints.
type Summary struct {
	Host        string
	Port        int
	Credentials []config.Credential
	ProxyTest   ProbeOutcome
}

// Write emits the machine-parsable report, one key=value pair per line.
// Credentials appear in configuration order so the output is deterministic.
func Write(w io.Writer, s Summary) error {
	if _, err := fmt.Fprintf(w, "Host=%s\n", s.Host); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Port=%d\n", s.Port); err != nil {
		return err
	}
	for _, cred := range s.Credentials {
		if _, err := fmt.Fprintf(w, "User=%s:%s\n", cred.Login, cred.Password); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "ProxyTest=%s\n", s.ProxyTest)
	return err
}

// OpenFirewall opens the service port in the host firewall when a known
// frontend (ufw or firewalld) is present. This is strictly best-effort: a
// missing tool, an inactive firewall, or a failed rule never fails the
// provisioning run.
func OpenFirewall(ctx context.Context, exec system.CommandExecutor, port int) {
	if tryUfw(ctx, exec, port) {
		return
	}
	if tryFirewalld(ctx, exec, port) {
		return
	}
	logging.Debug("no active firewall frontend found, skipping rule", "port", port)
}

func tryUfw(ctx context.Context, exec system.CommandExecutor, port int) bool {
	if _, err := exec.LookPath("ufw"); err != nil {
		return false
	}

	out, err := exec.Execute(ctx, "ufw", "allow", fmt.Sprintf("%d/tcp", port))
	if err != nil {
		logging.Debug("ufw rule failed", "port", port, "output", string(out), "error", err)
		return false
	}

	logging.Debug("opened port via ufw", "port", port)
	return true
}

func tryFirewalld(ctx context.Context, exec system.CommandExecutor, port int) bool {
	if _, err := exec.LookPath("firewall-cmd"); err != nil {
		return false
	}

	rule := fmt.Sprintf("--add-port=%d/tcp", port)
	if out, err := exec.Execute(ctx, "firewall-cmd", "--permanent", rule); err != nil {
		logging.Debug("firewall-cmd rule failed", "port", port, "output", string(out), "error", err)
		return false
	}
	if out, err := exec.Execute(ctx, "firewall-cmd", "--reload"); err != nil {
		logging.Debug("firewall-cmd reload failed", "output", string(out), "error", err)
		return false
	}

	logging.Debug("opened port via firewalld", "port", port)
	return true
}
