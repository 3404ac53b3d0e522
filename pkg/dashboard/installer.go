package dashboard

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/canonical/jimm-operator/pkg/log"
	"github.com/canonical/jimm-operator/pkg/metrics"
	"github.com/canonical/jimm-operator/pkg/types"
	"github.com/canonical/jimm-operator/pkg/workload"
)

// archiveName is the file name the bundle is staged under before
// extraction.
const archiveName = "dashboard.tar.bz2"

// StatusFunc reports an operator-visible status change.
type StatusFunc func(types.Status)

// Installer installs the dashboard asset bundle on the workload,
// gated by a content fingerprint so an unchanged bundle is never
// re-applied.
type Installer struct {
	setStatus StatusFunc
}

// NewInstaller creates an installer reporting status changes through
// setStatus.
func NewInstaller(setStatus StatusFunc) *Installer {
	return &Installer{setStatus: setStatus}
}

// Fingerprint computes the change-detection digest of the bundle file.
// The digest only detects change; it carries no security meaning.
func Fingerprint(bundlePath string) (string, error) {
	f, err := os.Open(bundlePath)
	if err != nil {
		return "", fmt.Errorf("failed to open bundle: %w", err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash bundle: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Reconcile converges the installed dashboard tree with the supplied
// bundle. With no bundle, or an empty bundle file, it does nothing.
// Otherwise the bundle's fingerprint is compared against the marker
// stored on the workload and the tree is replaced only when they
// differ.
func (i *Installer) Reconcile(bundlePath string, agent workload.Agent) error {
	if bundlePath == "" {
		return nil
	}

	info, err := os.Stat(bundlePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat bundle: %w", err)
	}
	if info.Size() == 0 {
		return nil
	}

	fingerprint, err := Fingerprint(bundlePath)
	if err != nil {
		return err
	}

	if agent.Exists(types.DashboardHashPath) {
		stored, err := agent.Pull(types.DashboardHashPath)
		if err != nil {
			return fmt.Errorf("failed to read dashboard fingerprint: %w", err)
		}
		if string(stored) == fingerprint {
			return nil
		}
	}

	i.setStatus(types.Maintenance("installing dashboard"))

	if agent.Exists(types.DashboardPath) {
		if err := agent.RemovePath(types.DashboardPath); err != nil {
			return fmt.Errorf("failed to remove previous dashboard: %w", err)
		}
	}
	if err := agent.MakeDir(types.DashboardPath, true); err != nil {
		return fmt.Errorf("failed to create dashboard directory: %w", err)
	}

	data, err := os.ReadFile(bundlePath)
	if err != nil {
		return fmt.Errorf("failed to read bundle: %w", err)
	}
	archivePath := path.Join(types.DashboardPath, archiveName)
	if err := agent.Push(archivePath, data, false); err != nil {
		return fmt.Errorf("failed to push bundle: %w", err)
	}

	proc, err := agent.Exec([]string{"tar", "xvf", archivePath, "-C", types.DashboardPath})
	if err != nil {
		return fmt.Errorf("failed to extract bundle: %w", err)
	}
	if err := proc.Wait(); err != nil {
		// Extraction failure does not abort the pass and the new
		// fingerprint is still persisted below: a bundle that will
		// never extract must not cause a retry storm.
		var execErr *workload.ExecError
		if !errors.As(err, &execErr) {
			return fmt.Errorf("failed to extract bundle: %w", err)
		}
		logger := log.WithComponent("dashboard")
		logger.Error().Int("exit_code", execErr.ExitCode).Msg("error untaring the dashboard")
		for _, line := range strings.Split(execErr.Stderr, "\n") {
			if line != "" {
				logger.Error().Msg("    " + line)
			}
		}
	}

	if err := agent.Push(types.DashboardHashPath, []byte(fingerprint), true); err != nil {
		return fmt.Errorf("failed to write dashboard fingerprint: %w", err)
	}
	metrics.DashboardInstallsTotal.Inc()
	return nil
}
