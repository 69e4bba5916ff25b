package cmd

import (
	"context"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/iDenSorta/amneziawg-setup/internal/app"
	"github.com/iDenSorta/amneziawg-setup/internal/config"
	"github.com/iDenSorta/amneziawg-setup/internal/engine"
	"github.com/iDenSorta/amneziawg-setup/internal/errors"
	"github.com/iDenSorta/amneziawg-setup/internal/health"
	"github.com/iDenSorta/amneziawg-setup/internal/logging"
	"github.com/iDenSorta/amneziawg-setup/internal/port"
	"github.com/iDenSorta/amneziawg-setup/internal/probe"
	"github.com/iDenSorta/amneziawg-setup/internal/prompt"
	"github.com/iDenSorta/amneziawg-setup/internal/proxycfg"
	"github.com/iDenSorta/amneziawg-setup/internal/report"
)

var upCmd = &cobra.Command{
	Use:   "up [name]",
	Short: "Provision and start a proxy instance",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runUp,
}

var (
	upUsers       string
	upPort        int
	upHost        string
	upBandwidth   int64
	upDataDir     string
	upImage       string
	upConfigFile  string
	upProbeTarget string
	upEngineArgs  string
	upSettle      time.Duration
	upSkipProbe   bool
)

func init() {
	upCmd.Flags().StringVarP(&upUsers, "users", "u", "", "Credentials as login:password[,login:password...]")
	upCmd.Flags().IntVarP(&upPort, "port", "p", 0, "TCP port to bind (default: first free port in the scan range)")
	upCmd.Flags().StringVar(&upHost, "host", "", "Host address reported in the connection report")
	upCmd.Flags().Int64VarP(&upBandwidth, "bandwidth", "b", 0, "Per-direction bandwidth ceiling in bits/sec (0 = unlimited)")
	upCmd.Flags().StringVar(&upDataDir, "data-dir", "", "Directory for config artifacts and instance state")
	upCmd.Flags().StringVar(&upImage, "image", "", "Service container image")
	upCmd.Flags().StringVarP(&upConfigFile, "config", "c", "", "TOML defaults file")
	upCmd.Flags().StringVar(&upProbeTarget, "probe-target", "", "host:port destination for the functional probe")
	upCmd.Flags().StringVar(&upEngineArgs, "engine-args", "", "Extra arguments passed to the engine run command")
	upCmd.Flags().DurationVar(&upSettle, "settle", config.DefaultSettleDelay, "Delay before the post-launch status check")
	upCmd.Flags().BoolVar(&upSkipProbe, "skip-probe", false, "Skip the functional probe")
	rootCmd.AddCommand(upCmd)
}

func runUp(cmd *cobra.Command, args []string) error {
	name := instanceNameArg(args)
	ctx := context.Background()

	req, err := resolveRequest(cmd, name)
	if err != nil {
		return errors.Wrap(errors.ExitValidation, "invalid provisioning request", err)
	}

	lock, err := config.AcquireRunLock(req.DataDir, name)
	if err != nil {
		return errors.Wrap(errors.ExitGeneralError, "could not start provisioning run", err)
	}
	defer lock.Release()

	logging.Debug("provisioning request resolved",
		"name", name, "port", req.Port, "users", len(req.Credentials), "image", req.Image)

	chosenPort, err := port.Allocate(ctx, app.Default.Ports, req.Port)
	if err != nil {
		return err
	}
	req.Port = chosenPort

	configPath, err := config.ArtifactPath(req.DataDir, name)
	if err != nil {
		return errors.Config("invalid artifact path", err)
	}
	if err := proxycfg.Write(getFS(), configPath, proxycfg.FromRequest(req)); err != nil {
		return errors.Config("failed to synthesize service config", err)
	}

	eng := getEngine()
	logInfo("Ensuring container engine is ready...")
	if err := eng.EnsureReady(ctx); err != nil {
		return err
	}

	// Replace any previous instance of the same name so reruns converge on
	// the requested state instead of failing on a name conflict.
	if err := eng.Remove(ctx, name); err != nil {
		logging.Debug("pre-launch remove failed", "name", name, "error", err)
	}

	logInfo("Launching %s on port %d...", name, req.Port)
	if err := eng.Run(ctx, engine.RunOptions{
		Name:          name,
		Image:         req.Image,
		Host:          req.Host,
		Port:          req.Port,
		ConfigPath:    configPath,
		ConfigMount:   proxycfg.ContainerConfigPath,
		RestartPolicy: "unless-stopped",
		Capabilities:  []string{"NET_ADMIN"},
		Devices:       []string{"/dev/net/tun"},
		ExtraArgs:     req.EngineArgs,
	}); err != nil {
		return errors.Launch("failed to launch instance", err, proxycfg.Dump(getFS(), configPath))
	}

	if err := health.VerifyRunning(ctx, eng, getFS(), health.VerifyOptions{
		Name:        name,
		ConfigPath:  configPath,
		SettleDelay: req.SettleDelay,
	}); err != nil {
		return err
	}

	meta := &config.InstanceMetadata{
		Name:       name,
		Host:       req.Host,
		Port:       req.Port,
		Image:      req.Image,
		ConfigPath: configPath,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	for _, cred := range req.Credentials {
		meta.Logins = append(meta.Logins, cred.Login)
	}
	if err := config.SaveInstanceMetadata(getFS(), req.DataDir, meta); err != nil {
		return errors.Wrap(errors.ExitGeneralError, "failed to save instance state", err)
	}

	report.OpenFirewall(ctx, app.Default.Executor, req.Port)

	outcome := runProbe(ctx, req)

	logSuccess("Instance %s is running", name)
	return report.Write(os.Stdout, report.Summary{
		Host:        req.Host,
		Port:        req.Port,
		Credentials: req.Credentials,
		ProxyTest:   outcome,
	})
}

// runProbe exercises the service with the first credential. Failure degrades
// the report, never the exit code.
func runProbe(ctx context.Context, req *config.Request) report.ProbeOutcome {
	if req.SkipProbe {
		return report.ProbeSkipped
	}

	server := probeServer(req)
	if err := probe.Probe(ctx, probe.Options{
		Server:     server,
		Target:     req.ProbeTarget,
		Credential: req.Credentials[0],
	}); err != nil {
		logWarning("Proxy probe failed: %v", err)
		return report.ProbeFailed
	}

	return report.ProbeOK
}

// probeServer picks the address the probe dials. A wildcard bind is not
// dialable, so it maps to loopback.
func probeServer(req *config.Request) string {
	host := req.Host
	if host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, strconv.Itoa(req.Port))
}

// resolveRequest layers flags, environment, optional config file and the
// interactive prompt into a validated request.
func resolveRequest(cmd *cobra.Command, name string) (*config.Request, error) {
	var file *config.FileConfig
	configFile := upConfigFile
	if !cmd.Flags().Changed("config") {
		configFile = os.Getenv(config.EnvConfigFile)
	}
	if configFile != "" {
		fc, err := config.LoadFileConfig(getFS(), configFile)
		if err != nil {
			return nil, err
		}
		file = fc
	}

	var prompter config.Prompter
	if prompt.Interactive() {
		prompter = prompt.CredentialPrompter{}
	}

	resolver := &config.Resolver{
		Flags: config.Flags{
			Users:          upUsers,
			UsersSet:       cmd.Flags().Changed("users"),
			Port:           upPort,
			PortSet:        cmd.Flags().Changed("port"),
			Host:           upHost,
			HostSet:        cmd.Flags().Changed("host"),
			Bandwidth:      upBandwidth,
			BandwidthSet:   cmd.Flags().Changed("bandwidth"),
			DataDir:        upDataDir,
			DataDirSet:     cmd.Flags().Changed("data-dir"),
			Image:          upImage,
			ImageSet:       cmd.Flags().Changed("image"),
			ProbeTarget:    upProbeTarget,
			ProbeTargetSet: cmd.Flags().Changed("probe-target"),
			EngineArgs:     upEngineArgs,
			EngineArgsSet:  cmd.Flags().Changed("engine-args"),
		},
		File:     file,
		Prompter: prompter,
	}

	return resolver.Resolve(name, upSettle, upSkipProbe)
}
