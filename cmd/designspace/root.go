package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/llm-d/bert-design-space/api/v1alpha1"
	"github.com/llm-d/bert-design-space/internal/config"
	"github.com/llm-d/bert-design-space/internal/designspace"
	"github.com/llm-d/bert-design-space/internal/logging"
	"github.com/llm-d/bert-design-space/internal/metrics"
	"github.com/llm-d/bert-design-space/internal/source"
)

var scheme = runtime.NewScheme()

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(v1alpha1.AddToScheme(scheme))
}

// options is the state shared by the subcommands of one invocation.
type options struct {
	v   *viper.Viper
	cfg *config.Config

	out       io.Writer
	newClient func() (client.Client, error)
	loader    *source.Loader
	gatherer  prometheus.Gatherer
}

func defaultOptions() *options {
	return &options{
		v:         config.New(),
		out:       os.Stdout,
		newClient: newKubeClient,
		loader:    &source.Loader{Recorder: metrics.Default()},
		gatherer:  ctrlmetrics.Registry,
	}
}

// execute runs the command line args. Metrics are written even when the
// command fails, so a rejected document still shows up in the output.
func (o *options) execute(ctx context.Context, args []string) error {
	root := o.rootCommand()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if o.cfg != nil && o.cfg.Metrics.Output != "" {
		err = errors.Join(err, o.writeMetrics(o.cfg.Metrics.Output))
	}
	return err
}

func (o *options) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "designspace",
		Short: "Inspect and validate BERT design space catalogs",
		Long: `designspace loads the design space of BERT-like encoder architectures
from a file, an embedded document, a ConfigMap or a DesignSpace resource,
validates it and answers questions about it.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: o.setup,
	}
	root.SetOut(o.out)
	config.AddFlags(root.PersistentFlags())

	root.AddCommand(
		o.validateCommand(),
		o.showCommand(),
		o.countCommand(),
		o.subsetCommand(),
		o.candidateCommand(),
		o.builtinsCommand(),
	)
	return root
}

func (o *options) setup(cmd *cobra.Command, _ []string) error {
	if err := config.BindFlags(o.v, cmd.Root().PersistentFlags()); err != nil {
		return err
	}
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	cfg, err := config.Load(o.v, configFile)
	if err != nil {
		return err
	}
	o.cfg = cfg

	logger, err := logging.Setup(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	cmd.SetContext(ctrl.LoggerInto(cmd.Context(), logger))
	return nil
}

// loadCatalog loads the configured source.
func (o *options) loadCatalog(ctx context.Context) (*designspace.Catalog, error) {
	var c client.Client
	if o.cfg.Source.IsKubernetes() {
		var err error
		if c, err = o.newClient(); err != nil {
			return nil, err
		}
	}
	src, err := source.NewSource(o.cfg.Source, c)
	if err != nil {
		return nil, err
	}
	return o.loader.Load(ctx, src)
}

func (o *options) writeMetrics(output string) error {
	if output == "-" {
		return metrics.WriteText(o.out, o.gatherer)
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating metrics output: %w", err)
	}
	if err := metrics.WriteText(f, o.gatherer); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func newKubeClient() (client.Client, error) {
	restConfig, err := ctrl.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("loading Kubernetes client configuration: %w", err)
	}
	c, err := client.New(restConfig, client.Options{Scheme: scheme})
	if err != nil {
		return nil, fmt.Errorf("creating Kubernetes client: %w", err)
	}
	return c, nil
}
