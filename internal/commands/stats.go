package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/pflag"

	"taskmgr/internal/config"
	"taskmgr/internal/exitcode"
	"taskmgr/internal/service"
)

func init() {
	Register(&StatsCmd{})
}

// StatsCmd implements the stats command. It reloads both collections and
// prints the resulting metrics, including any storage errors met while
// reading.
type StatsCmd struct{}

func (c *StatsCmd) Name() string      { return "stats" }
func (c *StatsCmd) Aliases() []string { return nil }
func (c *StatsCmd) Synopsis() string  { return "Print task and storage metrics" }
func (c *StatsCmd) Usage() string     { return "taskmgr stats" }
func (c *StatsCmd) NeedsStore() bool  { return true }

func (c *StatsCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *StatsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	for _, coll := range service.Collections {
		svc.Reload(ctx, coll)
	}

	families, err := svc.Metrics().Gather()
	if err != nil {
		fmt.Fprintf(errOut, "error: gather metrics: %v\n", err)
		return exitcode.StorageError
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fmt.Fprintf(out, "%s%s %g\n", mf.GetName(), formatLabels(m.GetLabel()), metricValue(mf.GetType(), m))
		}
	}
	return exitcode.Success
}

func formatLabels(labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return ""
	}
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = fmt.Sprintf("%s=%q", l.GetName(), l.GetValue())
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func metricValue(t dto.MetricType, m *dto.Metric) float64 {
	switch t {
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue()
	default:
		return m.GetUntyped().GetValue()
	}
}
