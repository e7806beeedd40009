// Package metrics implements pushing prometheus metrics to a push gateway.
package metrics

import (
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/nupic-community/seedrand/common/logging"
	"github.com/nupic-community/seedrand/common/metrics/config"
	"github.com/nupic-community/seedrand/common/version"
)

const (
	MetricsLabelGitBranch       = "git_branch"
	MetricsLabelSoftwareVersion = "software_version"

	MetricsModeNone = "none"
	MetricsModePush = "push"

	// DefaultPushTimeout bounds a single push to the gateway.
	DefaultPushTimeout = 5 * time.Second
)

var invalidLabelCharactersRegexp = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// Pusher pushes the gathered metrics to a prometheus push gateway.
type Pusher struct {
	logger *logging.Logger

	cfg      config.Config
	gatherer prometheus.Gatherer
	timeout  time.Duration
}

// New constructs a new metrics pusher. A nil gatherer selects the default
// prometheus gatherer.
func New(cfg config.Config, gatherer prometheus.Gatherer) (*Pusher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	return &Pusher{
		logger:   logging.GetLogger("common/metrics"),
		cfg:      cfg,
		gatherer: gatherer,
		timeout:  DefaultPushTimeout,
	}, nil
}

// Enabled returns if metrics are enabled.
func (p *Pusher) Enabled() bool {
	return p.cfg.Mode != MetricsModeNone
}

// SetTimeout sets the timeout of a single push.
func (p *Pusher) SetTimeout(timeout time.Duration) {
	p.timeout = timeout
}

// Push pushes the current metrics, replacing any metrics previously pushed
// under the same job and grouping labels. It is a no-op when metrics are
// disabled.
func (p *Pusher) Push() error {
	if !p.Enabled() {
		return nil
	}

	labels := DefaultLabels(p.cfg.Labels)
	p.logger.Debug("pushing metrics",
		"addr", p.cfg.Address,
		"job_name", p.cfg.JobName,
		"labels", fmt.Sprintf("%v", labels),
	)

	pusher := push.New(p.cfg.Address, p.cfg.JobName).
		Gatherer(p.gatherer).
		Client(&http.Client{Timeout: p.timeout})
	for k, v := range labels {
		pusher = pusher.Grouping(k, v)
	}
	if err := pusher.Push(); err != nil {
		p.logger.Warn("Push: failed",
			"err", err,
		)
		return fmt.Errorf("metrics: push failed: %w", err)
	}
	return nil
}

// EscapeLabelCharacters replaces invalid prometheus label name characters with "_".
func EscapeLabelCharacters(l string) string {
	return invalidLabelCharactersRegexp.ReplaceAllString(l, "_")
}

// DefaultLabels generates the standard push grouping labels, overridden by
// the provided ones. Empty label values are dropped.
func DefaultLabels(extra map[string]string) map[string]string {
	labels := map[string]string{
		MetricsLabelSoftwareVersion: version.SoftwareVersion,
	}
	if version.GitBranch != "" {
		labels[MetricsLabelGitBranch] = version.GitBranch
	}
	for k, v := range extra {
		labels[EscapeLabelCharacters(k)] = v
	}

	// Remove empty label values - workaround for
	// https://github.com/prometheus/pushgateway/issues/344
	for k, v := range labels {
		if v == "" {
			delete(labels, k)
		}
	}
	return labels
}
