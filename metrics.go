package replicator

import (
	"fmt"
	"strings"

	"github.com/rcrowley/go-metrics"
)

func getOrRegisterHistogram(name string, r metrics.Registry) metrics.Histogram {
	return r.GetOrRegister(name, func() metrics.Histogram {
		return metrics.NewHistogram(metrics.NewExpDecaySample(1028, 0.015))
	}).(metrics.Histogram)
}

func getMetricNameForCommand(name string, command string) string {
	// Remove dots and spaces from the command name, the way metric reporters expect
	command = strings.NewReplacer(".", "_", " ", "_").Replace(strings.ToLower(command))
	return fmt.Sprintf(name+"-for-%s", command)
}

func getOrRegisterCommandCounter(name string, command string, r metrics.Registry) metrics.Counter {
	return metrics.GetOrRegisterCounter(getMetricNameForCommand(name, command), r)
}

func updateStreamMetrics(r metrics.Registry, size int, s *Stream) {
	getOrRegisterHistogram("snapshot-size", r).Update(int64(size))
	getOrRegisterHistogram("stream-entries", r).Update(int64(s.Entries.Len()))
	getOrRegisterHistogram("stream-groups", r).Update(int64(len(s.Groups)))
	pending := getOrRegisterHistogram("stream-pending-entries", r)
	for _, g := range s.Groups {
		pending.Update(int64(g.PendingEntries.Len()))
	}
}
