package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestStorefrontMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewStorefrontMetrics(reg)

	metrics.IncCartOperation("add", false)
	metrics.IncCartOperation("add", false)
	metrics.IncCartOperation("add", true)
	metrics.IncCheckout("submitted")
	metrics.ObserveOrderTotal(3008)
	metrics.IncSessionCreated()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "storefront_cart_operations_total", map[string]string{"operation": "add", "result": "ok"}); err != nil {
		t.Fatalf("fetch cart ops: %v", err)
	} else if got != 2 {
		t.Fatalf("expected add ok=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "storefront_cart_operations_total", map[string]string{"operation": "add", "result": "rejected"}); err != nil {
		t.Fatalf("fetch rejected ops: %v", err)
	} else if got != 1 {
		t.Fatalf("expected add rejected=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "storefront_checkout_transitions_total", map[string]string{"outcome": "submitted"}); err != nil {
		t.Fatalf("fetch checkout: %v", err)
	} else if got != 1 {
		t.Fatalf("expected submitted=1, got %f", got)
	}

	mf := findMetricFamily(mfs, "storefront_order_total_minor_units")
	if mf == nil || len(mf.GetMetric()) != 1 {
		t.Fatalf("order total histogram missing")
	}
	if sum := mf.GetMetric()[0].GetHistogram().GetSampleSum(); sum != 3008 {
		t.Fatalf("expected order total sum 3008, got %f", sum)
	}

	sessions := findMetricFamily(mfs, "storefront_sessions_created_total")
	if sessions == nil || sessions.GetMetric()[0].GetCounter().GetValue() != 1 {
		t.Fatalf("expected one created session")
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var metrics *StorefrontMetrics
	metrics.IncCartOperation("add", false)
	metrics.IncCheckout("opened")
	metrics.ObserveOrderTotal(1)
	metrics.IncSessionCreated()

	unregistered := NewStorefrontMetrics(nil)
	unregistered.IncCartOperation("", true)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, pair := range pairs {
		if v, ok := want[pair.GetName()]; ok && v == pair.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
