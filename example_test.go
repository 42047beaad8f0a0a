package instruments_test

import (
	"fmt"
	"strings"

	"github.com/ygrebnov/instruments"
)

func ExampleRegistry_Snapshot() {
	r, _ := instruments.New()

	requests, _ := r.Counter("requests", "Requests served", "status")
	requests.MustLabels("200").Inc()
	_ = requests.MustLabels("500").Add(2)

	latency, _ := r.Histogram("latency_seconds", "Request latency", nil, 0.1, 1)
	latency.MustLabels().Observe(0.3)

	for _, s := range r.Snapshot() {
		fmt.Println(s.Name, s.LabelNames, s.LabelValues, s.Value)
	}

	// Output:
	// requests [status] [200] 1
	// requests_total [status] [200] 1
	// requests [status] [500] 2
	// requests_total [status] [500] 2
	// latency_seconds_bucket [le] [0.1] 0
	// latency_seconds_bucket [le] [1.0] 1
	// latency_seconds_bucket [le] [+Inf] 1
	// latency_seconds_count [] [] 1
	// latency_seconds_sum [] [] 0.3
}

func ExamplePeakGauge() {
	r, _ := instruments.New()

	depth, _ := r.PeakGauge("queue_depth_peak", "Deepest queue since last scrape", "queue")
	q := depth.MustLabels("jobs")
	q.Record(3)
	q.Record(11)
	q.Record(7)

	v, _ := r.Get("queue_depth_peak", instruments.L("queue", "jobs"))
	fmt.Println(v)
	v, _ = r.Get("queue_depth_peak", instruments.L("queue", "jobs"))
	fmt.Println(v)

	// Output:
	// 11
	// 0
}

func ExampleRegistry_SummaryP50() {
	r, _ := instruments.New()

	calls, _ := r.Summary("call_times", "Call durations", []string{"status"})
	for _, v := range []float64{400, 450, 500, 550, 600} {
		calls.MustLabels("200").Observe(v)
	}

	p50, _ := r.SummaryP50("call_times", instruments.L("status", "200"))
	p99, _ := r.SummaryP99("call_times", instruments.L("status", "200"))
	mean, _ := r.SummaryMean("call_times", instruments.L("status", "200"))
	fmt.Println(p50, p99, mean)

	_, ok := r.SummaryP50("call_times", instruments.L("status", "503"))
	fmt.Println(ok)

	// Output:
	// 500 600 500
	// false
}

func ExampleRegistry_RegisterDefinitions() {
	r, _ := instruments.New()

	err := r.RegisterDefinitions(strings.NewReader(`
families:
  - name: jobs
    help: Jobs processed
    kind: counter
    labels: [result]
`))
	fmt.Println(err)

	jobs, _ := r.Counter("jobs", "Jobs processed", "result")
	jobs.MustLabels("ok").Inc()
	v, _ := r.Get("jobs_total", instruments.L("result", "ok"))
	fmt.Println(v)

	// Output:
	// <nil>
	// 1
}
