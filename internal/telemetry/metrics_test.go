package telemetry

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Registration is checked through Describe() because Gather() omits *Vec series
// that have never been observed.
func TestMetrics_AllRegistered(t *testing.T) {
	cases := []struct {
		name string
		c    prometheus.Collector
	}{
		{"http_requests_total", HTTPRequestsTotal},
		{"http_request_duration_seconds", HTTPRequestDuration},
		{"organizations_mutations_total", OrganizationMutationsTotal},
		{"users_mutations_total", UserMutationsTotal},
		{"db_open_connections", DBOpenConnections},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ch := make(chan *prometheus.Desc, 10)
			tc.c.Describe(ch)
			close(ch)
			for desc := range ch {
				if strings.Contains(desc.String(), `"`+tc.name+`"`) {
					return
				}
			}
			t.Errorf("metric %q: Describe() returned no descriptor with this fqName", tc.name)
		})
	}
}

func TestMetrics_HTTPRequestsTotal_CanBeIncremented(t *testing.T) {
	labels := prometheus.Labels{"method": "GET", "path": "/test", "status": "200"}
	before := counterValue(t, HTTPRequestsTotal, labels)
	HTTPRequestsTotal.WithLabelValues("GET", "/test", "200").Inc()
	if after := counterValue(t, HTTPRequestsTotal, labels); after-before < 1 {
		t.Errorf("counter did not increase (before=%.0f after=%.0f)", before, after)
	}
}

func TestMetrics_MutationCounters(t *testing.T) {
	for _, cv := range []*prometheus.CounterVec{OrganizationMutationsTotal, UserMutationsTotal} {
		labels := prometheus.Labels{"op": "create"}
		before := counterValue(t, cv, labels)
		cv.WithLabelValues("create").Inc()
		if after := counterValue(t, cv, labels); after-before < 1 {
			t.Errorf("mutation counter did not increase (before=%.0f after=%.0f)", before, after)
		}
	}
}

func TestStartDBStatsCollector_SetsGauge(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	mock.ExpectPing()

	DBOpenConnections.Set(-1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartDBStatsCollector(ctx, sqlx.NewDb(db, "sqlmock"), 10*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if gaugeValue(t, DBOpenConnections) >= 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("collector never updated db_open_connections")
}

func TestStartDBStatsCollector_SurvivesFailedPing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	mock.ExpectPing().WillReturnError(errors.New("connection reset"))
	mock.ExpectPing()

	DBOpenConnections.Set(-1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartDBStatsCollector(ctx, sqlx.NewDb(db, "sqlmock"), 10*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if gaugeValue(t, DBOpenConnections) >= 0 {
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("collector stopped sampling after a failed ping")
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// counterValue reads the current value of a CounterVec for the given label set.
func counterValue(t *testing.T, cv *prometheus.CounterVec, labels prometheus.Labels) float64 {
	t.Helper()
	ch := make(chan prometheus.Metric, 20)
	cv.Collect(ch)
	close(ch)
	for m := range ch {
		var dm dto.Metric
		if err := m.Write(&dm); err != nil {
			continue
		}
		if labelsMatch(dm.GetLabel(), labels) {
			return dm.GetCounter().GetValue()
		}
	}
	return 0
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var dm dto.Metric
	if err := g.Write(&dm); err != nil {
		t.Fatalf("gauge write: %v", err)
	}
	return dm.GetGauge().GetValue()
}

// labelsMatch returns true when all entries in want appear in got.
func labelsMatch(got []*dto.LabelPair, want prometheus.Labels) bool {
	for k, v := range want {
		found := false
		for _, lp := range got {
			if lp.GetName() == k && lp.GetValue() == v {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
