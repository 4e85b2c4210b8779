package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kilianp07/assetplan/core/assign"
	coremetrics "github.com/kilianp07/assetplan/core/metrics"
	"github.com/kilianp07/assetplan/core/model"
	"github.com/kilianp07/assetplan/core/planner"
	"github.com/kilianp07/assetplan/infra/logger"
	"github.com/kilianp07/assetplan/infra/metrics"
	"github.com/kilianp07/assetplan/infra/mqtt"
)

const (
	influxOrg    = "e2e_org"
	influxBucket = "e2e_bucket"
	influxToken  = "e2e-token"
)

// startInflux starts an InfluxDB 2.7 container initialised with the test
// organisation, bucket and token.
func startInflux(ctx context.Context, t *testing.T) (tc.Container, string) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "influxdb:2.7",
		ExposedPorts: []string{"8086/tcp"},
		Env: map[string]string{
			"DOCKER_INFLUXDB_INIT_MODE":        "setup",
			"DOCKER_INFLUXDB_INIT_USERNAME":    "e2e",
			"DOCKER_INFLUXDB_INIT_PASSWORD":    "e2e-password",
			"DOCKER_INFLUXDB_INIT_ORG":         influxOrg,
			"DOCKER_INFLUXDB_INIT_BUCKET":      influxBucket,
			"DOCKER_INFLUXDB_INIT_ADMIN_TOKEN": influxToken,
		},
		WaitingFor: wait.ForHTTP("/health").WithPort("8086/tcp").WithStartupTimeout(60 * time.Second),
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("unable to start influx container: %v", err)
	}
	host, _ := cont.Host(ctx)
	port, _ := cont.MappedPort(ctx, "8086")
	return cont, fmt.Sprintf("http://%s:%s", host, port.Port())
}

// startMosquitto spins up a Mosquitto broker accepting anonymous clients.
func startMosquitto(ctx context.Context, t *testing.T) (tc.Container, string) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "eclipse-mosquitto:2.0",
		ExposedPorts: []string{"1883/tcp"},
		Cmd:          []string{"mosquitto", "-c", "/mosquitto-no-auth.conf"},
		WaitingFor:   wait.ForListeningPort("1883/tcp"),
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("unable to start mosquitto: %v", err)
	}
	host, _ := cont.Host(ctx)
	port, _ := cont.MappedPort(ctx, "1883")
	return cont, fmt.Sprintf("tcp://%s:%s", host, port.Port())
}

func requireDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skipf("docker not installed: %v", err)
	}
}

func e2eFleet() model.Fleet {
	return model.Fleet{
		ELCO: []model.Machine{
			{Name: "A", Class: model.ClassELCO, SizeKW: 100, MinLoad: 0.5},
			{Name: "B", Class: model.ClassELCO, SizeKW: 150, MinLoad: 0.5},
		},
		TC: []model.Machine{{Name: "C", Class: model.ClassTC, SizeKW: 80, MinLoad: 0.3}},
	}
}

func e2eSeries() model.DemandSeries {
	start := time.Now().Add(-10 * time.Minute).Truncate(time.Minute)
	var s model.DemandSeries
	for i, kw := range []float64{120, 0, 331, 120} {
		s = append(s, model.DemandPoint{Index: i + 1, Timestamp: start.Add(time.Duration(i) * time.Minute), DemandKW: kw})
	}
	return s
}

func planWith(ctx context.Context, t *testing.T, sink coremetrics.MetricsSink) *planner.Plan {
	t.Helper()
	planners := planner.NewFactory(e2eFleet(), assign.Config{Policy: assign.PolicyMinPower}, planner.Deps{
		Sink: sink,
		Log:  logger.New("e2e"),
	})
	p, err := planners.Get("")
	require.NoError(t, err)
	plan, err := p.Plan(ctx, "e2e.csv", e2eSeries())
	require.NoError(t, err)
	return plan
}

func TestE2EInfluxSink(t *testing.T) {
	requireDocker(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cont, url := startInflux(ctx, t)
	defer cont.Terminate(ctx) //nolint:errcheck

	sink := metrics.NewInfluxSinkWithFallback(metrics.InfluxConfig{URL: url, Token: influxToken, Org: influxOrg, Bucket: influxBucket})
	defer coremetrics.Close(sink)
	_, ok := sink.(*metrics.InfluxSink)
	require.True(t, ok, "health check should pass against the container")

	planWith(ctx, t, sink)

	cli := NewInfluxClient(url, influxOrg, influxBucket, influxToken)
	defer cli.Close()
	require.Eventually(t, func() bool {
		n, err := cli.CountPoints(ctx, "asset_assignment", "demand_kw")
		return err == nil && n == 4
	}, 30*time.Second, time.Second)
	n, err := cli.CountPoints(ctx, "asset_plan", "rows")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestE2EMQTTPublisher(t *testing.T) {
	requireDocker(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cont, broker := startMosquitto(ctx, t)
	defer cont.Terminate(ctx) //nolint:errcheck

	received := make(chan []byte, 1)
	sub := paho.NewClient(paho.NewClientOptions().AddBroker(broker).SetClientID("e2e-sub"))
	tok := sub.Connect()
	require.True(t, tok.WaitTimeout(10*time.Second))
	require.NoError(t, tok.Error())
	defer sub.Disconnect(250)
	tok = sub.Subscribe(mqtt.DefaultTopic, 1, func(_ paho.Client, m paho.Message) {
		select {
		case received <- m.Payload():
		default:
		}
	})
	require.True(t, tok.WaitTimeout(10*time.Second))
	require.NoError(t, tok.Error())

	pub, err := mqtt.NewPlanPublisher(mqtt.Config{Broker: broker, ClientID: "e2e-pub", QoS: 1})
	require.NoError(t, err)
	defer pub.Close()

	plan := planWith(ctx, t, pub)

	select {
	case payload := <-received:
		var got mqtt.PlanSummary
		require.NoError(t, json.Unmarshal(payload, &got))
		assert.Equal(t, plan.ID, got.PlanID)
		assert.Equal(t, 4, got.Rows)
		assert.Equal(t, 1, got.Unassigned)
	case <-time.After(30 * time.Second):
		t.Fatal("no plan summary received")
	}
}
