package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.in/yaml.v3"
)

func writeScenario(t *testing.T, dir string, sc Scenario) string {
	t.Helper()
	data, err := yaml.Marshal(sc)
	require.NoError(t, err)
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRunSimulation_CompletesAMinimalScenario(t *testing.T) {
	dir := t.TempDir()

	sc := Scenario{
		ConfigFile: writeFixture(t, dir, "config.yaml", "start_time: \"0\"\nend_time: \"120\"\ntimestep_duration_seconds: 60\n"),
		BasesFile: writeFixture(t, dir, "bases.csv", "base_id,lat,lon,stall_count,station_id\n"),
		StationsFile: writeFixture(t, dir, "stations.csv", "station_id,lat,lon,stall_count,charger_id,power_kw\n"),
		VehiclesFile: writeFixture(t, dir, "vehicles.csv", "vehicle_id,lat,lon,capacity_kwh,initial_soc,home_base_id\nv1,0,0,60,1,\n"),
		RequestsFile: writeFixture(t, dir, "requests.csv", "request_id,origin_lat,origin_lon,destination_lat,destination_lon,departure_time,cancel_time,passengers,value,fleet_id\nr1,0,0,0.05,0.05,0,600,1,10,public\n"),
		FleetsFile: writeFixture(t, dir, "fleets.yaml", "public:\n vehicles:\n - v1\n"),
	}
	scenarioPath := writeScenario(t, dir, sc)

	err := runSimulation(runOptions{
		ScenarioPath: scenarioPath,
		DecisionTraceLevel: "none",
	})
	require.NoError(t, err)
}
