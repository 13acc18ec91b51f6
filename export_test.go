package orbsim

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestExportTrajectory(t *testing.T) {
	dir := t.TempDir()
	conf := ExportConfig{Filename: "sat", OutputDir: dir}
	traj := Trajectory{Body: 1, Points: []Vec3{{7000, 0, 0}, {6999, 120, 0}, {6996, 240, 0}}}
	if err := ExportTrajectory(conf, traj, time.Date(2016, 3, 24, 20, 41, 48, 0, time.UTC), 10); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(dir + "/forecast-sat.xyz")
	if err != nil {
		t.Fatal(err)
	}
	var records []string
	for _, line := range strings.Split(string(raw), "\n") {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		records = append(records, line)
	}
	if len(records) != len(traj.Points) {
		t.Fatalf("got %d records, expected %d", len(records), len(traj.Points))
	}
	if !strings.Contains(records[0], "7000.000000") {
		t.Fatalf("first record %q misses the first position", records[0])
	}
}

func TestExportTrajectoryUseless(t *testing.T) {
	if err := ExportTrajectory(ExportConfig{}, Trajectory{}, time.Now(), 10); err != nil {
		t.Fatal(err)
	}
}
